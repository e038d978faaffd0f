package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	Storage struct {
		Driver   string `json:"driver"`
		DSN      string `json:"dsn"`
		FilePath string `json:"file_path"`
	} `json:"storage,omitempty"`

	Vault struct {
		KeyStrategy    string `json:"key_strategy"`
		KDF            string `json:"kdf"`
		KDFIterations  int    `json:"kdf_iterations"`
		ArtifactPrefix string `json:"artifact_prefix"`
	} `json:"vault,omitempty"`

	Workers struct {
		MigrationInterval Duration `json:"migration_interval"`
		MigrationKeys     []string `json:"migration_keys"`
	} `json:"workers,omitempty"`

	Server struct {
		HTTPAddress     string   `json:"http_address"`
		ShutdownTimeout Duration `json:"shutdown_timeout"`
	} `json:"server,omitempty"`

	Remote struct {
		Address        string   `json:"address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"remote,omitempty"`

	LogFile string `json:"log_file"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Storage: Storage{
			Driver:   jsonCfg.Storage.Driver,
			DSN:      jsonCfg.Storage.DSN,
			FilePath: jsonCfg.Storage.FilePath,
		},
		Vault: Vault{
			KeyStrategy:    jsonCfg.Vault.KeyStrategy,
			KDF:            jsonCfg.Vault.KDF,
			KDFIterations:  jsonCfg.Vault.KDFIterations,
			ArtifactPrefix: jsonCfg.Vault.ArtifactPrefix,
		},
		Workers: Workers{
			MigrationInterval: time.Duration(jsonCfg.Workers.MigrationInterval),
			MigrationKeys:     jsonCfg.Workers.MigrationKeys,
		},
		Server: Server{
			HTTPAddress:     jsonCfg.Server.HTTPAddress,
			ShutdownTimeout: time.Duration(jsonCfg.Server.ShutdownTimeout),
		},
		Remote: Remote{
			Address:        jsonCfg.Remote.Address,
			RequestTimeout: time.Duration(jsonCfg.Remote.RequestTimeout),
		},
		LogFile:      jsonCfg.LogFile,
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
