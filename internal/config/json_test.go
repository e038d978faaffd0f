package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_Success(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "config.json")

	jsonBody := `{
		"storage": {
			"driver": "file",
			"file_path": "/var/data/vault.json"
		},
		"vault": {
			"key_strategy": "generated",
			"kdf": "pbkdf2",
			"kdf_iterations": 150000,
			"artifact_prefix": "nv"
		},
		"workers": {
			"migration_interval": "5m",
			"migration_keys": ["lists"]
		},
		"server": {
			"http_address": "127.0.0.1:9090",
			"shutdown_timeout": "1s"
		},
		"remote": {
			"address": "localhost:9090",
			"request_timeout": "10s"
		},
		"log_file": "/tmp/nv.log"
	}`

	require.NoError(t, os.WriteFile(p, []byte(jsonBody), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, "/var/data/vault.json", cfg.Storage.FilePath)
	assert.Equal(t, "generated", cfg.Vault.KeyStrategy)
	assert.Equal(t, "pbkdf2", cfg.Vault.KDF)
	assert.Equal(t, 150000, cfg.Vault.KDFIterations)
	assert.Equal(t, "nv", cfg.Vault.ArtifactPrefix)
	assert.Equal(t, 5*time.Minute, cfg.Workers.MigrationInterval)
	assert.Equal(t, []string{"lists"}, cfg.Workers.MigrationKeys)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.HTTPAddress)
	assert.Equal(t, time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "localhost:9090", cfg.Remote.Address)
	assert.Equal(t, 10*time.Second, cfg.Remote.RequestTimeout)
	assert.Equal(t, "/tmp/nv.log", cfg.LogFile)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseJSON_FileNotFound(t *testing.T) {
	// Act
	cfg, err := parseJSON("definitely-does-not-exist.json")

	// Assert
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "error reading a json file")
}

func TestParseJSON_InvalidJSON(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(p, []byte(`{ this is not json }`), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "error decoding json configs")
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "string", input: `"90s"`, want: 90 * time.Second},
		{name: "number of nanoseconds", input: `1000000000`, want: time.Second},
		{name: "bad string", input: `"later"`, wantErr: true},
		{name: "bad json", input: `{`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalJSON([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, time.Duration(d))
		})
	}
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := Duration(2 * time.Minute).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"2m0s"`, string(b))
}
