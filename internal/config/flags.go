package config

import (
	"github.com/spf13/pflag"
)

// BindFlags registers the configuration flags on fs and returns the config
// they populate. The returned value is only meaningful after fs is parsed.
//
// Flags:
//
//	--driver storage driver (memory|file|sqlite|postgres)
//	-d/--dsn database DSN
//	-f/--file file storage path
//	--key-strategy key strategy (generated|derived)
//	--kdf key derivation function (pbkdf2|argon2id)
//	--kdf-iterations PBKDF2 iteration count
//	--artifact-prefix key artifact prefix
//	--migration-interval migration job interval (e.g., "30s", "5m")
//	--migrate key to migrate eagerly, repeatable
//	--http-address listen address of the serve command
//	--remote address of a running serve command to use instead of local storage
//	--remote-timeout request timeout for --remote
//	--log-file log file path
//	-c/--config json file path with configs
func BindFlags(fs *pflag.FlagSet) *StructuredConfig {
	cfg := &StructuredConfig{}

	fs.StringVar(&cfg.Storage.Driver, "driver", "", "Storage driver (memory|file|sqlite|postgres)")
	fs.StringVarP(&cfg.Storage.DSN, "dsn", "d", "", "Database DSN")
	fs.StringVarP(&cfg.Storage.FilePath, "file", "f", "", "File storage path")
	fs.StringVar(&cfg.Vault.KeyStrategy, "key-strategy", "", "Key strategy (generated|derived)")
	fs.StringVar(&cfg.Vault.KDF, "kdf", "", "Key derivation function (pbkdf2|argon2id)")
	fs.IntVar(&cfg.Vault.KDFIterations, "kdf-iterations", 0, "PBKDF2 iteration count")
	fs.StringVar(&cfg.Vault.ArtifactPrefix, "artifact-prefix", "", "Key artifact prefix")
	fs.DurationVar(&cfg.Workers.MigrationInterval, "migration-interval", 0, "Migration job interval (e.g., 30s, 5m)")
	fs.StringSliceVar(&cfg.Workers.MigrationKeys, "migrate", nil, "Logical key to migrate eagerly (repeatable)")
	fs.StringVar(&cfg.Server.HTTPAddress, "http-address", "", "Listen address of the serve command")
	fs.StringVar(&cfg.Remote.Address, "remote", "", "Address of a running serve command to use instead of local storage")
	fs.DurationVar(&cfg.Remote.RequestTimeout, "remote-timeout", 0, "Request timeout for --remote")
	fs.StringVar(&cfg.LogFile, "log-file", "", "Log file path")
	fs.StringVarP(&cfg.JSONFilePath, "config", "c", "", "JSON config file path")

	return cfg
}
