package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFlagSet() *pflag.FlagSet {
	return pflag.NewFlagSet("notevault-test", pflag.ContinueOnError)
}

func TestBindFlags_AllFlags(t *testing.T) {
	fs := newTestFlagSet()
	cfg := BindFlags(fs)

	err := fs.Parse([]string{
		"--driver", "sqlite",
		"-d", "vault.db",
		"-f", "/tmp/vault.json",
		"--key-strategy", "generated",
		"--kdf", "argon2id",
		"--kdf-iterations", "1000",
		"--artifact-prefix", "nv",
		"--migration-interval", "1m",
		"--migrate", "lists",
		"--migrate", "questions",
		"--http-address", "127.0.0.1:9000",
		"--remote", "127.0.0.1:9001",
		"--remote-timeout", "2s",
		"--log-file", "/tmp/nv.log",
		"-c", "/etc/notevault.json",
	})
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "vault.db", cfg.Storage.DSN)
	assert.Equal(t, "/tmp/vault.json", cfg.Storage.FilePath)
	assert.Equal(t, "generated", cfg.Vault.KeyStrategy)
	assert.Equal(t, "argon2id", cfg.Vault.KDF)
	assert.Equal(t, 1000, cfg.Vault.KDFIterations)
	assert.Equal(t, "nv", cfg.Vault.ArtifactPrefix)
	assert.Equal(t, time.Minute, cfg.Workers.MigrationInterval)
	assert.Equal(t, []string{"lists", "questions"}, cfg.Workers.MigrationKeys)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.HTTPAddress)
	assert.Equal(t, "127.0.0.1:9001", cfg.Remote.Address)
	assert.Equal(t, 2*time.Second, cfg.Remote.RequestTimeout)
	assert.Equal(t, "/tmp/nv.log", cfg.LogFile)
	assert.Equal(t, "/etc/notevault.json", cfg.JSONFilePath)
}

func TestBindFlags_NoFlags(t *testing.T) {
	fs := newTestFlagSet()
	cfg := BindFlags(fs)

	require.NoError(t, fs.Parse(nil))
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestBindFlags_InvalidValue(t *testing.T) {
	fs := newTestFlagSet()
	_ = BindFlags(fs)

	err := fs.Parse([]string{"--kdf-iterations", "many"})
	assert.Error(t, err)
}
