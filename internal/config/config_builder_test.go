package config

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "config-*.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

// ── newConfigBuilder ──────────────────────────────────────────────────────────

// TestNewConfigBuilder_InitialState verifies that a freshly created builder
// has no error and an empty configs slice.
func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

// ── build ─────────────────────────────────────────────────────────────────────

// TestBuild_DefaultsOnly verifies that defaults alone form a valid config.
func TestBuild_DefaultsOnly(t *testing.T) {
	cfg, err := newConfigBuilder().withDefaults().build()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

// TestBuild_EmptyBuilderFailsValidation verifies that a zero config is
// rejected because no driver is set.
func TestBuild_EmptyBuilderFailsValidation(t *testing.T) {
	cfg, err := newConfigBuilder().build()
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrInvalidStorageConfigs)
}

// TestBuild_PropagatesBuilderError verifies that a pre-set b.err is wrapped
// and returned, with nil config.
func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestBuild_EarlierSourceWins verifies that the first non-zero value is kept
// and later sources only fill gaps.
func TestBuild_EarlierSourceWins(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{Storage: Storage{Driver: DriverMemory}},
		&StructuredConfig{Storage: Storage{Driver: DriverFile}, Vault: Vault{KeyStrategy: "generated"}},
	)
	b.withDefaults()

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "generated", cfg.Vault.KeyStrategy)
	assert.Equal(t, 100_000, cfg.Vault.KDFIterations)
}

// ── withEnv ───────────────────────────────────────────────────────────────────

// TestWithEnv_ReturnsBuilder verifies the fluent interface.
func TestWithEnv_ReturnsBuilder(t *testing.T) {
	b := newConfigBuilder()
	assert.Same(t, b, b.withEnv())
}

// TestWithEnv_ReadsEnvVars verifies that environment variables are picked up.
func TestWithEnv_ReadsEnvVars(t *testing.T) {
	setEnvVars(t, map[string]string{
		"STORAGE_DRIVER":     "file",
		"STORAGE_FILE_PATH":  "/tmp/v.json",
		"VAULT_KEY_STRATEGY": "generated",
	})

	b := newConfigBuilder()
	b.withEnv()

	require.Len(t, b.configs, 1)
	assert.Equal(t, "file", b.configs[0].Storage.Driver)
	assert.Equal(t, "/tmp/v.json", b.configs[0].Storage.FilePath)
	assert.Equal(t, "generated", b.configs[0].Vault.KeyStrategy)
}

// TestWithEnv_SetsErrorOnBadValue verifies that a conversion failure is
// recorded on the builder.
func TestWithEnv_SetsErrorOnBadValue(t *testing.T) {
	setEnvVars(t, map[string]string{"WORKERS_MIGRATION_INTERVAL": "never"})

	b := newConfigBuilder()
	b.withEnv()

	assert.Error(t, b.err)
	assert.Empty(t, b.configs)
}

// ── withFlags ─────────────────────────────────────────────────────────────────

// TestWithFlags_NilIsNoOp verifies that a nil flag config is skipped.
func TestWithFlags_NilIsNoOp(t *testing.T) {
	b := newConfigBuilder()
	assert.Same(t, b, b.withFlags(nil))
	assert.Empty(t, b.configs)
}

// TestWithFlags_Appends verifies that a flag config is appended as is.
func TestWithFlags_Appends(t *testing.T) {
	flagCfg := &StructuredConfig{LogFile: "x.log"}
	b := newConfigBuilder().withFlags(flagCfg)
	require.Len(t, b.configs, 1)
	assert.Same(t, flagCfg, b.configs[0])
}

// ── withJSON ──────────────────────────────────────────────────────────────────

// TestWithJSON_NoOp_WhenNoPathSet verifies that withJSON does nothing when
// no config has a JSONFilePath.
func TestWithJSON_NoOp_WhenNoPathSet(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{})
	b.withJSON()

	assert.Len(t, b.configs, 1)
	assert.NoError(t, b.err)
}

// TestWithJSON_AppendsConfig_WhenValidFile verifies that a valid JSON file is
// parsed and appended.
func TestWithJSON_AppendsConfig_WhenValidFile(t *testing.T) {
	payload := StructuredJSONConfig{}
	payload.Storage.Driver = "memory"
	payload.Workers.MigrationInterval = Duration(time.Minute)
	path := writeTempJSONConfig(t, payload)

	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: path})
	b.withJSON()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 2)
	assert.Equal(t, "memory", b.configs[1].Storage.Driver)
	assert.Equal(t, time.Minute, b.configs[1].Workers.MigrationInterval)
}

// TestWithJSON_SetsError_WhenFileNotFound verifies that a missing file path
// sets b.err.
func TestWithJSON_SetsError_WhenFileNotFound(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{
		JSONFilePath: "/nonexistent/config.json",
	})
	b.withJSON()

	assert.Error(t, b.err)
}

// TestWithJSON_UsesFirstPath verifies that the highest priority source
// naming a JSON file wins.
func TestWithJSON_UsesFirstPath(t *testing.T) {
	first := StructuredJSONConfig{}
	first.Vault.ArtifactPrefix = "first"
	second := StructuredJSONConfig{}
	second.Vault.ArtifactPrefix = "second"

	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{JSONFilePath: ""},
		&StructuredConfig{JSONFilePath: writeTempJSONConfig(t, first)},
		&StructuredConfig{JSONFilePath: writeTempJSONConfig(t, second)},
	)
	b.withJSON()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 4)
	assert.Equal(t, "first", b.configs[3].Vault.ArtifactPrefix)
}

// ── GetStructuredConfig ───────────────────────────────────────────────────────

// TestGetStructuredConfig_FlagsOverDefaults verifies the full chain.
func TestGetStructuredConfig_FlagsOverDefaults(t *testing.T) {
	clearEnvVars(t)

	cfg, err := GetStructuredConfig(&StructuredConfig{
		Storage: Storage{Driver: DriverMemory},
		Vault:   Vault{KeyStrategy: "generated"},
	})
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "generated", cfg.Vault.KeyStrategy)
	assert.Equal(t, "pbkdf2", cfg.Vault.KDF)
	assert.Equal(t, "notevault", cfg.Vault.ArtifactPrefix)
}

// TestGetStructuredConfig_EnvOverFlags verifies env has the highest priority.
func TestGetStructuredConfig_EnvOverFlags(t *testing.T) {
	setEnvVars(t, map[string]string{"STORAGE_DRIVER": "memory"})

	cfg, err := GetStructuredConfig(&StructuredConfig{Storage: Storage{Driver: DriverPostgres}})
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
}
