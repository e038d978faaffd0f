package crypto_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/MKhiriev/go-note-vault/internal/crypto"
	"github.com/MKhiriev/go-note-vault/internal/logger"
	"github.com/MKhiriev/go-note-vault/internal/mock"
	"github.com/MKhiriev/go-note-vault/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func fastKDF(t *testing.T) crypto.KDF {
	t.Helper()
	kdf, err := crypto.NewKDF(crypto.KDFPBKDF2, 1000)
	require.NoError(t, err)
	return kdf
}

func newManager(t *testing.T, strategy crypto.KeyStrategy, artifacts crypto.ArtifactStore) crypto.KeyManager {
	t.Helper()
	km, err := crypto.NewKeyManager(strategy, artifacts, crypto.KeyOptions{
		ArtifactPrefix: "test",
		KDF:            fastKDF(t),
	}, logger.Nop())
	require.NoError(t, err)
	return km
}

// interchangeable reports whether a record sealed under a opens under b.
func interchangeable(t *testing.T, a, b *crypto.SymmetricKey) bool {
	t.Helper()
	svc := crypto.NewCipherService()
	rec, err := svc.Encrypt("probe", a)
	require.NoError(t, err)
	out, err := svc.Decrypt(rec, b)
	return err == nil && out == "probe"
}

var strategies = []crypto.KeyStrategy{crypto.StrategyGenerated, crypto.StrategyDerived}

func TestNewKeyManager(t *testing.T) {
	adapter := store.NewAdapter(store.NewMemoryStorage(), nil)

	_, err := crypto.NewKeyManager(crypto.StrategyDerived, nil, crypto.KeyOptions{}, nil)
	assert.Error(t, err)

	_, err = crypto.NewKeyManager("hardware", adapter, crypto.KeyOptions{}, nil)
	assert.Error(t, err)

	km, err := crypto.NewKeyManager("", adapter, crypto.KeyOptions{}, nil)
	require.NoError(t, err)
	assert.Equal(t, crypto.StrategyDerived, km.Strategy())
	assert.Equal(t, []string{"notevault:salt", "notevault:material", "notevault:kdf"}, km.Artifacts())

	km, err = crypto.NewKeyManager(crypto.StrategyGenerated, adapter, crypto.KeyOptions{ArtifactPrefix: "x"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"x:key"}, km.Artifacts())
}

func TestKeyManager_GetOrCreateKey_Idempotent(t *testing.T) {
	for _, strategy := range strategies {
		t.Run(string(strategy), func(t *testing.T) {
			ctx := context.Background()
			adapter := store.NewAdapter(store.NewMemoryStorage(), nil)

			k1, err := newManager(t, strategy, adapter).GetOrCreateKey(ctx)
			require.NoError(t, err)

			// A second manager over the same substrate rebuilds the key from
			// the persisted artifacts.
			k2, err := newManager(t, strategy, adapter).GetOrCreateKey(ctx)
			require.NoError(t, err)

			assert.True(t, interchangeable(t, k1, k2))
			assert.True(t, interchangeable(t, k2, k1))

			for _, name := range newManager(t, strategy, adapter).Artifacts() {
				_, ok, err := adapter.GetItem(ctx, name)
				require.NoError(t, err)
				assert.True(t, ok, "artifact %s missing", name)
			}
		})
	}
}

func TestKeyManager_DerivedKeyIsNotExtractable(t *testing.T) {
	adapter := store.NewAdapter(store.NewMemoryStorage(), nil)

	key, err := newManager(t, crypto.StrategyDerived, adapter).GetOrCreateKey(context.Background())
	require.NoError(t, err)
	assert.False(t, key.Extractable())

	_, err = crypto.ExportJWK(key)
	assert.ErrorIs(t, err, crypto.ErrKeyExportFailed)
}

func TestKeyManager_GeneratedKeyIsStoredAsJWK(t *testing.T) {
	ctx := context.Background()
	adapter := store.NewAdapter(store.NewMemoryStorage(), nil)

	key, err := newManager(t, crypto.StrategyGenerated, adapter).GetOrCreateKey(ctx)
	require.NoError(t, err)

	raw, ok, err := adapter.GetItem(ctx, "test:key")
	require.NoError(t, err)
	require.True(t, ok)

	imported, err := crypto.ImportJWK([]byte(raw))
	require.NoError(t, err)
	assert.True(t, interchangeable(t, key, imported))
}

func TestKeyManager_CorruptArtifactsAreReplaced(t *testing.T) {
	tests := []struct {
		name      string
		strategy  crypto.KeyStrategy
		artifacts map[string]string
	}{
		{
			name:      "generated: garbage jwk",
			strategy:  crypto.StrategyGenerated,
			artifacts: map[string]string{"test:key": "{not a jwk"},
		},
		{
			name:      "derived: salt not base64",
			strategy:  crypto.StrategyDerived,
			artifacts: map[string]string{"test:salt": "%%%", "test:material": "abc"},
		},
		{
			name:      "derived: salt wrong length",
			strategy:  crypto.StrategyDerived,
			artifacts: map[string]string{"test:salt": "AAAA", "test:material": "abc"},
		},
		{
			name:     "derived: kdf not json",
			strategy: crypto.StrategyDerived,
			artifacts: map[string]string{
				"test:salt": "AAAAAAAAAAAAAAAAAAAAAA==", "test:material": "abc", "test:kdf": "{",
			},
		},
		{
			name:     "derived: kdf unknown",
			strategy: crypto.StrategyDerived,
			artifacts: map[string]string{
				"test:salt": "AAAAAAAAAAAAAAAAAAAAAA==", "test:material": "abc", "test:kdf": `{"name":"scrypt"}`,
			},
		},
		{
			name:      "derived: material missing",
			strategy:  crypto.StrategyDerived,
			artifacts: map[string]string{"test:salt": "AAAAAAAAAAAAAAAAAAAAAA=="},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			adapter := store.NewAdapter(store.NewMemoryStorage(), nil)
			require.NoError(t, adapter.SetItems(ctx, tt.artifacts))

			km := newManager(t, tt.strategy, adapter)
			key, err := km.GetOrCreateKey(ctx)
			require.NoError(t, err)
			require.NotNil(t, key)

			// The replacement was persisted and is reused by a fresh manager.
			again, err := newManager(t, tt.strategy, adapter).GetOrCreateKey(ctx)
			require.NoError(t, err)
			assert.True(t, interchangeable(t, key, again))
		})
	}
}

func TestKeyManager_ReadErrorIsSurfaced(t *testing.T) {
	for _, strategy := range strategies {
		t.Run(string(strategy), func(t *testing.T) {
			ctrl := gomock.NewController(t)
			artifacts := mock.NewMockArtifactStore(ctrl)

			readErr := errors.Join(store.ErrStorageReadFailed, errors.New("disk on fire"))
			artifacts.EXPECT().GetItem(gomock.Any(), gomock.Any()).Return("", false, readErr)
			// No replacement may be written over artifacts that could not be read.
			artifacts.EXPECT().SetItems(gomock.Any(), gomock.Any()).Times(0)

			_, err := newManager(t, strategy, artifacts).GetOrCreateKey(context.Background())
			assert.ErrorIs(t, err, store.ErrStorageReadFailed)
		})
	}
}

func TestKeyManager_WriteErrorIsSurfaced(t *testing.T) {
	for _, strategy := range strategies {
		t.Run(string(strategy), func(t *testing.T) {
			ctrl := gomock.NewController(t)
			artifacts := mock.NewMockArtifactStore(ctrl)

			artifacts.EXPECT().GetItem(gomock.Any(), gomock.Any()).Return("", false, nil).AnyTimes()
			artifacts.EXPECT().SetItems(gomock.Any(), gomock.Any()).Return(store.ErrStorageWriteFailed)

			km := newManager(t, strategy, artifacts)
			_, err := km.GetOrCreateKey(context.Background())
			assert.ErrorIs(t, err, store.ErrStorageWriteFailed)
		})
	}
}

func TestKeyManager_DerivedArtifactsWrittenTogether(t *testing.T) {
	ctrl := gomock.NewController(t)
	artifacts := mock.NewMockArtifactStore(ctrl)

	artifacts.EXPECT().GetItem(gomock.Any(), gomock.Any()).Return("", false, nil).Times(3)
	artifacts.EXPECT().SetItems(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, items map[string]string) error {
			assert.Len(t, items, 3)
			assert.Contains(t, items, "test:salt")
			assert.Contains(t, items, "test:material")
			assert.NotEmpty(t, items["test:material"])
			assert.JSONEq(t, `{"name":"pbkdf2","iterations":1000}`, items["test:kdf"])
			return nil
		})

	_, err := newManager(t, crypto.StrategyDerived, artifacts).GetOrCreateKey(context.Background())
	require.NoError(t, err)
}

func TestKeyManager_DerivedKeyUsesPersistedKDF(t *testing.T) {
	ctx := context.Background()
	adapter := store.NewAdapter(store.NewMemoryStorage(), nil)

	withKDF := func(name string, iterations int) crypto.KeyManager {
		kdf, err := crypto.NewKDF(name, iterations)
		require.NoError(t, err)
		km, err := crypto.NewKeyManager(crypto.StrategyDerived, adapter, crypto.KeyOptions{KDF: kdf}, logger.Nop())
		require.NoError(t, err)
		return km
	}

	original, err := withKDF(crypto.KDFPBKDF2, 1000).GetOrCreateKey(ctx)
	require.NoError(t, err)

	for _, km := range []crypto.KeyManager{
		withKDF(crypto.KDFPBKDF2, 2000),
		withKDF(crypto.KDFArgon2id, 0),
	} {
		key, err := km.GetOrCreateKey(ctx)
		require.NoError(t, err)
		assert.True(t, interchangeable(t, original, key))
	}

	raw, ok, err := adapter.GetItem(ctx, "notevault:kdf")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"name":"pbkdf2","iterations":1000}`, raw)
}

func TestKeyManager_DerivedKeyWithoutKDFArtifact(t *testing.T) {
	ctx := context.Background()
	adapter := store.NewAdapter(store.NewMemoryStorage(), nil)

	km := newManager(t, crypto.StrategyDerived, adapter)
	key, err := km.GetOrCreateKey(ctx)
	require.NoError(t, err)

	// Artifacts written before the kdf entry existed are read with the
	// configured KDF.
	require.NoError(t, adapter.RemoveItems(ctx, "test:kdf"))
	again, err := newManager(t, crypto.StrategyDerived, adapter).GetOrCreateKey(ctx)
	require.NoError(t, err)
	assert.True(t, interchangeable(t, key, again))
}

func TestKeyManager_RandomSourceFailure(t *testing.T) {
	adapter := store.NewAdapter(store.NewMemoryStorage(), nil)

	for _, strategy := range strategies {
		km, err := crypto.NewKeyManager(strategy, adapter, crypto.KeyOptions{
			KDF:  fastKDF(t),
			Rand: bytes.NewReader(nil),
		}, logger.Nop())
		require.NoError(t, err)

		_, err = km.GetOrCreateKey(context.Background())
		assert.ErrorIs(t, err, crypto.ErrKeyGenerationFailed, string(strategy))
	}
}

func TestKeyManager_DeleteKey(t *testing.T) {
	for _, strategy := range strategies {
		t.Run(string(strategy), func(t *testing.T) {
			ctx := context.Background()
			adapter := store.NewAdapter(store.NewMemoryStorage(), nil)
			km := newManager(t, strategy, adapter)

			old, err := km.GetOrCreateKey(ctx)
			require.NoError(t, err)

			require.NoError(t, km.DeleteKey(ctx))
			for _, name := range km.Artifacts() {
				_, ok, err := adapter.GetItem(ctx, name)
				require.NoError(t, err)
				assert.False(t, ok, "artifact %s survived DeleteKey", name)
			}

			fresh, err := km.GetOrCreateKey(ctx)
			require.NoError(t, err)
			assert.False(t, interchangeable(t, old, fresh))
		})
	}
}

func TestKeyManager_ConcurrentFirstUse(t *testing.T) {
	for _, strategy := range strategies {
		t.Run(string(strategy), func(t *testing.T) {
			ctx := context.Background()
			adapter := store.NewAdapter(store.NewMemoryStorage(), nil)
			km := newManager(t, strategy, adapter)

			const n = 16
			keys := make([]*crypto.SymmetricKey, n)
			var wg sync.WaitGroup
			for i := range n {
				wg.Add(1)
				go func() {
					defer wg.Done()
					key, err := km.GetOrCreateKey(ctx)
					assert.NoError(t, err)
					keys[i] = key
				}()
			}
			wg.Wait()

			for i := 1; i < n; i++ {
				assert.Same(t, keys[0], keys[i])
			}
		})
	}
}
