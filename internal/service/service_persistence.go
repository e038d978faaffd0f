// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"slices"
	"sync/atomic"

	"github.com/MKhiriev/go-note-vault/internal/codec"
	"github.com/MKhiriev/go-note-vault/internal/crypto"
	"github.com/MKhiriev/go-note-vault/internal/logger"
	"github.com/MKhiriev/go-note-vault/internal/utils"
	"github.com/MKhiriev/go-note-vault/models"
)

type persistenceService struct {
	store  BlobStore
	keys   crypto.KeyManager
	cipher crypto.CipherService
	ids    utils.IDGenerator
	logger *logger.Logger

	state atomic.Int32
}

// NewPersistenceService wires the engine over store. keys must manage its
// artifacts in the same substrate so that ClearAll removes both together.
func NewPersistenceService(store BlobStore, keys crypto.KeyManager, cipher crypto.CipherService, log *logger.Logger) PersistenceService {
	if log == nil {
		log = logger.Nop()
	}
	return &persistenceService{
		store:  store,
		keys:   keys,
		cipher: cipher,
		ids:    utils.NewUUIDGenerator(),
		logger: log,
	}
}

// LoadAs loads logicalKey into a new T. It returns nil, nil when nothing
// usable is stored.
func LoadAs[T any](ctx context.Context, svc PersistenceService, logicalKey string) (*T, error) {
	var v T
	found, err := svc.Load(ctx, logicalKey, &v)
	if err != nil || !found {
		return nil, err
	}
	return &v, nil
}

func (s *persistenceService) Save(ctx context.Context, logicalKey string, value any) error {
	if err := s.checkLogicalKey(logicalKey); err != nil {
		return err
	}
	ctx, log := s.begin(ctx, "persistenceService.Save", logicalKey)

	plaintext, err := codec.Marshal(value)
	if err != nil {
		log.Err(err).Str("func", "persistenceService.Save").Msg("failed to serialize value")
		return err
	}

	blob, err := s.seal(ctx, plaintext)
	if err != nil {
		log.Err(err).Str("func", "persistenceService.Save").Msg("failed to encrypt value")
		return err
	}

	if err = s.store.SetItem(ctx, logicalKey, blob); err != nil {
		return err
	}

	log.Debug().Str("func", "persistenceService.Save").Msg("value saved")
	return nil
}

func (s *persistenceService) Load(ctx context.Context, logicalKey string, target any) (bool, error) {
	if err := s.checkLogicalKey(logicalKey); err != nil {
		return false, err
	}
	ctx, log := s.begin(ctx, "persistenceService.Load", logicalKey)

	stored, ok, err := s.store.GetItem(ctx, logicalKey)
	if err != nil {
		return false, err
	}
	if !ok {
		log.Debug().Str("func", "persistenceService.Load").Msg("nothing stored")
		return false, nil
	}

	if Classify(stored) == models.Plaintext {
		return s.loadPlaintext(ctx, log, logicalKey, stored, target)
	}
	return s.loadEncrypted(ctx, log, logicalKey, stored, target)
}

func (s *persistenceService) loadPlaintext(ctx context.Context, log *logger.Logger, logicalKey, stored string, target any) (bool, error) {
	doc, err := codec.Parse(stored)
	if err != nil {
		log.Warn().Err(err).Str("func", "persistenceService.loadPlaintext").
			Msg("stored value is neither JSON nor an encrypted record, leaving it untouched")
		return false, nil
	}
	if err = codec.Assign(doc, target); err != nil {
		return false, err
	}

	result := s.migrate(ctx, logicalKey, doc)
	result.log(log)

	return true, nil
}

func (s *persistenceService) loadEncrypted(ctx context.Context, log *logger.Logger, logicalKey, stored string, target any) (bool, error) {
	plaintext, err := s.open(ctx, stored)
	if err != nil {
		if !isUnrecoverable(err) {
			log.Err(err).Str("func", "persistenceService.loadEncrypted").Msg("failed to decrypt value")
			return false, err
		}
		s.heal(ctx, log, logicalKey, err)
		return false, nil
	}

	doc, err := codec.Parse(plaintext)
	if err != nil {
		s.heal(ctx, log, logicalKey, err)
		return false, nil
	}
	if err = codec.Assign(doc, target); err != nil {
		return false, err
	}

	log.Debug().Str("func", "persistenceService.loadEncrypted").Msg("value loaded")
	return true, nil
}

// heal removes a record that can never be decrypted. A failed removal is
// only logged; the read still reports no data.
func (s *persistenceService) heal(ctx context.Context, log *logger.Logger, logicalKey string, cause error) {
	log.Warn().Err(cause).Str("func", "persistenceService.heal").Msg("stored record is unrecoverable, removing it")
	if err := s.store.RemoveItem(ctx, logicalKey); err != nil {
		log.Err(err).Str("func", "persistenceService.heal").Msg("failed to remove unrecoverable record")
	}
}

func (s *persistenceService) Remove(ctx context.Context, logicalKey string) error {
	if err := s.checkLogicalKey(logicalKey); err != nil {
		return err
	}
	ctx, log := s.begin(ctx, "persistenceService.Remove", logicalKey)

	if err := s.store.RemoveItem(ctx, logicalKey); err != nil {
		return err
	}
	log.Debug().Str("func", "persistenceService.Remove").Msg("value removed")
	return nil
}

func (s *persistenceService) Inspect(ctx context.Context, logicalKey string) (models.StoredFormat, bool, error) {
	if err := s.checkLogicalKey(logicalKey); err != nil {
		return models.Plaintext, false, err
	}
	ctx, _ = s.begin(ctx, "persistenceService.Inspect", logicalKey)

	stored, ok, err := s.store.GetItem(ctx, logicalKey)
	if err != nil || !ok {
		return models.Plaintext, false, err
	}
	return Classify(stored), true, nil
}

// ClearAll wipes the substrate, which takes the key artifacts with it, and
// then has the key manager forget its cached key.
func (s *persistenceService) ClearAll(ctx context.Context) error {
	ctx, log := s.begin(ctx, "persistenceService.ClearAll", "")

	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	if err := s.keys.DeleteKey(ctx); err != nil {
		log.Err(err).Str("func", "persistenceService.ClearAll").Msg("failed to delete key")
		return err
	}
	s.setState(models.StateNoKey)

	log.Info().Str("func", "persistenceService.ClearAll").Msg("all data cleared")
	return nil
}

func (s *persistenceService) State() models.EngineState {
	return models.EngineState(s.state.Load())
}

func (s *persistenceService) setState(st models.EngineState) {
	s.state.Store(int32(st))
}

// begin tags ctx with an operation id. An id already carried by ctx, such
// as an HTTP trace id, is kept.
func (s *persistenceService) begin(ctx context.Context, fn, logicalKey string) (context.Context, *logger.Logger) {
	opID, ok := utils.GetOperationIDFromContext(ctx)
	if !ok {
		opID = s.ids.Generate()
		ctx = utils.WithOperationID(ctx, opID)
	}
	ctx, log := s.logger.WithOperation(ctx, opID, logicalKey)
	log.Debug().Str("func", fn).Msg("operation started")
	return ctx, log
}

func (s *persistenceService) checkLogicalKey(logicalKey string) error {
	if logicalKey == "" {
		return ErrEmptyLogicalKey
	}
	if slices.Contains(s.keys.Artifacts(), logicalKey) {
		return ErrReservedLogicalKey
	}
	return nil
}

func (s *persistenceService) acquireKey(ctx context.Context) (*crypto.SymmetricKey, error) {
	key, err := s.keys.GetOrCreateKey(ctx)
	if err != nil {
		return nil, err
	}
	s.setState(models.StateKeyReady)
	return key, nil
}

// seal encrypts plaintext and frames it as a StoredBlob.
func (s *persistenceService) seal(ctx context.Context, plaintext string) (string, error) {
	key, err := s.acquireKey(ctx)
	if err != nil {
		return "", err
	}

	s.setState(models.StateEncrypting)
	defer s.setState(models.StateIdle)

	record, err := s.cipher.Encrypt(plaintext, key)
	if err != nil {
		return "", err
	}
	return s.cipher.EncodeRecord(record)
}

// open unframes and decrypts a StoredBlob.
func (s *persistenceService) open(ctx context.Context, blob string) (string, error) {
	key, err := s.acquireKey(ctx)
	if err != nil {
		return "", err
	}

	s.setState(models.StateDecrypting)
	defer s.setState(models.StateIdle)

	record, err := s.cipher.DecodeRecord(blob)
	if err != nil {
		return "", err
	}
	return s.cipher.Decrypt(record, key)
}

// isUnrecoverable reports whether a read failure means the record itself is
// bad, as opposed to the key or the substrate.
func isUnrecoverable(err error) bool {
	return errors.Is(err, crypto.ErrDecryptionFailed) || errors.Is(err, crypto.ErrInvalidIVSize)
}
