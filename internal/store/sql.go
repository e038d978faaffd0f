// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-note-vault/internal/logger"
)

// Low-level SQL failures, wrapped around the driver error.
var (
	ErrBuildingSQLQuery      = errors.New("error building sql query")
	ErrExecutingQuery        = errors.New("error executing sql query")
	ErrBeginningTransaction  = errors.New("failed to begin transaction")
	ErrCommittingTransaction = errors.New("failed to commit transaction")
)

// ErrorClassifier maps a driver error to the substrate-neutral kinds
// ([ErrQuotaExceeded], [ErrAccessDenied]) or returns it unchanged.
type ErrorClassifier interface {
	Classify(err error) error
}

// sqlStorage is a [BatchStorage] over a single key/value table. The SQL
// dialect only differs in placeholder format and error classification.
type sqlStorage struct {
	db         *sql.DB
	builder    sq.StatementBuilderType
	classifier ErrorClassifier
	logger     *logger.Logger
	now        func() time.Time
}

func newSQLStorage(db *sql.DB, placeholder sq.PlaceholderFormat, classifier ErrorClassifier, log *logger.Logger) *sqlStorage {
	return &sqlStorage{
		db:         db,
		builder:    sq.StatementBuilder.PlaceholderFormat(placeholder),
		classifier: classifier,
		logger:     log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *sqlStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	query, args, err := s.selectItemQuery(key)
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var value string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		s.logger.Err(err).Str("func", "sqlStorage.GetItem").Str("key", key).Msg("failed to query item")
		return "", false, fmt.Errorf("%w: %w", ErrExecutingQuery, s.classifier.Classify(err))
	}
	return value, true, nil
}

func (s *sqlStorage) SetItem(ctx context.Context, key, value string) error {
	query, args, err := s.upsertItemQuery(key, value, s.now())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		s.logger.Err(err).Str("func", "sqlStorage.SetItem").Str("key", key).Msg("failed to upsert item")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, s.classifier.Classify(err))
	}
	return nil
}

// SetItems upserts every item inside one transaction.
func (s *sqlStorage) SetItems(ctx context.Context, items map[string]string) error {
	at := s.now()
	return s.inTx(ctx, "sqlStorage.SetItems", func(tx *sql.Tx) error {
		for _, key := range slices.Sorted(maps.Keys(items)) {
			query, args, err := s.upsertItemQuery(key, items[key], at)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
			}
			if _, err = tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingQuery, s.classifier.Classify(err))
			}
		}
		return nil
	})
}

func (s *sqlStorage) RemoveItem(ctx context.Context, key string) error {
	return s.RemoveItems(ctx, key)
}

// RemoveItems deletes all keys with a single statement.
func (s *sqlStorage) RemoveItems(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	query, args, err := s.deleteItemsQuery(keys...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		s.logger.Err(err).Str("func", "sqlStorage.RemoveItems").Strs("keys", keys).Msg("failed to delete items")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, s.classifier.Classify(err))
	}
	return nil
}

func (s *sqlStorage) Clear(ctx context.Context) error {
	query, args, err := s.deleteAllQuery()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		s.logger.Err(err).Str("func", "sqlStorage.Clear").Msg("failed to delete all items")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, s.classifier.Classify(err))
	}
	return nil
}

func (s *sqlStorage) Close() error {
	return s.db.Close()
}

func (s *sqlStorage) inTx(ctx context.Context, fn string, body func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Err(err).Str("func", fn).Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, s.classifier.Classify(err))
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err = body(tx); err != nil {
		s.logger.Err(err).Str("func", fn).Msg("transaction body failed")
		return err
	}
	if err = tx.Commit(); err != nil {
		s.logger.Err(err).Str("func", fn).Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommittingTransaction, s.classifier.Classify(err))
	}
	return nil
}
