// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/MKhiriev/go-note-vault/internal/logger"
	"github.com/MKhiriev/go-note-vault/migrations"
)

// NewPostgresStorage connects to PostgreSQL through the pgx stdlib driver
// and migrates the item table.
func NewPostgresStorage(ctx context.Context, dsn string, log *logger.Logger) (BatchStorage, error) {
	// establish connection
	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Err(err).Str("func", "NewPostgresStorage").Msg("error occurred during database connection")
		return nil, fmt.Errorf("error occurred during database connection: %w", err)
	}

	// setup connections
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(4)

	// ping database
	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewPostgresStorage").Msg("error connecting database (ping)")
		conn.Close()
		return nil, fmt.Errorf("%w: %w", ErrStorageReadFailed, NewPostgresErrorClassifier().Classify(err))
	}

	if err = migrations.Migrate(conn, migrations.DialectPostgres); err != nil {
		log.Err(err).Str("func", "NewPostgresStorage").Msg("error migrating database")
		conn.Close()
		return nil, err
	}
	log.Info().Str("func", "NewPostgresStorage").Msg("connected to database successfully")

	return newSQLStorage(conn, sq.Dollar, NewPostgresErrorClassifier(), log), nil
}

// PostgresErrorClassifier maps PostgreSQL SQLSTATE codes to storage error kinds.
// See https://www.postgresql.org/docs/current/errcodes-appendix.html.
type PostgresErrorClassifier struct{}

func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

// Classify attempts to unwrap err as a *pgconn.PgError. Codes that mean the
// server ran out of room become [ErrQuotaExceeded]; privilege and read-only
// violations become [ErrAccessDenied]. Anything else is returned as is.
func (c *PostgresErrorClassifier) Classify(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	// Class 53: insufficient resources
	case pgerrcode.DiskFull,
		pgerrcode.InsufficientResources,
		pgerrcode.OutOfMemory:
		return fmt.Errorf("%w: %w", ErrQuotaExceeded, err)

	// Class 42, 25 and 28: privileges, read-only transactions, auth
	case pgerrcode.InsufficientPrivilege,
		pgerrcode.ReadOnlySQLTransaction,
		pgerrcode.InvalidAuthorizationSpecification,
		pgerrcode.InvalidPassword:
		return fmt.Errorf("%w: %w", ErrAccessDenied, err)
	}

	return err
}
