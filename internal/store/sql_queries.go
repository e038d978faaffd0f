// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

const (
	itemsTable      = "kv_items"
	itemKeyColumn   = "item_key"
	itemValueColumn = "item_value"
	updatedAtColumn = "updated_at"
)

// upsertSuffix makes INSERT behave as last-write-wins. Both SQLite (3.24+)
// and PostgreSQL accept this form.
const upsertSuffix = "ON CONFLICT (" + itemKeyColumn + ") DO UPDATE SET " +
	itemValueColumn + " = excluded." + itemValueColumn + ", " +
	updatedAtColumn + " = excluded." + updatedAtColumn

func (s *sqlStorage) selectItemQuery(key string) (string, []any, error) {
	return s.builder.
		Select(itemValueColumn).
		From(itemsTable).
		Where(sq.Eq{itemKeyColumn: key}).
		ToSql()
}

func (s *sqlStorage) upsertItemQuery(key, value string, at time.Time) (string, []any, error) {
	return s.builder.
		Insert(itemsTable).
		Columns(itemKeyColumn, itemValueColumn, updatedAtColumn).
		Values(key, value, at).
		Suffix(upsertSuffix).
		ToSql()
}

func (s *sqlStorage) deleteItemsQuery(keys ...string) (string, []any, error) {
	return s.builder.
		Delete(itemsTable).
		Where(sq.Eq{itemKeyColumn: keys}).
		ToSql()
}

func (s *sqlStorage) deleteAllQuery() (string, []any, error) {
	return s.builder.Delete(itemsTable).ToSql()
}
