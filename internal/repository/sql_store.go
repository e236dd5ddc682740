package repository

import (
	"context"
	"database/sql"
	"errors"

	"talktalk/internal/database"
)

// SQLStore persists progress state in the kv_store table. It works across
// the supported dialects through the database layer's query rewriting.
type SQLStore struct {
	db *database.DB
}

// NewSQLStore creates a store backed by the given database
func NewSQLStore(db *database.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	query := `SELECT value FROM kv_store WHERE ` + s.db.Dialect.QuoteIdent("key") + ` = ?`
	err := s.db.QueryRow(query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	query := s.db.Dialect.UpsertKV()
	_, err := s.db.Exec(query, key, value)
	return err
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM kv_store WHERE ` + s.db.Dialect.QuoteIdent("key") + ` = ?`
	_, err := s.db.Exec(query, key)
	return err
}
