package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresStore реализует Store поверх одной таблицы kv_store.
// Схема повторяет таблицу хостинг-платформы, с которой продукт начинался:
// ключ, JSONB значение и счётчик версий для compare-and-set.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore подключается к PostgreSQL и создаёт таблицу, если её нет.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	conn, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("kv: не удалось подключиться к postgres: %w", err)
	}

	// Настраиваем пул соединений.
	conn.SetMaxOpenConns(100)
	conn.SetMaxIdleConns(25)
	conn.SetConnMaxLifetime(5 * time.Minute)

	store := &PostgresStore{db: conn}
	if err := store.initSchema(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return store, nil
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS kv_store (
			key        TEXT PRIMARY KEY,
			value      JSONB NOT NULL,
			version    BIGINT NOT NULL DEFAULT 1,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("kv: не удалось создать таблицу kv_store: %w", err)
	}
	return nil
}

// Close закрывает пул соединений.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) Get(ctx context.Context, key string) (Entry, error) {
	var row struct {
		Key     string `db:"key"`
		Value   []byte `db:"value"`
		Version int64  `db:"version"`
	}
	err := s.db.GetContext(ctx, &row, `SELECT key, value, version FROM kv_store WHERE key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrKeyNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("kv: ошибка чтения ключа %s: %w", key, err)
	}
	return Entry{Key: row.Key, Value: row.Value, Version: row.Version}, nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_store (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, version = kv_store.version + 1, updated_at = NOW()
	`, key, value)
	if err != nil {
		return fmt.Errorf("kv: ошибка записи ключа %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) SetVersioned(ctx context.Context, key string, value []byte, expectedVersion int64) error {
	if expectedVersion == 0 {
		// Новая запись: вставка упадёт на конфликте первичного ключа.
		_, err := s.db.ExecContext(ctx, `INSERT INTO kv_store (key, value) VALUES ($1, $2)`, key, value)
		if err != nil {
			return ErrVersionConflict
		}
		return nil
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE kv_store
		SET value = $2, version = version + 1, updated_at = NOW()
		WHERE key = $1 AND version = $3
	`, key, value, expectedVersion)
	if err != nil {
		return fmt.Errorf("kv: ошибка условной записи ключа %s: %w", key, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("kv: не удалось получить число обновлённых строк: %w", err)
	}
	if affected == 0 {
		return ErrVersionConflict
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = $1`, key); err != nil {
		return fmt.Errorf("kv: ошибка удаления ключа %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) GetByPrefix(ctx context.Context, prefix string) ([]Entry, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT key, value, version FROM kv_store WHERE key LIKE $1 || '%' ORDER BY key
	`, prefix)
	if err != nil {
		return nil, fmt.Errorf("kv: ошибка выборки по префиксу %s: %w", prefix, err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var row struct {
			Key     string `db:"key"`
			Value   []byte `db:"value"`
			Version int64  `db:"version"`
		}
		if err := rows.StructScan(&row); err != nil {
			return nil, fmt.Errorf("kv: ошибка чтения строки: %w", err)
		}
		entries = append(entries, Entry{Key: row.Key, Value: row.Value, Version: row.Version})
	}
	return entries, rows.Err()
}
