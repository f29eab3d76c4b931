package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sydneykevadiya/groundnut-backend/internal/kv"
)

// getJSON читает запись и декодирует JSON в dest.
// Возвращает версию записи для последующей условной записи.
func getJSON(ctx context.Context, store kv.Store, key string, dest interface{}) (int64, error) {
	entry, err := store.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	if err := json.Unmarshal(entry.Value, dest); err != nil {
		return 0, fmt.Errorf("repository: повреждённая запись %s: %w", key, err)
	}
	return entry.Version, nil
}

// setJSON кодирует значение и безусловно записывает его.
func setJSON(ctx context.Context, store kv.Store, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("repository: не удалось сериализовать %s: %w", key, err)
	}
	return store.Set(ctx, key, raw)
}

// setJSONVersioned кодирует значение и записывает его с проверкой версии.
func setJSONVersioned(ctx context.Context, store kv.Store, key string, value interface{}, expectedVersion int64) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("repository: не удалось сериализовать %s: %w", key, err)
	}
	return store.SetVersioned(ctx, key, raw, expectedVersion)
}

// appendToIndex добавляет id в индекс-список под ключом key.
func appendToIndex(ctx context.Context, store kv.Store, key string, id string) error {
	var ids []string
	_, err := getJSON(ctx, store, key, &ids)
	if err != nil && !errors.Is(err, kv.ErrKeyNotFound) {
		return err
	}
	ids = append(ids, id)
	return setJSON(ctx, store, key, ids)
}

// readIndex возвращает индекс-список, пустой срез для отсутствующего ключа.
func readIndex(ctx context.Context, store kv.Store, key string) ([]string, error) {
	var ids []string
	_, err := getJSON(ctx, store, key, &ids)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ids, nil
}
