package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Суффикс ключа, под которым хранится версия записи.
const versionSuffix = "@v"

// RedisStore реализует Store поверх Redis. Версия записи хранится в
// соседнем ключе <key>@v; compare-and-set построен на WATCH/MULTI.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore подключается к Redis и проверяет соединение.
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("kv: не удалось подключиться к redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

// Close закрывает соединение.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Get(ctx context.Context, key string) (Entry, error) {
	pipe := s.client.Pipeline()
	valCmd := pipe.Get(ctx, key)
	verCmd := pipe.Get(ctx, key+versionSuffix)
	_, err := pipe.Exec(ctx)
	if err != nil && !errors.Is(err, redis.Nil) {
		return Entry{}, fmt.Errorf("kv: ошибка чтения ключа %s: %w", key, err)
	}

	value, err := valCmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, ErrKeyNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("kv: ошибка чтения ключа %s: %w", key, err)
	}

	version, err := verCmd.Int64()
	if errors.Is(err, redis.Nil) {
		version = 1
	} else if err != nil {
		return Entry{}, fmt.Errorf("kv: ошибка чтения версии ключа %s: %w", key, err)
	}

	return Entry{Key: key, Value: value, Version: version}, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, value, 0)
		pipe.Incr(ctx, key+versionSuffix)
		return nil
	})
	if err != nil {
		return fmt.Errorf("kv: ошибка записи ключа %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) SetVersioned(ctx context.Context, key string, value []byte, expectedVersion int64) error {
	txf := func(tx *redis.Tx) error {
		version, err := tx.Get(ctx, key+versionSuffix).Int64()
		if errors.Is(err, redis.Nil) {
			version = 0
		} else if err != nil {
			return err
		}

		if version != expectedVersion {
			return ErrVersionConflict
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, value, 0)
			pipe.Set(ctx, key+versionSuffix, version+1, 0)
			return nil
		})
		return err
	}

	err := s.client.Watch(ctx, txf, key, key+versionSuffix)
	if errors.Is(err, redis.TxFailedErr) {
		// Ключ изменился между WATCH и EXEC.
		return ErrVersionConflict
	}
	if err != nil && !errors.Is(err, ErrVersionConflict) {
		return fmt.Errorf("kv: ошибка условной записи ключа %s: %w", key, err)
	}
	return err
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key, key+versionSuffix).Err(); err != nil {
		return fmt.Errorf("kv: ошибка удаления ключа %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) GetByPrefix(ctx context.Context, prefix string) ([]Entry, error) {
	entries := make([]Entry, 0)

	iter := s.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if strings.HasSuffix(key, versionSuffix) {
			continue
		}
		entry, err := s.Get(ctx, key)
		if errors.Is(err, ErrKeyNotFound) {
			// Ключ удалён между SCAN и GET.
			continue
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("kv: ошибка сканирования по префиксу %s: %w", prefix, err)
	}
	return entries, nil
}
