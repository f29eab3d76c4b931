package kv

import (
	"context"
	"errors"
)

var (
	// ErrKeyNotFound возвращается, когда ключ отсутствует в хранилище.
	ErrKeyNotFound = errors.New("kv: ключ не найден")
	// ErrVersionConflict возвращается, когда версия записи изменилась между чтением и записью.
	ErrVersionConflict = errors.New("kv: конфликт версий записи")
)

// Entry хранит значение вместе с версией записи.
// Версия растёт монотонно при каждой записи ключа.
type Entry struct {
	Key     string
	Value   []byte
	Version int64
}

// Store описывает key-value хранилище приложения.
// Значения хранятся как JSON. SetVersioned нужен только пути принятия
// предложений: это единственное место, где требуется compare-and-set.
type Store interface {
	// Get возвращает запись по ключу или ErrKeyNotFound.
	Get(ctx context.Context, key string) (Entry, error)
	// Set безусловно записывает значение.
	Set(ctx context.Context, key string, value []byte) error
	// SetVersioned записывает значение, только если текущая версия записи
	// равна expectedVersion (0 для новой записи). Иначе ErrVersionConflict.
	SetVersioned(ctx context.Context, key string, value []byte, expectedVersion int64) error
	// Delete удаляет ключ. Отсутствующий ключ не является ошибкой.
	Delete(ctx context.Context, key string) error
	// GetByPrefix возвращает все записи с ключами, начинающимися с prefix.
	// Пустое хранилище даёт пустой срез, не ошибку.
	GetByPrefix(ctx context.Context, prefix string) ([]Entry, error)
}
