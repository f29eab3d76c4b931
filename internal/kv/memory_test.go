package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "listing:1", []byte(`{"a":1}`)))

	entry, err := store.Get(ctx, "listing:1")
	require.NoError(t, err)
	assert.Equal(t, "listing:1", entry.Key)
	assert.Equal(t, []byte(`{"a":1}`), entry.Value)
	assert.Equal(t, int64(1), entry.Version)

	// Перезапись увеличивает версию.
	require.NoError(t, store.Set(ctx, "listing:1", []byte(`{"a":2}`)))
	entry, err = store.Get(ctx, "listing:1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), entry.Version)
}

func TestMemoryStore_GetMissing(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "нет-такого")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryStore_SetVersioned(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	// Нулевая версия — создание новой записи.
	require.NoError(t, store.SetVersioned(ctx, "offer:1", []byte(`1`), 0))

	// Повторное создание конфликтует.
	err := store.SetVersioned(ctx, "offer:1", []byte(`2`), 0)
	assert.ErrorIs(t, err, ErrVersionConflict)

	// Запись с актуальной версией проходит.
	require.NoError(t, store.SetVersioned(ctx, "offer:1", []byte(`2`), 1))

	// Запись с устаревшей версией отклоняется.
	err = store.SetVersioned(ctx, "offer:1", []byte(`3`), 1)
	assert.ErrorIs(t, err, ErrVersionConflict)

	entry, err := store.Get(ctx, "offer:1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`2`), entry.Value)
	assert.Equal(t, int64(2), entry.Version)
}

func TestMemoryStore_DeleteAbsentKey(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	// Удаление отсутствующего ключа — не ошибка.
	assert.NoError(t, store.Delete(ctx, "нет-такого"))

	require.NoError(t, store.Set(ctx, "k", []byte(`1`)))
	require.NoError(t, store.Delete(ctx, "k"))
	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryStore_GetByPrefix(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "listing:b", []byte(`2`)))
	require.NoError(t, store.Set(ctx, "listing:a", []byte(`1`)))
	require.NoError(t, store.Set(ctx, "offer:x", []byte(`3`)))

	entries, err := store.GetByPrefix(ctx, "listing:")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "listing:a", entries[0].Key)
	assert.Equal(t, "listing:b", entries[1].Key)
}

func TestMemoryStore_GetByPrefixEmpty(t *testing.T) {
	store := NewMemoryStore()

	entries, err := store.GetByPrefix(context.Background(), "listing:")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMemoryStore_EntryIsolation(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte(`original`)))

	entry, err := store.Get(ctx, "k")
	require.NoError(t, err)

	// Мутация возвращённого значения не должна портить хранилище.
	entry.Value[0] = 'X'

	fresh, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte(`original`), fresh.Value)
}
