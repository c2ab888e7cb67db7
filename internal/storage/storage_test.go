package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/annel0/blockplay/internal/vec"
	"github.com/annel0/blockplay/internal/world"
	"github.com/dgraph-io/badger/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var samplePositions = []vec.Vec3{
	{X: 0, Y: 0, Z: 0},
	{X: 1, Y: 0, Z: 0},
	{X: 1, Y: 0, Z: 1},
	{X: 7, Y: 3, Z: 12},
}

func TestCodecLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBlocks(&buf, []vec.Vec3{{X: 1, Y: 2, Z: 3}}))

	want := []byte{
		1, 0, 0, 0,
		1, 0, 0, 0,
		2, 0, 0, 0,
		3, 0, 0, 0,
	}
	assert.Equal(t, want, buf.Bytes())

	got, err := ReadBlocks(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, []vec.Vec3{{X: 1, Y: 2, Z: 3}}, got)
}

func TestCodecEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBlocks(&buf, nil))
	assert.Len(t, buf.Bytes(), 4)

	got, err := ReadBlocks(&buf)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCodecTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBlocks(&buf, samplePositions))
	data := buf.Bytes()

	_, err := ReadBlocks(bytes.NewReader(data[:len(data)-5]))
	assert.ErrorIs(t, err, ErrCorruptMap)

	_, err = ReadBlocks(bytes.NewReader(data[:2]))
	assert.ErrorIs(t, err, ErrCorruptMap)

	_, err = ReadBlocks(bytes.NewReader([]byte{0xff, 0xff, 0xff, 0xff}))
	assert.ErrorIs(t, err, ErrCorruptMap, "заголовок с огромным числом записей")
}

func TestCodecRejectsOutOfRange(t *testing.T) {
	var buf bytes.Buffer
	err := WriteBlocks(&buf, []vec.Vec3{{X: 1, Y: 1, Z: 1}, {X: 1<<32 + 5, Y: 0, Z: 0}})
	assert.ErrorIs(t, err, ErrCorruptMap)
	assert.Zero(t, buf.Len(), "ни одного байта до ошибки")
}

func TestLandSaveOutOfRangeKeepsFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "map.dat")
	store := NewFileMapStore(path, false)

	land := world.NewLand(world.WithStore(store))
	require.NoError(t, land.AddBlock(vec.Vec3{X: 2, Y: 2, Z: 0}))
	require.NoError(t, land.SaveMap(ctx))
	saved, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, land.AddBlock(vec.Vec3{X: 1<<32 + 5, Y: 0, Z: 0}))
	assert.ErrorIs(t, land.SaveMap(ctx), ErrCorruptMap)
	assert.Equal(t, 2, land.Len())

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, saved, after, "прежний файл карты не тронут")
}

func TestFileMapStore(t *testing.T) {
	for _, compress := range []bool{false, true} {
		path := filepath.Join(t.TempDir(), "data", "map.dat")
		store := NewFileMapStore(path, compress)
		ctx := context.Background()

		require.NoError(t, store.SaveBlocks(ctx, samplePositions))

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, compress, bytes.HasPrefix(raw, zstdMagic), "compress=%v", compress)

		got, err := store.LoadBlocks(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, samplePositions, got)
	}
}

func TestFileMapStoreReadsBothFormats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.dat")
	ctx := context.Background()

	require.NoError(t, NewFileMapStore(path, true).SaveBlocks(ctx, samplePositions))

	// Хранилище без сжатия всё равно читает сжатый файл
	got, err := NewFileMapStore(path, false).LoadBlocks(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, samplePositions, got)
}

func TestFileMapStoreMissing(t *testing.T) {
	store := NewFileMapStore(filepath.Join(t.TempDir(), "none.dat"), false)
	_, err := store.LoadBlocks(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileMapStoreCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewFileMapStore(filepath.Join(t.TempDir(), "map.dat"), false)
	assert.ErrorIs(t, store.SaveBlocks(ctx, samplePositions), context.Canceled)
}

func TestBadgerMapStore(t *testing.T) {
	store, err := NewBadgerMapStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.SaveBlocks(ctx, samplePositions))
	got, err := store.LoadBlocks(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, samplePositions, got)

	// Повторное сохранение заменяет набор целиком
	require.NoError(t, store.SaveBlocks(ctx, samplePositions[:1]))
	got, err = store.LoadBlocks(ctx)
	require.NoError(t, err)
	assert.Equal(t, samplePositions[:1], got)
}

func TestBadgerMapStoreClosed(t *testing.T) {
	store, err := NewBadgerMapStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close(), "повторное закрытие безопасно")

	_, err = store.LoadBlocks(context.Background())
	assert.Error(t, err)
}

func TestBadgerMapStoreNeverSaved(t *testing.T) {
	store, err := NewBadgerMapStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	_, err = store.LoadBlocks(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBadgerMapStoreEmptySave(t *testing.T) {
	store, err := NewBadgerMapStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.SaveBlocks(ctx, nil))
	got, err := store.LoadBlocks(ctx)
	require.NoError(t, err, "пустая сохранённая карта отличается от отсутствующей")
	assert.Empty(t, got)
}

func TestBadgerMapStoreDropsOldGeneration(t *testing.T) {
	store, err := NewBadgerMapStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.SaveBlocks(ctx, samplePositions))
	require.NoError(t, store.SaveBlocks(ctx, samplePositions[1:3]))

	var keys []string
	err = store.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"block:2:1:0:0",
		"block:2:1:0:1",
		"meta:count",
		"meta:gen",
	}, keys)
}

func TestLandLoadFromUnsavedBadgerKeepsWorld(t *testing.T) {
	store, err := NewBadgerMapStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	land := world.NewLand(world.WithStore(store))
	_, err = land.ApplyHeightMap(world.HeightMap{{1, 2}, {0, 3}})
	require.NoError(t, err)
	require.Equal(t, 10, land.Len())

	err = land.LoadMap(context.Background())
	var loadErr *world.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, 10, land.Len())
}

func TestLandRoundTripThroughStores(t *testing.T) {
	badgerStore, err := NewBadgerMapStore(t.TempDir())
	require.NoError(t, err)
	defer badgerStore.Close()

	stores := map[string]world.MapStore{
		"file":   NewFileMapStore(filepath.Join(t.TempDir(), "map.dat"), true),
		"badger": badgerStore,
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			land := world.NewLand(world.WithSeed(3), world.WithStore(store))
			_, err := land.ApplyHeightMap(world.HeightMap{{2, 0, 1}, {1, 1}})
			require.NoError(t, err)
			want := land.Positions()

			require.NoError(t, land.SaveMap(ctx))
			land.Clear()
			require.NoError(t, land.LoadMap(ctx))

			assert.ElementsMatch(t, want, land.Positions())
		})
	}
}
