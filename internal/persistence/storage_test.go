package persistence

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis is an in-memory stand-in for the go-redis client.
type fakeRedis struct {
	data    map[string]string
	ttls    map[string]time.Duration
	failErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		data: make(map[string]string),
		ttls: make(map[string]time.Duration),
	}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.failErr != nil {
		return redis.NewStringResult("", f.failErr)
	}
	value, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if f.failErr != nil {
		return redis.NewStatusResult("", f.failErr)
	}
	f.data[key] = string(value.([]byte))
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	if f.failErr != nil {
		return redis.NewIntResult(0, f.failErr)
	}
	var deleted int64
	for _, key := range keys {
		if _, ok := f.data[key]; ok {
			delete(f.data, key)
			deleted++
		}
	}
	return redis.NewIntResult(deleted, nil)
}

// storageContract exercises the behaviour every Storage adapter must share.
func storageContract(t *testing.T, storage Storage) {
	t.Helper()
	ctx := context.Background()

	_, err := storage.Load(ctx, "cart-storage")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, storage.Save(ctx, "cart-storage", []byte(`{"version":0}`)))

	data, err := storage.Load(ctx, "cart-storage")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":0}`, string(data))

	require.NoError(t, storage.Save(ctx, "cart-storage", []byte(`{"version":1}`)))
	data, err = storage.Load(ctx, "cart-storage")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1}`, string(data))

	_, err = storage.Load(ctx, "other-key")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, storage.Delete(ctx, "cart-storage"))
	_, err = storage.Load(ctx, "cart-storage")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, storage.Delete(ctx, "cart-storage"), "deleting a missing key is not an error")
}

func TestMemoryStorage(t *testing.T) {
	storage := NewMemoryStorage()
	defer storage.Close()

	storageContract(t, storage)
}

func TestMemoryStorage_CopiesData(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()

	data := []byte("original")
	require.NoError(t, storage.Save(ctx, "k", data))
	data[0] = 'X'

	loaded, err := storage.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "original", string(loaded))
}

func TestFileStorage(t *testing.T) {
	storage, err := NewFileStorage(filepath.Join(t.TempDir(), "state"), zerolog.Nop())
	require.NoError(t, err)
	defer storage.Close()

	storageContract(t, storage)
}

func TestFileStorage_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewFileStorage(dir, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, storage.Save(context.Background(), "cart-storage", []byte("{}")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cart-storage.json", entries[0].Name())
}

func TestSQLiteStorage(t *testing.T) {
	ctx := context.Background()
	storage, err := NewSQLiteStorage(ctx, filepath.Join(t.TempDir(), "storefront.db"), zerolog.Nop())
	require.NoError(t, err)
	defer storage.Close()

	storageContract(t, storage)
}

func TestSQLiteStorage_ChecksumMismatch(t *testing.T) {
	ctx := context.Background()
	storage, err := NewSQLiteStorage(ctx, filepath.Join(t.TempDir(), "storefront.db"), zerolog.Nop())
	require.NoError(t, err)
	defer storage.Close()

	require.NoError(t, storage.Save(ctx, "cart-storage", []byte(`{"version":0}`)))

	_, err = storage.(*sqliteStorage).db.ExecContext(ctx,
		`UPDATE snapshots SET data = ? WHERE key = ?`, []byte(`{"version":9}`), "cart-storage")
	require.NoError(t, err)

	_, err = storage.Load(ctx, "cart-storage")
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestSQLiteStorage_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "storefront.db")

	first, err := NewSQLiteStorage(ctx, path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, "cart-storage", []byte(`{"version":0}`)))
	require.NoError(t, first.Close())

	second, err := NewSQLiteStorage(ctx, path, zerolog.Nop())
	require.NoError(t, err)
	defer second.Close()

	data, err := second.Load(ctx, "cart-storage")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":0}`, string(data))
}

func TestRedisStorage(t *testing.T) {
	fake := newFakeRedis()
	storage := newRedisStorage(fake, nil, time.Hour, zerolog.Nop())

	storageContract(t, storage)
}

func TestRedisStorage_NamespacesKeysAndAppliesTTL(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	storage := newRedisStorage(fake, nil, 24*time.Hour, zerolog.Nop())

	require.NoError(t, storage.Save(ctx, "cart-storage", []byte("{}")))

	assert.Equal(t, "{}", fake.data["storefront:snapshot:cart-storage"])
	assert.Equal(t, 24*time.Hour, fake.ttls["storefront:snapshot:cart-storage"])
}

func TestRedisStorage_PropagatesErrors(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	fake.failErr = errors.New("connection refused")
	storage := newRedisStorage(fake, nil, 0, zerolog.Nop())

	_, err := storage.Load(ctx, "cart-storage")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "connection refused")

	err = storage.Save(ctx, "cart-storage", []byte("{}"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write snapshot")
}

func TestRedisStorage_CloseCallsCloser(t *testing.T) {
	closed := false
	storage := newRedisStorage(newFakeRedis(), func() error {
		closed = true
		return nil
	}, 0, zerolog.Nop())

	require.NoError(t, storage.Close())
	assert.True(t, closed)
}
