package fallback

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileStore(t *testing.T, quota int) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.json")
	s, err := NewFileStore(path, quota)
	require.NoError(t, err)
	return s, path
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	s, _ := newFileStore(t, 0)

	_, err := s.Get(context.Background(), "users")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.Equal(t, 0, s.Size())
}

func TestFileStore_PutGetPersists(t *testing.T) {
	s, path := newFileStore(t, 0)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "users", []byte(`[{"id":"u1"}]`)))
	require.NoError(t, s.Put(ctx, "currentUser", []byte(`{"id":"u1"}`)))

	reopened, err := NewFileStore(path, 0)
	require.NoError(t, err)

	got, err := reopened.Get(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"u1"}]`, string(got))
	assert.Equal(t, s.Size(), reopened.Size())
}

func TestFileStore_Delete(t *testing.T) {
	s, path := newFileStore(t, 0)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "currentUser", []byte(`{"id":"u1"}`)))
	require.NoError(t, s.Delete(ctx, "currentUser"))
	require.NoError(t, s.Delete(ctx, "missing"))

	reopened, err := NewFileStore(path, 0)
	require.NoError(t, err)
	_, err = reopened.Get(ctx, "currentUser")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.Equal(t, 0, reopened.Size())
}

func TestFileStore_QuotaExceededLeavesStoreUnchanged(t *testing.T) {
	s, path := newFileStore(t, 20)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k", []byte("0123456789"))) // 11 bytes
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	err = s.Put(ctx, "big", []byte("0123456789"))
	assert.ErrorIs(t, err, common.ErrQuotaExceeded)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	_, err = s.Get(ctx, "big")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.Equal(t, 11, s.Size())

	// overwriting an existing key counts only the delta
	require.NoError(t, s.Put(ctx, "k", []byte("0123456789abcdefghi")))
	assert.Equal(t, 20, s.Size())
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path, 0)
	assert.Error(t, err)
}

func TestFileStore_ConcurrentPuts(t *testing.T) {
	s, path := newFileStore(t, 0)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Put(ctx, string(rune('a'+i)), []byte("v"))
		}(i)
	}
	wg.Wait()

	reopened, err := NewFileStore(path, 0)
	require.NoError(t, err)
	assert.Equal(t, 40, reopened.Size())
}
