package seed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aberic-labs/george/internal/ge"
	"github.com/aberic-labs/george/internal/index"
	"github.com/aberic-labs/george/internal/index/sequence"
	"github.com/aberic-labs/george/internal/view"
	gerrors "github.com/aberic-labs/george/pkg/errors"
	"github.com/aberic-labs/george/pkg/options"
	"github.com/stretchr/testify/require"
)

func newTestSeed(t *testing.T) *Seed {
	t.Helper()
	dir := t.TempDir()

	v, err := view.Create(filepath.Join(dir, "view.ge"), "orders")
	require.NoError(t, err)

	byID, err := sequence.Create(filepath.Join(dir, "id.ge"), "orders_id", ge.KeyTypeUInt)
	require.NoError(t, err)

	s, err := New(context.Background(), &Config{
		Options: &options.Options{PoolSize: 4},
		View:    v,
		Indexes: map[string]index.Engine{"orders_id": byID},
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateWritesViewAndIndex(t *testing.T) {
	s := newTestSeed(t)
	ctx := context.Background()

	addr, err := s.Create(ctx, map[string]any{"orders_id": uint64(1)}, []byte(`{"id":1}`), false)
	require.NoError(t, err)
	require.False(t, addr.IsZero())

	payload, _, err := s.Get(ctx, "orders_id", uint64(1))
	require.NoError(t, err)
	require.Equal(t, `{"id":1}`, string(payload))
}

func TestCreateSkipsIndexesMissingFromKeys(t *testing.T) {
	s := newTestSeed(t)
	ctx := context.Background()

	_, err := s.Create(ctx, map[string]any{}, []byte(`{}`), false)
	require.NoError(t, err)
}

func TestCreateReturnsPartialOnDuplicateKey(t *testing.T) {
	s := newTestSeed(t)
	ctx := context.Background()

	_, err := s.Create(ctx, map[string]any{"orders_id": uint64(1)}, []byte(`{"id":1}`), false)
	require.NoError(t, err)

	_, err = s.Create(ctx, map[string]any{"orders_id": uint64(1)}, []byte(`{"id":1,"v":2}`), false)
	require.Error(t, err)
	require.Equal(t, gerrors.ErrorCodePartial, gerrors.GetErrorCode(err))
}

func TestRemoveDeletesIndexEntry(t *testing.T) {
	s := newTestSeed(t)
	ctx := context.Background()

	_, err := s.Create(ctx, map[string]any{"orders_id": uint64(1)}, []byte(`{"id":1}`), false)
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, map[string]any{"orders_id": uint64(1)}))

	_, _, err = s.Get(ctx, "orders_id", uint64(1))
	require.Error(t, err)
	require.Equal(t, gerrors.ErrorCodeNotFound, gerrors.GetErrorCode(err))
}
