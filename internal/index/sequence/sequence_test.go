package sequence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aberic-labs/george/internal/ge"
	gerrors "github.com/aberic-labs/george/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestPutGetRoundTrip(t *testing.T) {
	s, err := Create(filepath.Join(t.TempDir(), "index.ge"), "orders_id", ge.KeyTypeUInt)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Put(ctx, uint64(1), 100, false))

	offset, err := s.Get(ctx, uint64(1))
	require.NoError(t, err)
	require.Equal(t, uint64(100), offset)
}

func TestPutRejectsDuplicateWithoutForce(t *testing.T) {
	s, err := Create(filepath.Join(t.TempDir(), "index.ge"), "orders_id", ge.KeyTypeUInt)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Put(ctx, uint64(1), 100, false))

	err = s.Put(ctx, uint64(1), 200, false)
	require.Error(t, err)
	require.Equal(t, gerrors.ErrorCodeDuplicateKey, gerrors.GetErrorCode(err))

	offset, err := s.Get(ctx, uint64(1))
	require.NoError(t, err)
	require.Equal(t, uint64(100), offset, "rejected put must not leave a partial write")
}

func TestPutOverwritesWithForce(t *testing.T) {
	s, err := Create(filepath.Join(t.TempDir(), "index.ge"), "orders_id", ge.KeyTypeUInt)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Put(ctx, uint64(1), 100, false))
	require.NoError(t, s.Put(ctx, uint64(1), 200, true))

	offset, err := s.Get(ctx, uint64(1))
	require.NoError(t, err)
	require.Equal(t, uint64(200), offset)
}

func TestGetMissingKeyIsNotFound(t *testing.T) {
	s, err := Create(filepath.Join(t.TempDir(), "index.ge"), "orders_id", ge.KeyTypeUInt)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Get(context.Background(), uint64(99))
	require.Error(t, err)
	require.Equal(t, gerrors.ErrorCodeNotFound, gerrors.GetErrorCode(err))
}

func TestRangeVisitsInKeyOrder(t *testing.T) {
	s, err := Create(filepath.Join(t.TempDir(), "index.ge"), "orders_id", ge.KeyTypeUInt)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	for _, k := range []uint64{30, 10, 20} {
		require.NoError(t, s.Put(ctx, k, k, false))
	}

	var offsets []uint64
	require.NoError(t, s.Range(ctx, true, func(offset uint64) (bool, error) {
		offsets = append(offsets, offset)
		return true, nil
	}))

	require.Equal(t, []uint64{10, 20, 30}, offsets)
}

func TestRecoverReopensExistingIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.ge")
	s, err := Create(path, "orders_id", ge.KeyTypeUInt)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Put(ctx, uint64(5), 50, false))
	require.NoError(t, s.Close())

	reopened, err := Recover(path)
	require.NoError(t, err)
	defer reopened.Close()

	offset, err := reopened.Get(ctx, uint64(5))
	require.NoError(t, err)
	require.Equal(t, uint64(50), offset)
}
