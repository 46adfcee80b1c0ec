package block

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aberic-labs/george/internal/ge"
	gerrors "github.com/aberic-labs/george/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestPutGetRoundTrip(t *testing.T) {
	b, err := Create(filepath.Join(t.TempDir(), "index.ge"), "ledger_tx", ge.KeyTypeUInt)
	require.NoError(t, err)
	defer b.Close()

	ctx := context.Background()
	require.NoError(t, b.Put(ctx, uint64(1), 100, false))

	offset, err := b.Get(ctx, uint64(1))
	require.NoError(t, err)
	require.Equal(t, uint64(100), offset)
}

func TestPutRejectsRewriteEvenWithForce(t *testing.T) {
	b, err := Create(filepath.Join(t.TempDir(), "index.ge"), "ledger_tx", ge.KeyTypeUInt)
	require.NoError(t, err)
	defer b.Close()

	ctx := context.Background()
	require.NoError(t, b.Put(ctx, uint64(1), 100, false))

	err = b.Put(ctx, uint64(1), 200, true)
	require.Error(t, err)
	require.Equal(t, gerrors.ErrorCodeDuplicateKey, gerrors.GetErrorCode(err))
}

func TestRemoveIsUnsupported(t *testing.T) {
	b, err := Create(filepath.Join(t.TempDir(), "index.ge"), "ledger_tx", ge.KeyTypeUInt)
	require.NoError(t, err)
	defer b.Close()

	err = b.Remove(context.Background(), uint64(1))
	require.Error(t, err)
	require.Equal(t, gerrors.ErrorCodeUnsupported, gerrors.GetErrorCode(err))
}
