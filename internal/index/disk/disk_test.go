package disk

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aberic-labs/george/internal/ge"
	"github.com/aberic-labs/george/internal/view"
	gerrors "github.com/aberic-labs/george/pkg/errors"
	"github.com/stretchr/testify/require"
)

// newTestDisk builds a disk index named "users_email" over a fresh view,
// and returns a helper that appends a row and returns the view offset to
// index it at — Disk.Get re-reads the row and checks its users_email
// field, so every test row must actually carry that field.
func newTestDisk(t *testing.T) (*Disk, func(json string) uint64) {
	t.Helper()
	dir := t.TempDir()

	v, err := view.Create(filepath.Join(dir, "view.ge"), "users")
	require.NoError(t, err)
	t.Cleanup(func() { v.Close() })

	d, err := Create(filepath.Join(dir, "index.ge"), filepath.Join(dir, "index.record.ge"), "users_email", ge.KeyTypeString, v)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })

	put := func(doc string) uint64 {
		addr, err := v.Append([]byte(doc))
		require.NoError(t, err)
		return addr.Offset
	}
	return d, put
}

func TestPutGetRoundTrip(t *testing.T) {
	d, put := newTestDisk(t)
	ctx := context.Background()

	offset := put(`{"users_email":"alice@example.com"}`)
	require.NoError(t, d.Put(ctx, "alice@example.com", offset, false))

	got, err := d.Get(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, offset, got)
}

func TestGetMissingKeyIsNotFound(t *testing.T) {
	d, _ := newTestDisk(t)

	_, err := d.Get(context.Background(), "nobody@example.com")
	require.Error(t, err)
	require.Equal(t, gerrors.ErrorCodeNotFound, gerrors.GetErrorCode(err))
}

func TestChainedKeysResolveExactly(t *testing.T) {
	d, put := newTestDisk(t)
	ctx := context.Background()

	// These two keys are unrelated but may legitimately collide in the
	// 32-bit hash space; Put/Get must disambiguate by re-reading the row
	// and comparing its users_email field regardless of whether they do.
	aliceOffset := put(`{"users_email":"alice@example.com"}`)
	bobOffset := put(`{"users_email":"bob@example.com"}`)
	require.NoError(t, d.Put(ctx, "alice@example.com", aliceOffset, false))
	require.NoError(t, d.Put(ctx, "bob@example.com", bobOffset, false))

	got, err := d.Get(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, aliceOffset, got)

	got, err = d.Get(ctx, "bob@example.com")
	require.NoError(t, err)
	require.Equal(t, bobOffset, got)
}

func TestPutAllowsRepeatedKeyAndChainsNewestFirst(t *testing.T) {
	d, put := newTestDisk(t)
	ctx := context.Background()

	// Disk is non-unique: two rows sharing a key (a duplicate primary
	// write, or simply two rows under the same secondary-index value)
	// must both succeed and chain, with the most recent write resolving
	// first on Get — force is irrelevant here.
	firstOffset := put(`{"users_email":"alice@example.com"}`)
	require.NoError(t, d.Put(ctx, "alice@example.com", firstOffset, false))

	secondOffset := put(`{"users_email":"alice@example.com"}`)
	require.NoError(t, d.Put(ctx, "alice@example.com", secondOffset, false))

	got, err := d.Get(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, secondOffset, got)
}

func TestRemoveTombstonesEntry(t *testing.T) {
	d, put := newTestDisk(t)
	ctx := context.Background()

	offset := put(`{"users_email":"alice@example.com"}`)
	require.NoError(t, d.Put(ctx, "alice@example.com", offset, false))
	require.NoError(t, d.Remove(ctx, "alice@example.com"))

	_, err := d.Get(ctx, "alice@example.com")
	require.Error(t, err)
	require.Equal(t, gerrors.ErrorCodeNotFound, gerrors.GetErrorCode(err))
}

func TestRemoveDoesNotBreakOtherChainMembers(t *testing.T) {
	d, put := newTestDisk(t)
	ctx := context.Background()

	aliceOffset := put(`{"users_email":"alice@example.com"}`)
	bobOffset := put(`{"users_email":"bob@example.com"}`)
	require.NoError(t, d.Put(ctx, "alice@example.com", aliceOffset, false))
	require.NoError(t, d.Put(ctx, "bob@example.com", bobOffset, false))
	require.NoError(t, d.Remove(ctx, "alice@example.com"))

	got, err := d.Get(ctx, "bob@example.com")
	require.NoError(t, err)
	require.Equal(t, bobOffset, got)
}

func TestRangeIsUnsupported(t *testing.T) {
	d, _ := newTestDisk(t)

	err := d.Range(context.Background(), true, func(uint64) (bool, error) { return true, nil })
	require.Error(t, err)
	require.Equal(t, gerrors.ErrorCodeUnsupported, gerrors.GetErrorCode(err))
}
