package index

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/aberic-labs/george/internal/ge"
	"github.com/stretchr/testify/require"
)

func newTestTree(t *testing.T, space Space) *Tree {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.ge")
	f, err := ge.Create(path, ge.TagIndex, ge.Description{Name: "t", CreateTime: time.Now()})
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	tree, err := NewTree(f, space)
	require.NoError(t, err)
	return tree
}

func TestTreePutGetRoundTrip(t *testing.T) {
	tree := newTestTree(t, Space64)

	key := Key{Encoded: 42, Space: Space64}
	previous, err := tree.Put(key, 100)
	require.NoError(t, err)
	require.Zero(t, previous)

	got, err := tree.Get(key)
	require.NoError(t, err)
	require.Equal(t, uint64(100), got)
}

func TestTreeGetMissingKeyReturnsZero(t *testing.T) {
	tree := newTestTree(t, Space64)

	got, err := tree.Get(Key{Encoded: 999, Space: Space64})
	require.NoError(t, err)
	require.Zero(t, got)
}

func TestTreePutReturnsPreviousValue(t *testing.T) {
	tree := newTestTree(t, Space64)
	key := Key{Encoded: 7, Space: Space64}

	_, err := tree.Put(key, 100)
	require.NoError(t, err)

	previous, err := tree.Put(key, 200)
	require.NoError(t, err)
	require.Equal(t, uint64(100), previous)
}

func TestTreeRemoveZeroesCell(t *testing.T) {
	tree := newTestTree(t, Space64)
	key := Key{Encoded: 7, Space: Space64}

	_, err := tree.Put(key, 100)
	require.NoError(t, err)

	previous, err := tree.Remove(key)
	require.NoError(t, err)
	require.Equal(t, uint64(100), previous)

	got, err := tree.Get(key)
	require.NoError(t, err)
	require.Zero(t, got)
}

func TestTreeRangeVisitsInAscendingOrder(t *testing.T) {
	tree := newTestTree(t, Space64)

	values := []uint64{500, 10, 2000, 1}
	for _, v := range values {
		_, err := tree.Put(Key{Encoded: v, Space: Space64}, v*10)
		require.NoError(t, err)
	}

	var seen []uint64
	require.NoError(t, tree.Range(true, func(encoded uint64, _ uint64) (bool, error) {
		seen = append(seen, encoded)
		return true, nil
	}))

	require.Equal(t, []uint64{1, 10, 500, 2000}, seen)
}

func TestTreeRangeDescendingStopsEarly(t *testing.T) {
	tree := newTestTree(t, Space64)
	for _, v := range []uint64{1, 2, 3} {
		_, err := tree.Put(Key{Encoded: v, Space: Space64}, v)
		require.NoError(t, err)
	}

	var seen []uint64
	require.NoError(t, tree.Range(false, func(encoded uint64, _ uint64) (bool, error) {
		seen = append(seen, encoded)
		return len(seen) < 1, nil
	}))

	require.Equal(t, []uint64{3}, seen)
}

func TestTreeSpace32UsesFewerDigits(t *testing.T) {
	tree := newTestTree(t, Space32)
	key := Key{Encoded: 12345, Space: Space32}
	require.Less(t, Space32.Depth(), Space64.Depth())
	require.Len(t, key.Digits(), Space32.Depth())

	_, err := tree.Put(key, 1)
	require.NoError(t, err)

	got, err := tree.Get(key)
	require.NoError(t, err)
	require.Equal(t, uint64(1), got)
}
