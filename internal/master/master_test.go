package master

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aberic-labs/george/internal/ge"
	gerrors "github.com/aberic-labs/george/pkg/errors"
	"github.com/aberic-labs/george/pkg/logger"
	"github.com/aberic-labs/george/pkg/options"
	"github.com/stretchr/testify/require"
)

func newTestMaster(t *testing.T) *Master {
	t.Helper()
	opts := options.NewDefaultOptions()
	opts.DataDir = t.TempDir()
	opts.PoolSize = 4

	m, err := Open(context.Background(), &Config{
		Options: &opts,
		Logger:  logger.NewAtLevel("master_test", logger.LevelError),
	})
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestOpenCreatesBootstrapFile(t *testing.T) {
	opts := options.NewDefaultOptions()
	opts.DataDir = t.TempDir()

	m, err := Open(context.Background(), &Config{Options: &opts, Logger: logger.NewAtLevel("t", logger.LevelError)})
	require.NoError(t, err)
	defer m.Close()

	require.FileExists(t, filepath.Join(opts.DataDir, "data", "bootstrap.ge"))
	require.Empty(t, m.Databases())
}

func TestCreateDatabaseLayout(t *testing.T) {
	m := newTestMaster(t)

	db, err := m.CreateDatabase(context.Background(), "orders")
	require.NoError(t, err)
	require.Equal(t, "orders", db.Name())
	require.Equal(t, []string{"orders"}, m.Databases())

	_, err = m.CreateDatabase(context.Background(), "orders")
	require.Error(t, err)
	require.Equal(t, gerrors.ErrorCodeExists, gerrors.GetErrorCode(err))
}

func TestCreateViewAndIndexLayout(t *testing.T) {
	m := newTestMaster(t)
	ctx := context.Background()

	_, err := m.CreateDatabase(ctx, "orders")
	require.NoError(t, err)

	v, err := m.CreateView(ctx, "orders", "primary")
	require.NoError(t, err)
	require.Equal(t, "primary", v.Name())

	err = v.CreateIndex(m.options.DataDir, "orders", "id", ge.KeyTypeUInt, ge.EngineSequence, true)
	require.NoError(t, err)
	require.Equal(t, "id", v.PrimaryIndex())
	require.Equal(t, []string{"id"}, v.Indexes())

	err = v.CreateIndex(m.options.DataDir, "orders", "id", ge.KeyTypeUInt, ge.EngineSequence, false)
	require.Error(t, err)
	require.Equal(t, gerrors.ErrorCodeExists, gerrors.GetErrorCode(err))
}

func TestDatabaseNotFound(t *testing.T) {
	m := newTestMaster(t)
	_, err := m.Database("missing")
	require.Error(t, err)
	require.Equal(t, gerrors.ErrorCodeNotFound, gerrors.GetErrorCode(err))
}

func TestPutGetRemoveRoundTrip(t *testing.T) {
	m := newTestMaster(t)
	ctx := context.Background()

	_, err := m.CreateDatabase(ctx, "orders")
	require.NoError(t, err)
	v, err := m.CreateView(ctx, "orders", "primary")
	require.NoError(t, err)
	require.NoError(t, v.CreateIndex(m.options.DataDir, "orders", "id", ge.KeyTypeUInt, ge.EngineSequence, true))

	addr, err := v.Put(ctx, []byte(`{"id":1,"name":"first"}`), false)
	require.NoError(t, err)
	require.False(t, addr.IsZero())

	payload, _, err := v.Get(ctx, "id", uint64(1))
	require.NoError(t, err)
	require.JSONEq(t, `{"id":1,"name":"first"}`, string(payload))

	require.NoError(t, v.Remove(ctx, uint64(1)))

	_, _, err = v.Get(ctx, "id", uint64(1))
	require.Error(t, err)
	require.Equal(t, gerrors.ErrorCodeNotFound, gerrors.GetErrorCode(err))
}

func TestRecoverReopensDatabasesViewsAndIndexes(t *testing.T) {
	dir := t.TempDir()
	opts := options.NewDefaultOptions()
	opts.DataDir = dir
	ctx := context.Background()

	m1, err := Open(ctx, &Config{Options: &opts, Logger: logger.NewAtLevel("t", logger.LevelError)})
	require.NoError(t, err)

	_, err = m1.CreateDatabase(ctx, "orders")
	require.NoError(t, err)
	v, err := m1.CreateView(ctx, "orders", "primary")
	require.NoError(t, err)
	require.NoError(t, v.CreateIndex(opts.DataDir, "orders", "id", ge.KeyTypeUInt, ge.EngineSequence, true))

	_, err = v.Put(ctx, []byte(`{"id":1,"name":"first"}`), false)
	require.NoError(t, err)
	require.NoError(t, m1.Close())

	m2, err := Open(ctx, &Config{Options: &opts, Logger: logger.NewAtLevel("t", logger.LevelError)})
	require.NoError(t, err)
	defer m2.Close()

	require.Equal(t, []string{"orders"}, m2.Databases())
	db, err := m2.Database("orders")
	require.NoError(t, err)
	require.Equal(t, []string{"primary"}, db.Views())

	recoveredView, err := db.View("primary")
	require.NoError(t, err)
	require.Equal(t, "id", recoveredView.PrimaryIndex())

	payload, _, err := recoveredView.Get(ctx, "id", uint64(1))
	require.NoError(t, err)
	require.JSONEq(t, `{"id":1,"name":"first"}`, string(payload))
}
