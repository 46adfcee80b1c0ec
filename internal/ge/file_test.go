package ge

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gerrors "github.com/aberic-labs/george/pkg/errors"
	"github.com/stretchr/testify/require"
)

func newTestFile(t *testing.T, tag Tag, name string) *File {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := Create(path, tag, Description{Name: name, CreateTime: time.Now()})
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestCreateAndRecoverRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "view.ge")

	created, err := Create(path, TagView, Description{Name: "orders", CreateTime: time.Now()})
	require.NoError(t, err)
	require.Equal(t, TagView, created.Tag())
	require.NoError(t, created.Close())

	recovered, err := Recover(path, TagView)
	require.NoError(t, err)
	defer recovered.Close()

	desc, err := recovered.Description()
	require.NoError(t, err)
	require.Equal(t, "orders", desc.Name)
}

func TestCreateFailsIfFileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.ge")
	f, err := Create(path, TagDatabase, Description{Name: "sys"})
	require.NoError(t, err)
	defer f.Close()

	_, err = Create(path, TagDatabase, Description{Name: "sys"})
	require.Error(t, err)
	require.Equal(t, gerrors.ErrorCodeExists, gerrors.GetErrorCode(err))
}

func TestRecoverRejectsWrongTag(t *testing.T) {
	f := newTestFile(t, TagView, "view.ge")
	path := f.Path()
	require.NoError(t, f.Close())

	_, err := Recover(path, TagIndex)
	require.Error(t, err)
	require.Equal(t, gerrors.ErrorCodeWrongTag, gerrors.GetErrorCode(err))
}

func TestRecoverRejectsCorruptSentinel(t *testing.T) {
	f := newTestFile(t, TagIndex, "index.ge")
	path := f.Path()
	require.NoError(t, f.Close())

	// Mutate the front sentinel byte directly on disk.
	raw, err := os.OpenFile(path, os.O_RDWR, 0644)
	require.NoError(t, err)
	_, err = raw.WriteAt([]byte{0xff}, 0)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	corrupted, err := Recover(path, TagIndex)
	require.Error(t, err)
	require.Nil(t, corrupted)
	require.Equal(t, gerrors.ErrorCodeCorrupt, gerrors.GetErrorCode(err))
}

func TestAppendThenReadAtRoundTrip(t *testing.T) {
	f := newTestFile(t, TagView, "view.ge")

	payload := []byte("hello george")
	offset, err := f.Append(payload)
	require.NoError(t, err)

	got, err := f.ReadAt(offset, int64(len(payload)))
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestReadAtPastEOFIsOutOfRange(t *testing.T) {
	f := newTestFile(t, TagView, "view.ge")

	_, err := f.ReadAt(f.Size(), 100)
	require.Error(t, err)
	require.Equal(t, gerrors.ErrorCodeOutOfRange, gerrors.GetErrorCode(err))
}

func TestWriteAtOverwritesInPlace(t *testing.T) {
	f := newTestFile(t, TagIndex, "index.ge")

	offset, err := f.Append(make([]byte, 8))
	require.NoError(t, err)

	cell := []byte{0, 0, 0, 0, 0, 0, 0, 42}
	require.NoError(t, f.WriteAt(offset, cell))

	got, err := f.ReadAt(offset, 8)
	require.NoError(t, err)
	require.Equal(t, cell, got)
}

func TestModifyDescriptionUpdatesPointerAfterBlobDurable(t *testing.T) {
	f := newTestFile(t, TagView, "view.ge")

	require.NoError(t, f.ModifyDescription(Description{Name: "renamed", CreateTime: time.Now()}))

	desc, err := f.Description()
	require.NoError(t, err)
	require.Equal(t, "renamed", desc.Name)
}
