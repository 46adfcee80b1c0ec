// Package ge implements the typed container file every higher layer of
// George is built on: a 52-byte header framed by fixed sentinels, followed
// by an append-only body addressed by byte offset. A single active
// *os.File, explicit offset bookkeeping, and one write lock per file
// replace "segment rotation" with "one file, one header, append-only
// body, caller-addressed overwrites".
package ge

import (
	stdErrors "errors"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	gerrors "github.com/aberic-labs/george/pkg/errors"
)

// maxIOAttempts bounds the retry loop for transient Io failures at this
// layer, per the error-handling design: retries happen only for transient
// Io (up to 3) at the Ge layer.
const maxIOAttempts = 3

// File is a handle to one Ge container file. Many readers and at most one
// writer may use a File concurrently; all reads and writes are positional,
// so the OS file offset is never consulted.
type File struct {
	writeMu sync.Mutex // guards append position + header updates

	file *os.File
	path string

	header header
	size   atomic.Int64 // current end-of-body offset, including the header

	closed atomic.Bool
}

// Path returns the filesystem path backing this file.
func (f *File) Path() string { return f.path }

// Tag returns the file's tag, as recovered or set at creation.
func (f *File) Tag() Tag { return f.header.tag }

// Size returns the current length of the file, header included.
func (f *File) Size() int64 { return f.size.Load() }

// Create creates a new Ge file at path with the given tag and initial
// description, and returns a handle to it. It fails with ErrorCodeExists if
// the file is already present.
func Create(path string, tag Tag, description Description) (*File, error) {
	descBytes, err := description.Marshal()
	if err != nil {
		return nil, gerrors.NewGeError(err, gerrors.ErrorCodeInvalidInput, "failed to marshal description").
			WithPath(path).
			WithTag(tag.String())
	}

	osFile, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0644)
	if err != nil {
		if os.IsExist(err) {
			return nil, gerrors.NewGeError(err, gerrors.ErrorCodeExists, "ge file already exists").
				WithPath(path).
				WithTag(tag.String())
		}
		return nil, classifyOpenErr(err, path, tag)
	}

	h := header{
		tag:               tag,
		descriptionStart:  HeaderSize,
		descriptionLen:    uint32(len(descBytes)),
		descriptionModify: time.Now().UnixNano(),
	}

	headerBytes := h.encode()
	if _, err := osFile.WriteAt(headerBytes[:], 0); err != nil {
		osFile.Close()
		os.Remove(path)
		return nil, classifyIOErr(err, path, tag, 0)
	}
	if _, err := osFile.WriteAt(descBytes, HeaderSize); err != nil {
		osFile.Close()
		os.Remove(path)
		return nil, classifyIOErr(err, path, tag, HeaderSize)
	}
	if err := osFile.Sync(); err != nil {
		osFile.Close()
		os.Remove(path)
		return nil, classifyIOErr(err, path, tag, 0)
	}

	f := &File{file: osFile, path: path, header: h}
	f.size.Store(HeaderSize + int64(len(descBytes)))
	return f, nil
}

// Recover opens an existing Ge file, validating its sentinels and tag. It
// fails with ErrorCodeCorrupt if the sentinels mismatch, ErrorCodeWrongTag
// if expectTag doesn't match the file's recorded tag.
func Recover(path string, expectTag Tag) (*File, error) {
	osFile, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		return nil, classifyOpenErr(err, path, expectTag)
	}

	headerBytes := make([]byte, HeaderSize)
	if _, err := io.ReadFull(osFile, headerBytes); err != nil {
		osFile.Close()
		return nil, gerrors.NewCorruptError(path, err).WithDetail("reason", "failed to read header")
	}

	h, err := decodeHeader(headerBytes, path)
	if err != nil {
		osFile.Close()
		return nil, err
	}

	if h.tag != expectTag {
		osFile.Close()
		return nil, gerrors.NewWrongTagError(path, expectTag.String(), h.tag.String())
	}

	stat, err := osFile.Stat()
	if err != nil {
		osFile.Close()
		return nil, classifyIOErr(err, path, expectTag, 0)
	}

	f := &File{file: osFile, path: path, header: h}
	f.size.Store(stat.Size())
	return f, nil
}

// Description reads and unmarshals the file's current description blob.
func (f *File) Description() (Description, error) {
	data, err := f.ReadAt(int64(f.header.descriptionStart), int64(f.header.descriptionLen))
	if err != nil {
		return Description{}, err
	}
	return UnmarshalDescription(data)
}

// Append writes bytes to the end of the file's body and returns the offset
// at which they now start.
func (f *File) Append(data []byte) (int64, error) {
	f.writeMu.Lock()
	defer f.writeMu.Unlock()

	offset := f.size.Load()
	if err := f.writeAtRetrying(offset, data); err != nil {
		return 0, err
	}
	f.size.Store(offset + int64(len(data)))
	return offset, nil
}

// ReadAt performs an exact-length positional read. It fails with
// ErrorCodeOutOfRange if offset+length runs past the current end of file.
func (f *File) ReadAt(offset, length int64) ([]byte, error) {
	if length < 0 || offset < 0 || offset+length > f.size.Load() {
		return nil, gerrors.NewGeError(nil, gerrors.ErrorCodeOutOfRange, "read past end of file").
			WithPath(f.path).
			WithTag(f.header.tag.String()).
			WithOffset(offset).
			WithDetail("length", length).
			WithDetail("fileSize", f.size.Load())
	}

	buf := make([]byte, length)
	var lastErr error
	for attempt := 0; attempt < maxIOAttempts; attempt++ {
		_, err := f.file.ReadAt(buf, offset)
		if err == nil {
			return buf, nil
		}
		lastErr = err
		if !isTransient(err) {
			break
		}
	}
	return nil, classifyIOErr(lastErr, f.path, f.header.tag, offset)
}

// WriteAt performs a positional seek-overwrite. The caller is responsible
// for not overwriting the header; this is used by index engines for leaf
// cell and chain-link updates.
func (f *File) WriteAt(offset int64, data []byte) error {
	f.writeMu.Lock()
	defer f.writeMu.Unlock()
	return f.writeAtRetrying(offset, data)
}

// ModifyDescription appends a new description blob and atomically updates
// the header's description pointer once the blob is durable: the pointer
// update happens strictly after the blob's bytes and the file have been
// synced, never before.
func (f *File) ModifyDescription(description Description) error {
	descBytes, err := description.Marshal()
	if err != nil {
		return gerrors.NewGeError(err, gerrors.ErrorCodeInvalidInput, "failed to marshal description").
			WithPath(f.path).
			WithTag(f.header.tag.String())
	}

	f.writeMu.Lock()
	defer f.writeMu.Unlock()

	offset := f.size.Load()
	if err := f.writeAtRetrying(offset, descBytes); err != nil {
		return err
	}
	f.size.Store(offset + int64(len(descBytes)))

	if err := f.syncRetrying(); err != nil {
		return err
	}

	f.header.descriptionStart = uint64(offset)
	f.header.descriptionLen = uint32(len(descBytes))
	f.header.descriptionModify = time.Now().UnixNano()

	headerBytes := f.header.encode()
	if err := f.writeAtRetrying(0, headerBytes[:]); err != nil {
		return err
	}
	return f.syncRetrying()
}

// Sync flushes the file to stable storage.
func (f *File) Sync() error {
	f.writeMu.Lock()
	defer f.writeMu.Unlock()
	return f.syncRetrying()
}

// Close releases the underlying OS file handle.
func (f *File) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.file.Close()
}

func (f *File) writeAtRetrying(offset int64, data []byte) error {
	var lastErr error
	for attempt := 0; attempt < maxIOAttempts; attempt++ {
		if _, err := f.file.WriteAt(data, offset); err != nil {
			lastErr = err
			if !isTransient(err) {
				break
			}
			continue
		}
		return nil
	}
	return classifyIOErr(lastErr, f.path, f.header.tag, offset)
}

func (f *File) syncRetrying() error {
	var lastErr error
	for attempt := 0; attempt < maxIOAttempts; attempt++ {
		if err := f.file.Sync(); err != nil {
			lastErr = err
			if !isTransient(err) {
				break
			}
			continue
		}
		return nil
	}
	return gerrors.ClassifySyncError(lastErr, f.path, f.path, f.size.Load()).(*gerrors.GeError).
		WithTag(f.header.tag.String())
}

// isTransient reports whether err is worth retrying: an interrupted
// syscall, not a capacity or permission failure.
func isTransient(err error) bool {
	var errno syscall.Errno
	if stdErrors.As(err, &errno) {
		return errno == syscall.EINTR || errno == syscall.EAGAIN
	}
	return false
}

func classifyOpenErr(err error, path string, tag Tag) error {
	ge, _ := gerrors.ClassifyFileOpenError(err, path, path).(*gerrors.GeError)
	return ge.WithTag(tag.String())
}

func classifyIOErr(err error, path string, tag Tag, offset int64) error {
	return gerrors.NewGeError(err, gerrors.ErrorCodeIO, "ge file i/o operation failed").
		WithPath(path).
		WithTag(tag.String()).
		WithOffset(offset)
}
