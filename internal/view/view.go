// Package view implements the append-only record store row payloads live
// in, collapsed from a segment-append model down to a single Ge file:
// views aren't segmented in George, so there is exactly one file per view
// and "rotation" never happens.
package view

import (
	"encoding/binary"
	"time"

	"github.com/aberic-labs/george/internal/ge"
	gerrors "github.com/aberic-labs/george/pkg/errors"
)

// lengthPrefixSize is the width of the u64-be length prefix written before
// every record body.
const lengthPrefixSize = 8

// View is an append-only, versioned record file. Row payloads are appended
// once and never rewritten; a logical delete is signalled elsewhere, by the
// index layer zeroing the cell that pointed at a row.
type View struct {
	name string
	file *ge.File

	// recordsStart is the fixed body offset the record stream begins at,
	// cached from the description's RecordsStart field so Scan never has
	// to re-derive it from whichever description happens to be active.
	recordsStart int64
}

// Create creates a new view file at path. The initial description is
// written once, then immediately rewritten with RecordsStart set to the
// body offset that first write ended at — the only point at which "end of
// the current description" and "start of the record stream" are
// guaranteed to coincide, since no record has been appended yet.
func Create(path, name string) (*View, error) {
	f, err := ge.Create(path, ge.TagView, ge.Description{Name: name, CreateTime: time.Now()})
	if err != nil {
		return nil, err
	}

	recordsStart := f.Size()
	desc, err := f.Description()
	if err != nil {
		f.Close()
		return nil, err
	}
	desc.RecordsStart = recordsStart
	if err := f.ModifyDescription(desc); err != nil {
		f.Close()
		return nil, err
	}

	return &View{name: name, file: f, recordsStart: recordsStart}, nil
}

// Recover opens an existing view file, validating it's tagged as a view.
func Recover(path string) (*View, error) {
	f, err := ge.Recover(path, ge.TagView)
	if err != nil {
		return nil, err
	}
	desc, err := f.Description()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &View{name: desc.Name, file: f, recordsStart: desc.RecordsStart}, nil
}

// Name returns the view's name.
func (v *View) Name() string { return v.name }

// Path returns the filesystem path of the view's Ge file.
func (v *View) Path() string { return v.file.Path() }

// Close releases the underlying file handle.
func (v *View) Close() error { return v.file.Close() }

// PrimaryIndex returns the name of the view's primary index, as last
// recorded by SetPrimaryIndex, or "" if none has been set yet.
func (v *View) PrimaryIndex() (string, error) {
	desc, err := v.file.Description()
	if err != nil {
		return "", err
	}
	return desc.Comment, nil
}

// SetPrimaryIndex records name as the view's primary index in its own
// description blob, so a startup recovery walk can learn which of the
// view's index files is primary without guessing from file order.
func (v *View) SetPrimaryIndex(name string) error {
	desc, err := v.file.Description()
	if err != nil {
		return err
	}
	desc.Comment = name
	return v.file.ModifyDescription(desc)
}

// Append writes len(payload) as a u64-be prefix followed by payload to the
// current end of the file, and returns the triple addressing it. Offset is
// the byte offset of the length prefix, not of the payload itself.
//
// TODO: Version is always 0. The source carries a version field on every
// view-address but nothing ever increments it; bumping it on schema change
// is a real future feature, not something to guess the semantics of here.
func (v *View) Append(payload []byte) (Address, error) {
	buf := make([]byte, lengthPrefixSize+len(payload))
	binary.BigEndian.PutUint64(buf[:lengthPrefixSize], uint64(len(payload)))
	copy(buf[lengthPrefixSize:], payload)

	offset, err := v.file.Append(buf)
	if err != nil {
		return Address{}, err
	}

	return Address{Version: 0, Length: uint32(len(payload)), Offset: uint64(offset)}, nil
}

// Read seeks to addr.Offset, reads addr.Length+8 bytes, and returns the
// payload with its length prefix stripped. A mismatch between the stored
// and requested length yields Corrupt. Callers must not pass a zero
// Address — that represents an absent row and is an index-layer concern.
func (v *View) Read(addr Address) ([]byte, error) {
	raw, err := v.file.ReadAt(int64(addr.Offset), int64(addr.Length)+lengthPrefixSize)
	if err != nil {
		return nil, err
	}

	storedLen := binary.BigEndian.Uint64(raw[:lengthPrefixSize])
	if storedLen != uint64(addr.Length) {
		return nil, gerrors.NewCorruptError(v.file.Path(), nil).
			WithTag(ge.TagView.String()).
			WithOffset(int64(addr.Offset)).
			WithDetail("reason", "record length prefix does not match requested address length").
			WithDetail("storedLength", storedLen).
			WithDetail("requestedLength", addr.Length)
	}

	return raw[lengthPrefixSize:], nil
}

// ReadOffset reads the record starting at a raw view-file offset, as
// produced by an index engine (which only ever tracks offsets, not full
// addresses), and reconstructs both its payload and its Address by reading
// the length prefix stored there. Unlike Read, it trusts the prefix rather
// than cross-checking it against an independently-known length.
func (v *View) ReadOffset(offset uint64) ([]byte, Address, error) {
	prefix, err := v.file.ReadAt(int64(offset), lengthPrefixSize)
	if err != nil {
		return nil, Address{}, err
	}
	length := binary.BigEndian.Uint64(prefix)

	payload, err := v.file.ReadAt(int64(offset)+lengthPrefixSize, int64(length))
	if err != nil {
		return nil, Address{}, err
	}

	return payload, Address{Version: 0, Length: uint32(length), Offset: offset}, nil
}

// Scan invokes fn for every record in the file, in append order, passing
// each record's address and payload. It stops and returns fn's error if fn
// returns one. Used by master.Reindex to re-derive index entries.
func (v *View) Scan(fn func(Address, []byte) error) error {
	offset := v.recordsStart
	size := v.file.Size()
	for offset < size {
		prefix, err := v.file.ReadAt(offset, lengthPrefixSize)
		if err != nil {
			return err
		}
		length := binary.BigEndian.Uint64(prefix)

		payload, err := v.file.ReadAt(offset+lengthPrefixSize, int64(length))
		if err != nil {
			return err
		}

		addr := Address{Version: 0, Length: uint32(length), Offset: uint64(offset)}
		if err := fn(addr, payload); err != nil {
			return err
		}

		offset += lengthPrefixSize + int64(length)
	}
	return nil
}
