// Package disk implements George's hashed, collision-chained index engine.
// Keys hash into a 32-bit space; any two keys landing in the same bucket
// are chained in a companion record file, newest entry first. The record
// entry itself holds only a view address and a next pointer, so a
// bucket hit is disambiguated by re-reading the candidate row from the
// view and comparing its indexed field against the requested key.
package disk

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/goccy/go-json"

	"github.com/aberic-labs/george/internal/ge"
	"github.com/aberic-labs/george/internal/index"
	"github.com/aberic-labs/george/internal/view"
	gerrors "github.com/aberic-labs/george/pkg/errors"
)

// entrySize is a view.Address (12 bytes: version/length/offset) followed
// by an 8-byte next pointer: the engine's fixed Disk record file entry
// layout, with no room for a copy of the key.
const entrySize = view.AddressSize + 8

// Disk is George's hashed, collision-tolerant index engine. It holds a
// reference to the view it indexes: unlike the other three engines, exact
// key matching requires re-reading the candidate row, since the record
// file records only a position, not a copy of the key.
type Disk struct {
	name    string
	field   string // JSON field re-checked on every hash-bucket hit; == name
	keyType ge.KeyType
	tree    *index.Tree
	file    *ge.File // index.ge: the 1170-way hash trie
	records *ge.File // index.record.ge: the collision chains
	view    *view.View
}

// Create creates a new disk index at path, backed by a companion record
// file at recordPath, indexing rows in v by their name field.
func Create(path, recordPath, name string, keyType ge.KeyType, v *view.View) (*Disk, error) {
	f, err := ge.Create(path, ge.TagIndex, ge.Description{
		Name:       name,
		KeyType:    keyType,
		Engine:     ge.EngineDisk,
		CreateTime: time.Now(),
	})
	if err != nil {
		return nil, err
	}
	records, err := ge.Create(recordPath, ge.TagRecord, ge.Description{Name: name, CreateTime: time.Now()})
	if err != nil {
		f.Close()
		return nil, err
	}
	return open(f, records, v, name, keyType)
}

// Recover opens an existing disk index and its companion record file.
func Recover(path, recordPath string, v *view.View) (*Disk, error) {
	f, err := ge.Recover(path, ge.TagIndex)
	if err != nil {
		return nil, err
	}
	desc, err := f.Description()
	if err != nil {
		f.Close()
		return nil, err
	}
	records, err := ge.Recover(recordPath, ge.TagRecord)
	if err != nil {
		f.Close()
		return nil, err
	}
	return open(f, records, v, desc.Name, desc.KeyType)
}

func open(f, records *ge.File, v *view.View, name string, keyType ge.KeyType) (*Disk, error) {
	tree, err := index.NewTree(f, index.Space32)
	if err != nil {
		f.Close()
		records.Close()
		return nil, err
	}
	return &Disk{name: name, field: name, keyType: keyType, tree: tree, file: f, records: records, view: v}, nil
}

func (d *Disk) Name() string { return d.name }

func (d *Disk) Close() error {
	err1 := d.file.Close()
	err2 := d.records.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

func encodeEntry(next uint64, addr view.Address) [entrySize]byte {
	var buf [entrySize]byte
	enc := addr.Encode()
	copy(buf[:view.AddressSize], enc[:])
	binary.BigEndian.PutUint64(buf[view.AddressSize:], next)
	return buf
}

func decodeEntry(b []byte) (addr view.Address, next uint64, err error) {
	addr, err = view.DecodeAddress(b[:view.AddressSize])
	if err != nil {
		return view.Address{}, 0, err
	}
	next = binary.BigEndian.Uint64(b[view.AddressSize:])
	return addr, next, nil
}

// Put prepends a new chain entry ahead of the bucket's current head, so
// lookups see the most recent write for a given key first. Disk is
// non-unique: force is accepted for interface symmetry but is always
// ignored, since a second write under an existing key is exactly how a
// collision chain (or a non-unique secondary index) is meant to grow.
func (d *Disk) Put(_ context.Context, keyValue any, offset uint64, _ bool) error {
	key, err := index.Encode(d.keyType, index.Space32, keyValue)
	if err != nil {
		return err
	}

	_, addr, err := d.view.ReadOffset(offset)
	if err != nil {
		return err
	}

	head, err := d.tree.Get(key)
	if err != nil {
		return err
	}

	entry := encodeEntry(head, addr)
	entryOffset, err := d.records.Append(entry[:])
	if err != nil {
		return err
	}

	_, err = d.tree.Put(key, uint64(entryOffset)+1)
	return err
}

// Get walks the hash bucket's collision chain, re-reading each candidate
// row from the view and comparing its key field, and returns the first
// live match.
func (d *Disk) Get(_ context.Context, keyValue any) (uint64, error) {
	key, err := index.Encode(d.keyType, index.Space32, keyValue)
	if err != nil {
		return 0, err
	}
	want, err := index.CanonicalBytes(d.keyType, keyValue)
	if err != nil {
		return 0, err
	}

	head, err := d.tree.Get(key)
	if err != nil {
		return 0, err
	}
	if head == 0 {
		return 0, gerrors.NewKeyNotFoundError(d.name, string(want))
	}

	pos := head - 1
	for {
		raw, err := d.records.ReadAt(int64(pos), entrySize)
		if err != nil {
			return 0, err
		}
		addr, next, err := decodeEntry(raw)
		if err != nil {
			return 0, err
		}

		if !addr.IsZero() {
			payload, err := d.view.Read(addr)
			if err != nil {
				return 0, err
			}
			if d.fieldMatches(payload, want) {
				return addr.Offset, nil
			}
		}

		if next == 0 {
			return 0, gerrors.NewKeyNotFoundError(d.name, string(want))
		}
		pos = next - 1
	}
}

func (d *Disk) fieldMatches(payload, want []byte) bool {
	var doc map[string]any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return false
	}
	actual, ok := doc[d.field]
	if !ok {
		return false
	}
	actualBytes, err := index.CanonicalBytes(d.keyType, actual)
	if err != nil {
		return false
	}
	return string(actualBytes) == string(want)
}

// Remove tombstones the matching chain entry by zeroing its address; the
// entry stays in the chain so the next pointers behind it remain valid.
func (d *Disk) Remove(_ context.Context, keyValue any) error {
	key, err := index.Encode(d.keyType, index.Space32, keyValue)
	if err != nil {
		return err
	}
	want, err := index.CanonicalBytes(d.keyType, keyValue)
	if err != nil {
		return err
	}

	head, err := d.tree.Get(key)
	if err != nil {
		return err
	}
	if head == 0 {
		return gerrors.NewKeyNotFoundError(d.name, string(want))
	}

	pos := head - 1
	for {
		raw, err := d.records.ReadAt(int64(pos), entrySize)
		if err != nil {
			return err
		}
		addr, next, err := decodeEntry(raw)
		if err != nil {
			return err
		}

		if !addr.IsZero() {
			payload, err := d.view.Read(addr)
			if err != nil {
				return err
			}
			if d.fieldMatches(payload, want) {
				return d.records.WriteAt(int64(pos), make([]byte, view.AddressSize))
			}
		}

		if next == 0 {
			return gerrors.NewKeyNotFoundError(d.name, string(want))
		}
		pos = next - 1
	}
}

// Range is unsupported: a 32-bit hash carries no relationship to key
// order.
func (d *Disk) Range(_ context.Context, _ bool, _ func(uint64) (bool, error)) error {
	return gerrors.NewUnsupportedError(d.name, "Range")
}
