// Package increment implements George's monotonic counter index engine:
// every Put is assigned the next unused uint64 key automatically, the way
// an auto-increment primary key column works.
package increment

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/aberic-labs/george/internal/ge"
	"github.com/aberic-labs/george/internal/index"
	gerrors "github.com/aberic-labs/george/pkg/errors"
)

// Increment is George's auto-incrementing unique index engine.
type Increment struct {
	name string
	file *ge.File
	tree *index.Tree
	next atomic.Uint64
}

// Create creates a new increment index file at path, starting its counter
// at 1.
func Create(path, name string) (*Increment, error) {
	f, err := ge.Create(path, ge.TagIndex, ge.Description{
		Name:       name,
		KeyType:    ge.KeyTypeUInt,
		Engine:     ge.EngineIncrement,
		Unique:     true,
		CreateTime: time.Now(),
	})
	if err != nil {
		return nil, err
	}
	return open(f, name, 1)
}

// Recover opens an existing increment index file, recovering its next
// counter value by walking the rightmost (largest-key) path of the tree:
// no separate counter is persisted, since the tree itself already records
// every key ever issued.
func Recover(path string) (*Increment, error) {
	f, err := ge.Recover(path, ge.TagIndex)
	if err != nil {
		return nil, err
	}
	desc, err := f.Description()
	if err != nil {
		f.Close()
		return nil, err
	}

	tree, err := index.NewTree(f, index.Space64)
	if err != nil {
		f.Close()
		return nil, err
	}

	next := uint64(1)
	err = tree.Range(false, func(encoded uint64, _ uint64) (bool, error) {
		next = encoded + 1
		return false, nil
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	inc := &Increment{name: desc.Name, file: f, tree: tree}
	inc.next.Store(next)
	return inc, nil
}

func open(f *ge.File, name string, start uint64) (*Increment, error) {
	tree, err := index.NewTree(f, index.Space64)
	if err != nil {
		f.Close()
		return nil, err
	}
	inc := &Increment{name: name, file: f, tree: tree}
	inc.next.Store(start)
	return inc, nil
}

func (i *Increment) Name() string { return i.name }

func (i *Increment) Close() error { return i.file.Close() }

// Allocate reserves and returns the next counter value without writing
// anything; the caller is expected to Put it immediately after appending
// the row it addresses.
func (i *Increment) Allocate(_ context.Context) (uint64, error) {
	return i.next.Add(1) - 1, nil
}

// Put records offset under key, normally one returned by Allocate. Like
// the other unique engines, it returns DuplicateKey if key already holds
// an entry and force is false; with force it overwrites the entry.
func (i *Increment) Put(_ context.Context, keyValue any, offset uint64, force bool) error {
	key := index.Key{Encoded: keyValue.(uint64), Space: index.Space64}
	previous, err := i.tree.Put(key, offset+1)
	if err != nil {
		return err
	}
	if previous != 0 && !force {
		if _, rerr := i.tree.Put(key, previous); rerr != nil {
			return rerr
		}
		return gerrors.NewDuplicateKeyError(i.name, "")
	}
	return nil
}

func (i *Increment) Get(_ context.Context, keyValue any) (uint64, error) {
	key := index.Key{Encoded: keyValue.(uint64), Space: index.Space64}
	stored, err := i.tree.Get(key)
	if err != nil {
		return 0, err
	}
	if stored == 0 {
		return 0, gerrors.NewKeyNotFoundError(i.name, "")
	}
	return stored - 1, nil
}

func (i *Increment) Remove(_ context.Context, keyValue any) error {
	key := index.Key{Encoded: keyValue.(uint64), Space: index.Space64}
	previous, err := i.tree.Remove(key)
	if err != nil {
		return err
	}
	if previous == 0 {
		return gerrors.NewKeyNotFoundError(i.name, "")
	}
	return nil
}

func (i *Increment) Range(_ context.Context, ascending bool, visit func(offset uint64) (bool, error)) error {
	return i.tree.Range(ascending, func(_ uint64, value uint64) (bool, error) {
		if value == 0 {
			return true, nil
		}
		return visit(value - 1)
	})
}
