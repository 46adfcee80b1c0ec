// Package sequence implements George's unique, sorted index engine: every
// key maps to exactly one view offset, and Range walks entries in key
// order, built on internal/index's shared fixed fan-out tree.
package sequence

import (
	"context"
	"time"

	"github.com/aberic-labs/george/internal/ge"
	"github.com/aberic-labs/george/internal/index"
	gerrors "github.com/aberic-labs/george/pkg/errors"
)

// Sequence is George's unique sorted index engine.
type Sequence struct {
	name    string
	keyType ge.KeyType
	file    *ge.File
	tree    *index.Tree
}

// Create creates a new sequence index file at path.
func Create(path, name string, keyType ge.KeyType) (*Sequence, error) {
	f, err := ge.Create(path, ge.TagIndex, ge.Description{
		Name:       name,
		KeyType:    keyType,
		Engine:     ge.EngineSequence,
		Unique:     true,
		CreateTime: time.Now(),
	})
	if err != nil {
		return nil, err
	}
	return open(f, name, keyType)
}

// Recover opens an existing sequence index file.
func Recover(path string) (*Sequence, error) {
	f, err := ge.Recover(path, ge.TagIndex)
	if err != nil {
		return nil, err
	}
	desc, err := f.Description()
	if err != nil {
		f.Close()
		return nil, err
	}
	return open(f, desc.Name, desc.KeyType)
}

func open(f *ge.File, name string, keyType ge.KeyType) (*Sequence, error) {
	tree, err := index.NewTree(f, index.Space64)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Sequence{name: name, keyType: keyType, file: f, tree: tree}, nil
}

func (s *Sequence) Name() string { return s.name }

func (s *Sequence) Close() error { return s.file.Close() }

func (s *Sequence) encode(keyValue any) (index.Key, error) {
	return index.Encode(s.keyType, index.Space64, keyValue)
}

func (s *Sequence) Put(_ context.Context, keyValue any, offset uint64, force bool) error {
	key, err := s.encode(keyValue)
	if err != nil {
		return err
	}
	previous, err := s.tree.Put(key, offset+1)
	if err != nil {
		return err
	}
	if previous != 0 && !force {
		// Roll back: the slot was occupied and the caller didn't ask to
		// overwrite it.
		if _, rerr := s.tree.Put(key, previous); rerr != nil {
			return rerr
		}
		return gerrors.NewDuplicateKeyError(s.name, keyString(keyValue))
	}
	return nil
}

func (s *Sequence) Get(_ context.Context, keyValue any) (uint64, error) {
	key, err := s.encode(keyValue)
	if err != nil {
		return 0, err
	}
	stored, err := s.tree.Get(key)
	if err != nil {
		return 0, err
	}
	if stored == 0 {
		return 0, gerrors.NewKeyNotFoundError(s.name, keyString(keyValue))
	}
	return stored - 1, nil
}

func (s *Sequence) Remove(_ context.Context, keyValue any) error {
	key, err := s.encode(keyValue)
	if err != nil {
		return err
	}
	previous, err := s.tree.Remove(key)
	if err != nil {
		return err
	}
	if previous == 0 {
		return gerrors.NewKeyNotFoundError(s.name, keyString(keyValue))
	}
	return nil
}

func (s *Sequence) Range(_ context.Context, ascending bool, visit func(offset uint64) (bool, error)) error {
	return s.tree.Range(ascending, func(_ uint64, value uint64) (bool, error) {
		if value == 0 {
			return true, nil
		}
		return visit(value - 1)
	})
}

func keyString(v any) string {
	switch k := v.(type) {
	case string:
		return k
	default:
		return ""
	}
}
