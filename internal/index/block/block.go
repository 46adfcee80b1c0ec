// Package block implements George's append-only ledger index engine: once
// a key is written it can never be updated or removed. It is deliberately
// skeletal — no merkle-tree verification layer is built on top of it;
// Block only guarantees the write-once ordering property.
package block

import (
	"context"
	"time"

	"github.com/aberic-labs/george/internal/ge"
	"github.com/aberic-labs/george/internal/index"
	gerrors "github.com/aberic-labs/george/pkg/errors"
)

// Block is George's write-once, append-only index engine.
type Block struct {
	name    string
	keyType ge.KeyType
	file    *ge.File
	tree    *index.Tree
}

// Create creates a new block index file at path.
func Create(path, name string, keyType ge.KeyType) (*Block, error) {
	f, err := ge.Create(path, ge.TagIndex, ge.Description{
		Name:       name,
		KeyType:    keyType,
		Engine:     ge.EngineBlock,
		Unique:     true,
		CreateTime: time.Now(),
	})
	if err != nil {
		return nil, err
	}
	return open(f, name, keyType)
}

// Recover opens an existing block index file.
func Recover(path string) (*Block, error) {
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

func open(f *ge.File, name string, keyType ge.KeyType) (*Block, error) {
	tree, err := index.NewTree(f, index.Space64)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Block{name: name, keyType: keyType, file: f, tree: tree}, nil
}

func (b *Block) Name() string { return b.name }

func (b *Block) Close() error { return b.file.Close() }

func (b *Block) encode(keyValue any) (index.Key, error) {
	return index.Encode(b.keyType, index.Space64, keyValue)
}

// Put writes offset under keyValue. force is accepted for interface
// symmetry but always ignored: a ledger entry can never be overwritten,
// by anyone, once written.
func (b *Block) Put(_ context.Context, keyValue any, offset uint64, _ bool) error {
	key, err := b.encode(keyValue)
	if err != nil {
		return err
	}
	previous, err := b.tree.Put(key, offset+1)
	if err != nil {
		return err
	}
	if previous != 0 {
		if _, rerr := b.tree.Put(key, previous); rerr != nil {
			return rerr
		}
		return gerrors.NewDuplicateKeyError(b.name, keyString(keyValue))
	}
	return nil
}

func (b *Block) Get(_ context.Context, keyValue any) (uint64, error) {
	key, err := b.encode(keyValue)
	if err != nil {
		return 0, err
	}
	stored, err := b.tree.Get(key)
	if err != nil {
		return 0, err
	}
	if stored == 0 {
		return 0, gerrors.NewKeyNotFoundError(b.name, keyString(keyValue))
	}
	return stored - 1, nil
}

// Remove is unsupported: ledger entries are permanent.
func (b *Block) Remove(_ context.Context, _ any) error {
	return gerrors.NewUnsupportedError(b.name, "Remove")
}

func (b *Block) Range(_ context.Context, ascending bool, visit func(uint64) (bool, error)) error {
	return b.tree.Range(ascending, func(_ uint64, value uint64) (bool, error) {
		if value == 0 {
			return true, nil
		}
		return visit(value - 1)
	})
}

func keyString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
