package index

import (
	"sync"

	"github.com/aberic-labs/george/internal/ge"
)

// Tree is a fixed fan-out trie over a key's radix-1170 digits, persisted
// as a single growable Ge file. Each node is NodeSize bytes: one cell per
// possible digit value, holding either a child node's offset or, at the
// last level, a caller-defined leaf value. A zero cell means absent. The
// root always lives immediately after the file's description blob.
//
// Every index engine (Disk, Sequence, Increment, Block) embeds a Tree and
// differs only in what it stores in the leaf cell and how it interprets a
// pre-existing value there.
type Tree struct {
	file  *ge.File
	mu    sync.Mutex
	root  int64
	depth int
}

// NewTree opens or materializes the tree rooted just past file's
// description blob. space determines the digit depth a full key path has.
func NewTree(f *ge.File, space Space) (*Tree, error) {
	return newTree(f, space.Depth())
}

// newTree is NewTree's depth-parameterized core.
func newTree(f *ge.File, depth int) (*Tree, error) {
	desc, err := f.Description()
	if err != nil {
		return nil, err
	}
	descBytes, err := desc.Marshal()
	if err != nil {
		return nil, err
	}
	base := int64(ge.HeaderSize) + int64(len(descBytes))

	t := &Tree{file: f, root: base, depth: depth}
	if f.Size() <= base {
		if _, err := t.file.Append(make([]byte, NodeSize)); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Tree) allocNode() (int64, error) {
	return t.file.Append(make([]byte, NodeSize))
}

func (t *Tree) readCell(nodeOffset int64, digit int) (uint64, error) {
	b, err := t.file.ReadAt(nodeOffset+CellOffset(digit), CellSize)
	if err != nil {
		return 0, err
	}
	return DecodeCell(b), nil
}

func (t *Tree) writeCell(nodeOffset int64, digit int, value uint64) error {
	cell := EncodeCell(value)
	return t.file.WriteAt(nodeOffset+CellOffset(digit), cell[:])
}

// descend walks every digit but the last, allocating intermediate nodes on
// the way down when create is true, and returns the final-level node's
// offset. Without create, it returns 0 as soon as a node is missing.
func (t *Tree) descend(digits []int, create bool) (int64, error) {
	node := t.root
	for _, d := range digits[:len(digits)-1] {
		child, err := t.readCell(node, d)
		if err != nil {
			return 0, err
		}
		if child == 0 {
			if !create {
				return 0, nil
			}
			newNode, err := t.allocNode()
			if err != nil {
				return 0, err
			}
			if err := t.writeCell(node, d, uint64(newNode)); err != nil {
				return 0, err
			}
			child = uint64(newNode)
		}
		node = int64(child)
	}
	return node, nil
}

// Get reads the leaf cell addressed by key. It returns 0 if any node on
// the path toward it is absent.
func (t *Tree) Get(key Key) (uint64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.getLocked(key)
}

func (t *Tree) getLocked(key Key) (uint64, error) {
	digits := key.Digits()
	node, err := t.descend(digits, false)
	if err != nil || node == 0 {
		return 0, err
	}
	return t.readCell(node, digits[len(digits)-1])
}

// Put writes value into the leaf cell addressed by key, allocating any
// missing intermediate nodes, and returns the cell's previous value so
// callers can detect a pre-existing entry.
func (t *Tree) Put(key Key, value uint64) (previous uint64, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	digits := key.Digits()
	node, err := t.descend(digits, true)
	if err != nil {
		return 0, err
	}
	leafDigit := digits[len(digits)-1]
	previous, err = t.readCell(node, leafDigit)
	if err != nil {
		return 0, err
	}
	if err := t.writeCell(node, leafDigit, value); err != nil {
		return 0, err
	}
	return previous, nil
}

// Remove zeroes the leaf cell addressed by key and returns its prior
// value. Intermediate nodes are left allocated; the tree never shrinks.
func (t *Tree) Remove(key Key) (previous uint64, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	digits := key.Digits()
	node, err := t.descend(digits, false)
	if err != nil || node == 0 {
		return 0, err
	}
	leafDigit := digits[len(digits)-1]
	previous, err = t.readCell(node, leafDigit)
	if err != nil {
		return 0, err
	}
	if previous == 0 {
		return 0, nil
	}
	return previous, t.writeCell(node, leafDigit, 0)
}

// Range walks every populated leaf cell in key order (ascending or
// descending) and calls visit with the key's reconstructed encoded value
// and the leaf's stored value. Traversal stops early if visit returns
// keepGoing = false.
func (t *Tree) Range(ascending bool, visit func(encoded uint64, value uint64) (keepGoing bool, err error)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := t.walk(t.root, 0, 0, ascending, visit)
	return err
}

func (t *Tree) walk(node int64, level int, prefix uint64, ascending bool, visit func(uint64, uint64) (bool, error)) (bool, error) {
	for i := 0; i < Fanout; i++ {
		d := i
		if !ascending {
			d = Fanout - 1 - i
		}
		child, err := t.readCell(node, d)
		if err != nil {
			return false, err
		}
		if child == 0 {
			continue
		}
		encoded := prefix*Fanout + uint64(d)
		if level == t.depth-1 {
			keepGoing, err := visit(encoded, child)
			if err != nil || !keepGoing {
				return keepGoing, err
			}
			continue
		}
		keepGoing, err := t.walk(int64(child), level+1, encoded, ascending, visit)
		if err != nil || !keepGoing {
			return keepGoing, err
		}
	}
	return true, nil
}
