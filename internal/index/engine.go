package index

import "context"

// Engine is the capability set every index engine exposes. An engine only
// ever deals in view-file byte offsets, never payloads: reconstructing a
// full view.Address (and reading the row) is the write coordinator's job,
// since that's the layer that holds both the index and its view open.
// Disk returns Unsupported from Range: its 32-bit hashed space carries no
// useful order. Sequence, Increment and Block all support Range.
type Engine interface {
	// Name reports the index's configured name.
	Name() string

	// Put inserts or updates the row at keyValue, pointing it at the view
	// offset. Unique engines (Sequence, Increment, Block) return
	// DuplicateKey if keyValue already exists and force is false.
	Put(ctx context.Context, keyValue any, offset uint64, force bool) error

	// Get resolves keyValue to the view offset it was last Put at, or
	// NotFound if it was never written or was Removed.
	Get(ctx context.Context, keyValue any) (offset uint64, err error)

	// Remove deletes keyValue's entry, returning NotFound if absent.
	Remove(ctx context.Context, keyValue any) error

	// Range visits every live entry in key order, stopping early if visit
	// returns keepGoing = false. It returns Unsupported on engines with
	// no meaningful order.
	Range(ctx context.Context, ascending bool, visit func(offset uint64) (keepGoing bool, err error)) error

	// Close releases the engine's underlying file handles.
	Close() error
}

// Allocator is implemented by engines that assign their own keys, rather
// than accepting a caller-supplied one. Only the Increment engine does
// this today; the write coordinator type-switches for it before Put.
type Allocator interface {
	Allocate(ctx context.Context) (uint64, error)
}
