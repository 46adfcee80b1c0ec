// Package seed implements George's write coordinator: the only component
// that ever holds both a view and its indexes open together, and the only
// place a write crosses from one to the other. It is structured as a
// coordinator struct holding references to the subsystems it drives.
package seed

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/aberic-labs/george/internal/index"
	"github.com/aberic-labs/george/internal/pool"
	"github.com/aberic-labs/george/internal/view"
	gerrors "github.com/aberic-labs/george/pkg/errors"
	"github.com/aberic-labs/george/pkg/options"
	"go.uber.org/zap"
)

// Seed coordinates writes across one view and every index registered on
// it. A write is two-phase: the row is appended to the view first, then
// fanned out to each index; a failure in the second phase never rolls back
// the first; it's reported back as Partial so the caller (and eventually
// master.Reindex) knows to repair it.
//
// Per-index write locks are taken in name-sorted order on every write, so
// two concurrent writers touching the same set of indexes can never
// deadlock against each other. There is no database-wide lock here:
// Seed operates strictly inside a single view's scope.
type Seed struct {
	options *options.Options
	log     *zap.SugaredLogger
	closed  atomic.Bool

	view *view.View
	pool *pool.Pool

	mu      sync.RWMutex
	indexes map[string]index.Engine
	locks   map[string]*sync.Mutex
}

// Config holds the parameters needed to construct a Seed.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
	View    *view.View
	Indexes map[string]index.Engine
}

// New builds a coordinator over an already-open view and its indexes.
func New(_ context.Context, config *Config) (*Seed, error) {
	indexes := make(map[string]index.Engine, len(config.Indexes))
	locks := make(map[string]*sync.Mutex, len(config.Indexes))
	for name, eng := range config.Indexes {
		indexes[name] = eng
		locks[name] = &sync.Mutex{}
	}

	return &Seed{
		options: config.Options,
		log:     config.Logger,
		view:    config.View,
		pool:    pool.New(config.Options.PoolSize),
		indexes: indexes,
		locks:   locks,
	}, nil
}

// RegisterIndex adds a newly-created index to the coordinator's fan-out
// set, e.g. after a CREATE INDEX-style operation on an existing view.
func (s *Seed) RegisterIndex(name string, eng index.Engine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indexes[name] = eng
	s.locks[name] = &sync.Mutex{}
}

func (s *Seed) sortedNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.indexes))
	for name := range s.indexes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create appends payload to the view, then writes keys[name] into each
// named index, in parallel bounded by the coordinator's pool. keys that
// omit an index's name skip that index entirely — not every row need
// populate every declared index (e.g. an optional field). force controls
// whether a unique-index collision is an error or an overwrite.
//
// A Partial error carries the row's address alongside the list of indexes
// that failed: the row is durably written either way.
func (s *Seed) Create(ctx context.Context, keys map[string]any, payload []byte, force bool) (view.Address, error) {
	if s.closed.Load() {
		return view.Address{}, gerrors.NewSeedError(nil, gerrors.ErrorCodeInternal, "seed coordinator is closed")
	}

	addr, err := s.view.Append(payload)
	if err != nil {
		return view.Address{}, err
	}

	names := s.sortedNames()

	var failedMu sync.Mutex
	var failed []string

	fns := make([]func(context.Context) error, 0, len(names))
	for _, name := range names {
		name := name
		keyValue, ok := keys[name]
		if !ok {
			continue
		}
		fns = append(fns, func(ctx context.Context) error {
			s.mu.RLock()
			lock := s.locks[name]
			eng := s.indexes[name]
			s.mu.RUnlock()

			lock.Lock()
			defer lock.Unlock()

			if alloc, ok := eng.(index.Allocator); ok {
				allocated, err := alloc.Allocate(ctx)
				if err != nil {
					failedMu.Lock()
					failed = append(failed, name)
					failedMu.Unlock()
					return nil
				}
				keyValue = allocated
			}

			if err := eng.Put(ctx, keyValue, addr.Offset, force); err != nil {
				failedMu.Lock()
				failed = append(failed, name)
				failedMu.Unlock()
			}
			return nil
		})
	}

	if err := s.pool.Run(ctx, fns...); err != nil {
		return addr, err
	}

	if len(failed) > 0 {
		sort.Strings(failed)
		if s.log != nil {
			s.log.Warnw("partial write: row appended but some index updates failed",
				"view", s.view.Name(), "failedIndexes", failed)
		}
		return addr, gerrors.NewPartialWriteError(s.view.Name(), failed, nil)
	}
	return addr, nil
}

// Get resolves keyValue through the named index and reads the matching
// row back from the view.
func (s *Seed) Get(ctx context.Context, indexName string, keyValue any) ([]byte, view.Address, error) {
	s.mu.RLock()
	eng, ok := s.indexes[indexName]
	s.mu.RUnlock()
	if !ok {
		return nil, view.Address{}, gerrors.NewIndexError(nil, gerrors.ErrorCodeNotFound, "no such index").
			WithIndexName(indexName)
	}

	offset, err := eng.Get(ctx, keyValue)
	if err != nil {
		return nil, view.Address{}, err
	}
	return s.view.ReadOffset(offset)
}

// Remove deletes keys[name] from every named index that has an entry for
// it. The view record itself is left in place; a row becomes
// unreachable once no index points at it any longer, the same way a
// logical delete works throughout George.
func (s *Seed) Remove(ctx context.Context, keys map[string]any) error {
	names := s.sortedNames()

	var failed []string
	for _, name := range names {
		keyValue, ok := keys[name]
		if !ok {
			continue
		}

		s.mu.RLock()
		lock := s.locks[name]
		eng := s.indexes[name]
		s.mu.RUnlock()

		lock.Lock()
		err := eng.Remove(ctx, keyValue)
		lock.Unlock()

		if err != nil && gerrors.GetErrorCode(err) != gerrors.ErrorCodeNotFound {
			failed = append(failed, name)
		}
	}

	if len(failed) > 0 {
		return gerrors.NewPartialWriteError(s.view.Name(), failed, nil)
	}
	return nil
}

// Close releases the view and every registered index.
func (s *Seed) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	var firstErr error
	if err := s.view.Close(); err != nil {
		firstErr = err
	}
	for _, eng := range s.indexes {
		if err := eng.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
