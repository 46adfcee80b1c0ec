package master

import (
	"context"
	"sort"
	"sync"

	"github.com/goccy/go-json"

	"github.com/aberic-labs/george/internal/ge"
	"github.com/aberic-labs/george/internal/index"
	"github.com/aberic-labs/george/internal/seed"
	"github.com/aberic-labs/george/internal/selector"
	"github.com/aberic-labs/george/internal/view"
	gerrors "github.com/aberic-labs/george/pkg/errors"
)

// indexHandle pairs a running index.Engine with the description fields a
// View needs to drive it: what key type it expects, which concrete engine
// it is (Disk can't drive a Range), and whether it's the view's primary
// index.
type indexHandle struct {
	engine  index.Engine
	keyType ge.KeyType
	tag     ge.Engine
	primary bool
}

// View is a registered view: its append-only record store, the write
// coordinator fronting it and its indexes, and the schema metadata needed
// to extract index keys from a row's JSON payload. An index's key is
// always the payload's top-level field of the same name — the same
// convention internal/index/disk relies on for its own exact-match check.
type View struct {
	name string
	dir  string

	store *view.View
	seed  *seed.Seed

	mu      sync.RWMutex
	indexes map[string]*indexHandle
	primary string
}

// Name returns the view's name.
func (v *View) Name() string { return v.name }

// Indexes returns the names of every index registered on this view, sorted.
func (v *View) Indexes() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	names := make([]string, 0, len(v.indexes))
	for name := range v.indexes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PrimaryIndex returns the name of the view's primary index.
func (v *View) PrimaryIndex() string { return v.primary }

// Close releases the view's coordinator, which in turn closes the
// underlying record store and every registered index.
func (v *View) Close() error { return v.seed.Close() }

// CreateIndex adds a new index to the view, wiring it into the write
// coordinator's fan-out set. primary marks the index the query planner
// falls back to when no condition names a more specific one.
func (v *View) CreateIndex(dataDir, db string, name string, keyType ge.KeyType, engineTag ge.Engine, primary bool) error {
	v.mu.Lock()
	if _, exists := v.indexes[name]; exists {
		v.mu.Unlock()
		return gerrors.NewIndexExistsError(db, v.name, name)
	}
	v.mu.Unlock()

	path := indexPath(dataDir, db, v.name, name)
	recordPath := indexRecordPath(dataDir, db, v.name, name)
	eng, err := createEngine(path, recordPath, name, keyType, engineTag, v.store)
	if err != nil {
		return err
	}

	if primary {
		if err := v.store.SetPrimaryIndex(name); err != nil {
			return err
		}
	}

	v.mu.Lock()
	v.indexes[name] = &indexHandle{engine: eng, keyType: keyType, tag: engineTag, primary: primary}
	if primary {
		v.primary = name
	}
	v.mu.Unlock()

	v.seed.RegisterIndex(name, eng)
	return nil
}

// registerRecoveredIndex wires an index.Engine reconstructed during
// startup recovery back into the view, without touching disk.
func (v *View) registerRecoveredIndex(name string, eng index.Engine, keyType ge.KeyType, engineTag ge.Engine, primary bool) {
	v.mu.Lock()
	v.indexes[name] = &indexHandle{engine: eng, keyType: keyType, tag: engineTag, primary: primary}
	if primary {
		v.primary = name
	}
	v.mu.Unlock()
	v.seed.RegisterIndex(name, eng)
}

// Put decodes payload as JSON, derives a key for every registered index
// from its top-level field of the same name (Increment indexes need none,
// they allocate their own), and writes the row through the coordinator.
func (v *View) Put(ctx context.Context, payload []byte, force bool) (view.Address, error) {
	var doc map[string]any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return view.Address{}, gerrors.NewSelectorError(err, gerrors.ErrorCodeInvalidInput, "row payload is not valid JSON")
	}

	v.mu.RLock()
	keys := make(map[string]any, len(v.indexes))
	for name, h := range v.indexes {
		if _, isAllocator := h.engine.(index.Allocator); isAllocator {
			keys[name] = nil
			continue
		}
		if val, ok := doc[name]; ok {
			keys[name] = val
		}
	}
	v.mu.RUnlock()

	return v.seed.Create(ctx, keys, payload, force)
}

// Get resolves keyValue through the named index and returns the matching
// row's payload and address.
func (v *View) Get(ctx context.Context, indexName string, keyValue any) ([]byte, view.Address, error) {
	return v.seed.Get(ctx, indexName, keyValue)
}

// Remove deletes the row addressed by primaryKeyValue from every index
// that has an entry for it. It reads the row through the primary index
// first, so it knows which key every other index filed it under.
func (v *View) Remove(ctx context.Context, primaryKeyValue any) error {
	v.mu.RLock()
	primary := v.primary
	v.mu.RUnlock()
	if primary == "" {
		return gerrors.NewViewNotFoundError("", v.name).WithMessage("view has no primary index")
	}

	payload, _, err := v.seed.Get(ctx, primary, primaryKeyValue)
	if err != nil {
		return err
	}

	var doc map[string]any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return gerrors.NewSelectorError(err, gerrors.ErrorCodeInvalidInput, "row payload is not valid JSON")
	}

	v.mu.RLock()
	keys := make(map[string]any, len(v.indexes))
	for name := range v.indexes {
		if val, ok := doc[name]; ok {
			keys[name] = val
		}
	}
	v.mu.RUnlock()
	keys[primary] = primaryKeyValue

	return v.seed.Remove(ctx, keys)
}

// SelectResult reports a query's total candidates examined, the count
// actually returned after skip/limit, which index drove iteration, and
// the matched sort direction.
type SelectResult struct {
	Total  uint64
	Count  uint64
	Index  string
	Asc    bool
	Values [][]byte
}

// Select runs sel against the view, preferring a registered non-Disk index
// that a condition names to drive iteration order, falling back to a full
// view scan. Skip and limit apply to the matched stream, after filtering;
// Total counts every row examined before filtering, matched or not.
func (v *View) Select(ctx context.Context, sel selector.Selector, asc bool, skip, limit uint64) (*SelectResult, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}

	v.mu.RLock()
	rangeCapable := make(map[string]index.Engine, len(v.indexes))
	for name, h := range v.indexes {
		if h.tag != ge.EngineDisk {
			rangeCapable[name] = h.engine
		}
	}
	v.mu.RUnlock()

	src, driver := selector.Plan(sel, asc, rangeCapable)

	result := &SelectResult{Index: driver, Asc: asc}
	var matched uint64
	err := src.Each(ctx, v.store, func(_ view.Address, payload []byte) (bool, error) {
		result.Total++
		ok, err := sel.Match(payload)
		if err != nil {
			return false, err
		}
		if !ok {
			return true, nil
		}
		matched++
		if matched <= skip {
			return true, nil
		}
		if limit > 0 && result.Count >= limit {
			return false, nil
		}
		result.Values = append(result.Values, payload)
		result.Count++
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
