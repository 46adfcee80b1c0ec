package master

import (
	"context"

	"github.com/goccy/go-json"

	"github.com/aberic-labs/george/internal/index"
	"github.com/aberic-labs/george/internal/view"
)

// Reindex repairs a view after a coordinator reports Partial: it walks
// every row in the view's record store and re-Puts any index entry that
// can't already be resolved, deriving each index's key from the row's own
// JSON fields the same way View.Put does on a fresh write. Indexes that
// allocate their own keys are left alone — whatever key they assigned at
// write time isn't recoverable from the payload alone, only from the
// index file itself, which a Partial on that index wouldn't have touched.
func (m *Master) Reindex(ctx context.Context, db, viewName string) error {
	database, err := m.Database(db)
	if err != nil {
		return err
	}
	v, err := database.View(viewName)
	if err != nil {
		return err
	}
	return v.reindex(ctx)
}

func (v *View) reindex(ctx context.Context) error {
	v.mu.RLock()
	handles := make(map[string]*indexHandle, len(v.indexes))
	for name, h := range v.indexes {
		handles[name] = h
	}
	v.mu.RUnlock()

	return v.store.Scan(func(addr view.Address, payload []byte) error {
		return v.reindexRow(ctx, addr, payload, handles)
	})
}

func (v *View) reindexRow(ctx context.Context, addr view.Address, payload []byte, handles map[string]*indexHandle) error {
	var doc map[string]any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil
	}

	for name, h := range handles {
		if _, isAllocator := h.engine.(index.Allocator); isAllocator {
			continue
		}
		keyValue, ok := doc[name]
		if !ok {
			continue
		}
		if _, err := h.engine.Get(ctx, keyValue); err == nil {
			continue
		}
		if err := h.engine.Put(ctx, keyValue, addr.Offset, true); err != nil {
			return err
		}
	}
	return nil
}
