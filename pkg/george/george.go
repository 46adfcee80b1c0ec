// Package george is George's public entry point. An Instance owns the
// master registry and the bounded dispatcher pool that reads, writes and
// queries run through, and translates the wire Constraint-JSON query shape into the
// internal selector package's types.
package george

import (
	"context"

	"github.com/aberic-labs/george/internal/ge"
	"github.com/aberic-labs/george/internal/master"
	"github.com/aberic-labs/george/internal/pool"
	"github.com/aberic-labs/george/internal/selector"
	"github.com/aberic-labs/george/internal/view"
	"github.com/aberic-labs/george/pkg/logger"
	"github.com/aberic-labs/george/pkg/options"
)

// Instance is the primary entry point for interacting with George. Put,
// Get, Remove and Select dispatch through a bounded worker pool, distinct
// from the per-write index fan-out pool each view's seed coordinator runs
// internally; the other methods call the master registry directly.
type Instance struct {
	master  *master.Master
	options *options.Options
	pool    *pool.Pool
}

// NewInstance opens (creating if absent) a George data directory,
// recovering any databases/views/indexes already on disk, and returns a
// ready-to-use Instance.
func NewInstance(ctx context.Context, service string, opts ...options.OptionFunc) (*Instance, error) {
	log := logger.New(service)

	defaultOpts := options.NewDefaultOptions()
	for _, opt := range opts {
		opt(&defaultOpts)
	}

	m, err := master.Open(ctx, &master.Config{Options: &defaultOpts, Logger: log})
	if err != nil {
		return nil, err
	}

	return &Instance{
		master:  m,
		options: &defaultOpts,
		pool:    pool.New(defaultOpts.PoolSize),
	}, nil
}

// CreateDatabase registers a new, empty database.
func (i *Instance) CreateDatabase(ctx context.Context, name string) error {
	_, err := i.master.CreateDatabase(ctx, name)
	return err
}

// IndexSpec describes one index to create on a view.
type IndexSpec struct {
	Name    string
	KeyType ge.KeyType
	Engine  ge.Engine
	Primary bool
}

// CreateView registers a new view under db and creates every index named
// in indexes. Exactly one index should be marked Primary; View.Remove
// depends on it to know which index to read a row back through.
func (i *Instance) CreateView(ctx context.Context, db, viewName string, indexes []IndexSpec) error {
	v, err := i.master.CreateView(ctx, db, viewName)
	if err != nil {
		return err
	}
	for _, spec := range indexes {
		if err := v.CreateIndex(i.options.DataDir, db, spec.Name, spec.KeyType, spec.Engine, spec.Primary); err != nil {
			return err
		}
	}
	return nil
}

// Put writes a JSON row into db/viewName, fanning it out to every index
// registered on the view. force controls whether a unique-index collision
// is an error (false) or an overwrite (true).
func (i *Instance) Put(ctx context.Context, db, viewName string, payload []byte, force bool) (view.Address, error) {
	var addr view.Address
	var opErr error

	dispatchErr := i.pool.Run(ctx, func(ctx context.Context) error {
		v, err := i.lookupView(db, viewName)
		if err != nil {
			opErr = err
			return err
		}
		addr, opErr = v.Put(ctx, payload, force)
		return opErr
	})
	if dispatchErr != nil && opErr == nil {
		opErr = dispatchErr
	}
	return addr, opErr
}

// Get resolves keyValue through indexName and returns the matching row's
// payload and address.
func (i *Instance) Get(ctx context.Context, db, viewName, indexName string, keyValue any) ([]byte, view.Address, error) {
	var payload []byte
	var addr view.Address
	var opErr error

	dispatchErr := i.pool.Run(ctx, func(ctx context.Context) error {
		v, err := i.lookupView(db, viewName)
		if err != nil {
			opErr = err
			return err
		}
		payload, addr, opErr = v.Get(ctx, indexName, keyValue)
		return opErr
	})
	if dispatchErr != nil && opErr == nil {
		opErr = dispatchErr
	}
	return payload, addr, opErr
}

// Remove deletes the row addressed by primaryKeyValue from every index
// that references it.
func (i *Instance) Remove(ctx context.Context, db, viewName string, primaryKeyValue any) error {
	var opErr error

	dispatchErr := i.pool.Run(ctx, func(ctx context.Context) error {
		v, err := i.lookupView(db, viewName)
		if err != nil {
			opErr = err
			return err
		}
		opErr = v.Remove(ctx, primaryKeyValue)
		return opErr
	})
	if dispatchErr != nil && opErr == nil {
		opErr = dispatchErr
	}
	return opErr
}

// ConditionSpec is one wire-shaped query clause.
type ConditionSpec struct {
	Param string `json:"Param"`
	Cond  string `json:"Cond"`
	Value any    `json:"Value"`
}

// SortSpec carries a query's sort settings. Select reads only Asc, which
// sets the traversal direction of whichever index the conditions pick to
// drive the query; Param is not read and does not choose the index.
type SortSpec struct {
	Param string `json:"Param"`
	Asc   bool   `json:"Asc"`
}

// Constraint is the wire shape a query request carries: an AND-ed list of
// conditions, an optional sort field, and skip/limit paging.
type Constraint struct {
	Conditions []ConditionSpec `json:"Conditions"`
	Sort       *SortSpec       `json:"Sort,omitempty"`
	Skip       uint64          `json:"Skip,omitempty"`
	Limit      uint64          `json:"Limit,omitempty"`
}

// QueryResult is a query's reported output shape. Total counts every row
// examined before filtering; Count is the number returned after
// skip/limit.
type QueryResult struct {
	Total  uint64   `json:"Total"`
	Count  uint64   `json:"Count"`
	Index  string   `json:"Index"`
	Asc    bool     `json:"Asc"`
	Values [][]byte `json:"Values"`
}

// Select runs a Constraint query against db/viewName.
func (i *Instance) Select(ctx context.Context, db, viewName string, constraint Constraint) (*QueryResult, error) {
	sel := toSelector(constraint)

	asc := true
	if constraint.Sort != nil {
		asc = constraint.Sort.Asc
	}

	var result *master.SelectResult
	var opErr error

	dispatchErr := i.pool.Run(ctx, func(ctx context.Context) error {
		v, err := i.lookupView(db, viewName)
		if err != nil {
			opErr = err
			return err
		}
		result, opErr = v.Select(ctx, sel, asc, constraint.Skip, constraint.Limit)
		return opErr
	})
	if dispatchErr != nil && opErr == nil {
		opErr = dispatchErr
	}
	if opErr != nil {
		return nil, opErr
	}

	return &QueryResult{
		Total:  result.Total,
		Count:  result.Count,
		Index:  result.Index,
		Asc:    result.Asc,
		Values: result.Values,
	}, nil
}

// Reindex repairs a view whose last write reported Partial, re-deriving
// and filling in any index entry a row's payload still accounts for.
func (i *Instance) Reindex(ctx context.Context, db, viewName string) error {
	return i.master.Reindex(ctx, db, viewName)
}

// Close closes the master registry, releasing its open database, view,
// and index files. It does not wait for or cancel requests still running
// in the dispatcher pool.
func (i *Instance) Close(context.Context) error {
	return i.master.Close()
}

func (i *Instance) lookupView(db, viewName string) (*master.View, error) {
	database, err := i.master.Database(db)
	if err != nil {
		return nil, err
	}
	return database.View(viewName)
}

func toSelector(c Constraint) selector.Selector {
	conditions := make([]selector.Condition, 0, len(c.Conditions))
	for _, spec := range c.Conditions {
		conditions = append(conditions, selector.Condition{
			Field: spec.Param,
			Op:    selector.Comparator(spec.Cond),
			Value: spec.Value,
		})
	}
	return selector.Selector{Conditions: conditions}
}
