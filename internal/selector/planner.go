package selector

import (
	"context"
	"errors"

	"github.com/aberic-labs/george/internal/index"
	"github.com/aberic-labs/george/internal/view"
)

// Source abstracts where Execute reads candidate rows from: either one
// index's ordered Range (the fast path) or a full view.Scan (the
// fallback), so Execute doesn't need to care which one it got.
type Source interface {
	// Each visits every candidate row's payload and address, in whatever
	// order the source produces them.
	Each(ctx context.Context, view *view.View, visit func(view.Address, []byte) (keepGoing bool, err error)) error
}

// indexSource drives iteration from one ordered index instead of
// scanning the whole view.
type indexSource struct {
	engine    index.Engine
	ascending bool
}

func (s indexSource) Each(ctx context.Context, v *view.View, visit func(view.Address, []byte) (bool, error)) error {
	return s.engine.Range(ctx, s.ascending, func(offset uint64) (bool, error) {
		payload, addr, err := v.ReadOffset(offset)
		if err != nil {
			return false, err
		}
		return visit(addr, payload)
	})
}

// scanSource falls back to reading every row the view holds.
type scanSource struct{}

// errStopScan ends a view scan early once visit returns keepGoing = false.
var errStopScan = errors.New("selector: scan stopped")

func (scanSource) Each(_ context.Context, v *view.View, visit func(view.Address, []byte) (bool, error)) error {
	err := v.Scan(func(addr view.Address, payload []byte) error {
		keepGoing, err := visit(addr, payload)
		if err != nil {
			return err
		}
		if !keepGoing {
			return errStopScan
		}
		return nil
	})
	if errors.Is(err, errStopScan) {
		return nil
	}
	return err
}

// ScanDriverName is the driver name Plan reports when no condition names a
// usable index and the query falls back to a full view scan.
const ScanDriverName = "scan"

// Plan picks a Source to drive a query, and names which index (or "scan")
// drives it. It looks for a condition whose field names a range-capable
// index (one that isn't Disk, which has no useful order); lacking one, it
// falls back to a full view scan, filtering every row against the full
// selector. asc sets the chosen index's traversal direction directly —
// Execute filters every row Range produces regardless of direction, so
// the comparator doesn't constrain which way iteration can run, only
// whether the field is eligible to drive at all.
//
// rangeCapable maps index name to the index.Engine backing it, restricted
// to engines the caller knows support Range (Sequence, Increment, Block).
func Plan(sel Selector, asc bool, rangeCapable map[string]index.Engine) (Source, string) {
	for _, c := range sel.Conditions {
		eng, ok := rangeCapable[c.Field]
		if !ok {
			continue
		}
		switch c.Op {
		case Eq, Ge, Gt, Le, Lt:
			return indexSource{engine: eng, ascending: asc}, c.Field
		}
	}
	return scanSource{}, ScanDriverName
}

// Execute runs sel against v using src to produce candidates, calling
// visit for every row that fully matches. It stops early if visit returns
// keepGoing = false.
func Execute(ctx context.Context, v *view.View, sel Selector, src Source, visit func(view.Address, []byte) (bool, error)) error {
	return src.Each(ctx, v, func(addr view.Address, payload []byte) (bool, error) {
		ok, err := sel.Match(payload)
		if err != nil {
			return false, err
		}
		if !ok {
			return true, nil
		}
		return visit(addr, payload)
	})
}
