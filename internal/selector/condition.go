// Package selector implements George's query layer: conditions evaluated
// against a row's JSON payload, and a planner that picks an index to drive
// iteration instead of a full view scan when one is available. Field
// extraction uses github.com/goccy/go-json, the same library internal/ge
// uses for description blobs, keeping the engine on one JSON
// implementation throughout.
package selector

import (
	"github.com/goccy/go-json"

	gerrors "github.com/aberic-labs/george/pkg/errors"
)

// MaxInElements bounds the `in` operator's element count: an unbounded
// `in` clause would let a single query force an arbitrarily large number
// of comparisons, so it's capped the way fixed on-disk table sizes are
// capped elsewhere in this engine.
const MaxInElements = 1024

// Comparator identifies how a Condition compares a field to its value.
type Comparator string

const (
	Eq Comparator = "eq"
	Ne Comparator = "ne"
	Gt Comparator = "gt"
	Ge Comparator = "ge"
	Lt Comparator = "lt"
	Le Comparator = "le"
	In Comparator = "in"
)

// Condition is one field/operator/value constraint. Field is a dotted
// path into the row's JSON document (e.g. "address.city").
type Condition struct {
	Field string
	Op    Comparator
	Value any
}

// Validate rejects malformed conditions before they ever reach planning or
// evaluation: an unknown operator, or an `in` clause with too many or too
// few elements.
func (c Condition) Validate() error {
	switch c.Op {
	case Eq, Ne, Gt, Ge, Lt, Le:
		return nil
	case In:
		values, ok := c.Value.([]any)
		if !ok {
			return gerrors.NewBadConditionError(c.Field, string(c.Op), "in requires a list of values")
		}
		if len(values) == 0 {
			return gerrors.NewBadConditionError(c.Field, string(c.Op), "in requires at least one value")
		}
		if len(values) > MaxInElements {
			return gerrors.NewConditionTooLargeError(c.Field, len(values), MaxInElements)
		}
		return nil
	default:
		return gerrors.NewBadConditionError(c.Field, string(c.Op), "unknown comparator")
	}
}

// Selector is an ordered set of conditions, all of which must match (a
// logical AND) for a row to be selected.
type Selector struct {
	Conditions []Condition
}

// Validate checks every condition in the selector.
func (s Selector) Validate() error {
	for _, c := range s.Conditions {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Match parses payload as JSON and reports whether every condition holds.
func (s Selector) Match(payload []byte) (bool, error) {
	var doc map[string]any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return false, gerrors.NewSelectorError(err, gerrors.ErrorCodeInvalidInput, "row payload is not valid JSON")
	}
	for _, c := range s.Conditions {
		ok, err := evaluate(c, doc)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func evaluate(c Condition, doc map[string]any) (bool, error) {
	actual, found := lookup(doc, c.Field)

	switch c.Op {
	case Eq:
		return found && equal(actual, c.Value), nil
	case Ne:
		return !found || !equal(actual, c.Value), nil
	case In:
		if !found {
			return false, nil
		}
		values, _ := c.Value.([]any)
		for _, v := range values {
			if equal(actual, v) {
				return true, nil
			}
		}
		return false, nil
	case Gt, Ge, Lt, Le:
		if !found {
			return false, nil
		}
		cmp, ok := compare(actual, c.Value)
		if !ok {
			return false, gerrors.NewBadConditionError(c.Field, string(c.Op), "values are not comparable")
		}
		switch c.Op {
		case Gt:
			return cmp > 0, nil
		case Ge:
			return cmp >= 0, nil
		case Lt:
			return cmp < 0, nil
		case Le:
			return cmp <= 0, nil
		}
	}
	return false, gerrors.NewBadConditionError(c.Field, string(c.Op), "unknown comparator")
}

// lookup resolves a dotted field path against a decoded JSON document.
func lookup(doc map[string]any, field string) (any, bool) {
	var current any = doc
	start := 0
	for i := 0; i <= len(field); i++ {
		if i == len(field) || field[i] == '.' {
			segment := field[start:i]
			m, ok := current.(map[string]any)
			if !ok {
				return nil, false
			}
			v, ok := m[segment]
			if !ok {
				return nil, false
			}
			current = v
			start = i + 1
		}
	}
	return current, true
}

func equal(a, b any) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af == bf
	}
	return a == b
}

// compare returns -1/0/1 for a</b, a==b, a>b, and false if the two values
// aren't both numeric or both strings.
func compare(a, b any) (int, bool) {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			switch {
			case af < bf:
				return -1, true
			case af > bf:
				return 1, true
			default:
				return 0, true
			}
		}
		return 0, false
	}
	if as, aok := a.(string); aok {
		if bs, bok := b.(string); bok {
			switch {
			case as < bs:
				return -1, true
			case as > bs:
				return 1, true
			default:
				return 0, true
			}
		}
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
