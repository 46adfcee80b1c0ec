package selector

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchEq(t *testing.T) {
	sel := Selector{Conditions: []Condition{{Field: "status", Op: Eq, Value: "open"}}}
	ok, err := sel.Match([]byte(`{"status":"open"}`))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = sel.Match([]byte(`{"status":"closed"}`))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMatchNumericComparators(t *testing.T) {
	sel := Selector{Conditions: []Condition{{Field: "amount", Op: Ge, Value: float64(100)}}}

	ok, err := sel.Match([]byte(`{"amount":150}`))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = sel.Match([]byte(`{"amount":50}`))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMatchDottedFieldPath(t *testing.T) {
	sel := Selector{Conditions: []Condition{{Field: "address.city", Op: Eq, Value: "nyc"}}}
	ok, err := sel.Match([]byte(`{"address":{"city":"nyc"}}`))
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMatchInOperator(t *testing.T) {
	sel := Selector{Conditions: []Condition{{Field: "status", Op: In, Value: []any{"open", "pending"}}}}
	ok, err := sel.Match([]byte(`{"status":"pending"}`))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = sel.Match([]byte(`{"status":"closed"}`))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMatchRequiresAllConditions(t *testing.T) {
	sel := Selector{Conditions: []Condition{
		{Field: "status", Op: Eq, Value: "open"},
		{Field: "amount", Op: Gt, Value: float64(10)},
	}}
	ok, err := sel.Match([]byte(`{"status":"open","amount":5}`))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestValidateRejectsOversizedIn(t *testing.T) {
	values := make([]any, MaxInElements+1)
	for i := range values {
		values[i] = i
	}
	c := Condition{Field: "id", Op: In, Value: values}
	require.Error(t, c.Validate())
}

func TestValidateRejectsUnknownOperator(t *testing.T) {
	c := Condition{Field: "id", Op: Comparator("between")}
	require.Error(t, c.Validate())
}

func TestMatchMissingFieldIsFalseNotError(t *testing.T) {
	sel := Selector{Conditions: []Condition{{Field: "missing", Op: Eq, Value: "x"}}}
	ok, err := sel.Match([]byte(`{}`))
	require.NoError(t, err)
	require.False(t, ok)
}
