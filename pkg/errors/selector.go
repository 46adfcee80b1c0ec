package errors

// SelectorError reports a malformed or unsatisfiable query condition: a
// comparison against a field of the wrong type, an unknown operator, or a
// condition whose bounds exceed what the selector is willing to evaluate.
type SelectorError struct {
	*baseError

	// field identifies the JSON field path the condition referenced.
	field string

	// op identifies the comparison operator involved (e.g. "eq", "in", "gt").
	op string
}

// NewSelectorError creates a new selector-specific error.
func NewSelectorError(err error, code ErrorCode, msg string) *SelectorError {
	return &SelectorError{baseError: NewBaseError(err, code, msg)}
}

// WithMessage updates the error message while maintaining the SelectorError type.
func (se *SelectorError) WithMessage(msg string) *SelectorError {
	se.baseError.WithMessage(msg)
	return se
}

// WithCode sets the error code while preserving the SelectorError type.
func (se *SelectorError) WithCode(code ErrorCode) *SelectorError {
	se.baseError.WithCode(code)
	return se
}

// WithDetail adds contextual information while maintaining the SelectorError type.
func (se *SelectorError) WithDetail(key string, value any) *SelectorError {
	se.baseError.WithDetail(key, value)
	return se
}

// WithField records which field path the condition referenced.
func (se *SelectorError) WithField(field string) *SelectorError {
	se.field = field
	return se
}

// WithOp records which operator was involved.
func (se *SelectorError) WithOp(op string) *SelectorError {
	se.op = op
	return se
}

// Field returns the field path the condition referenced.
func (se *SelectorError) Field() string { return se.field }

// Op returns the operator involved in the error.
func (se *SelectorError) Op() string { return se.op }

// NewBadConditionError builds the standard error for a malformed condition:
// an operator applied to a field of the wrong JSON type, an unknown operator
// name, or a value of the wrong shape for the operator.
func NewBadConditionError(field, op, reason string) *SelectorError {
	return NewSelectorError(nil, ErrorCodeBadCondition, reason).
		WithField(field).
		WithOp(op)
}

// NewConditionTooLargeError builds the error returned when an "in" condition
// carries more elements than the selector will evaluate.
func NewConditionTooLargeError(field string, count, max int) *SelectorError {
	return NewSelectorError(nil, ErrorCodeBadCondition, "condition exceeds maximum element count").
		WithField(field).
		WithOp("in").
		WithDetail("count", count).
		WithDetail("max", max)
}
