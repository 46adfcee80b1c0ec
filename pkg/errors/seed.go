package errors

// SeedError reports the outcome of a write coordinated across a view and its
// indexes. Most fields only carry meaning when Code() is ErrorCodePartial:
// the view append itself succeeded, but one or more of the view's indexes
// failed to record the new entry, leaving the row present but under-indexed.
type SeedError struct {
	*baseError

	// viewName identifies which view the write targeted.
	viewName string

	// failedIndexes lists the indexes that did not apply the write.
	failedIndexes []string
}

// NewSeedError creates a new seed-coordinator error.
func NewSeedError(err error, code ErrorCode, msg string) *SeedError {
	return &SeedError{baseError: NewBaseError(err, code, msg)}
}

// WithMessage updates the error message while maintaining the SeedError type.
func (se *SeedError) WithMessage(msg string) *SeedError {
	se.baseError.WithMessage(msg)
	return se
}

// WithCode sets the error code while preserving the SeedError type.
func (se *SeedError) WithCode(code ErrorCode) *SeedError {
	se.baseError.WithCode(code)
	return se
}

// WithDetail adds contextual information while maintaining the SeedError type.
func (se *SeedError) WithDetail(key string, value any) *SeedError {
	se.baseError.WithDetail(key, value)
	return se
}

// WithViewName records which view the write targeted.
func (se *SeedError) WithViewName(name string) *SeedError {
	se.viewName = name
	return se
}

// WithFailedIndexes records which indexes did not apply the write.
func (se *SeedError) WithFailedIndexes(names []string) *SeedError {
	se.failedIndexes = names
	return se
}

// ViewName returns the view the write targeted.
func (se *SeedError) ViewName() string { return se.viewName }

// FailedIndexes returns the names of indexes that failed to apply the write.
func (se *SeedError) FailedIndexes() []string { return se.failedIndexes }

// NewPartialWriteError builds the standard error returned when a view append
// succeeds but at least one index write fails.
func NewPartialWriteError(viewName string, failedIndexes []string, cause error) *SeedError {
	return NewSeedError(cause, ErrorCodePartial, "view record written but some indexes were not updated").
		WithViewName(viewName).
		WithFailedIndexes(failedIndexes)
}
