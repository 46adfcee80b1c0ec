package errors

// IndexError provides specialized error handling for index-related operations
// across all four engines (Disk, Sequence, Increment, Block). It extends the
// base error system with index-specific context while properly supporting
// method chaining through all base error methods.
type IndexError struct {
	// Embed the base error to inherit all standard error functionality
	// including error chaining, structured details, and error codes.
	*baseError

	// Identifies which key was being processed when the error occurred.
	key string

	// Identifies which index the error occurred in (view-scoped name).
	indexName string

	// Describes what index operation was being performed when the error
	// occurred (e.g., "Get", "Put", "Remove", "Range").
	operation string
}

// NewIndexError creates a new index-specific error with the provided context.
func NewIndexError(err error, code ErrorCode, msg string) *IndexError {
	return &IndexError{
		baseError: NewBaseError(err, code, msg),
	}
}

// Override base error methods to return *IndexError instead of *baseError.

// WithMessage updates the error message while maintaining the IndexError type.
func (ie *IndexError) WithMessage(msg string) *IndexError {
	ie.baseError.WithMessage(msg)
	return ie
}

// WithCode sets the error code while preserving the IndexError type.
func (ie *IndexError) WithCode(code ErrorCode) *IndexError {
	ie.baseError.WithCode(code)
	return ie
}

// WithDetail adds contextual information while maintaining the IndexError type.
func (ie *IndexError) WithDetail(key string, value any) *IndexError {
	ie.baseError.WithDetail(key, value)
	return ie
}

// WithKey records which key was being processed when the error occurred.
func (ie *IndexError) WithKey(key string) *IndexError {
	ie.key = key
	return ie
}

// WithIndexName records which index raised the error.
func (ie *IndexError) WithIndexName(name string) *IndexError {
	ie.indexName = name
	return ie
}

// WithOperation records what index operation was being performed.
func (ie *IndexError) WithOperation(operation string) *IndexError {
	ie.operation = operation
	return ie
}

// Key returns the key that was being processed when the error occurred.
func (ie *IndexError) Key() string {
	return ie.key
}

// IndexName returns the index name associated with the error.
func (ie *IndexError) IndexName() string {
	return ie.indexName
}

// Operation returns the name of the operation that was being performed.
func (ie *IndexError) Operation() string {
	return ie.operation
}

// NewKeyNotFoundError creates a specialized error for missing keys.
func NewKeyNotFoundError(indexName, key string) *IndexError {
	return NewIndexError(nil, ErrorCodeNotFound, "key not found in index").
		WithIndexName(indexName).
		WithKey(key).
		WithOperation("Get")
}

// NewDuplicateKeyError creates a specialized error for unique-index violations
// raised by the unique engines (Sequence, Increment, Block) when a key is
// already taken.
func NewDuplicateKeyError(indexName, key string) *IndexError {
	return NewIndexError(nil, ErrorCodeDuplicateKey, "key already exists in unique index").
		WithIndexName(indexName).
		WithKey(key).
		WithOperation("Put")
}

// NewBadKeyError creates a specialized error for keys that cannot be encoded,
// such as a float key carrying NaN.
func NewBadKeyError(indexName, key string, cause error) *IndexError {
	return NewIndexError(cause, ErrorCodeBadKey, "key cannot be encoded").
		WithIndexName(indexName).
		WithKey(key)
}

// NewUnsupportedError creates a specialized error for a capability an engine
// doesn't offer, e.g. Range on the Disk engine or Remove on the Block engine.
func NewUnsupportedError(indexName, operation string) *IndexError {
	return NewIndexError(nil, ErrorCodeUnsupported, "operation unsupported by this index engine").
		WithIndexName(indexName).
		WithOperation(operation)
}
