package errors

// GeError is a specialized error type for Ge-container-file operations:
// create, recover, append, read, write-at and description updates. It
// embeds baseError to inherit standard error functionality, then adds the
// file-location context needed to diagnose a Corrupt or Io failure.
type GeError struct {
	*baseError
	path     string // Path of the Ge file that caused the issue.
	fileName string // Base name of the file.
	tag      string // Expected or observed file tag (view, index, record, ...).
	offset   int64  // Byte offset within the file where the problem happened.
}

// NewGeError creates a new Ge-file-specific error.
func NewGeError(err error, code ErrorCode, msg string) *GeError {
	return &GeError{baseError: NewBaseError(err, code, msg)}
}

// WithPath captures which path was being processed when the error occurred.
func (ge *GeError) WithPath(path string) *GeError {
	ge.path = path
	return ge
}

// WithFileName captures which file was being processed when the error occurred.
func (ge *GeError) WithFileName(fileName string) *GeError {
	ge.fileName = fileName
	return ge
}

// WithTag records the file's tag (or the tag the caller expected).
func (ge *GeError) WithTag(tag string) *GeError {
	ge.tag = tag
	return ge
}

// WithOffset records the byte position where the error occurred.
func (ge *GeError) WithOffset(offset int64) *GeError {
	ge.offset = offset
	return ge
}

// WithDetail adds contextual information while maintaining the GeError type.
func (ge *GeError) WithDetail(key string, value any) *GeError {
	ge.baseError.WithDetail(key, value)
	return ge
}

// Path returns the path of the file that was being processed.
func (ge *GeError) Path() string { return ge.path }

// FileName returns the name of the file that was being processed.
func (ge *GeError) FileName() string { return ge.fileName }

// Tag returns the file tag involved in the error.
func (ge *GeError) Tag() string { return ge.tag }

// Offset returns the byte offset within the file where the error happened.
func (ge *GeError) Offset() int64 { return ge.offset }

// NewCorruptError builds the standard Corrupt error for a sentinel, length,
// or alignment mismatch.
func NewCorruptError(path string, cause error) *GeError {
	return NewGeError(cause, ErrorCodeCorrupt, "ge file is corrupt").WithPath(path)
}

// NewWrongTagError builds the standard error for a tag mismatch on recover.
func NewWrongTagError(path, expected, actual string) *GeError {
	return NewGeError(nil, ErrorCodeWrongTag, "ge file tag mismatch").
		WithPath(path).
		WithDetail("expected", expected).
		WithDetail("actual", actual)
}
