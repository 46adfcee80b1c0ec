package errors

// ErrorCode represents a standardized way to categorize different types of errors.
type ErrorCode string

// Base error codes represent the fundamental categories of failures that can
// occur across any layer of the engine.
const (
	// ErrorCodeIO represents failures in input/output operations: reading or
	// writing Ge files, record files, or view files.
	ErrorCodeIO ErrorCode = "IO_ERROR"

	// ErrorCodeInvalidInput represents client-side errors where provided
	// data doesn't meet the system's requirements or constraints.
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrorCodeInternal represents unexpected system failures that don't fit
	// into other categories.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"

	// ErrorCodeTimeout indicates a caller-supplied deadline elapsed before
	// an operation completed. The index engines and the view do not check
	// deadlines, and no operation in the engine returns this code.
	ErrorCodeTimeout ErrorCode = "TIMEOUT"

	// ErrorCodeNotFound indicates a key or entity is absent.
	ErrorCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrorCodeExists indicates a create on top of an already-existing entity.
	ErrorCodeExists ErrorCode = "EXISTS"

	// ErrorCodePermissionDenied indicates insufficient permissions to access
	// a data-directory path.
	ErrorCodePermissionDenied ErrorCode = "PERMISSION_DENIED"

	// ErrorCodeDiskFull indicates the storage device has run out of space.
	ErrorCodeDiskFull ErrorCode = "DISK_FULL"

	// ErrorCodeFilesystemReadonly indicates the filesystem is mounted read-only.
	ErrorCodeFilesystemReadonly ErrorCode = "FILESYSTEM_READONLY"
)

// Ge-file-specific error codes.
const (
	// ErrorCodeCorrupt indicates a sentinel, length, or alignment mismatch on
	// a Ge file. The operation is refused and the file itself is left
	// untouched so an operator can inspect it.
	ErrorCodeCorrupt ErrorCode = "GE_CORRUPT"

	// ErrorCodeWrongTag indicates the file's tag byte doesn't match what the
	// caller expected (e.g. recovering a view.ge file as an index).
	ErrorCodeWrongTag ErrorCode = "GE_WRONG_TAG"

	// ErrorCodeOutOfRange indicates a read past EOF.
	ErrorCodeOutOfRange ErrorCode = "GE_OUT_OF_RANGE"
)

// Index-specific error codes.
const (
	// ErrorCodeDuplicateKey is a unique-index violation.
	ErrorCodeDuplicateKey ErrorCode = "INDEX_DUPLICATE_KEY"

	// ErrorCodeBadKey indicates an un-hashable or malformed key (e.g. NaN).
	ErrorCodeBadKey ErrorCode = "INDEX_BAD_KEY"

	// ErrorCodeUnsupported indicates a capability an engine doesn't offer,
	// e.g. Range on the Disk engine.
	ErrorCodeUnsupported ErrorCode = "INDEX_UNSUPPORTED_OPERATION"
)

// Seed-specific error codes.
const (
	// ErrorCodePartial indicates the view append succeeded but one or more
	// index updates failed; the row exists but may be unindexed.
	ErrorCodePartial ErrorCode = "SEED_PARTIAL_WRITE"
)

// Selector-specific error codes.
const (
	// ErrorCodeBadCondition indicates a type mismatch or malformed condition.
	ErrorCodeBadCondition ErrorCode = "SELECTOR_BAD_CONDITION"
)
