// This package addresses the fundamental challenge that generic error handling presents in complex
// systems: when an error occurs, developers and operators need much more than just "something went wrong."
// They need to understand exactly what failed, why it failed, where it failed, and most importantly,
// what they can do about it. This package transforms error handling from reactive debugging into
// proactive problem resolution.
//
// Architecture and Design Philosophy:
//
// The error system is built around a hierarchical structure that starts with a foundational baseError
// and extends into domain-specific error types. This design provides several key advantages:
// it maintains consistency across all error types while allowing specialized context for different
// domains, enables rich error chaining that preserves the complete failure context, supports
// programmatic error handling through standardized error codes, and facilitates comprehensive
// logging and monitoring through structured error details.
//
// The system recognizes that the different layers of George fail in fundamentally different ways and
// require different types of contextual information for effective diagnosis and recovery. A validation
// error needs to know which field failed and what rule was violated. A Ge-file error needs to know
// which file and byte offset were involved. An index error needs to know which key and operation were
// being processed. A seed error needs to know which indexes a write failed to reach. A selector error
// needs to know which field and operator a condition referenced. By capturing this domain-specific
// context at the point of failure, the system enables much more intelligent error handling throughout
// the application stack.
//
// Error Classification and Codes:
//
// Central to this system is a comprehensive error code taxonomy that provides standardized
// categorization of failures. These codes serve multiple purposes: they enable programmatic
// error handling that doesn't rely on parsing error messages, they provide consistent
// categorization for monitoring and alerting systems, they facilitate error recovery logic
// by identifying specific failure modes, and they support internationalization by separating
// error identification from error presentation.
package errors

import (
	stdErrors "errors"
	"os"
	"syscall"
)

// IsValidationError checks if the given error is a ValidationError or contains one in its error chain.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return stdErrors.As(err, &ve)
}

// IsGeError determines if an error is related to Ge-container-file operations, such as file I/O,
// disk space issues, or sentinel/tag corruption. Ge errors often require different handling
// strategies than other error types because they may indicate hardware issues, capacity problems,
// or data integrity concerns that need immediate attention.
//
// Example usage:
//
//	if errors.IsGeError(err) {
//	    geErr, _ := errors.AsGeError(err)
//	    switch geErr.Code() {
//	    case ErrorCodeDiskFull:
//	        triggerCleanupProcedures()
//	    case ErrorCodePermissionDenied:
//	        alertAdministrator(geErr.Path())
//	    }
//	}
func IsGeError(err error) bool {
	var ge *GeError
	return stdErrors.As(err, &ge)
}

// IsIndexError identifies errors that occurred during index operations such as key lookups,
// index updates, or index recovery procedures. Index errors often provide crucial context
// about which keys were involved and what operations were being performed, which is
// essential for debugging performance issues and data consistency problems.
func IsIndexError(err error) bool {
	var ie *IndexError
	return stdErrors.As(err, &ie)
}

// IsSeedError identifies errors raised by the write coordinator, most commonly a Partial
// write where the view append succeeded but an index update did not.
func IsSeedError(err error) bool {
	var se *SeedError
	return stdErrors.As(err, &se)
}

// IsSelectorError identifies errors raised while parsing or evaluating a query condition.
func IsSelectorError(err error) bool {
	var se *SelectorError
	return stdErrors.As(err, &se)
}

// IsMasterError identifies errors raised by the registry while resolving a
// database, view or index by name.
func IsMasterError(err error) bool {
	var me *MasterError
	return stdErrors.As(err, &me)
}

// AsValidationError safely extracts a ValidationError from an error chain, providing access
// to validation-specific context such as which field failed, what rule was violated, and
// what values were provided versus expected.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if stdErrors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// AsGeError extracts GeError context from an error chain, providing access to
// Ge-file-specific information such as the path, file name, tag, and byte offset involved.
// This context is crucial for implementing recovery procedures and for providing detailed
// information to system administrators and monitoring systems.
func AsGeError(err error) (*GeError, bool) {
	var ge *GeError
	if stdErrors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}

// AsIndexError extracts IndexError context, providing access to index-specific information
// such as the key being processed, the operation being performed, and which index raised it.
func AsIndexError(err error) (*IndexError, bool) {
	var ie *IndexError
	if stdErrors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

// AsSeedError extracts SeedError context, providing access to the view name and the list
// of indexes that did not apply a write.
func AsSeedError(err error) (*SeedError, bool) {
	var se *SeedError
	if stdErrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// AsSelectorError extracts SelectorError context, providing access to the field path and
// operator involved in a malformed condition.
func AsSelectorError(err error) (*SelectorError, bool) {
	var se *SelectorError
	if stdErrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// AsMasterError extracts MasterError context, providing access to the database/view/index
// name the registry failed to resolve.
func AsMasterError(err error) (*MasterError, bool) {
	var me *MasterError
	if stdErrors.As(err, &me) {
		return me, true
	}
	return nil, false
}

// GetErrorCode extracts the error code from any error that supports it, or returns
// ErrorCodeInternal for errors that don't have specific codes. This function provides
// a consistent way to categorize errors for monitoring and handling purposes.
func GetErrorCode(err error) ErrorCode {
	if ve, ok := AsValidationError(err); ok {
		return ve.Code()
	}
	if ge, ok := AsGeError(err); ok {
		return ge.Code()
	}
	if ie, ok := AsIndexError(err); ok {
		return ie.Code()
	}
	if se, ok := AsSeedError(err); ok {
		return se.Code()
	}
	if se, ok := AsSelectorError(err); ok {
		return se.Code()
	}
	if me, ok := AsMasterError(err); ok {
		return me.Code()
	}
	return ErrorCodeInternal
}

// GetErrorDetails extracts structured details from any error that supports them,
// returning an empty map for errors without details. This function provides consistent
// access to additional error context regardless of the specific error type.
func GetErrorDetails(err error) map[string]any {
	if ve, ok := AsValidationError(err); ok {
		if details := ve.Details(); details != nil {
			return details
		}
	}
	if ge, ok := AsGeError(err); ok {
		if details := ge.Details(); details != nil {
			return details
		}
	}
	if ie, ok := AsIndexError(err); ok {
		if details := ie.Details(); details != nil {
			return details
		}
	}
	if se, ok := AsSeedError(err); ok {
		if details := se.Details(); details != nil {
			return details
		}
	}
	if se, ok := AsSelectorError(err); ok {
		if details := se.Details(); details != nil {
			return details
		}
	}
	if me, ok := AsMasterError(err); ok {
		if details := me.Details(); details != nil {
			return details
		}
	}
	return make(map[string]any)
}

// ClassifyDirectoryCreationError analyzes directory creation failures and returns
// appropriate error codes based on the underlying system error. This helps clients
// understand exactly what went wrong and how they might fix it.
func ClassifyDirectoryCreationError(err error, path string) error {
	if os.IsPermission(err) {
		return NewGeError(
			err, ErrorCodePermissionDenied,
			"insufficient permissions to create data directory",
		).WithPath(path).
			WithDetail("operation", "directory_creation").
			WithDetail("required_permission", "write").
			WithDetail("suggestion", "check directory permissions or run with elevated privileges")
	}

	if pathErr, ok := err.(*os.PathError); ok {
		if errno, ok := pathErr.Err.(syscall.Errno); ok {
			switch errno {
			case syscall.ENOSPC:
				return NewGeError(
					err, ErrorCodeDiskFull,
					"insufficient disk space to create data directory",
				).WithPath(path).
					WithDetail("operation", "directory_creation").
					WithDetail("suggestion", "free up disk space or choose a different location")
			case syscall.EROFS:
				return NewGeError(
					err, ErrorCodeFilesystemReadonly,
					"cannot create directory on read-only filesystem",
				).WithPath(path).
					WithDetail("operation", "directory_creation").
					WithDetail("suggestion", "remount filesystem with write permissions")
			}
		}
	}

	return NewGeError(
		err, ErrorCodeIO, "failed to create data directory",
	).WithPath(path).WithDetail("operation", "directory_creation")
}

// ClassifyFileOpenError analyzes Ge-file opening failures and returns appropriate
// error codes based on the underlying system error. This provides much more
// specific information than a generic I/O error.
func ClassifyFileOpenError(err error, filePath, fileName string) error {
	if os.IsPermission(err) {
		return NewGeError(
			err, ErrorCodePermissionDenied,
			"insufficient permissions to open ge file",
		).WithPath(filePath).
			WithFileName(fileName).
			WithDetail("operation", "file_open").
			WithDetail("required_permission", "read_write").
			WithDetail("suggestion", "check file permissions or run with elevated privileges")
	}

	if pathErr, ok := err.(*os.PathError); ok {
		if errno, ok := pathErr.Err.(syscall.Errno); ok {
			switch errno {
			case syscall.ENOSPC:
				return NewGeError(
					err, ErrorCodeDiskFull,
					"insufficient disk space to create ge file",
				).WithPath(filePath).
					WithFileName(fileName).
					WithDetail("operation", "file_open").
					WithDetail("suggestion", "free up disk space")
			case syscall.EROFS:
				return NewGeError(
					err, ErrorCodeFilesystemReadonly,
					"cannot create file on read-only filesystem",
				).WithPath(filePath).
					WithFileName(fileName).
					WithDetail("operation", "file_open").
					WithDetail("suggestion", "remount filesystem with write permissions")
			}
		}
	}

	return NewGeError(err, ErrorCodeIO, "failed to open ge file").
		WithPath(filePath).
		WithFileName(fileName).
		WithDetail("operation", "file_open").
		WithDetail("flags", []string{"O_CREATE", "O_RDWR"})
}

// ClassifySyncError analyzes fsync failures and returns appropriate error codes.
// Sync failures can indicate various underlying issues from disk space problems
// to filesystem corruption.
func ClassifySyncError(err error, fileName, filePath string, offset int64) error {
	if pathErr, ok := err.(*os.PathError); ok {
		if errno, ok := pathErr.Err.(syscall.Errno); ok {
			switch errno {
			case syscall.ENOSPC:
				return NewGeError(
					err, ErrorCodeDiskFull,
					"cannot sync file: insufficient disk space",
				).WithFileName(fileName).
					WithPath(filePath).
					WithOffset(offset).
					WithDetail("operation", "file_sync").
					WithDetail("suggestion", "free up disk space before continuing")
			case syscall.EROFS:
				return NewGeError(
					err, ErrorCodeFilesystemReadonly,
					"cannot sync file: filesystem is read-only",
				).WithFileName(fileName).
					WithPath(filePath).
					WithOffset(offset).
					WithDetail("operation", "file_sync").
					WithDetail("suggestion", "remount filesystem with write permissions")
			case syscall.EIO:
				return NewGeError(
					err, ErrorCodeIO,
					"i/o error during file sync, possible hardware or corruption issue",
				).WithFileName(fileName).
					WithPath(filePath).
					WithOffset(offset).
					WithDetail("operation", "file_sync").
					WithDetail("severity", "high").
					WithDetail("suggestion", "check filesystem integrity and hardware health")
			}
		}
	}

	return NewGeError(
		err, ErrorCodeIO, "failed to sync ge file to disk",
	).WithFileName(fileName).WithPath(filePath).WithOffset(offset).
		WithDetail("operation", "file_sync")
}
