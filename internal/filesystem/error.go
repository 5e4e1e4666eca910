package filesystem

import "errors"

var (
	// ErrShortFile occurs when a file holds fewer bytes than are requested
	// to be mapped.
	ErrShortFile = errors.New("file is shorter than required")

	// ErrInvalidLength occurs when a mapping of zero or negative length is
	// requested.
	ErrInvalidLength = errors.New("invalid mapping length <= 0")

	// ErrNotRegular occurs when a path to be mapped is not a regular file.
	ErrNotRegular = errors.New("not a regular file")

	// ErrMappingClosed occurs when a closed [Mapping] is accessed.
	ErrMappingClosed = errors.New("mapping is closed")
)
