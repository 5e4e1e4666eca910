package configuration

import "errors"

var (
	// ErrKeyOutsideGroup occurs when a key file holds a key=value line before
	// the first [group] header.
	ErrKeyOutsideGroup = errors.New("key outside of any group")

	// ErrMalformedGroup occurs when a group header is not closed or empty.
	ErrMalformedGroup = errors.New("malformed group header")

	// ErrMissingGroup occurs when a requested group does not exist.
	ErrMissingGroup = errors.New("group not found")

	// ErrMissingKey occurs when a requested key does not exist in its group.
	ErrMissingKey = errors.New("key not found")

	// ErrInvalidValue occurs when a value cannot be coerced to the requested
	// type.
	ErrInvalidValue = errors.New("invalid value")
)
