package loader

import "errors"

var (
	// ErrDuplicateFormat occurs when a [Format] is registered under a name
	// that is already taken.
	ErrDuplicateFormat = errors.New("format already registered")

	// ErrNoLoader occurs when no registered [Format] accepts a path.
	ErrNoLoader = errors.New("no loader for path")
)
