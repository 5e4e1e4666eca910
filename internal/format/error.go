package format

import "errors"

var (
	// ErrUnknownFormat occurs when a textual name does not resolve to any
	// known [PixelFormat].
	ErrUnknownFormat = errors.New("unknown pixel format")

	// ErrShortSample occurs when fewer bytes are given than a single sample
	// of a [PixelFormat] occupies.
	ErrShortSample = errors.New("sample buffer too short")
)
