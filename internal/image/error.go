package image

import "errors"

var (
	// ErrRowOutOfRange occurs when a row outside of an image is requested.
	ErrRowOutOfRange = errors.New("row out of range")

	// ErrInvalidGeometry occurs when an image is constructed with
	// non-positive dimensions or data of the wrong size.
	ErrInvalidGeometry = errors.New("invalid image geometry")

	// ErrIncompatible occurs when images cannot be joined or reinterpreted
	// because their pixel layouts differ.
	ErrIncompatible = errors.New("incompatible pixel layout")

	// ErrNoInputs occurs when a join is requested without any images.
	ErrNoInputs = errors.New("no input images")
)
