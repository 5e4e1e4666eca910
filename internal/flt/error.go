package flt

import (
	"errors"

	"github.com/desertwitch/fltload/internal/format"
)

var (
	// ErrDiscovery occurs when the volume directory cannot be listed.
	ErrDiscovery = errors.New("failed to list volume directory")

	// ErrMissingMetadata occurs when no metadata file exists in the volume
	// directory.
	ErrMissingMetadata = errors.New("no metadata file found")

	// ErrAmbiguousMetadata occurs when more than one metadata file exists in
	// the volume directory.
	ErrAmbiguousMetadata = errors.New("more than one metadata file found")

	// ErrConfig occurs when the metadata file is unreadable, unparsable or
	// lacks a valid required key.
	ErrConfig = errors.New("invalid volume metadata")

	// ErrUnknownFormat occurs when the metadata names an unknown pixel
	// format. Errors wrapping it also wrap [ErrConfig].
	ErrUnknownFormat = format.ErrUnknownFormat

	// ErrEmptyVolume occurs when the volume directory holds no slices.
	ErrEmptyVolume = errors.New("no slices found")

	// ErrSliceOpen occurs when a slice file is missing, unreadable or too
	// short for the declared geometry.
	ErrSliceOpen = errors.New("failed to open slice")

	// ErrConversion occurs when the joined slices cannot be presented in the
	// declared pixel format and band count.
	ErrConversion = errors.New("unsupported format conversion")

	// ErrLoaderState occurs when a [Loader] is used out of order, such as
	// loading twice.
	ErrLoaderState = errors.New("invalid loader state")

	// ErrVolumeClosed occurs when pixels of a closed [Volume] are accessed.
	ErrVolumeClosed = errors.New("volume is closed")
)
