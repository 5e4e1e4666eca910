package flt

import (
	"fmt"
	"math"

	"github.com/desertwitch/fltload/internal/format"
)

// Descriptor is the geometry and pixel format shared by all slices of a
// volume, as declared by its metadata file.
type Descriptor struct {
	Width  int
	Height int
	Format format.PixelFormat
}

// SliceSize returns the number of bytes a single slice occupies.
func (d Descriptor) SliceSize() int64 {
	return int64(d.Width) * int64(d.Height) * int64(d.Format.Size())
}

// parseDescriptor reads and validates the metadata file at path. There are no
// defaults: every key must be present and valid.
func parseDescriptor(configHandler configProvider, path string) (Descriptor, error) {
	kf, err := configHandler.ReadKeyFile(path)
	if err != nil {
		return Descriptor{}, fmt.Errorf("(flt-descriptor) %w: %w", ErrConfig, err)
	}

	width, err := configHandler.KeyToInt(kf, GroupMain, KeyWidth)
	if err != nil {
		return Descriptor{}, fmt.Errorf("(flt-descriptor) %w: %w", ErrConfig, err)
	}

	height, err := configHandler.KeyToInt(kf, GroupMain, KeyHeight)
	if err != nil {
		return Descriptor{}, fmt.Errorf("(flt-descriptor) %w: %w", ErrConfig, err)
	}

	name, err := configHandler.KeyToString(kf, GroupMain, KeyFormat)
	if err != nil {
		return Descriptor{}, fmt.Errorf("(flt-descriptor) %w: %w", ErrConfig, err)
	}

	pixelFormat, err := format.Parse(name)
	if err != nil {
		return Descriptor{}, fmt.Errorf("(flt-descriptor) %w: %w", ErrConfig, err)
	}

	if width <= 0 || height <= 0 {
		return Descriptor{}, fmt.Errorf("(flt-descriptor) %w: geometry %dx%d is not positive", ErrConfig, width, height)
	}

	// A slice must be addressable as a single mapping.
	if width > math.MaxInt/height/pixelFormat.Size() {
		return Descriptor{}, fmt.Errorf("(flt-descriptor) %w: %dx%d %v slices exceed the addressable size",
			ErrConfig, width, height, pixelFormat)
	}

	return Descriptor{
		Width:  width,
		Height: height,
		Format: pixelFormat,
	}, nil
}
