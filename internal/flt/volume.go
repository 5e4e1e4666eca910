package flt

import (
	"errors"
	"fmt"
	"sync"

	"github.com/desertwitch/fltload/internal/filesystem"
	"github.com/desertwitch/fltload/internal/image"
)

// Volume is a loaded FLT volume. Its pixels are read-only views into the
// memory-mapped slice files, which stay mapped until [Volume.Close].
type Volume struct {
	sync.RWMutex
	header     *image.Header
	descriptor Descriptor
	slices     []string
	pixels     image.Image
	mappings   []*filesystem.Mapping
	closed     bool
}

// Header returns a copy of the declared header of the volume.
func (v *Volume) Header() *image.Header {
	return v.header.Clone()
}

// Descriptor returns the per-slice geometry and format.
func (v *Volume) Descriptor() Descriptor {
	return v.descriptor
}

// Slices returns the slice paths in depth order.
func (v *Volume) Slices() []string {
	return append([]string(nil), v.slices...)
}

// Row returns row y of the volume. Rows [i*height, (i+1)*height) belong to
// slice i. The returned bytes must not be used after [Volume.Close].
func (v *Volume) Row(y int) ([]byte, error) {
	v.RLock()
	defer v.RUnlock()

	if v.closed {
		return nil, fmt.Errorf("(flt-volume) %w", ErrVolumeClosed)
	}

	return v.pixels.Row(y)
}

// Close releases all slice mappings. Closing twice is a no-op.
func (v *Volume) Close() error {
	v.Lock()
	defer v.Unlock()

	if v.closed {
		return nil
	}
	v.closed = true

	return releaseMappings(v.mappings)
}

func releaseMappings(mappings []*filesystem.Mapping) error {
	var errs []error

	for _, m := range mappings {
		if err := m.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
