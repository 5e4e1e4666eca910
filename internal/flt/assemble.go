package flt

import (
	"fmt"

	"github.com/desertwitch/fltload/internal/filesystem"
	"github.com/desertwitch/fltload/internal/format"
	"github.com/desertwitch/fltload/internal/image"
)

// assemble maps every slice and joins them top to bottom into one image of
// a single band in the declared format. The slices are mapped right away; no
// pixel data is copied. On failure, slices mapped so far are released again.
func assemble(fsHandler fsProvider, desc Descriptor, paths []string) (image.Image, []*filesystem.Mapping, error) {
	size := desc.SliceSize()
	bytesPerSample := desc.Format.Size()

	mappings := make([]*filesystem.Mapping, 0, len(paths))
	planes := make([]image.Image, 0, len(paths))

	fail := func(err error) (image.Image, []*filesystem.Mapping, error) {
		releaseMappings(mappings) //nolint:errcheck

		return nil, nil, err
	}

	for _, path := range paths {
		m, err := fsHandler.MapFile(path, size)
		if err != nil {
			return fail(fmt.Errorf("(flt-assemble) %w: %w", ErrSliceOpen, err))
		}
		mappings = append(mappings, m)

		data, err := m.Bytes()
		if err != nil {
			return fail(fmt.Errorf("(flt-assemble) %w: %w", ErrSliceOpen, err))
		}

		// Each sample is read as that many uchar bands, then relabelled below.
		plane, err := image.NewRaw(data, desc.Width, desc.Height, bytesPerSample, format.Uchar)
		if err != nil {
			return fail(fmt.Errorf("(flt-assemble) %w: %s: %w", ErrSliceOpen, path, err))
		}
		planes = append(planes, plane)
	}

	joined, err := image.Join(planes...)
	if err != nil {
		return fail(fmt.Errorf("(flt-assemble) %w: %w", ErrConversion, err))
	}

	pixels, err := image.Reinterpret(joined, desc.Format, 1)
	if err != nil {
		return fail(fmt.Errorf("(flt-assemble) %w: %w", ErrConversion, err))
	}

	return pixels, mappings, nil
}
