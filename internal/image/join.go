package image

import (
	"fmt"
	"math"
)

// Joined is a vertical stack of images of identical width and pixel layout.
type Joined struct {
	header *Header
	inputs []Image
	starts []int
}

// Join stacks images top to bottom in the given order. All images must
// share width, band count and pixel format; nothing is resized or cast.
func Join(images ...Image) (*Joined, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("(image-join) %w", ErrNoInputs)
	}

	first := images[0].Header()
	starts := make([]int, len(images))
	height := 0

	for i, img := range images {
		h := img.Header()
		if h.Width != first.Width || h.Bands != first.Bands || h.Format != first.Format {
			return nil, fmt.Errorf("(image-join) %w: input %d is %dx%d %d-band %v, want width %d %d-band %v",
				ErrIncompatible, i, h.Width, h.Height, h.Bands, h.Format, first.Width, first.Bands, first.Format)
		}
		if h.Height <= 0 {
			return nil, fmt.Errorf("(image-join) %w: input %d has height %d", ErrInvalidGeometry, i, h.Height)
		}
		if height > math.MaxInt-h.Height || !addressable(first.Width, height+h.Height, first.PixelSize()) {
			return nil, fmt.Errorf("(image-join) %w: input %d exceeds the addressable size", ErrInvalidGeometry, i)
		}
		starts[i] = height
		height += h.Height
	}

	return &Joined{
		header: &Header{
			Width:  first.Width,
			Height: height,
			Bands:  first.Bands,
			Format: first.Format,
			Demand: first.Demand,
			Meta:   NewMetadata(),
		},
		inputs: images,
		starts: starts,
	}, nil
}

// Header returns the header of the stack.
func (j *Joined) Header() *Header {
	return j.header
}

// Row returns row y, taken from whichever input covers it.
func (j *Joined) Row(y int) ([]byte, error) {
	if y < 0 || y >= j.header.Height {
		return nil, fmt.Errorf("(image-join) %w: %d of %d", ErrRowOutOfRange, y, j.header.Height)
	}

	// Inputs are in ascending order of start row.
	lo, hi := 0, len(j.starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2 //nolint:mnd
		if j.starts[mid] <= y {
			lo = mid
		} else {
			hi = mid - 1
		}
	}

	return j.inputs[lo].Row(y - j.starts[lo])
}
