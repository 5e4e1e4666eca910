package image

import (
	"fmt"

	"github.com/desertwitch/fltload/internal/format"
)

// Reinterpreted presents the bytes of an image under another band count and
// pixel format of the same pixel size.
type Reinterpreted struct {
	header *Header
	input  Image
}

// Reinterpret relabels img as bands samples of format f per pixel. If
// img already has that layout it is returned unchanged. The pixel size in
// bytes must stay the same, otherwise [ErrIncompatible] is returned.
func Reinterpret(img Image, f format.PixelFormat, bands int) (Image, error) {
	h := img.Header()

	if h.Format == f && h.Bands == bands {
		return img, nil
	}

	if !f.Valid() || bands <= 0 {
		return nil, fmt.Errorf("(image-reinterpret) %w: %d-band %v", ErrIncompatible, bands, f)
	}

	if want := bands * f.Size(); want != h.PixelSize() {
		return nil, fmt.Errorf("(image-reinterpret) %w: %d-band %v (%d bytes) as %d-band %v (%d bytes)",
			ErrIncompatible, h.Bands, h.Format, h.PixelSize(), bands, f, want)
	}

	return &Reinterpreted{
		header: &Header{
			Width:  h.Width,
			Height: h.Height,
			Bands:  bands,
			Format: f,
			Demand: h.Demand,
			Meta:   NewMetadata(),
		},
		input: img,
	}, nil
}

// Header returns the relabelled header.
func (r *Reinterpreted) Header() *Header {
	return r.header
}

// Row returns row y of the input unchanged.
func (r *Reinterpreted) Row(y int) ([]byte, error) {
	return r.input.Row(y)
}
