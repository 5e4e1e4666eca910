package image

import (
	"fmt"
	"math"

	"github.com/desertwitch/fltload/internal/format"
)

// Raw is a headerless plane of row-major pixels over a byte slice.
type Raw struct {
	header *Header
	data   []byte
}

// NewRaw returns a [Raw] image of the given geometry over data. The data
// must hold exactly width*height*bands samples of format f.
func NewRaw(data []byte, width int, height int, bands int, f format.PixelFormat) (*Raw, error) {
	if width <= 0 || height <= 0 || bands <= 0 || !f.Valid() {
		return nil, fmt.Errorf("(image-raw) %w: %dx%d, %d bands, %v", ErrInvalidGeometry, width, height, bands, f)
	}

	if bands > math.MaxInt/f.Size() || !addressable(width, height, bands*f.Size()) {
		return nil, fmt.Errorf("(image-raw) %w: %dx%d, %d bands, %v exceeds the addressable size",
			ErrInvalidGeometry, width, height, bands, f)
	}

	header := &Header{
		Width:  width,
		Height: height,
		Bands:  bands,
		Format: f,
		Demand: DemandThinStrip,
		Meta:   NewMetadata(),
	}

	if len(data) != header.RowSize()*height {
		return nil, fmt.Errorf("(image-raw) %w: have %d bytes, need %d", ErrInvalidGeometry, len(data), header.Size())
	}

	return &Raw{header: header, data: data}, nil
}

// Header returns the header of the plane.
func (r *Raw) Header() *Header {
	return r.header
}

// Row returns row y as a view into the underlying bytes.
func (r *Raw) Row(y int) ([]byte, error) {
	if y < 0 || y >= r.header.Height {
		return nil, fmt.Errorf("(image-raw) %w: %d of %d", ErrRowOutOfRange, y, r.header.Height)
	}

	size := r.header.RowSize()
	off := y * size

	return r.data[off : off+size : off+size], nil
}

// addressable reports whether width*height pixels of pixelSize bytes fit into
// a single slice. All arguments must be positive.
func addressable(width int, height int, pixelSize int) bool {
	return pixelSize > 0 && width <= math.MaxInt/pixelSize && height <= math.MaxInt/(width*pixelSize)
}
