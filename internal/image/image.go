// Package image holds the small set of image primitives a loader needs from
// its host: a declared header with metadata, raw planes over byte slices, an
// N-way vertical join and a band/format reinterpretation. All of them are
// views: pixel data is never copied.
package image

import (
	"maps"
	"sync"

	"github.com/desertwitch/fltload/internal/format"
)

const (
	// MetaPageHeight is the metadata key recording the height of a single
	// page in an image made of vertically stacked pages.
	MetaPageHeight = "page-height"
)

// DemandStyle hints at the access pattern that suits an image best.
type DemandStyle int

const (
	// DemandAny means the image has no preferred access pattern.
	DemandAny DemandStyle = iota

	// DemandThinStrip means the image is best read top to bottom in thin
	// horizontal strips, as is the case for memory-mapped files.
	DemandThinStrip
)

// Header describes the shape and pixel layout of an image.
type Header struct {
	Width    int
	Height   int
	Bands    int
	Format   format.PixelFormat
	Demand   DemandStyle
	Filename string
	Meta     *Metadata
}

// PixelSize returns the number of bytes of a single pixel.
func (h *Header) PixelSize() int {
	return h.Bands * h.Format.Size()
}

// RowSize returns the number of bytes of a single row.
func (h *Header) RowSize() int {
	return h.Width * h.PixelSize()
}

// Size returns the number of bytes of all pixels.
func (h *Header) Size() int64 {
	return int64(h.RowSize()) * int64(h.Height)
}

// Clone returns a copy of the header with its own metadata.
func (h *Header) Clone() *Header {
	c := *h
	if h.Meta != nil {
		c.Meta = h.Meta.Clone()
	}

	return &c
}

// Image is a read-only, row-addressable image.
type Image interface {
	// Header describes the image. Callers must not modify it.
	Header() *Header
	// Row returns the bytes of row y. The slice must not be written to.
	Row(y int) ([]byte, error)
}

// Metadata is a set of named integer and string fields attached to an
// image. It is safe for concurrent use.
type Metadata struct {
	sync.RWMutex
	ints    map[string]int
	strings map[string]string
}

// NewMetadata returns a pointer to a new, empty [Metadata].
func NewMetadata() *Metadata {
	return &Metadata{
		ints:    make(map[string]int),
		strings: make(map[string]string),
	}
}

// Clone returns a copy of the metadata.
func (m *Metadata) Clone() *Metadata {
	m.RLock()
	defer m.RUnlock()

	return &Metadata{
		ints:    maps.Clone(m.ints),
		strings: maps.Clone(m.strings),
	}
}

// SetInt sets an integer field.
func (m *Metadata) SetInt(name string, value int) {
	m.Lock()
	defer m.Unlock()

	m.ints[name] = value
}

// GetInt returns an integer field and whether it exists.
func (m *Metadata) GetInt(name string) (int, bool) {
	m.RLock()
	defer m.RUnlock()

	v, ok := m.ints[name]

	return v, ok
}

// SetString sets a string field.
func (m *Metadata) SetString(name string, value string) {
	m.Lock()
	defer m.Unlock()

	m.strings[name] = value
}

// GetString returns a string field and whether it exists.
func (m *Metadata) GetString(name string) (string, bool) {
	m.RLock()
	defer m.RUnlock()

	v, ok := m.strings[name]

	return v, ok
}
