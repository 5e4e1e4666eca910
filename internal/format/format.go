// Package format describes the per-sample pixel encodings a volume can be
// stored in, and how to decode single samples from raw bytes.
package format

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// PixelFormat is the numeric encoding of a single sample.
type PixelFormat int

const (
	Uchar PixelFormat = iota
	Char
	Ushort
	Short
	Uint
	Int
	Float
	Complex
	Double
	DPComplex
)

//nolint:gochecknoglobals
var nicks = [...]string{
	Uchar:     "uchar",
	Char:      "char",
	Ushort:    "ushort",
	Short:     "short",
	Uint:      "uint",
	Int:       "int",
	Float:     "float",
	Complex:   "complex",
	Double:    "double",
	DPComplex: "dpcomplex",
}

//nolint:gochecknoglobals,mnd
var sizes = [...]int{
	Uchar:     1,
	Char:      1,
	Ushort:    2,
	Short:     2,
	Uint:      4,
	Int:       4,
	Float:     4,
	Complex:   8,
	Double:    8,
	DPComplex: 16,
}

// Parse resolves a format nick such as "uchar" or "float" into a
// [PixelFormat]. Matching ignores case and surrounding whitespace.
func Parse(name string) (PixelFormat, error) {
	name = strings.TrimSpace(name)
	for f, nick := range nicks {
		if strings.EqualFold(nick, name) {
			return PixelFormat(f), nil
		}
	}

	return -1, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Valid reports whether f is one of the known formats.
func (f PixelFormat) Valid() bool {
	return f >= Uchar && f <= DPComplex
}

// String returns the nick of the format.
func (f PixelFormat) String() string {
	if !f.Valid() {
		return fmt.Sprintf("PixelFormat(%d)", int(f))
	}

	return nicks[f]
}

// Size returns the number of bytes a single sample occupies, or 0 for an
// invalid format.
func (f PixelFormat) Size() int {
	if !f.Valid() {
		return 0
	}

	return sizes[f]
}

// IsComplex reports whether samples consist of a real and imaginary part.
func (f PixelFormat) IsComplex() bool {
	return f == Complex || f == DPComplex
}

// Value decodes the sample at index i of b in host byte order. Complex
// samples yield their modulus.
//
//nolint:mnd
func (f PixelFormat) Value(b []byte, i int) (float64, error) {
	size := f.Size()
	if size == 0 {
		return 0, fmt.Errorf("%w: %d", ErrUnknownFormat, int(f))
	}

	off := i * size
	if i < 0 || off+size > len(b) {
		return 0, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrShortSample, size, off, len(b))
	}
	s := b[off : off+size]
	order := binary.NativeEndian

	switch f {
	case Uchar:
		return float64(s[0]), nil
	case Char:
		return float64(int8(s[0])), nil
	case Ushort:
		return float64(order.Uint16(s)), nil
	case Short:
		return float64(int16(order.Uint16(s))), nil
	case Uint:
		return float64(order.Uint32(s)), nil
	case Int:
		return float64(int32(order.Uint32(s))), nil
	case Float:
		return float64(math.Float32frombits(order.Uint32(s))), nil
	case Double:
		return math.Float64frombits(order.Uint64(s)), nil
	case Complex:
		re := float64(math.Float32frombits(order.Uint32(s[:4])))
		im := float64(math.Float32frombits(order.Uint32(s[4:])))

		return math.Hypot(re, im), nil
	case DPComplex:
		re := math.Float64frombits(order.Uint64(s[:8]))
		im := math.Float64frombits(order.Uint64(s[8:]))

		return math.Hypot(re, im), nil
	}

	return 0, fmt.Errorf("%w: %d", ErrUnknownFormat, int(f))
}
