package flt

import (
	"slices"
	"strings"
)

// sortSlices orders slice filenames along the depth axis of the volume:
// ASCII case-insensitive, byte by byte. Names that only differ in case are
// ordered by their raw bytes, so the order is total.
func sortSlices(names []string) {
	slices.SortFunc(names, func(a, b string) int {
		if c := compareFold(a, b); c != 0 {
			return c
		}

		return strings.Compare(a, b)
	})
}

func compareFold(a string, b string) int {
	n := min(len(a), len(b))

	for i := range n {
		ca, cb := lowerASCII(a[i]), lowerASCII(b[i])
		if ca != cb {
			if ca < cb {
				return -1
			}

			return 1
		}
	}

	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}

	return 0
}

func lowerASCII(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}

	return c
}
