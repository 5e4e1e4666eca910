// Package digest reads images top to bottom, the access pattern mapped
// volumes serve best, to fingerprint them or summarize their samples.
package digest

import (
	"context"
	"encoding/hex"
	"fmt"
	"math"

	"github.com/desertwitch/fltload/internal/image"
	"github.com/zeebo/blake3"
)

// Result holds the digests of an image.
type Result struct {
	// Sum is the hex blake3 digest of all rows in order.
	Sum string

	// Pages holds one hex blake3 digest per page, if requested.
	Pages []string

	Rows  int
	Bytes uint64
}

// Stats summarizes the sample values of an image.
type Stats struct {
	Min   float64
	Max   float64
	Mean  float64
	Count uint64
}

// Compute digests all rows of img. With perPage set, a digest is also kept
// for every page as given by the [image.MetaPageHeight] metadata; images
// without it are treated as a single page. The tracker may be nil.
func Compute(ctx context.Context, img image.Image, perPage bool, tracker *Tracker) (*Result, error) {
	h := img.Header()

	pageHeight := h.Height
	if h.Meta != nil {
		if ph, ok := h.Meta.GetInt(image.MetaPageHeight); ok && ph > 0 && h.Height%ph == 0 {
			pageHeight = ph
		}
	}

	total := blake3.New()
	page := blake3.New()
	result := &Result{}

	err := walkRows(ctx, img, tracker, func(y int, row []byte) error {
		total.Write(row) //nolint:errcheck

		if perPage {
			page.Write(row) //nolint:errcheck

			if (y+1)%pageHeight == 0 {
				result.Pages = append(result.Pages, hex.EncodeToString(page.Sum(nil)))
				page.Reset()
			}
		}

		result.Rows++
		result.Bytes += uint64(len(row))

		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Sum = hex.EncodeToString(total.Sum(nil))

	return result, nil
}

// ComputeStats returns the minimum, maximum and mean of all samples of img.
// Complex samples contribute their modulus. The tracker may be nil.
func ComputeStats(ctx context.Context, img image.Image, tracker *Tracker) (*Stats, error) {
	h := img.Header()
	samples := h.Width * h.Bands

	stats := &Stats{Min: math.Inf(1), Max: math.Inf(-1)}
	sum := 0.0

	err := walkRows(ctx, img, tracker, func(y int, row []byte) error {
		for i := range samples {
			v, err := h.Format.Value(row, i)
			if err != nil {
				return fmt.Errorf("(digest-stats) row %d: %w", y, err)
			}

			stats.Min = min(stats.Min, v)
			stats.Max = max(stats.Max, v)
			sum += v
		}
		stats.Count += uint64(samples)

		return nil
	})
	if err != nil {
		return nil, err
	}

	if stats.Count > 0 {
		stats.Mean = sum / float64(stats.Count)
	}

	return stats, nil
}

func walkRows(ctx context.Context, img image.Image, tracker *Tracker, fn func(y int, row []byte) error) (err error) {
	h := img.Header()

	if tracker != nil {
		tracker.start(h.Height, uint64(h.Size()))
		defer func() { tracker.end(err) }()
	}

	var processed uint64

	for y := range h.Height {
		if ctx.Err() != nil {
			return fmt.Errorf("(digest) canceled at row %d: %w", y, ctx.Err())
		}

		row, err := img.Row(y)
		if err != nil {
			return fmt.Errorf("(digest) failed to read row %d: %w", y, err)
		}

		if err := fn(y, row); err != nil {
			return err
		}

		processed += uint64(len(row))
		if tracker != nil {
			tracker.update(y+1, processed)
		}
	}

	return nil
}
