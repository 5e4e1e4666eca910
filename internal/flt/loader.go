package flt

import (
	"fmt"
	"log/slog"
	"math"
	"path/filepath"

	"github.com/desertwitch/fltload/internal/image"
)

// State is the phase a [Loader] is in.
type State int

const (
	// StateUnopened means nothing has been read yet.
	StateUnopened State = iota

	// StateHeaderReady means the volume was discovered and its shape
	// declared, but no slice was opened.
	StateHeaderReady

	// StateLoaded means the volume was assembled.
	StateLoaded

	// StateFailed means a phase failed; the loader cannot be used again.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnopened:
		return "unopened"
	case StateHeaderReady:
		return "header-ready"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	}

	return fmt.Sprintf("State(%d)", int(s))
}

// Loader loads one FLT volume, exactly once. It is not safe for concurrent
// use.
type Loader struct {
	path          string
	fsHandler     fsProvider
	configHandler configProvider

	state      State
	err        error
	descriptor Descriptor
	slices     []string
	header     *image.Header
	volume     *Volume
}

// NewLoader returns a pointer to a new [Loader] for the volume that path, a
// metadata or slice file, belongs to.
func NewLoader(path string, fsHandler fsProvider, configHandler configProvider) *Loader {
	return &Loader{
		path:          path,
		fsHandler:     fsHandler,
		configHandler: configHandler,
		state:         StateUnopened,
	}
}

// State returns the current phase of the loader.
func (l *Loader) State() State {
	return l.state
}

// Header discovers the volume, validates its metadata and declares the
// resulting image without reading any pixels. It may be called repeatedly;
// discovery only runs once. Every call returns a fresh copy.
func (l *Loader) Header() (*image.Header, error) {
	switch l.state {
	case StateUnopened:
		if err := l.readHeader(); err != nil {
			return nil, l.fail(err)
		}
		l.state = StateHeaderReady

		return l.header.Clone(), nil

	case StateHeaderReady, StateLoaded:
		return l.header.Clone(), nil

	case StateFailed:
		return nil, l.err
	}

	return nil, fmt.Errorf("(flt-loader) %w: %v", ErrLoaderState, l.state)
}

// Load materializes the volume, running the header phase first if needed.
// The returned image is a [*Volume] owned by the loader.
//
//nolint:ireturn
func (l *Loader) Load() (image.Image, error) {
	if l.state == StateUnopened {
		if _, err := l.Header(); err != nil {
			return nil, err
		}
	}

	switch l.state {
	case StateHeaderReady:
		volume, err := l.assemble()
		if err != nil {
			return nil, l.fail(err)
		}
		l.volume = volume
		l.state = StateLoaded

		return volume, nil

	case StateFailed:
		return nil, l.err

	case StateUnopened, StateLoaded:
	}

	return nil, fmt.Errorf("(flt-loader) %w: cannot load in state %v", ErrLoaderState, l.state)
}

// Close releases the slice mappings of a loaded volume.
func (l *Loader) Close() error {
	if l.volume == nil {
		return nil
	}

	return l.volume.Close()
}

func (l *Loader) fail(err error) error {
	l.state = StateFailed
	l.err = err

	return err
}

func (l *Loader) readHeader() error {
	slog.Debug("Loading FLT volume", "path", l.path)

	found, err := scanDirectory(l.fsHandler, filepath.Dir(l.path))
	if err != nil {
		return err
	}

	desc, err := parseDescriptor(l.configHandler, found.metadata)
	if err != nil {
		return err
	}

	n := len(found.slices)
	if desc.Height > math.MaxInt/n || desc.SliceSize() > math.MaxInt64/int64(n) {
		return fmt.Errorf("(flt-loader) %w: %d slices of %dx%d %v exceed the addressable size",
			ErrConfig, n, desc.Width, desc.Height, desc.Format)
	}

	slog.Debug("Found FLT slices",
		"path", l.path,
		"slices", n,
	)

	meta := image.NewMetadata()
	meta.SetInt(image.MetaPageHeight, desc.Height)

	l.descriptor = desc
	l.slices = found.slices
	l.header = &image.Header{
		Width:    desc.Width,
		Height:   desc.Height * n,
		Bands:    1,
		Format:   desc.Format,
		Demand:   image.DemandThinStrip,
		Filename: l.path,
		Meta:     meta,
	}

	return nil
}

func (l *Loader) assemble() (*Volume, error) {
	pixels, mappings, err := assemble(l.fsHandler, l.descriptor, l.slices)
	if err != nil {
		return nil, err
	}

	got := pixels.Header()
	if got.Width != l.header.Width || got.Height != l.header.Height ||
		got.Bands != l.header.Bands || got.Format != l.header.Format {
		releaseMappings(mappings) //nolint:errcheck

		return nil, fmt.Errorf("(flt-loader) %w: assembled %dx%d %d-band %v, declared %dx%d %d-band %v",
			ErrConversion, got.Width, got.Height, got.Bands, got.Format,
			l.header.Width, l.header.Height, l.header.Bands, l.header.Format)
	}

	l.header.Filename = l.path

	return &Volume{
		header:     l.header,
		descriptor: l.descriptor,
		slices:     l.slices,
		pixels:     pixels,
		mappings:   mappings,
	}, nil
}
