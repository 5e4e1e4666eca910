// Package flt loads FLT volumes: a directory holding one metadata key file
// and any number of raw slice files, presented as a single tall image with
// the slices stacked top to bottom in filename order.
package flt

import (
	"os"

	"github.com/desertwitch/fltload/internal/configuration"
	"github.com/desertwitch/fltload/internal/filesystem"
	"github.com/desertwitch/fltload/internal/loader"
)

const (
	// FormatName is the name the FLT format registers under.
	FormatName = "flt"

	// MetadataSuffix is the case-insensitive filename suffix of the metadata
	// file.
	MetadataSuffix = "info.flt"

	// SliceSuffix is the case-insensitive filename suffix of slice files.
	SliceSuffix = ".flt"

	// GroupMain is the metadata group holding the volume description.
	GroupMain = "main"

	// KeyWidth is the [GroupMain] key for the slice width in pixels.
	KeyWidth = "width"

	// KeyHeight is the [GroupMain] key for the slice height in pixels.
	KeyHeight = "height"

	// KeyFormat is the [GroupMain] key for the pixel format nick.
	KeyFormat = "format"
)

type fsProvider interface {
	ReadDir(name string) ([]os.DirEntry, error)
	IsRegularFile(path string) bool
	MapFile(path string, length int64) (*filesystem.Mapping, error)
}

type configProvider interface {
	ReadKeyFile(filename string) (configuration.KeyFile, error)
	KeyToString(kf configuration.KeyFile, group string, key string) (string, error)
	KeyToInt(kf configuration.KeyFile, group string, key string) (int, error)
}

// Format is the FLT entry for a [loader.Registry].
type Format struct {
	fsHandler     fsProvider
	configHandler configProvider
}

// NewFormat returns a pointer to a new [Format].
func NewFormat(fsHandler fsProvider, configHandler configProvider) *Format {
	return &Format{
		fsHandler:     fsHandler,
		configHandler: configHandler,
	}
}

// Name returns [FormatName].
func (*Format) Name() string {
	return FormatName
}

// Probe reports whether path is a regular file with the [SliceSuffix]. Any
// file of a volume, metadata or slice, can be used to open it.
func (f *Format) Probe(path string) bool {
	return hasSuffixFold(path, SliceSuffix) && f.fsHandler.IsRegularFile(path)
}

// NewLoader returns a fresh [Loader] for the volume containing path.
//
//nolint:ireturn
func (f *Format) NewLoader(path string) loader.Loader {
	return NewLoader(path, f.fsHandler, f.configHandler)
}
