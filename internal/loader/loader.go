// Package loader provides the registry through which an application resolves
// a path to a loader for its format.
package loader

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/desertwitch/fltload/internal/image"
)

// Loader loads a single image in two phases: Header declares the shape
// without pixel I/O, Load materializes the pixels.
type Loader interface {
	Header() (*image.Header, error)
	Load() (image.Image, error)
	Close() error
}

// Format is a loadable image format.
type Format interface {
	Name() string
	Probe(path string) bool
	NewLoader(path string) Loader
}

// Registry is an ordered set of formats owned by the application.
type Registry struct {
	sync.RWMutex
	formats []Format
}

// NewRegistry returns a pointer to a new, empty [Registry].
func NewRegistry() *Registry {
	return &Registry{
		formats: []Format{},
	}
}

// Register adds a format. Formats are probed in registration order.
func (r *Registry) Register(f Format) error {
	r.Lock()
	defer r.Unlock()

	for _, existing := range r.formats {
		if existing.Name() == f.Name() {
			return fmt.Errorf("(loader-registry) %w: %s", ErrDuplicateFormat, f.Name())
		}
	}

	r.formats = append(r.formats, f)

	return nil
}

// Formats returns the names of all registered formats.
func (r *Registry) Formats() []string {
	r.RLock()
	defer r.RUnlock()

	names := make([]string, 0, len(r.formats))
	for _, f := range r.formats {
		names = append(names, f.Name())
	}

	return names
}

// Open returns a new [Loader] from the first format accepting path.
//
//nolint:ireturn
func (r *Registry) Open(path string) (Loader, error) {
	r.RLock()
	defer r.RUnlock()

	for _, f := range r.formats {
		if f.Probe(path) {
			slog.Debug("Resolved loader for path",
				"path", path,
				"format", f.Name(),
			)

			return f.NewLoader(path), nil
		}
	}

	return nil, fmt.Errorf("(loader-registry) %w: %s", ErrNoLoader, path)
}
