// Package filesystem wraps the operating system calls needed to discover and
// map volume files, behind interfaces that can be replaced in tests.
package filesystem

import (
	"fmt"
	"os"
	"sync/atomic"
)

type osProvider interface {
	Open(name string) (*os.File, error)
	ReadDir(name string) ([]os.DirEntry, error)
	Stat(name string) (os.FileInfo, error)
}

type unixProvider interface {
	Mmap(fd int, offset int64, length int, prot int, flags int) ([]byte, error)
	Munmap(b []byte) error
	Madvise(b []byte, advice int) error
}

// Handler is the principal implementation for the filesystem services.
type Handler struct {
	osHandler   osProvider
	unixHandler unixProvider
	mapped      atomic.Int64
}

// NewHandler returns a pointer to a new [Handler].
func NewHandler(osHandler osProvider, unixHandler unixProvider) *Handler {
	return &Handler{
		osHandler:   osHandler,
		unixHandler: unixHandler,
	}
}

// ReadDir lists the entries of a directory.
func (f *Handler) ReadDir(name string) ([]os.DirEntry, error) {
	entries, err := f.osHandler.ReadDir(name)
	if err != nil {
		return nil, fmt.Errorf("(fs-readdir) %w", err)
	}

	return entries, nil
}

// IsRegularFile reports whether path exists and is a regular file. Symbolic
// links are followed.
func (f *Handler) IsRegularFile(path string) bool {
	info, err := f.osHandler.Stat(path)
	if err != nil {
		return false
	}

	return info.Mode().IsRegular()
}

// MappedBytes returns the number of bytes currently mapped through
// [Handler.MapFile] and not yet released.
func (f *Handler) MappedBytes() int64 {
	return f.mapped.Load()
}
