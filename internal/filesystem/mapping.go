package filesystem

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// Mapping is a read-only memory mapping of the leading bytes of a file.
type Mapping struct {
	sync.Mutex
	path        string
	data        []byte
	unixHandler unixProvider
	mapped      *atomic.Int64
}

// MapFile maps the first length bytes of the file at path into memory for
// reading. The file must hold at least length bytes; any trailing bytes are
// not mapped. The returned [Mapping] stays valid after the file descriptor is
// closed and must be released with [Mapping.Close].
func (f *Handler) MapFile(path string, length int64) (*Mapping, error) {
	if length <= 0 || length > math.MaxInt {
		return nil, fmt.Errorf("(fs-mapfile) %w: %d", ErrInvalidLength, length)
	}

	file, err := f.osHandler.Open(path)
	if err != nil {
		return nil, fmt.Errorf("(fs-mapfile) failed to open: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("(fs-mapfile) failed to stat: %w", err)
	}

	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("(fs-mapfile) %w: %s", ErrNotRegular, path)
	}

	if info.Size() < length {
		return nil, fmt.Errorf("(fs-mapfile) %w: %s has %d bytes, need %d", ErrShortFile, path, info.Size(), length)
	}

	data, err := f.unixHandler.Mmap(int(file.Fd()), 0, int(length), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("(fs-mapfile) failed to mmap: %w", err)
	}

	if err := f.unixHandler.Madvise(data, unix.MADV_SEQUENTIAL); err != nil {
		slog.Debug("Failed to advise sequential access on mapping (was ignored)",
			"path", path,
			"err", err,
		)
	}

	f.mapped.Add(length)

	return &Mapping{
		path:        path,
		data:        data,
		unixHandler: f.unixHandler,
		mapped:      &f.mapped,
	}, nil
}

// Path returns the path of the mapped file.
func (m *Mapping) Path() string {
	return m.path
}

// Len returns the number of mapped bytes, or 0 once closed.
func (m *Mapping) Len() int {
	m.Lock()
	defer m.Unlock()

	return len(m.data)
}

// Bytes returns the mapped bytes. The slice must not be written to and must
// not be used after [Mapping.Close].
func (m *Mapping) Bytes() ([]byte, error) {
	m.Lock()
	defer m.Unlock()

	if m.data == nil {
		return nil, fmt.Errorf("(fs-mapping) %w: %s", ErrMappingClosed, m.path)
	}

	return m.data, nil
}

// Close releases the mapping. Closing an already closed mapping is a no-op.
func (m *Mapping) Close() error {
	m.Lock()
	defer m.Unlock()

	if m.data == nil {
		return nil
	}

	data := m.data
	m.data = nil
	m.mapped.Add(-int64(len(data)))

	if err := m.unixHandler.Munmap(data); err != nil {
		return fmt.Errorf("(fs-mapping) failed to munmap %s: %w", m.path, err)
	}

	return nil
}
