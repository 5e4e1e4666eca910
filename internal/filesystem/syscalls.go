package filesystem

import (
	"os"

	"golang.org/x/sys/unix"
)

// OS is the default implementation of the operating system calls.
type OS struct{}

func (*OS) Open(name string) (*os.File, error) {
	return os.Open(name)
}

func (*OS) ReadDir(name string) ([]os.DirEntry, error) {
	return os.ReadDir(name)
}

func (*OS) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// Unix is the default implementation of the Unix-specific calls.
type Unix struct{}

func (*Unix) Mmap(fd int, offset int64, length int, prot int, flags int) ([]byte, error) {
	return unix.Mmap(fd, offset, length, prot, flags)
}

func (*Unix) Munmap(b []byte) error {
	return unix.Munmap(b)
}

func (*Unix) Madvise(b []byte, advice int) error {
	return unix.Madvise(b, advice)
}
