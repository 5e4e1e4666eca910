package flt

import (
	"os"

	"github.com/desertwitch/fltload/internal/configuration"
	"github.com/desertwitch/fltload/internal/filesystem"
	"github.com/stretchr/testify/mock"
)

type mockFsProvider struct {
	mock.Mock
}

func newMockFsProvider(t interface {
	mock.TestingT
	Cleanup(func())
},
) *mockFsProvider {
	m := &mockFsProvider{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *mockFsProvider) ReadDir(name string) ([]os.DirEntry, error) {
	ret := m.Called(name)

	var entries []os.DirEntry
	if v := ret.Get(0); v != nil {
		entries = v.([]os.DirEntry) //nolint:forcetypeassert
	}

	return entries, ret.Error(1)
}

func (m *mockFsProvider) IsRegularFile(path string) bool {
	return m.Called(path).Bool(0)
}

func (m *mockFsProvider) MapFile(path string, length int64) (*filesystem.Mapping, error) {
	ret := m.Called(path, length)

	var mapping *filesystem.Mapping
	if v := ret.Get(0); v != nil {
		mapping = v.(*filesystem.Mapping) //nolint:forcetypeassert
	}

	return mapping, ret.Error(1)
}

type mockConfigProvider struct {
	mock.Mock
}

func newMockConfigProvider(t interface {
	mock.TestingT
	Cleanup(func())
},
) *mockConfigProvider {
	m := &mockConfigProvider{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *mockConfigProvider) ReadKeyFile(filename string) (configuration.KeyFile, error) {
	ret := m.Called(filename)

	var kf configuration.KeyFile
	if v := ret.Get(0); v != nil {
		kf = v.(configuration.KeyFile) //nolint:forcetypeassert
	}

	return kf, ret.Error(1)
}

func (m *mockConfigProvider) KeyToString(kf configuration.KeyFile, group string, key string) (string, error) {
	ret := m.Called(kf, group, key)

	return ret.String(0), ret.Error(1)
}

func (m *mockConfigProvider) KeyToInt(kf configuration.KeyFile, group string, key string) (int, error) {
	ret := m.Called(kf, group, key)

	return ret.Int(0), ret.Error(1)
}

type fakeDirEntry struct {
	name  string
	isDir bool
}

func (f fakeDirEntry) Name() string { return f.name }
func (f fakeDirEntry) IsDir() bool  { return f.isDir }
func (f fakeDirEntry) Type() os.FileMode {
	if f.isDir {
		return os.ModeDir
	}

	return 0
}
func (f fakeDirEntry) Info() (os.FileInfo, error) { return nil, nil } //nolint: nilnil

func entries(names ...string) []os.DirEntry {
	out := make([]os.DirEntry, 0, len(names))
	for _, name := range names {
		out = append(out, fakeDirEntry{name: name})
	}

	return out
}
