package filesystem

import (
	"github.com/stretchr/testify/mock"
)

type mockUnixProvider struct {
	mock.Mock
}

func newMockUnixProvider(t interface {
	mock.TestingT
	Cleanup(func())
},
) *mockUnixProvider {
	m := &mockUnixProvider{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *mockUnixProvider) Mmap(fd int, offset int64, length int, prot int, flags int) ([]byte, error) {
	ret := m.Called(fd, offset, length, prot, flags)

	var data []byte
	if v := ret.Get(0); v != nil {
		data = v.([]byte) //nolint:forcetypeassert
	}

	return data, ret.Error(1)
}

func (m *mockUnixProvider) Munmap(b []byte) error {
	return m.Called(b).Error(0)
}

func (m *mockUnixProvider) Madvise(b []byte, advice int) error {
	return m.Called(b, advice).Error(0)
}
