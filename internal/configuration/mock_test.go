package configuration

import (
	"github.com/stretchr/testify/mock"
)

type mockFileReader struct {
	mock.Mock
}

func newMockFileReader(t interface {
	mock.TestingT
	Cleanup(func())
},
) *mockFileReader {
	m := &mockFileReader{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *mockFileReader) ReadFile(name string) ([]byte, error) {
	ret := m.Called(name)

	var data []byte
	if v := ret.Get(0); v != nil {
		data = v.([]byte) //nolint:forcetypeassert
	}

	return data, ret.Error(1)
}
