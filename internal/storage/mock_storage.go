package storage

import (
	"github.com/stretchr/testify/mock"
)

// MockStorage stands in for Storage wherever the secure-storage primitive is consumed through an interface.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Put(key string, value []byte) error {
	args := m.Called(key, value)
	return args.Error(0)
}

func (m *MockStorage) Get(key string) ([]byte, bool, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.Bool(1), args.Error(2)
}

func (m *MockStorage) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}
