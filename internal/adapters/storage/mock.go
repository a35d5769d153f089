package storage

import (
	"context"
	"io"

	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/port"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a mock implementation of ByteStorage
type MockStorage struct {
	mock.Mock
}

// NewMockStorage creates a new MockStorage
func NewMockStorage() *MockStorage {
	return &MockStorage{}
}

func (m *MockStorage) Write(ctx context.Context, path string, r io.Reader) (int64, error) {
	args := m.Called(ctx, path, r)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	args := m.Called(ctx, path)
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockStorage) List(ctx context.Context, dir string) ([]port.FileInfo, error) {
	args := m.Called(ctx, dir)
	return args.Get(0).([]port.FileInfo), args.Error(1)
}

func (m *MockStorage) Length(ctx context.Context, path string) (int64, error) {
	args := m.Called(ctx, path)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func (m *MockStorage) Exists(ctx context.Context, path string) (bool, error) {
	args := m.Called(ctx, path)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) EnsureDir(ctx context.Context, dir string) error {
	args := m.Called(ctx, dir)
	return args.Error(0)
}
