package lock

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockLockManager is a mock implementation of LockManager
type MockLockManager struct {
	mock.Mock
}

// NewMockLockManager creates a new MockLockManager
func NewMockLockManager() *MockLockManager {
	return &MockLockManager{}
}

func (m *MockLockManager) Acquire(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLockManager) Release(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLockManager) Close(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
