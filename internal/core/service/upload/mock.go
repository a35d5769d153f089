package upload

import (
	"context"
	"io"

	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

// MockUploadService is a mock implementation of UploadService
type MockUploadService struct {
	mock.Mock
}

// NewMockUploadService creates a new MockUploadService
func NewMockUploadService() *MockUploadService {
	return &MockUploadService{}
}

func (m *MockUploadService) Open(ctx context.Context, name, owner, operator string) (*domain.UploadSession, error) {
	args := m.Called(ctx, name, owner, operator)
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockUploadService) WriteChunk(ctx context.Context, sessionID int64, index int, signature, operator string, payload io.Reader) (*domain.UploadChunk, error) {
	args := m.Called(ctx, sessionID, index, signature, operator, payload)
	return args.Get(0).(*domain.UploadChunk), args.Error(1)
}

func (m *MockUploadService) ListChunks(ctx context.Context, sessionID int64) ([]domain.UploadChunk, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]domain.UploadChunk), args.Error(1)
}

func (m *MockUploadService) Close(ctx context.Context, sessionID int64, operator string) (domain.Result, error) {
	args := m.Called(ctx, sessionID, operator)
	return args.Get(0).(domain.Result), args.Error(1)
}
