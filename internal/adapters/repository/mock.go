package repository

import (
	"context"
	"time"

	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/domain"
	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/port"

	"github.com/stretchr/testify/mock"
)

type MockSessionRepository struct {
	mock.Mock
}

func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{}
}

func (m *MockSessionRepository) Create(ctx context.Context, session domain.UploadSession) (*domain.UploadSession, error) {
	args := m.Called(ctx, session)
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockSessionRepository) FindByID(ctx context.Context, id int64) (*domain.UploadSession, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockSessionRepository) FindOldestAfter(ctx context.Context, cursor int64, createdBefore time.Time) (*domain.UploadSession, error) {
	args := m.Called(ctx, cursor, createdBefore)
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockSessionRepository) Update(ctx context.Context, session domain.UploadSession) (int64, error) {
	args := m.Called(ctx, session)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepository) Delete(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

type MockChunkRepository struct {
	mock.Mock
}

func NewMockChunkRepository() *MockChunkRepository {
	return &MockChunkRepository{}
}

func (m *MockChunkRepository) Create(ctx context.Context, chunk domain.UploadChunk) (*domain.UploadChunk, error) {
	args := m.Called(ctx, chunk)
	return args.Get(0).(*domain.UploadChunk), args.Error(1)
}

func (m *MockChunkRepository) FindBySessionID(ctx context.Context, sessionID int64) ([]domain.UploadChunk, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]domain.UploadChunk), args.Error(1)
}

func (m *MockChunkRepository) FindOldestAfter(ctx context.Context, cursor int64, createdBefore time.Time) (*domain.UploadChunk, error) {
	args := m.Called(ctx, cursor, createdBefore)
	return args.Get(0).(*domain.UploadChunk), args.Error(1)
}

func (m *MockChunkRepository) DeleteBySessionID(ctx context.Context, sessionID int64) (int64, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(int64), args.Error(1)
}

type MockUnitOfWork struct {
	mock.Mock
	sessionRepo *MockSessionRepository
	chunkRepo   *MockChunkRepository
}

func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		sessionRepo: &MockSessionRepository{},
		chunkRepo:   &MockChunkRepository{},
	}
}

func (m *MockUnitOfWork) SessionRepo() port.SessionRepository {
	return m.sessionRepo
}

func (m *MockUnitOfWork) ChunkRepo() port.ChunkRepository {
	return m.chunkRepo
}

func (m *MockUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	args := m.Called(ctx, fn)

	if err := fn(m); err != nil {
		return err
	}

	return args.Error(0)
}

func (m *MockUnitOfWork) GetSessionRepoMock() *MockSessionRepository {
	return m.sessionRepo
}

func (m *MockUnitOfWork) GetChunkRepoMock() *MockChunkRepository {
	return m.chunkRepo
}
