package upload_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/domain"
)

// md5 of "hello world"
const helloWorldMD5 = "5eb63bbbe01eeed093cb22bb8f5acdc3"

func chunkPathMatcher(prefix string) interface{} {
	return mock.MatchedBy(func(path string) bool {
		return strings.HasPrefix(path, prefix)
	})
}

func TestUploadService_WriteChunk_Nominal(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service, uow, store, locks := newTestService(t, nil)
	payload := []byte("hello world")

	uow.GetSessionRepoMock().On("FindByID", ctx, int64(1)).
		Return(&domain.UploadSession{ID: 1, StorageLocation: "20260830/s1"}, nil)
	locks.On("Acquire", ctx, int64(1)).Return(nil)
	locks.On("Release", ctx, int64(1)).Return(nil)
	store.On("EnsureDir", ctx, "20260830/s1").Return(nil)
	store.On("Write", ctx, chunkPathMatcher("20260830/s1/0_"), mock.Anything).
		Return(int64(len(payload)), nil)
	store.On("Open", ctx, chunkPathMatcher("20260830/s1/0_")).
		Return(io.NopCloser(bytes.NewReader(payload)), nil)
	uow.GetChunkRepoMock().On("Create", ctx, mock.MatchedBy(func(c domain.UploadChunk) bool {
		return c.SessionID == 1 && c.Size == int64(len(payload)) && strings.HasPrefix(c.Name, "0_")
	})).Return(&domain.UploadChunk{ID: 9, SessionID: 1, Size: int64(len(payload))}, nil)

	// Act
	chunk, err := service.WriteChunk(ctx, 1, 0, helloWorldMD5, "alice", bytes.NewReader(payload))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(9), chunk.ID)
	locks.AssertExpectations(t)
	store.AssertExpectations(t)
	uow.GetChunkRepoMock().AssertExpectations(t)
}

func TestUploadService_WriteChunk_UppercaseSignatureAccepted(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service, uow, store, locks := newTestService(t, nil)
	payload := []byte("hello world")

	uow.GetSessionRepoMock().On("FindByID", ctx, int64(1)).
		Return(&domain.UploadSession{ID: 1, StorageLocation: "loc"}, nil)
	locks.On("Acquire", ctx, int64(1)).Return(nil)
	locks.On("Release", ctx, int64(1)).Return(nil)
	store.On("EnsureDir", ctx, "loc").Return(nil)
	store.On("Write", ctx, mock.Anything, mock.Anything).Return(int64(len(payload)), nil)
	store.On("Open", ctx, mock.Anything).Return(io.NopCloser(bytes.NewReader(payload)), nil)
	uow.GetChunkRepoMock().On("Create", ctx, mock.Anything).
		Return(&domain.UploadChunk{ID: 1}, nil)

	// Act
	_, err := service.WriteChunk(ctx, 1, 0, strings.ToUpper(helloWorldMD5), "alice", bytes.NewReader(payload))

	// Assert
	assert.NoError(t, err)
}

func TestUploadService_WriteChunk_LockUnavailable(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service, _, store, locks := newTestService(t, nil)

	locks.On("Acquire", ctx, int64(1)).Return(domain.ErrSessionClosed)

	// Act
	_, err := service.WriteChunk(ctx, 1, 0, helloWorldMD5, "alice", strings.NewReader("x"))

	// Assert
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
	store.AssertNotCalled(t, "Write", mock.Anything, mock.Anything, mock.Anything)
	locks.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
}

func TestUploadService_WriteChunk_TooLarge(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service, uow, store, locks := newTestService(t, nil)
	payload := bytes.Repeat([]byte("a"), 2048) // limit in testUploadConfig is 1024

	uow.GetSessionRepoMock().On("FindByID", ctx, int64(1)).
		Return(&domain.UploadSession{ID: 1, StorageLocation: "loc"}, nil)
	locks.On("Acquire", ctx, int64(1)).Return(nil)
	locks.On("Release", ctx, int64(1)).Return(nil)
	store.On("EnsureDir", ctx, "loc").Return(nil)
	store.On("Write", ctx, mock.Anything, mock.Anything).Return(int64(len(payload)), nil)
	store.On("Delete", ctx, chunkPathMatcher("loc/0_")).Return(nil)

	// Act
	_, err := service.WriteChunk(ctx, 1, 0, helloWorldMD5, "alice", bytes.NewReader(payload))

	// Assert: oversized file removed, lock still released, no row created
	assert.ErrorIs(t, err, domain.ErrChunkTooLarge)
	store.AssertExpectations(t)
	locks.AssertExpectations(t)
	uow.GetChunkRepoMock().AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUploadService_WriteChunk_SignatureMismatch(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service, uow, store, locks := newTestService(t, nil)
	payload := []byte("hello world")

	uow.GetSessionRepoMock().On("FindByID", ctx, int64(1)).
		Return(&domain.UploadSession{ID: 1, StorageLocation: "loc"}, nil)
	locks.On("Acquire", ctx, int64(1)).Return(nil)
	locks.On("Release", ctx, int64(1)).Return(nil)
	store.On("EnsureDir", ctx, "loc").Return(nil)
	store.On("Write", ctx, mock.Anything, mock.Anything).Return(int64(len(payload)), nil)
	store.On("Open", ctx, mock.Anything).Return(io.NopCloser(bytes.NewReader(payload)), nil)
	store.On("Delete", ctx, chunkPathMatcher("loc/0_")).Return(nil)

	// Act
	_, err := service.WriteChunk(ctx, 1, 0, "deadbeefdeadbeefdeadbeefdeadbeef", "alice", bytes.NewReader(payload))

	// Assert
	assert.ErrorIs(t, err, domain.ErrSignatureMismatch)
	store.AssertExpectations(t)
	uow.GetChunkRepoMock().AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUploadService_WriteChunk_ReleaseFailureDiscardsFile(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service, uow, store, locks := newTestService(t, nil)
	payload := []byte("hello world")
	releaseErr := errors.New("release failed")

	uow.GetSessionRepoMock().On("FindByID", ctx, int64(1)).
		Return(&domain.UploadSession{ID: 1, StorageLocation: "loc"}, nil)
	locks.On("Acquire", ctx, int64(1)).Return(nil)
	locks.On("Release", ctx, int64(1)).Return(releaseErr)
	store.On("EnsureDir", ctx, "loc").Return(nil)
	store.On("Write", ctx, mock.Anything, mock.Anything).Return(int64(len(payload)), nil)
	store.On("Delete", ctx, chunkPathMatcher("loc/0_")).Return(nil)

	// Act
	_, err := service.WriteChunk(ctx, 1, 0, helloWorldMD5, "alice", bytes.NewReader(payload))

	// Assert
	assert.ErrorIs(t, err, releaseErr)
	store.AssertExpectations(t)
	uow.GetChunkRepoMock().AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUploadService_WriteChunk_SessionMissing(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service, uow, store, locks := newTestService(t, nil)

	locks.On("Acquire", ctx, int64(404)).Return(nil)
	locks.On("Release", ctx, int64(404)).Return(nil)
	uow.GetSessionRepoMock().On("FindByID", ctx, int64(404)).
		Return((*domain.UploadSession)(nil), domain.ErrSessionNotFound)

	// Act
	_, err := service.WriteChunk(ctx, 404, 0, helloWorldMD5, "alice", strings.NewReader("x"))

	// Assert
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	store.AssertNotCalled(t, "Write", mock.Anything, mock.Anything, mock.Anything)
	locks.AssertExpectations(t)
}
