package upload_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/domain"
	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/port"
)

func TestUploadService_Close_Nominal(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service, uow, store, locks := newTestService(t, nil)

	session := &domain.UploadSession{
		ID: 5, Name: "video.mp4", StorageLocation: "20260830/s5",
		Source: domain.UploadSourceSlice, Owner: "alice", Lock: domain.LockClosed, Version: 4,
	}
	locks.On("Close", ctx, int64(5)).Return(nil)
	uow.GetSessionRepoMock().On("FindByID", ctx, int64(5)).Return(session, nil)

	// listing order is not index order
	store.On("List", ctx, "20260830/s5").Return([]port.FileInfo{
		{Name: "2_c", Size: 2},
		{Name: "0_a", Size: 3},
		{Name: "10_d", Size: 1},
		{Name: "1_b", Size: 2},
	}, nil)
	store.On("Open", ctx, "20260830/s5/0_a").Return(io.NopCloser(bytes.NewReader([]byte("aaa"))), nil)
	store.On("Open", ctx, "20260830/s5/1_b").Return(io.NopCloser(bytes.NewReader([]byte("bb"))), nil)
	store.On("Open", ctx, "20260830/s5/2_c").Return(io.NopCloser(bytes.NewReader([]byte("cc"))), nil)
	store.On("Open", ctx, "20260830/s5/10_d").Return(io.NopCloser(bytes.NewReader([]byte("d"))), nil)

	var merged bytes.Buffer
	store.On("Write", ctx, "20260830/s5/video.mp4", mock.Anything).
		Run(func(args mock.Arguments) {
			_, err := io.Copy(&merged, args.Get(2).(io.Reader))
			require.NoError(t, err)
		}).
		Return(int64(8), nil)

	uow.GetSessionRepoMock().On("Update", ctx, mock.MatchedBy(func(s domain.UploadSession) bool {
		return s.ID == 5 && s.Size == 8 && s.Operator == "bob"
	})).Return(int64(1), nil)

	// Act
	result, err := service.Close(ctx, 5, "bob")

	// Assert: chunks concatenated by numeric index, not by listing order
	require.NoError(t, err)
	assert.Equal(t, "aaabbccd", merged.String())
	assert.Equal(t, int64(5), result["id"])
	assert.Equal(t, "20260830/s5/video.mp4", result["location"])
	assert.Equal(t, int64(8), result["size"])
	store.AssertExpectations(t)
	uow.GetSessionRepoMock().AssertExpectations(t)
}

func TestUploadService_Close_NoChunks(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service, uow, store, locks := newTestService(t, nil)

	locks.On("Close", ctx, int64(5)).Return(nil)
	uow.GetSessionRepoMock().On("FindByID", ctx, int64(5)).
		Return(&domain.UploadSession{ID: 5, StorageLocation: "loc"}, nil)
	store.On("List", ctx, "loc").Return([]port.FileInfo{
		{Name: "readme.txt", Size: 1}, // no numeric prefix, ignored
	}, nil)

	// Act
	_, err := service.Close(ctx, 5, "bob")

	// Assert
	assert.ErrorIs(t, err, domain.ErrNoChunks)
	store.AssertNotCalled(t, "Write", mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadService_Close_AlreadyClosed(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service, uow, _, locks := newTestService(t, nil)

	locks.On("Close", ctx, int64(5)).Return(domain.ErrSessionAlreadyClosed)

	// Act
	_, err := service.Close(ctx, 5, "bob")

	// Assert
	assert.ErrorIs(t, err, domain.ErrSessionAlreadyClosed)
	uow.GetSessionRepoMock().AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestUploadService_Close_ActiveChunks(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service, _, store, locks := newTestService(t, nil)

	locks.On("Close", ctx, int64(5)).Return(domain.ErrActiveChunks)

	// Act
	_, err := service.Close(ctx, 5, "bob")

	// Assert
	assert.ErrorIs(t, err, domain.ErrActiveChunks)
	store.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestUploadService_Close_FinalizeVersionConflict(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service, uow, store, locks := newTestService(t, nil)

	locks.On("Close", ctx, int64(5)).Return(nil)
	uow.GetSessionRepoMock().On("FindByID", ctx, int64(5)).
		Return(&domain.UploadSession{ID: 5, Name: "f", StorageLocation: "loc"}, nil)
	store.On("List", ctx, "loc").Return([]port.FileInfo{{Name: "0_a", Size: 1}}, nil)
	store.On("Open", ctx, "loc/0_a").Return(io.NopCloser(bytes.NewReader([]byte("a"))), nil)
	store.On("Write", ctx, "loc/f", mock.Anything).Return(int64(1), nil)
	uow.GetSessionRepoMock().On("Update", ctx, mock.Anything).Return(int64(0), nil)

	// Act
	_, err := service.Close(ctx, 5, "bob")

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "version conflict")
}
