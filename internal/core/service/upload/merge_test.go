package upload_test

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/adapters/storage/disk"
	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/config"
	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/domain"
	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/port"
	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/service/lock"
	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/service/upload"
)

// memStore is an in-memory session and chunk store with the same version
// guard semantics as the SQL repositories. It lets the merge tests run the
// full service pipeline against a real filesystem without a database.
type memStore struct {
	mu       sync.Mutex
	sessions map[int64]domain.UploadSession
	chunks   []domain.UploadChunk
	nextID   int64
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[int64]domain.UploadSession), nextID: 1}
}

type memSessionRepo struct{ s *memStore }

func (r memSessionRepo) Create(ctx context.Context, session domain.UploadSession) (*domain.UploadSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	session.ID = r.s.nextID
	r.s.nextID++
	r.s.sessions[session.ID] = session
	return &session, nil
}

func (r memSessionRepo) FindByID(ctx context.Context, id int64) (*domain.UploadSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	session, ok := r.s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

func (r memSessionRepo) FindOldestAfter(ctx context.Context, cursor int64, createdBefore time.Time) (*domain.UploadSession, error) {
	return nil, domain.ErrSessionNotFound
}

func (r memSessionRepo) Update(ctx context.Context, session domain.UploadSession) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.sessions[session.ID]
	if !ok || current.Version != session.Version {
		return 0, nil
	}
	session.Version++
	r.s.sessions[session.ID] = session
	return 1, nil
}

func (r memSessionRepo) Delete(ctx context.Context, id int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.sessions, id)
	return 1, nil
}

type memChunkRepo struct{ s *memStore }

func (r memChunkRepo) Create(ctx context.Context, chunk domain.UploadChunk) (*domain.UploadChunk, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	chunk.ID = r.s.nextID
	r.s.nextID++
	r.s.chunks = append(r.s.chunks, chunk)
	return &chunk, nil
}

func (r memChunkRepo) FindBySessionID(ctx context.Context, sessionID int64) ([]domain.UploadChunk, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.UploadChunk
	for _, c := range r.s.chunks {
		if c.SessionID == sessionID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r memChunkRepo) FindOldestAfter(ctx context.Context, cursor int64, createdBefore time.Time) (*domain.UploadChunk, error) {
	return nil, domain.ErrChunkNotFound
}

func (r memChunkRepo) DeleteBySessionID(ctx context.Context, sessionID int64) (int64, error) {
	return 0, nil
}

type memUnitOfWork struct{ s *memStore }

func (u memUnitOfWork) SessionRepo() port.SessionRepository { return memSessionRepo{u.s} }
func (u memUnitOfWork) ChunkRepo() port.ChunkRepository     { return memChunkRepo{u.s} }
func (u memUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	return fn(u)
}

func permutations(n int) [][]int {
	base := make([]int, n)
	for i := range base {
		base[i] = i
	}
	var out [][]int
	var generate func(k int)
	generate = func(k int) {
		if k == 1 {
			out = append(out, append([]int(nil), base...))
			return
		}
		for i := 0; i < k; i++ {
			generate(k - 1)
			if k%2 == 0 {
				base[i], base[k-1] = base[k-1], base[i]
			} else {
				base[0], base[k-1] = base[k-1], base[0]
			}
		}
	}
	generate(n)
	return out
}

func TestUploadService_Merge_OrderIndependent(t *testing.T) {
	// Arrange
	ctx := context.Background()
	adapter, err := disk.NewAdapter(t.TempDir(), slog.Default())
	require.NoError(t, err)

	store := newMemStore()
	uow := memUnitOfWork{store}
	locks := lock.NewManager(memSessionRepo{store}, config.LockConfig{MaxRetry: 3, RetryBase: time.Millisecond}, slog.Default())

	parts := [][]byte{
		[]byte("first-"),
		[]byte("second-"),
		[]byte("third-"),
		[]byte("fourth"),
	}
	var want bytes.Buffer
	for _, p := range parts {
		want.Write(p)
	}

	service := upload.NewUploadService(uow, adapter, locks, md5Factory(t), nil, config.UploadConfig{MaxChunkSize: 1024, Signature: "md5"}, slog.Default())

	for _, perm := range permutations(len(parts)) {
		t.Run(fmt.Sprintf("arrival%v", perm), func(t *testing.T) {
			// Arrange: one session per arrival order
			session, err := service.Open(ctx, "artifact.bin", "alice", "alice")
			require.NoError(t, err)

			// Act: write the chunks in permuted order, then merge
			for _, index := range perm {
				sum := md5.Sum(parts[index])
				_, err := service.WriteChunk(ctx, session.ID, index,
					hex.EncodeToString(sum[:]), "alice", bytes.NewReader(parts[index]))
				require.NoError(t, err)
			}
			result, err := service.Close(ctx, session.ID, "alice")
			require.NoError(t, err)

			// Assert: artifact bytes never depend on arrival order
			reader, err := adapter.Open(ctx, result["location"].(string))
			require.NoError(t, err)
			defer reader.Close()
			got, err := io.ReadAll(reader)
			require.NoError(t, err)
			assert.Equal(t, want.Bytes(), got)
			assert.Equal(t, int64(want.Len()), result["size"])
		})
	}
}

func TestUploadService_WriteChunk_AfterClose(t *testing.T) {
	// Arrange
	ctx := context.Background()
	adapter, err := disk.NewAdapter(t.TempDir(), slog.Default())
	require.NoError(t, err)

	store := newMemStore()
	uow := memUnitOfWork{store}
	locks := lock.NewManager(memSessionRepo{store}, config.LockConfig{MaxRetry: 3, RetryBase: time.Millisecond}, slog.Default())
	service := upload.NewUploadService(uow, adapter, locks, md5Factory(t), nil, config.UploadConfig{MaxChunkSize: 1024, Signature: "md5"}, slog.Default())

	session, err := service.Open(ctx, "artifact.bin", "alice", "alice")
	require.NoError(t, err)

	payload := []byte("only chunk")
	sum := md5.Sum(payload)
	_, err = service.WriteChunk(ctx, session.ID, 0, hex.EncodeToString(sum[:]), "alice", bytes.NewReader(payload))
	require.NoError(t, err)
	_, err = service.Close(ctx, session.ID, "alice")
	require.NoError(t, err)

	// Act
	_, err = service.WriteChunk(ctx, session.ID, 1, hex.EncodeToString(sum[:]), "alice", bytes.NewReader(payload))

	// Assert
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
}
