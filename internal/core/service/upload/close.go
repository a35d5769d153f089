package upload

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/domain"
	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/port"
)

// Close transitions the session to its terminal state and assembles the final
// artifact. Chunk files are concatenated in ascending order of the numeric
// index encoded in their filename, so arrival order never matters. The
// session metadata commits only after the artifact write succeeded.
func (u *uploadService) Close(ctx context.Context, sessionID int64, operator string) (domain.Result, error) {

	hc := &domain.HookContext{Operation: "close", SessionID: sessionID, Operator: operator, Extra: map[string]string{}}
	if err := u.runBefore(ctx, hc); err != nil {
		return nil, err
	}

	if err := u.locks.Close(ctx, sessionID); err != nil {
		return nil, err
	}

	// fresh read: Close bumped the version stamp
	session, err := u.uow.SessionRepo().FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	files, err := u.storage.List(ctx, session.StorageLocation)
	if err != nil {
		return nil, err
	}
	chunks := orderChunkFiles(files)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: session %d", domain.ErrNoChunks, sessionID)
	}

	artifact := session.StorageLocation + "/" + session.Name
	size, err := u.concatenate(ctx, session.StorageLocation, chunks, artifact)
	if err != nil {
		return nil, fmt.Errorf("merge of session %d failed: %w", sessionID, err)
	}

	session.Size = size
	session.Operator = operator
	rows, err := u.uow.SessionRepo().Update(ctx, *session)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, fmt.Errorf("finalize of session %d hit a version conflict", sessionID)
	}

	result := domain.Result{
		"id":       session.ID,
		"name":     session.Name,
		"size":     size,
		"source":   string(session.Source),
		"location": artifact,
		"owner":    session.Owner,
		"operator": operator,
	}
	if err := u.runAfter(ctx, hc, result); err != nil {
		return nil, err
	}
	return result, nil
}

// ListChunks returns the validated chunk rows of a session, for clients that
// resume an interrupted upload.
func (u *uploadService) ListChunks(ctx context.Context, sessionID int64) ([]domain.UploadChunk, error) {
	if _, err := u.uow.SessionRepo().FindByID(ctx, sessionID); err != nil {
		return nil, err
	}
	return u.uow.ChunkRepo().FindBySessionID(ctx, sessionID)
}

type chunkFile struct {
	name  string
	index int
}

// orderChunkFiles keeps the files carrying a parseable numeric prefix and
// sorts them ascending by it. The sort is stable; two files sharing an index
// keep their listing order.
func orderChunkFiles(files []port.FileInfo) []chunkFile {
	chunks := make([]chunkFile, 0, len(files))
	for _, f := range files {
		index, ok := parseChunkIndex(f.Name)
		if !ok {
			continue
		}
		chunks = append(chunks, chunkFile{name: f.Name, index: index})
	}
	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].index < chunks[j].index
	})
	return chunks
}

func parseChunkIndex(name string) (int, bool) {
	prefix, _, found := strings.Cut(name, "_")
	if !found {
		return 0, false
	}
	index, err := strconv.Atoi(prefix)
	if err != nil || index < 0 {
		return 0, false
	}
	return index, true
}

func (u *uploadService) concatenate(ctx context.Context, dir string, chunks []chunkFile, artifact string) (int64, error) {
	readers := make([]io.Reader, 0, len(chunks))
	defer func() {
		for _, r := range readers {
			if rc, ok := r.(io.ReadCloser); ok {
				rc.Close()
			}
		}
	}()

	for _, c := range chunks {
		rc, err := u.storage.Open(ctx, dir+"/"+c.name)
		if err != nil {
			return 0, err
		}
		readers = append(readers, rc)
	}

	return u.storage.Write(ctx, artifact, io.MultiReader(readers...))
}
