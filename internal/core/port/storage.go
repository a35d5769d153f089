package port

import (
	"context"
	"io"
)

// FileInfo describes one stored file inside a directory listing
type FileInfo struct {
	Name string
	Size int64
}

// ByteStorage is an interface to define byte container interactions.
// Paths are opaque slash-separated tokens owned by the session layer; the
// storage has no authority over session state.
type ByteStorage interface {
	Write(ctx context.Context, path string, r io.Reader) (int64, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	List(ctx context.Context, dir string) ([]FileInfo, error)
	Length(ctx context.Context, path string) (int64, error)
	// Delete removes a file or a whole directory tree; missing paths are not
	// an error.
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
	EnsureDir(ctx context.Context, dir string) error
}
