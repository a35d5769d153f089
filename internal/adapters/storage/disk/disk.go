package disk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/port"
)

// Adapter is a filesystem implementation of the byte storage port. Paths are
// slash-separated tokens resolved under a single base directory.
type Adapter struct {
	base   string
	logger *slog.Logger
}

// NewAdapter returns Adapter rooted at basePath, creating it when absent
func NewAdapter(basePath string, logger *slog.Logger) (*Adapter, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage base path: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage base path: %w", err)
	}
	return &Adapter{base: abs, logger: logger}, nil
}

// resolve maps a storage token onto the base directory, rejecting anything
// that would escape it.
func (a *Adapter) resolve(path string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(path))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid storage path: %s", path)
	}
	return filepath.Join(a.base, cleaned), nil
}

func (a *Adapter) Write(ctx context.Context, path string, r io.Reader) (int64, error) {
	target, err := a.resolve(path)
	if err != nil {
		return 0, err
	}

	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("failed to create file %s: %w", path, err)
	}

	written, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return written, fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return written, nil
}

func (a *Adapter) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	target, err := a.resolve(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(target)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	return f, nil
}

func (a *Adapter) List(ctx context.Context, dir string) ([]port.FileInfo, error) {
	target, err := a.resolve(dir)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list directory %s: %w", dir, err)
	}

	infos := make([]port.FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s/%s: %w", dir, entry.Name(), err)
		}
		infos = append(infos, port.FileInfo{Name: entry.Name(), Size: info.Size()})
	}
	return infos, nil
}

func (a *Adapter) Length(ctx context.Context, path string) (int64, error) {
	target, err := a.resolve(path)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(target)
	if err != nil {
		return 0, fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	return info.Size(), nil
}

// Delete removes a file or a directory tree; a missing path is a no-op
func (a *Adapter) Delete(ctx context.Context, path string) error {
	target, err := a.resolve(path)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(target); err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

func (a *Adapter) Exists(ctx context.Context, path string) (bool, error) {
	target, err := a.resolve(path)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(target); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (a *Adapter) EnsureDir(ctx context.Context, dir string) error {
	target, err := a.resolve(dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
