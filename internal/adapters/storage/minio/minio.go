package minio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/config"
	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/port"
)

// Adapter implements the byte storage port over an object store. Storage
// tokens map onto object keys; "directories" only exist as key prefixes, so
// EnsureDir is a no-op and deleting a directory removes the whole prefix.
type Adapter struct {
	client *minio.Client
	config config.MinioConfig
	logger *slog.Logger
}

// NewAdapter returns Adapter
func NewAdapter(ctx context.Context, cfg config.MinioConfig, logger *slog.Logger) (*Adapter, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &Adapter{client: client, config: cfg, logger: logger}, nil
}

func (a *Adapter) Write(ctx context.Context, path string, r io.Reader) (int64, error) {
	info, err := a.client.PutObject(ctx, a.config.BucketName, path, r, -1, minio.PutObjectOptions{})
	if err != nil {
		return 0, fmt.Errorf("failed to write object %s: %w", path, err)
	}
	return info.Size, nil
}

func (a *Adapter) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	obj, err := a.client.GetObject(ctx, a.config.BucketName, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open object %s: %w", path, err)
	}
	return obj, nil
}

func (a *Adapter) List(ctx context.Context, dir string) ([]port.FileInfo, error) {
	prefix := strings.TrimSuffix(dir, "/") + "/"

	var infos []port.FileInfo
	for obj := range a.client.ListObjects(ctx, a.config.BucketName, minio.ListObjectsOptions{Prefix: prefix}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list prefix %s: %w", prefix, obj.Err)
		}
		name := strings.TrimPrefix(obj.Key, prefix)
		if name == "" || strings.Contains(name, "/") {
			continue
		}
		infos = append(infos, port.FileInfo{Name: name, Size: obj.Size})
	}
	return infos, nil
}

func (a *Adapter) Length(ctx context.Context, path string) (int64, error) {
	info, err := a.client.StatObject(ctx, a.config.BucketName, path, minio.StatObjectOptions{})
	if err != nil {
		return 0, fmt.Errorf("failed to stat object %s: %w", path, err)
	}
	return info.Size, nil
}

// Delete removes the object at path; when no such object exists the path is
// treated as a prefix and every object under it is removed.
func (a *Adapter) Delete(ctx context.Context, path string) error {
	if _, err := a.client.StatObject(ctx, a.config.BucketName, path, minio.StatObjectOptions{}); err == nil {
		if err := a.client.RemoveObject(ctx, a.config.BucketName, path, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("failed to delete object %s: %w", path, err)
		}
		return nil
	}

	prefix := strings.TrimSuffix(path, "/") + "/"
	for obj := range a.client.ListObjects(ctx, a.config.BucketName, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return fmt.Errorf("failed to list prefix %s: %w", prefix, obj.Err)
		}
		if err := a.client.RemoveObject(ctx, a.config.BucketName, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("failed to delete object %s: %w", obj.Key, err)
		}
	}
	return nil
}

func (a *Adapter) Exists(ctx context.Context, path string) (bool, error) {
	if _, err := a.client.StatObject(ctx, a.config.BucketName, path, minio.StatObjectOptions{}); err == nil {
		return true, nil
	}

	prefix := strings.TrimSuffix(path, "/") + "/"
	for obj := range a.client.ListObjects(ctx, a.config.BucketName, minio.ListObjectsOptions{Prefix: prefix, MaxKeys: 1}) {
		if obj.Err != nil {
			return false, fmt.Errorf("failed to list prefix %s: %w", prefix, obj.Err)
		}
		return true, nil
	}
	return false, nil
}

// EnsureDir is a no-op: object storage has no directories
func (a *Adapter) EnsureDir(ctx context.Context, dir string) error {
	return nil
}
