package upload

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/config"
	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/domain"
	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/port"
)

type uploadService struct {
	uow       port.UnitOfWork
	storage   port.ByteStorage
	locks     port.LockManager
	verifier  port.VerifierFactory
	hooks     []port.Hook
	uploadCfg config.UploadConfig
	logger    *slog.Logger
}

// NewUploadService creates a new upload service. The verifier factory and the
// hook chain are resolved once at startup and injected here.
func NewUploadService(
	uow port.UnitOfWork,
	storage port.ByteStorage,
	locks port.LockManager,
	verifier port.VerifierFactory,
	hooks []port.Hook,
	cfg config.UploadConfig,
	logger *slog.Logger,
) port.UploadService {
	return &uploadService{
		uow:       uow,
		storage:   storage,
		locks:     locks,
		verifier:  verifier,
		hooks:     hooks,
		uploadCfg: cfg,
		logger:    logger,
	}
}

// runBefore invokes the before hooks in order; a false result or an error
// aborts the operation.
func (u *uploadService) runBefore(ctx context.Context, hc *domain.HookContext) error {
	for _, h := range u.hooks {
		ok, err := h.Before(ctx, hc)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrHookRejected, hc.Operation)
		}
	}
	return nil
}

// runAfter invokes the after hooks in order; hooks may mutate the result
func (u *uploadService) runAfter(ctx context.Context, hc *domain.HookContext, result domain.Result) error {
	for _, h := range u.hooks {
		if err := h.After(ctx, hc, result); err != nil {
			return err
		}
	}
	return nil
}
