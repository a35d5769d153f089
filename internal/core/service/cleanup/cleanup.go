package cleanup

import (
	"log/slog"

	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/config"
	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/port"
)

type cleanupService struct {
	uow     port.UnitOfWork
	storage port.ByteStorage
	cfg     config.CleanupConfig
	logger  *slog.Logger
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(uow port.UnitOfWork, storage port.ByteStorage, cfg config.CleanupConfig, logger *slog.Logger) port.CleanupService {
	return &cleanupService{
		uow:     uow,
		storage: storage,
		cfg:     cfg,
		logger:  logger,
	}
}
