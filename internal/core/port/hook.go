package port

import (
	"context"

	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/domain"
)

// Hook is a callback invoked around upload operations. Hooks run in the order
// they were registered; a false Before result or an error aborts the
// enclosing operation, and After may reshape the operation's result.
type Hook interface {
	Before(ctx context.Context, hc *domain.HookContext) (bool, error)
	After(ctx context.Context, hc *domain.HookContext, result domain.Result) error
}
