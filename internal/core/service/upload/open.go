package upload

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/domain"
)

// Open creates a new slice-upload session. The session starts with a lock
// counter of zero and a freshly minted storage location that no other session
// will ever share.
func (u *uploadService) Open(ctx context.Context, name, owner, operator string) (*domain.UploadSession, error) {

	hc := &domain.HookContext{Operation: "open", Operator: operator, Extra: map[string]string{"name": name}}
	if err := u.runBefore(ctx, hc); err != nil {
		return nil, err
	}

	location := fmt.Sprintf("%s/%s", time.Now().UTC().Format("20060102"), uuid.NewString())

	created, err := u.uow.SessionRepo().Create(ctx, domain.UploadSession{
		Name:            name,
		Source:          domain.UploadSourceSlice,
		StorageLocation: location,
		Owner:           owner,
		Operator:        operator,
	})
	if err != nil {
		return nil, fmt.Errorf("could not open upload session: %w", err)
	}

	hc.SessionID = created.ID
	if err := u.runAfter(ctx, hc, domain.Result{"id": created.ID, "location": created.StorageLocation}); err != nil {
		return nil, err
	}
	return created, nil
}
