package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Upsert creates the profile on first write, updates it afterwards.
	Upsert(ctx context.Context, p *Profile) error

	// GetByUserID retrieves a profile. Returns ErrProfileNotFound if absent.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
}
