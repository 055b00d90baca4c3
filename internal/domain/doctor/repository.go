package doctor

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Upsert creates the profile on first write, updates it afterwards.
	Upsert(ctx context.Context, p *Profile) error

	// GetByUserID returns the joined listing. Returns ErrDoctorNotFound.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Listing, error)

	// List returns a paginated, filtered listing of doctors.
	List(ctx context.Context, q *ListQuery) (*PagedListings, error)

	// SetRating overwrites the denormalized review aggregate.
	SetRating(ctx context.Context, userID uuid.UUID, avg float64, count int) error
}
