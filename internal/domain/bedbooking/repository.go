package bedbooking

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, b *BedBooking) error
	GetByID(ctx context.Context, id uuid.UUID) (*BedBooking, error)
	Update(ctx context.Context, id uuid.UUID, cmd *UpdateCommand) (*BedBooking, error)
	List(ctx context.Context, q *ListQuery) (*PagedBedBookings, error)

	// CountActive is the authoritative occupancy figure for a hospital.
	CountActive(ctx context.Context, hospitalID uuid.UUID) (int, error)
}
