package ambulance

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	CreateAmbulance(ctx context.Context, a *Ambulance) error

	// ListAvailable returns every ambulance currently marked available.
	ListAvailable(ctx context.Context) ([]*Ambulance, error)

	// ClaimFirstAvailable atomically selects the first available ambulance,
	// marks it unavailable, and inserts the booking in one transaction, so a
	// crash can never leave the flag and the booking row disagreeing.
	// Returns ErrNoAmbulanceAvailable when every flag is false.
	ClaimFirstAvailable(ctx context.Context, b *Booking) (*Ambulance, error)

	GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// UpdateBookingStatus persists the status; when newStatus is terminal it
	// releases the ambulance in the same transaction.
	UpdateBookingStatus(ctx context.Context, b *Booking) error

	ListBookings(ctx context.Context, q *ListBookingsQuery) (*PagedBookings, error)
}
