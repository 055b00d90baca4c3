package hospital

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, h *Hospital) error

	// GetByID returns ErrHospitalNotFound when the ID is unknown.
	GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error)

	// GetByAdminUserID resolves the hospital managed by a user account.
	GetByAdminUserID(ctx context.Context, userID uuid.UUID) (*Hospital, error)

	Update(ctx context.Context, id uuid.UUID, cmd *UpdateCommand) (*Hospital, error)

	List(ctx context.Context, q *ListQuery) (*PagedHospitals, error)
}
