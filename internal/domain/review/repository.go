package review

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *Review) error
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Review, error)

	// Aggregate returns the average rating and count for a doctor.
	Aggregate(ctx context.Context, doctorID uuid.UUID) (avg float64, count int, err error)
}
