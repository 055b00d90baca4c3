package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/carelink/carelink-api/internal/domain/ambulance"
)

type AmbulanceRepository struct {
	db *gorm.DB
}

func NewAmbulanceRepository(db *gorm.DB) *AmbulanceRepository {
	return &AmbulanceRepository{db: db}
}

func (r *AmbulanceRepository) CreateAmbulance(ctx context.Context, a *ambulance.Ambulance) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AmbulanceRepository) ListAvailable(ctx context.Context) ([]*ambulance.Ambulance, error) {
	var ambulances []*ambulance.Ambulance
	err := r.db.WithContext(ctx).
		Where("available = ?", true).
		Order("created_at ASC").
		Find(&ambulances).Error
	return ambulances, err
}

// ClaimFirstAvailable runs the select, the flag flip, and the booking insert
// in one transaction. FOR UPDATE SKIP LOCKED makes two concurrent claims of
// the last ambulance resolve to one winner and one ErrNoAmbulanceAvailable
// instead of a double booking.
func (r *AmbulanceRepository) ClaimFirstAvailable(ctx context.Context, b *ambulance.Booking) (*ambulance.Ambulance, error) {
	var amb ambulance.Ambulance

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("available = ?", true).
			Order("created_at ASC").
			First(&amb).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ambulance.ErrNoAmbulanceAvailable
		}
		if err != nil {
			return err
		}

		if err := tx.Model(&amb).Update("available", false).Error; err != nil {
			return err
		}

		b.AmbulanceID = amb.ID
		return tx.Create(b).Error
	})
	if err != nil {
		return nil, err
	}

	amb.Available = false
	b.Ambulance = &amb
	return &amb, nil
}

func (r *AmbulanceRepository) GetBookingByID(ctx context.Context, id uuid.UUID) (*ambulance.Booking, error) {
	var b ambulance.Booking
	err := r.db.WithContext(ctx).
		Preload("Ambulance").
		First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ambulance.ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateBookingStatus persists the booking status; terminal transitions
// release the ambulance inside the same transaction.
func (r *AmbulanceRepository) UpdateBookingStatus(ctx context.Context, b *ambulance.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(b).Select("status").Updates(b).Error; err != nil {
			return err
		}

		if b.Status.IsTerminal() {
			if err := tx.Model(&ambulance.Ambulance{}).
				Where("id = ?", b.AmbulanceID).
				Update("available", true).Error; err != nil {
				return err
			}
			if b.Ambulance != nil {
				b.Ambulance.Available = true
			}
		}
		return nil
	})
}

func (r *AmbulanceRepository) ListBookings(ctx context.Context, q *ambulance.ListBookingsQuery) (*ambulance.PagedBookings, error) {
	query := r.db.WithContext(ctx).Model(&ambulance.Booking{})

	if q.PatientID != nil {
		query = query.Where("patient_id = ?", *q.PatientID)
	}
	if q.HospitalID != nil {
		query = query.Where(
			"ambulance_id IN (?)",
			r.db.Model(&ambulance.Ambulance{}).Select("id").Where("hospital_id = ?", *q.HospitalID),
		)
	}
	if q.Status != nil {
		query = query.Where("status = ?", *q.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var bookings []*ambulance.Booking
	err := query.
		Preload("Ambulance").
		Order("created_at DESC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}

	return &ambulance.PagedBookings{
		Bookings:   bookings,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
	}, nil
}
