package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carelink/carelink-api/internal/domain/bedbooking"
)

type BedBookingRepository struct {
	db *gorm.DB
}

func NewBedBookingRepository(db *gorm.DB) *BedBookingRepository {
	return &BedBookingRepository{db: db}
}

func (r *BedBookingRepository) Create(ctx context.Context, b *bedbooking.BedBooking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BedBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*bedbooking.BedBooking, error) {
	var b bedbooking.BedBooking
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, bedbooking.ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BedBookingRepository) Update(ctx context.Context, id uuid.UUID, cmd *bedbooking.UpdateCommand) (*bedbooking.BedBooking, error) {
	updates := map[string]any{}
	if cmd.Status != nil {
		updates["status"] = *cmd.Status
	}
	if cmd.DischargeDate != nil {
		updates["discharge_date"] = *cmd.DischargeDate
	}
	if cmd.TotalAmount != nil {
		updates["total_amount"] = *cmd.TotalAmount
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).
			Model(&bedbooking.BedBooking{}).
			Where("id = ?", id).
			Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, bedbooking.ErrBookingNotFound
		}
	}

	return r.GetByID(ctx, id)
}

func (r *BedBookingRepository) List(ctx context.Context, q *bedbooking.ListQuery) (*bedbooking.PagedBedBookings, error) {
	query := r.db.WithContext(ctx).Model(&bedbooking.BedBooking{})

	if q.PatientID != nil {
		query = query.Where("patient_id = ?", *q.PatientID)
	}
	if q.HospitalID != nil {
		query = query.Where("hospital_id = ?", *q.HospitalID)
	}
	if q.Status != nil {
		query = query.Where("status = ?", *q.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var bookings []*bedbooking.BedBooking
	err := query.
		Order("created_at DESC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}

	return &bedbooking.PagedBedBookings{
		Bookings:   bookings,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
	}, nil
}

// CountActive is the authoritative occupancy count; the partial index on
// (hospital_id) WHERE status = 'ACTIVE' keeps this a cheap scan.
func (r *BedBookingRepository) CountActive(ctx context.Context, hospitalID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&bedbooking.BedBooking{}).
		Where("hospital_id = ? AND status = ?", hospitalID, bedbooking.StatusActive).
		Count(&count).Error
	return int(count), err
}
