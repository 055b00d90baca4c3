package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carelink/carelink-api/internal/domain/hospital"
)

type HospitalRepository struct {
	db *gorm.DB
}

func NewHospitalRepository(db *gorm.DB) *HospitalRepository {
	return &HospitalRepository{db: db}
}

func (r *HospitalRepository) Create(ctx context.Context, h *hospital.Hospital) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *HospitalRepository) GetByID(ctx context.Context, id uuid.UUID) (*hospital.Hospital, error) {
	var h hospital.Hospital
	err := r.db.WithContext(ctx).First(&h, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, hospital.ErrHospitalNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *HospitalRepository) GetByAdminUserID(ctx context.Context, userID uuid.UUID) (*hospital.Hospital, error) {
	var h hospital.Hospital
	err := r.db.WithContext(ctx).First(&h, "admin_user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, hospital.ErrHospitalNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *HospitalRepository) Update(ctx context.Context, id uuid.UUID, cmd *hospital.UpdateCommand) (*hospital.Hospital, error) {
	updates := map[string]any{}
	if cmd.Name != nil {
		updates["name"] = *cmd.Name
	}
	if cmd.City != nil {
		updates["city"] = *cmd.City
	}
	if cmd.Address != nil {
		updates["address"] = *cmd.Address
	}
	if cmd.Phone != nil {
		updates["phone"] = *cmd.Phone
	}
	if cmd.TotalBeds != nil {
		updates["total_beds"] = *cmd.TotalBeds
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).
			Model(&hospital.Hospital{}).
			Where("id = ?", id).
			Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, hospital.ErrHospitalNotFound
		}
	}

	return r.GetByID(ctx, id)
}

func (r *HospitalRepository) List(ctx context.Context, q *hospital.ListQuery) (*hospital.PagedHospitals, error) {
	query := r.db.WithContext(ctx).Model(&hospital.Hospital{})

	if q.City != "" {
		query = query.Where("city ILIKE ?", q.City)
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		query = query.Where("name ILIKE ?", "%"+s+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var hospitals []*hospital.Hospital
	err := query.
		Order("name ASC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&hospitals).Error
	if err != nil {
		return nil, err
	}

	return &hospital.PagedHospitals{
		Hospitals:  hospitals,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
	}, nil
}
