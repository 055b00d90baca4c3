package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/carelink/carelink-api/internal/domain/doctor"
	"github.com/carelink/carelink-api/internal/domain/patient"
)

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

func (r *PatientRepository) Upsert(ctx context.Context, p *patient.Profile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(p).Error
}

func (r *PatientRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*patient.Profile, error) {
	var p patient.Profile
	err := r.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, patient.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

type DoctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) *DoctorRepository {
	return &DoctorRepository{db: db}
}

func (r *DoctorRepository) Upsert(ctx context.Context, p *doctor.Profile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(p).Error
}

func (r *DoctorRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*doctor.Listing, error) {
	var l doctor.Listing
	err := r.listingQuery(ctx).
		Where("dp.user_id = ?", userID).
		Take(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, doctor.ErrDoctorNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *DoctorRepository) List(ctx context.Context, q *doctor.ListQuery) (*doctor.PagedListings, error) {
	query := r.listingQuery(ctx)

	if q.Speciality != "" {
		query = query.Where("dp.speciality ILIKE ?", q.Speciality)
	}
	if q.City != "" {
		query = query.Where("dp.city ILIKE ?", q.City)
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		query = query.Where("u.name ILIKE ?", "%"+s+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var listings []*doctor.Listing
	err := query.
		Order("dp.rating_avg DESC, u.name ASC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&listings).Error
	if err != nil {
		return nil, err
	}

	return &doctor.PagedListings{
		Doctors:    listings,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
	}, nil
}

func (r *DoctorRepository) SetRating(ctx context.Context, userID uuid.UUID, avg float64, count int) error {
	return r.db.WithContext(ctx).
		Model(&doctor.Profile{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{"rating_avg": avg, "rating_count": count}).Error
}

func (r *DoctorRepository) listingQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("clinical.doctor_profiles AS dp").
		Select("dp.*, u.name, u.email").
		Joins("JOIN auth.users u ON u.id = dp.user_id AND u.deleted_at IS NULL AND u.is_active")
}
