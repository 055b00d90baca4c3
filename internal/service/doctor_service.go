package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carelink/carelink-api/internal/domain"
	"github.com/carelink/carelink-api/internal/domain/doctor"
	"github.com/carelink/carelink-api/internal/domain/review"
)

type DoctorService struct {
	repo       doctor.Repository
	reviewRepo review.Repository
	auditSvc   *AuditService
	log        *zap.Logger
}

func NewDoctorService(repo doctor.Repository, reviewRepo review.Repository, auditSvc *AuditService, log *zap.Logger) *DoctorService {
	return &DoctorService{repo: repo, reviewRepo: reviewRepo, auditSvc: auditSvc, log: log}
}

func (s *DoctorService) ListDoctors(ctx context.Context, q *doctor.ListQuery) (*doctor.PagedListings, error) {
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.repo.List(ctx, q)
}

func (s *DoctorService) GetDoctor(ctx context.Context, id uuid.UUID) (*doctor.Listing, error) {
	return s.repo.GetByUserID(ctx, id)
}

// UpdateDoctor upserts the doctor's own profile; only the owner may write it.
func (s *DoctorService) UpdateDoctor(ctx context.Context, id uuid.UUID, cmd *doctor.UpdateProfileCommand, claims *domain.Claims, ip string) (*doctor.Listing, error) {
	if claims.Role != domain.RoleDoctor || claims.UserID != id {
		return nil, ErrForbidden
	}
	if cmd.ConsultationFee != nil && *cmd.ConsultationFee < 0 {
		return nil, doctor.ErrInvalidFee
	}

	profile := &doctor.Profile{UserID: id}
	if existing, err := s.repo.GetByUserID(ctx, id); err == nil {
		profile = &existing.Profile
	}

	if cmd.Speciality != nil {
		profile.Speciality = *cmd.Speciality
	}
	if cmd.Qualifications != nil {
		profile.Qualifications = *cmd.Qualifications
	}
	if cmd.ConsultationFee != nil {
		profile.ConsultationFee = *cmd.ConsultationFee
	}
	if cmd.ExperienceYears != nil {
		profile.ExperienceYears = *cmd.ExperienceYears
	}
	if cmd.Bio != nil {
		profile.Bio = *cmd.Bio
	}
	if cmd.City != nil {
		profile.City = *cmd.City
	}
	if cmd.Schedule != nil {
		profile.Schedule = *cmd.Schedule
	}

	if err := s.repo.Upsert(ctx, profile); err != nil {
		s.log.Error("failed to upsert doctor profile", zap.Error(err))
		return nil, fmt.Errorf("saving doctor profile: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: claims.UserID, UserRole: string(claims.Role),
		Action: "update", ResourceType: "doctor_profile", ResourceID: id.String(), IPAddress: ip,
	})

	return s.repo.GetByUserID(ctx, id)
}

// CreateReview stores the review and refreshes the doctor's denormalized
// rating aggregate from the review table.
func (s *DoctorService) CreateReview(ctx context.Context, doctorID uuid.UUID, rating int, comment string, claims *domain.Claims, ip string) (*review.Review, error) {
	if claims.Role != domain.RolePatient {
		return nil, ErrForbidden
	}
	if rating < 1 || rating > 5 {
		return nil, review.ErrInvalidRating
	}
	if _, err := s.repo.GetByUserID(ctx, doctorID); err != nil {
		return nil, err
	}

	rev := &review.Review{
		PatientID: claims.UserID,
		DoctorID:  doctorID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.reviewRepo.Create(ctx, rev); err != nil {
		s.log.Error("failed to create review", zap.Error(err))
		return nil, fmt.Errorf("creating review: %w", err)
	}

	avg, count, err := s.reviewRepo.Aggregate(ctx, doctorID)
	if err == nil {
		if err := s.repo.SetRating(ctx, doctorID, avg, count); err != nil {
			s.log.Warn("failed to refresh doctor rating", zap.Error(err))
		}
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: claims.UserID, UserRole: string(claims.Role),
		Action: "create", ResourceType: "review", ResourceID: rev.ID.String(), IPAddress: ip,
	})

	return rev, nil
}

func (s *DoctorService) ListReviews(ctx context.Context, doctorID uuid.UUID) ([]*review.Review, error) {
	if _, err := s.repo.GetByUserID(ctx, doctorID); err != nil {
		return nil, err
	}
	return s.reviewRepo.ListByDoctor(ctx, doctorID)
}
