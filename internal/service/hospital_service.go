package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carelink/carelink-api/internal/domain"
	"github.com/carelink/carelink-api/internal/domain/hospital"
)

type HospitalService struct {
	repo     hospital.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewHospitalService(repo hospital.Repository, auditSvc *AuditService, log *zap.Logger) *HospitalService {
	return &HospitalService{repo: repo, auditSvc: auditSvc, log: log}
}

func (s *HospitalService) ListHospitals(ctx context.Context, q *hospital.ListQuery) (*hospital.PagedHospitals, error) {
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.repo.List(ctx, q)
}

func (s *HospitalService) GetHospital(ctx context.Context, id uuid.UUID) (*hospital.Hospital, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *HospitalService) UpdateHospital(ctx context.Context, id uuid.UUID, cmd *hospital.UpdateCommand, claims *domain.Claims, ip string) (*hospital.Hospital, error) {
	h, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Only the account managing this hospital may edit it.
	if claims.Role != domain.RoleHospital || h.AdminUserID == nil || *h.AdminUserID != claims.UserID {
		return nil, ErrForbidden
	}
	if cmd.TotalBeds != nil && *cmd.TotalBeds < 0 {
		return nil, hospital.ErrInvalidBedCount
	}

	updated, err := s.repo.Update(ctx, id, cmd)
	if err != nil {
		s.log.Error("failed to update hospital", zap.Error(err))
		return nil, fmt.Errorf("updating hospital: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: claims.UserID, UserRole: string(claims.Role),
		Action: "update", ResourceType: "hospital", ResourceID: id.String(), IPAddress: ip,
	})

	return updated, nil
}
