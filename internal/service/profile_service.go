package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/carelink/carelink-api/internal/domain"
	"github.com/carelink/carelink-api/internal/domain/patient"
)

// ProfileService manages the patient-side 1:1 profile extension.
type ProfileService struct {
	repo     patient.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewProfileService(repo patient.Repository, auditSvc *AuditService, log *zap.Logger) *ProfileService {
	return &ProfileService{repo: repo, auditSvc: auditSvc, log: log}
}

func (s *ProfileService) GetProfile(ctx context.Context, claims *domain.Claims) (*patient.Profile, error) {
	p, err := s.repo.GetByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, patient.ErrProfileNotFound) {
			// A profile that was never filled in reads as an empty one.
			return &patient.Profile{UserID: claims.UserID, Gender: patient.GenderUnknown, BloodType: patient.BloodTypeUnknown}, nil
		}
		return nil, err
	}
	return p, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, claims *domain.Claims, cmd *patient.UpdateProfileCommand, ip string) (*patient.Profile, error) {
	if claims.Role != domain.RolePatient {
		return nil, ErrForbidden
	}
	if cmd.Gender != nil && !cmd.Gender.IsValid() {
		return nil, patient.ErrInvalidGender
	}
	if cmd.DateOfBirth != nil && cmd.DateOfBirth.After(time.Now()) {
		return nil, patient.ErrInvalidBirth
	}

	p, err := s.GetProfile(ctx, claims)
	if err != nil {
		return nil, err
	}

	if cmd.DateOfBirth != nil {
		p.DateOfBirth = cmd.DateOfBirth
	}
	if cmd.Gender != nil {
		p.Gender = *cmd.Gender
	}
	if cmd.BloodType != nil {
		p.BloodType = *cmd.BloodType
	}
	if cmd.MedicalHistory != nil {
		p.MedicalHistory = *cmd.MedicalHistory
	}
	if cmd.Allergies != nil {
		p.Allergies = *cmd.Allergies
	}
	if cmd.Address != nil {
		p.Address = *cmd.Address
	}
	if cmd.City != nil {
		p.City = *cmd.City
	}
	if cmd.EmergencyContact != nil {
		p.EmergencyContact = cmd.EmergencyContact
	}

	if err := s.repo.Upsert(ctx, p); err != nil {
		s.log.Error("failed to upsert patient profile", zap.Error(err))
		return nil, fmt.Errorf("saving profile: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: claims.UserID, UserRole: string(claims.Role),
		Action: "update", ResourceType: "patient_profile", ResourceID: claims.UserID.String(), IPAddress: ip,
	})

	return p, nil
}
