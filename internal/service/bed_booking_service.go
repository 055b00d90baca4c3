package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carelink/carelink-api/internal/domain"
	"github.com/carelink/carelink-api/internal/domain/bedbooking"
	"github.com/carelink/carelink-api/internal/domain/hospital"
	"github.com/carelink/carelink-api/pkg/metrics"
)

type BedBookingService struct {
	repo         bedbooking.Repository
	hospitalRepo hospital.Repository
	auditSvc     *AuditService
	metrics      *metrics.Collector
	log          *zap.Logger
}

func NewBedBookingService(
	repo bedbooking.Repository,
	hospitalRepo hospital.Repository,
	auditSvc *AuditService,
	collector *metrics.Collector,
	log *zap.Logger,
) *BedBookingService {
	return &BedBookingService{repo: repo, hospitalRepo: hospitalRepo, auditSvc: auditSvc, metrics: collector, log: log}
}

// CreateBooking always lands in PENDING; capacity is advisory at request
// time and enforced by staff when they activate the booking.
func (s *BedBookingService) CreateBooking(ctx context.Context, cmd *bedbooking.CreateCommand, claims *domain.Claims, ip string) (*bedbooking.BedBooking, error) {
	if claims.Role != domain.RolePatient {
		return nil, ErrForbidden
	}
	if !cmd.BedType.IsValid() {
		return nil, bedbooking.ErrInvalidBedType
	}
	if cmd.DailyCharge < 0 {
		return nil, &ValidationError{Fields: []string{"daily_charge must not be negative"}}
	}

	if _, err := s.hospitalRepo.GetByID(ctx, cmd.HospitalID); err != nil {
		return nil, err
	}

	b := &bedbooking.BedBooking{
		PatientID:     claims.UserID,
		HospitalID:    cmd.HospitalID,
		BedType:       cmd.BedType,
		AdmissionDate: cmd.AdmissionDate,
		DailyCharge:   cmd.DailyCharge,
		Status:        bedbooking.StatusPending,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		s.log.Error("failed to create bed booking", zap.Error(err))
		return nil, fmt.Errorf("creating bed booking: %w", err)
	}

	if s.metrics != nil {
		s.metrics.BedBookingsTotal.WithLabelValues(string(b.Status)).Inc()
	}
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: claims.UserID, UserRole: string(claims.Role),
		Action: "create", ResourceType: "bed_booking", ResourceID: b.ID.String(), IPAddress: ip,
	})

	return b, nil
}

func (s *BedBookingService) ListBookings(ctx context.Context, q *bedbooking.ListQuery, claims *domain.Claims) (*bedbooking.PagedBedBookings, error) {
	scope, err := scopeFor(ctx, claims, s.hospitalRepo)
	if err != nil {
		return nil, err
	}
	if scope.PatientID != nil {
		q.PatientID = scope.PatientID
	}
	if scope.HospitalID != nil {
		q.HospitalID = scope.HospitalID
	}
	if claims.Role == domain.RoleDoctor {
		return nil, ErrForbidden
	}

	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.repo.List(ctx, q)
}

// UpdateBooking moves a booking along its lifecycle. Patients may cancel
// their own bookings; the hospital's admin account drives the rest.
func (s *BedBookingService) UpdateBooking(ctx context.Context, id uuid.UUID, cmd *bedbooking.UpdateCommand, claims *domain.Claims, ip string) (*bedbooking.BedBooking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch claims.Role {
	case domain.RolePatient:
		if b.PatientID != claims.UserID {
			return nil, ErrForbidden
		}
		if cmd.Status == nil || *cmd.Status != bedbooking.StatusCancelled {
			return nil, ErrForbidden
		}
	case domain.RoleHospital:
		h, err := s.hospitalRepo.GetByAdminUserID(ctx, claims.UserID)
		if err != nil || h.ID != b.HospitalID {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}

	if cmd.Status != nil {
		if !cmd.Status.IsValid() {
			return nil, bedbooking.ErrInvalidStatus
		}
		if !b.CanTransitionTo(*cmd.Status) {
			return nil, bedbooking.ErrInvalidStatusTransition
		}
	}
	if cmd.TotalAmount != nil && *cmd.TotalAmount < 0 {
		return nil, &ValidationError{Fields: []string{"total_amount must not be negative"}}
	}

	updated, err := s.repo.Update(ctx, id, cmd)
	if err != nil {
		s.log.Error("failed to update bed booking", zap.Error(err))
		return nil, fmt.Errorf("updating bed booking: %w", err)
	}

	if s.metrics != nil && cmd.Status != nil {
		s.metrics.BedBookingsTotal.WithLabelValues(string(*cmd.Status)).Inc()
	}
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: claims.UserID, UserRole: string(claims.Role),
		Action: "update", ResourceType: "bed_booking", ResourceID: id.String(), IPAddress: ip,
	})

	return updated, nil
}

// Availability is computed from the live count of ACTIVE bookings; no
// stored occupancy column exists to drift out of sync.
func (s *BedBookingService) Availability(ctx context.Context, hospitalID uuid.UUID) (*bedbooking.Availability, error) {
	h, err := s.hospitalRepo.GetByID(ctx, hospitalID)
	if err != nil {
		return nil, err
	}

	occupied, err := s.repo.CountActive(ctx, hospitalID)
	if err != nil {
		return nil, fmt.Errorf("counting active bookings: %w", err)
	}

	return bedbooking.Compute(h.ID, h.Name, h.TotalBeds, occupied), nil
}
