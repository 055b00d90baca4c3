package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carelink/carelink-api/internal/domain"
	"github.com/carelink/carelink-api/internal/domain/ambulance"
	"github.com/carelink/carelink-api/internal/domain/hospital"
	"github.com/carelink/carelink-api/pkg/metrics"
)

type AmbulanceService struct {
	repo         ambulance.Repository
	hospitalRepo hospital.Repository
	auditSvc     *AuditService
	metrics      *metrics.Collector
	log          *zap.Logger
}

func NewAmbulanceService(
	repo ambulance.Repository,
	hospitalRepo hospital.Repository,
	auditSvc *AuditService,
	collector *metrics.Collector,
	log *zap.Logger,
) *AmbulanceService {
	return &AmbulanceService{repo: repo, hospitalRepo: hospitalRepo, auditSvc: auditSvc, metrics: collector, log: log}
}

// RegisterAmbulance adds a vehicle to the fleet of the caller's hospital.
func (s *AmbulanceService) RegisterAmbulance(ctx context.Context, vehicleNumber string, claims *domain.Claims, ip string) (*ambulance.Ambulance, error) {
	if claims.Role != domain.RoleHospital {
		return nil, ErrForbidden
	}
	if err := requireFields(map[string]string{"vehicle_number": vehicleNumber}); err != nil {
		return nil, err
	}

	h, err := s.hospitalRepo.GetByAdminUserID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrForbidden
	}

	a := &ambulance.Ambulance{
		HospitalID:    h.ID,
		VehicleNumber: strings.ToUpper(strings.TrimSpace(vehicleNumber)),
		Available:     true,
	}
	if err := s.repo.CreateAmbulance(ctx, a); err != nil {
		s.log.Error("failed to register ambulance", zap.Error(err))
		return nil, fmt.Errorf("registering ambulance: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: claims.UserID, UserRole: string(claims.Role),
		Action: "create", ResourceType: "ambulance", ResourceID: a.ID.String(), IPAddress: ip,
	})

	return a, nil
}

func (s *AmbulanceService) ListAvailable(ctx context.Context) ([]*ambulance.Ambulance, error) {
	return s.repo.ListAvailable(ctx)
}

// CreateBooking claims the first free ambulance atomically; the claim, the
// availability flip, and the booking insert are a single transaction in the
// repository.
func (s *AmbulanceService) CreateBooking(ctx context.Context, cmd *ambulance.CreateBookingCommand, claims *domain.Claims, ip string) (*ambulance.Booking, error) {
	if claims.Role != domain.RolePatient {
		return nil, ErrForbidden
	}
	if err := requireFields(map[string]string{
		"pickup_location": cmd.PickupLocation,
		"destination":     cmd.Destination,
	}); err != nil {
		return nil, err
	}

	b := &ambulance.Booking{
		PatientID:      claims.UserID,
		PickupLocation: cmd.PickupLocation,
		Destination:    cmd.Destination,
		Amount:         cmd.Amount,
		Status:         ambulance.StatusPending,
	}

	if _, err := s.repo.ClaimFirstAvailable(ctx, b); err != nil {
		if errors.Is(err, ambulance.ErrNoAmbulanceAvailable) {
			if s.metrics != nil {
				s.metrics.AmbulanceBookingRejected.Inc()
			}
			return nil, err
		}
		s.log.Error("failed to claim ambulance", zap.Error(err))
		return nil, fmt.Errorf("claiming ambulance: %w", err)
	}

	if s.metrics != nil {
		s.metrics.AmbulanceBookingsTotal.WithLabelValues(string(b.Status)).Inc()
	}
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: claims.UserID, UserRole: string(claims.Role),
		Action: "create", ResourceType: "ambulance_booking", ResourceID: b.ID.String(), IPAddress: ip,
	})

	return b, nil
}

func (s *AmbulanceService) ListBookings(ctx context.Context, q *ambulance.ListBookingsQuery, claims *domain.Claims) (*ambulance.PagedBookings, error) {
	scope, err := scopeFor(ctx, claims, s.hospitalRepo)
	if err != nil {
		return nil, err
	}
	if claims.Role == domain.RoleDoctor {
		return nil, ErrForbidden
	}
	if scope.PatientID != nil {
		q.PatientID = scope.PatientID
	}
	if scope.HospitalID != nil {
		q.HospitalID = scope.HospitalID
	}

	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.repo.ListBookings(ctx, q)
}

// SetBookingStatus applies a lifecycle transition. Reaching a terminal
// status releases the ambulance inside the repository transaction, which is
// the only way the availability flag ever flips back to true.
func (s *AmbulanceService) SetBookingStatus(ctx context.Context, id uuid.UUID, newStatus ambulance.Status, claims *domain.Claims, ip string) (*ambulance.Booking, error) {
	if !newStatus.IsValid() {
		return nil, ambulance.ErrInvalidStatus
	}

	b, err := s.repo.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch claims.Role {
	case domain.RolePatient:
		if b.PatientID != claims.UserID || newStatus != ambulance.StatusCancelled {
			return nil, ErrForbidden
		}
	case domain.RoleHospital:
		h, err := s.hospitalRepo.GetByAdminUserID(ctx, claims.UserID)
		if err != nil || b.Ambulance == nil || b.Ambulance.HospitalID != h.ID {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}

	if !b.CanTransitionTo(newStatus) {
		return nil, ambulance.ErrInvalidStatusTransition
	}
	b.Status = newStatus

	if err := s.repo.UpdateBookingStatus(ctx, b); err != nil {
		s.log.Error("failed to update ambulance booking", zap.Error(err))
		return nil, fmt.Errorf("updating ambulance booking: %w", err)
	}

	if s.metrics != nil {
		s.metrics.AmbulanceBookingsTotal.WithLabelValues(string(b.Status)).Inc()
	}
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: claims.UserID, UserRole: string(claims.Role),
		Action: "update", ResourceType: "ambulance_booking", ResourceID: id.String(), IPAddress: ip,
		Changes: fmt.Sprintf(`{"status":%q}`, newStatus),
	})

	return b, nil
}
