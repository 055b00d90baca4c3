package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carelink/carelink-api/internal/domain"
	"github.com/carelink/carelink-api/internal/domain/appointment"
	"github.com/carelink/carelink-api/internal/domain/doctor"
	"github.com/carelink/carelink-api/pkg/metrics"
)

type AppointmentService struct {
	repo       appointment.Repository
	doctorRepo doctor.Repository
	auditSvc   *AuditService
	metrics    *metrics.Collector
	log        *zap.Logger
}

func NewAppointmentService(
	repo appointment.Repository,
	doctorRepo doctor.Repository,
	auditSvc *AuditService,
	collector *metrics.Collector,
	log *zap.Logger,
) *AppointmentService {
	return &AppointmentService{repo: repo, doctorRepo: doctorRepo, auditSvc: auditSvc, metrics: collector, log: log}
}

func (s *AppointmentService) CreateAppointment(ctx context.Context, cmd *appointment.CreateCommand, claims *domain.Claims, ip string) (*appointment.Appointment, error) {
	if claims.Role != domain.RolePatient {
		return nil, ErrForbidden
	}
	if cmd.ScheduledAt.Before(time.Now()) {
		return nil, appointment.ErrScheduledInPast
	}
	if err := requireFields(map[string]string{"reason": cmd.Reason}); err != nil {
		return nil, err
	}

	// Verify the doctor exists before writing.
	if _, err := s.doctorRepo.GetByUserID(ctx, cmd.DoctorID); err != nil {
		return nil, fmt.Errorf("verifying doctor: %w", err)
	}

	a := &appointment.Appointment{
		PatientID:   claims.UserID,
		DoctorID:    cmd.DoctorID,
		ScheduledAt: cmd.ScheduledAt,
		Reason:      cmd.Reason,
		Status:      appointment.StatusPending,
		CreatedBy:   claims.UserID,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		s.log.Error("failed to create appointment", zap.Error(err))
		return nil, fmt.Errorf("creating appointment: %w", err)
	}

	if s.metrics != nil {
		s.metrics.AppointmentsTotal.WithLabelValues(string(a.Status)).Inc()
	}
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: claims.UserID, UserRole: string(claims.Role),
		Action: "create", ResourceType: "appointment", ResourceID: a.ID.String(), IPAddress: ip,
	})

	return a, nil
}

func (s *AppointmentService) ListAppointments(ctx context.Context, q *appointment.ListQuery, claims *domain.Claims) (*appointment.PagedAppointments, error) {
	switch claims.Role {
	case domain.RolePatient:
		id := claims.UserID
		q.PatientID = &id
	case domain.RoleDoctor:
		id := claims.UserID
		q.DoctorID = &id
	default:
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

// SetStatus validates the transition table before overwriting status.
// Patients may only cancel their own appointments; doctors confirm or
// cancel appointments addressed to them.
func (s *AppointmentService) SetStatus(ctx context.Context, id uuid.UUID, newStatus appointment.Status, reason string, claims *domain.Claims, ip string) (*appointment.Appointment, error) {
	if !newStatus.IsValid() {
		return nil, appointment.ErrInvalidStatus
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch claims.Role {
	case domain.RolePatient:
		if a.PatientID != claims.UserID || newStatus != appointment.StatusCancelled {
			return nil, ErrForbidden
		}
	case domain.RoleDoctor:
		if a.DoctorID != claims.UserID {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}

	if newStatus == appointment.StatusCancelled {
		if err := a.Cancel(reason); err != nil {
			return nil, err
		}
	} else {
		if !a.CanTransitionTo(newStatus) {
			return nil, appointment.ErrInvalidStatusTransition
		}
		a.Status = newStatus
	}

	if err := s.repo.UpdateStatus(ctx, a); err != nil {
		return nil, fmt.Errorf("updating appointment status: %w", err)
	}

	if s.metrics != nil {
		s.metrics.AppointmentsTotal.WithLabelValues(string(a.Status)).Inc()
	}
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: claims.UserID, UserRole: string(claims.Role),
		Action: "update", ResourceType: "appointment", ResourceID: id.String(), IPAddress: ip,
		Changes: fmt.Sprintf(`{"status":%q}`, newStatus),
	})

	return a, nil
}
