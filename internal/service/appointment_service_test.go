package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/carelink/carelink-api/internal/domain"
	"github.com/carelink/carelink-api/internal/domain/appointment"
	"github.com/carelink/carelink-api/internal/domain/doctor"
	"github.com/carelink/carelink-api/internal/repository/memory"
)

func doctorClaims() *domain.Claims {
	return &domain.Claims{UserID: uuid.New(), Email: "doc@example.com", Role: domain.RoleDoctor}
}

func newAppointmentFixture(t *testing.T) (*AppointmentService, *memory.DoctorRepository) {
	t.Helper()
	doctorRepo := memory.NewDoctorRepository()
	svc := NewAppointmentService(memory.NewAppointmentRepository(), doctorRepo, newTestAuditService(t), nil, zap.NewNop())
	return svc, doctorRepo
}

func seedDoctor(t *testing.T, repo *memory.DoctorRepository, id uuid.UUID) {
	t.Helper()
	require.NoError(t, repo.Upsert(context.Background(), &doctor.Profile{
		UserID:     id,
		Speciality: "Cardiology",
		City:       "Pune",
	}))
	repo.Names[id] = "Dr. Mehta"
	repo.Emails[id] = "mehta@example.com"
}

func TestCreateAppointment(t *testing.T) {
	svc, doctorRepo := newAppointmentFixture(t)
	ctx := context.Background()

	doc := doctorClaims()
	seedDoctor(t, doctorRepo, doc.UserID)

	claims := patientClaims()
	a, err := svc.CreateAppointment(ctx, &appointment.CreateCommand{
		DoctorID:    doc.UserID,
		ScheduledAt: time.Now().Add(48 * time.Hour),
		Reason:      "chest pain",
	}, claims, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusPending, a.Status)
	assert.Equal(t, claims.UserID, a.PatientID)
}

func TestCreateAppointmentRejectsPastAndUnknownDoctor(t *testing.T) {
	svc, doctorRepo := newAppointmentFixture(t)
	ctx := context.Background()

	doc := doctorClaims()
	seedDoctor(t, doctorRepo, doc.UserID)
	claims := patientClaims()

	_, err := svc.CreateAppointment(ctx, &appointment.CreateCommand{
		DoctorID:    doc.UserID,
		ScheduledAt: time.Now().Add(-time.Hour),
		Reason:      "checkup",
	}, claims, "127.0.0.1")
	assert.ErrorIs(t, err, appointment.ErrScheduledInPast)

	_, err = svc.CreateAppointment(ctx, &appointment.CreateCommand{
		DoctorID:    uuid.New(),
		ScheduledAt: time.Now().Add(time.Hour),
		Reason:      "checkup",
	}, claims, "127.0.0.1")
	assert.ErrorIs(t, err, doctor.ErrDoctorNotFound)

	_, err = svc.CreateAppointment(ctx, &appointment.CreateCommand{
		DoctorID:    doc.UserID,
		ScheduledAt: time.Now().Add(time.Hour),
		Reason:      "self-booking",
	}, doc, "127.0.0.1")
	assert.ErrorIs(t, err, ErrForbidden, "only patients book appointments")
}

func TestAppointmentLifecycle(t *testing.T) {
	svc, doctorRepo := newAppointmentFixture(t)
	ctx := context.Background()

	doc := doctorClaims()
	seedDoctor(t, doctorRepo, doc.UserID)
	patient := patientClaims()

	a, err := svc.CreateAppointment(ctx, &appointment.CreateCommand{
		DoctorID:    doc.UserID,
		ScheduledAt: time.Now().Add(time.Hour),
		Reason:      "followup",
	}, patient, "127.0.0.1")
	require.NoError(t, err)

	confirmed, err := svc.SetStatus(ctx, a.ID, appointment.StatusConfirmed, "", doc, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusConfirmed, confirmed.Status)

	cancelled, err := svc.SetStatus(ctx, a.ID, appointment.StatusCancelled, "patient request", patient, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusCancelled, cancelled.Status)
	assert.Equal(t, "patient request", cancelled.CancellationReason)
	assert.NotNil(t, cancelled.CancelledAt)

	_, err = svc.SetStatus(ctx, a.ID, appointment.StatusConfirmed, "", doc, "127.0.0.1")
	assert.ErrorIs(t, err, appointment.ErrInvalidStatusTransition, "CANCELLED is terminal")
}

func TestAppointmentStatusAccessControl(t *testing.T) {
	svc, doctorRepo := newAppointmentFixture(t)
	ctx := context.Background()

	doc := doctorClaims()
	seedDoctor(t, doctorRepo, doc.UserID)
	owner := patientClaims()

	a, err := svc.CreateAppointment(ctx, &appointment.CreateCommand{
		DoctorID:    doc.UserID,
		ScheduledAt: time.Now().Add(time.Hour),
		Reason:      "followup",
	}, owner, "127.0.0.1")
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, a.ID, appointment.StatusConfirmed, "", owner, "127.0.0.1")
	assert.ErrorIs(t, err, ErrForbidden, "patients cannot confirm")

	_, err = svc.SetStatus(ctx, a.ID, appointment.StatusCancelled, "", patientClaims(), "127.0.0.1")
	assert.ErrorIs(t, err, ErrForbidden, "another patient cannot cancel")

	_, err = svc.SetStatus(ctx, a.ID, appointment.StatusConfirmed, "", doctorClaims(), "127.0.0.1")
	assert.ErrorIs(t, err, ErrForbidden, "another doctor cannot confirm")
}

func TestListAppointmentsScoped(t *testing.T) {
	svc, doctorRepo := newAppointmentFixture(t)
	ctx := context.Background()

	doc1 := doctorClaims()
	doc2 := doctorClaims()
	seedDoctor(t, doctorRepo, doc1.UserID)
	seedDoctor(t, doctorRepo, doc2.UserID)

	p1 := patientClaims()
	p2 := patientClaims()

	_, err := svc.CreateAppointment(ctx, &appointment.CreateCommand{
		DoctorID: doc1.UserID, ScheduledAt: time.Now().Add(time.Hour), Reason: "a",
	}, p1, "127.0.0.1")
	require.NoError(t, err)
	_, err = svc.CreateAppointment(ctx, &appointment.CreateCommand{
		DoctorID: doc2.UserID, ScheduledAt: time.Now().Add(time.Hour), Reason: "b",
	}, p2, "127.0.0.1")
	require.NoError(t, err)

	forPatient, err := svc.ListAppointments(ctx, &appointment.ListQuery{}, p1)
	require.NoError(t, err)
	require.Len(t, forPatient.Appointments, 1)
	assert.Equal(t, p1.UserID, forPatient.Appointments[0].PatientID)

	forDoctor, err := svc.ListAppointments(ctx, &appointment.ListQuery{}, doc2)
	require.NoError(t, err)
	require.Len(t, forDoctor.Appointments, 1)
	assert.Equal(t, doc2.UserID, forDoctor.Appointments[0].DoctorID)
}
