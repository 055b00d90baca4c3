package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/carelink/carelink-api/internal/domain/bedbooking"
	"github.com/carelink/carelink-api/internal/repository/memory"
)

func newBedBookingFixture(t *testing.T) (*BedBookingService, *memory.BedBookingRepository, *memory.HospitalRepository) {
	t.Helper()
	repo := memory.NewBedBookingRepository()
	hospRepo := memory.NewHospitalRepository()
	svc := NewBedBookingService(repo, hospRepo, newTestAuditService(t), nil, zap.NewNop())
	return svc, repo, hospRepo
}

func TestBedBookingCreateAlwaysPending(t *testing.T) {
	svc, _, hospRepo := newBedBookingFixture(t)
	ctx := context.Background()
	h := seedHospital(t, hospRepo, uuid.Nil, 2)

	claims := patientClaims()
	cmd := &bedbooking.CreateCommand{
		HospitalID:    h.ID,
		BedType:       bedbooking.BedTypeGeneral,
		AdmissionDate: time.Now().Add(24 * time.Hour),
		DailyCharge:   1500,
	}

	// Requests land in PENDING regardless of remaining capacity; the
	// hospital decides at activation time.
	for i := 0; i < 5; i++ {
		b, err := svc.CreateBooking(ctx, cmd, claims, "127.0.0.1")
		require.NoError(t, err)
		assert.Equal(t, bedbooking.StatusPending, b.Status)
	}
}

func TestBedBookingCreateValidation(t *testing.T) {
	svc, _, hospRepo := newBedBookingFixture(t)
	ctx := context.Background()
	h := seedHospital(t, hospRepo, uuid.Nil, 2)
	claims := patientClaims()

	_, err := svc.CreateBooking(ctx, &bedbooking.CreateCommand{
		HospitalID: h.ID, BedType: bedbooking.BedType("WATERBED"), AdmissionDate: time.Now(),
	}, claims, "127.0.0.1")
	assert.ErrorIs(t, err, bedbooking.ErrInvalidBedType)

	_, err = svc.CreateBooking(ctx, &bedbooking.CreateCommand{
		HospitalID: uuid.New(), BedType: bedbooking.BedTypeICU, AdmissionDate: time.Now(),
	}, claims, "127.0.0.1")
	assert.Error(t, err)

	_, err = svc.CreateBooking(ctx, &bedbooking.CreateCommand{
		HospitalID: h.ID, BedType: bedbooking.BedTypeICU, AdmissionDate: time.Now(),
	}, hospitalClaims(), "127.0.0.1")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestBedAvailabilityDerivedFromActiveCount(t *testing.T) {
	svc, repo, hospRepo := newBedBookingFixture(t)
	ctx := context.Background()

	admin := hospitalClaims()
	h := seedHospital(t, hospRepo, admin.UserID, 10)

	active := bedbooking.StatusActive
	for i := 0; i < 3; i++ {
		b, err := svc.CreateBooking(ctx, &bedbooking.CreateCommand{
			HospitalID: h.ID, BedType: bedbooking.BedTypeGeneral, AdmissionDate: time.Now(),
		}, patientClaims(), "127.0.0.1")
		require.NoError(t, err)
		_, err = svc.UpdateBooking(ctx, b.ID, &bedbooking.UpdateCommand{Status: &active}, admin, "127.0.0.1")
		require.NoError(t, err)
	}

	// A PENDING booking does not occupy a bed.
	_, err := svc.CreateBooking(ctx, &bedbooking.CreateCommand{
		HospitalID: h.ID, BedType: bedbooking.BedTypeGeneral, AdmissionDate: time.Now(),
	}, patientClaims(), "127.0.0.1")
	require.NoError(t, err)

	avail, err := svc.Availability(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, h.ID, avail.HospitalID)
	assert.Equal(t, "City General", avail.HospitalName)
	assert.Equal(t, 10, avail.TotalBeds)
	assert.Equal(t, 3, avail.OccupiedBeds)
	assert.Equal(t, 7, avail.AvailableBeds)

	count, err := repo.CountActive(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestBedAvailabilityClampsAtZero(t *testing.T) {
	svc, _, hospRepo := newBedBookingFixture(t)
	ctx := context.Background()

	admin := hospitalClaims()
	h := seedHospital(t, hospRepo, admin.UserID, 2)

	active := bedbooking.StatusActive
	for i := 0; i < 4; i++ {
		b, err := svc.CreateBooking(ctx, &bedbooking.CreateCommand{
			HospitalID: h.ID, BedType: bedbooking.BedTypeGeneral, AdmissionDate: time.Now(),
		}, patientClaims(), "127.0.0.1")
		require.NoError(t, err)
		_, err = svc.UpdateBooking(ctx, b.ID, &bedbooking.UpdateCommand{Status: &active}, admin, "127.0.0.1")
		require.NoError(t, err)
	}

	avail, err := svc.Availability(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, avail.OccupiedBeds)
	assert.Equal(t, 0, avail.AvailableBeds, "overbooking reads as zero, never negative")
}

func TestBedBookingCompletionFreesBed(t *testing.T) {
	svc, _, hospRepo := newBedBookingFixture(t)
	ctx := context.Background()

	admin := hospitalClaims()
	h := seedHospital(t, hospRepo, admin.UserID, 5)

	b, err := svc.CreateBooking(ctx, &bedbooking.CreateCommand{
		HospitalID: h.ID, BedType: bedbooking.BedTypeICU, AdmissionDate: time.Now(),
	}, patientClaims(), "127.0.0.1")
	require.NoError(t, err)

	active := bedbooking.StatusActive
	_, err = svc.UpdateBooking(ctx, b.ID, &bedbooking.UpdateCommand{Status: &active}, admin, "127.0.0.1")
	require.NoError(t, err)

	avail, err := svc.Availability(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, avail.AvailableBeds)

	// No release bookkeeping exists: completing the stay simply drops the
	// booking out of the ACTIVE count.
	completed := bedbooking.StatusCompleted
	discharge := time.Now()
	_, err = svc.UpdateBooking(ctx, b.ID, &bedbooking.UpdateCommand{
		Status: &completed, DischargeDate: &discharge,
	}, admin, "127.0.0.1")
	require.NoError(t, err)

	avail, err = svc.Availability(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, avail.AvailableBeds)
}

func TestBedBookingStatusTransitions(t *testing.T) {
	svc, _, hospRepo := newBedBookingFixture(t)
	ctx := context.Background()

	admin := hospitalClaims()
	h := seedHospital(t, hospRepo, admin.UserID, 5)

	b, err := svc.CreateBooking(ctx, &bedbooking.CreateCommand{
		HospitalID: h.ID, BedType: bedbooking.BedTypeGeneral, AdmissionDate: time.Now(),
	}, patientClaims(), "127.0.0.1")
	require.NoError(t, err)

	completed := bedbooking.StatusCompleted
	_, err = svc.UpdateBooking(ctx, b.ID, &bedbooking.UpdateCommand{Status: &completed}, admin, "127.0.0.1")
	assert.ErrorIs(t, err, bedbooking.ErrInvalidStatusTransition, "PENDING cannot skip to COMPLETED")

	cancelled := bedbooking.StatusCancelled
	_, err = svc.UpdateBooking(ctx, b.ID, &bedbooking.UpdateCommand{Status: &cancelled}, admin, "127.0.0.1")
	require.NoError(t, err)

	active := bedbooking.StatusActive
	_, err = svc.UpdateBooking(ctx, b.ID, &bedbooking.UpdateCommand{Status: &active}, admin, "127.0.0.1")
	assert.ErrorIs(t, err, bedbooking.ErrInvalidStatusTransition, "CANCELLED is terminal")
}

func TestBedBookingAccessControl(t *testing.T) {
	svc, _, hospRepo := newBedBookingFixture(t)
	ctx := context.Background()

	admin := hospitalClaims()
	h := seedHospital(t, hospRepo, admin.UserID, 5)
	otherAdmin := hospitalClaims()
	seedHospital(t, hospRepo, otherAdmin.UserID, 5)

	owner := patientClaims()
	b, err := svc.CreateBooking(ctx, &bedbooking.CreateCommand{
		HospitalID: h.ID, BedType: bedbooking.BedTypeGeneral, AdmissionDate: time.Now(),
	}, owner, "127.0.0.1")
	require.NoError(t, err)

	active := bedbooking.StatusActive
	_, err = svc.UpdateBooking(ctx, b.ID, &bedbooking.UpdateCommand{Status: &active}, otherAdmin, "127.0.0.1")
	assert.ErrorIs(t, err, ErrForbidden, "another hospital's admin cannot touch the booking")

	_, err = svc.UpdateBooking(ctx, b.ID, &bedbooking.UpdateCommand{Status: &active}, owner, "127.0.0.1")
	assert.ErrorIs(t, err, ErrForbidden, "patients may only cancel")

	cancelled := bedbooking.StatusCancelled
	updated, err := svc.UpdateBooking(ctx, b.ID, &bedbooking.UpdateCommand{Status: &cancelled}, owner, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, bedbooking.StatusCancelled, updated.Status)
}

func TestBedBookingListScoped(t *testing.T) {
	svc, _, hospRepo := newBedBookingFixture(t)
	ctx := context.Background()

	admin := hospitalClaims()
	h := seedHospital(t, hospRepo, admin.UserID, 5)
	other := seedHospital(t, hospRepo, uuid.Nil, 5)

	p1 := patientClaims()
	_, err := svc.CreateBooking(ctx, &bedbooking.CreateCommand{
		HospitalID: h.ID, BedType: bedbooking.BedTypeGeneral, AdmissionDate: time.Now(),
	}, p1, "127.0.0.1")
	require.NoError(t, err)
	_, err = svc.CreateBooking(ctx, &bedbooking.CreateCommand{
		HospitalID: other.ID, BedType: bedbooking.BedTypeGeneral, AdmissionDate: time.Now(),
	}, patientClaims(), "127.0.0.1")
	require.NoError(t, err)

	mine, err := svc.ListBookings(ctx, &bedbooking.ListQuery{}, p1)
	require.NoError(t, err)
	require.Len(t, mine.Bookings, 1)
	assert.Equal(t, p1.UserID, mine.Bookings[0].PatientID)

	hosp, err := svc.ListBookings(ctx, &bedbooking.ListQuery{}, admin)
	require.NoError(t, err)
	require.Len(t, hosp.Bookings, 1)
	assert.Equal(t, h.ID, hosp.Bookings[0].HospitalID)
}
