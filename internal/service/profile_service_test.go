package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/carelink/carelink-api/internal/domain/patient"
	"github.com/carelink/carelink-api/internal/repository/memory"
)

func newProfileFixture(t *testing.T) *ProfileService {
	t.Helper()
	return NewProfileService(memory.NewPatientRepository(), newTestAuditService(t), zap.NewNop())
}

func TestGetProfileNeverWritten(t *testing.T) {
	svc := newProfileFixture(t)
	claims := patientClaims()

	p, err := svc.GetProfile(context.Background(), claims)
	require.NoError(t, err)
	assert.Equal(t, claims.UserID, p.UserID)
	assert.Equal(t, patient.GenderUnknown, p.Gender)
	assert.Nil(t, p.DateOfBirth)
}

func TestUpdateProfileMergesFields(t *testing.T) {
	svc := newProfileFixture(t)
	ctx := context.Background()
	claims := patientClaims()

	city := "Pune"
	history := "asthma"
	_, err := svc.UpdateProfile(ctx, claims, &patient.UpdateProfileCommand{
		City:           &city,
		MedicalHistory: &history,
	}, "127.0.0.1")
	require.NoError(t, err)

	allergies := []string{"penicillin"}
	updated, err := svc.UpdateProfile(ctx, claims, &patient.UpdateProfileCommand{
		Allergies: &allergies,
	}, "127.0.0.1")
	require.NoError(t, err)

	// Earlier fields survive a partial update.
	assert.Equal(t, "Pune", updated.City)
	assert.Equal(t, "asthma", updated.MedicalHistory)
	assert.Equal(t, []string{"penicillin"}, updated.Allergies)
}

func TestUpdateProfileValidation(t *testing.T) {
	svc := newProfileFixture(t)
	ctx := context.Background()
	claims := patientClaims()

	badGender := patient.Gender("robot")
	_, err := svc.UpdateProfile(ctx, claims, &patient.UpdateProfileCommand{Gender: &badGender}, "127.0.0.1")
	assert.ErrorIs(t, err, patient.ErrInvalidGender)

	future := time.Now().Add(24 * time.Hour)
	_, err = svc.UpdateProfile(ctx, claims, &patient.UpdateProfileCommand{DateOfBirth: &future}, "127.0.0.1")
	assert.ErrorIs(t, err, patient.ErrInvalidBirth)

	_, err = svc.UpdateProfile(ctx, doctorClaims(), &patient.UpdateProfileCommand{}, "127.0.0.1")
	assert.ErrorIs(t, err, ErrForbidden)
}
