package access

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/carelink/carelink-api/internal/domain"
)

func TestForClaims(t *testing.T) {
	userID := uuid.New()
	hospID := uuid.New()

	t.Run("patient scoped to self", func(t *testing.T) {
		s := ForClaims(&domain.Claims{UserID: userID, Role: domain.RolePatient}, nil)
		assert.False(t, s.Unrestricted())
		assert.Equal(t, userID, *s.PatientID)
		assert.Nil(t, s.HospitalID)
	})

	t.Run("doctor scoped to self", func(t *testing.T) {
		s := ForClaims(&domain.Claims{UserID: userID, Role: domain.RoleDoctor}, nil)
		assert.Equal(t, userID, *s.DoctorID)
	})

	t.Run("hospital scoped to resolved hospital", func(t *testing.T) {
		s := ForClaims(&domain.Claims{UserID: userID, Role: domain.RoleHospital}, &hospID)
		assert.Equal(t, hospID, *s.HospitalID)
	})

	t.Run("hospital without record sees nothing", func(t *testing.T) {
		s := ForClaims(&domain.Claims{UserID: userID, Role: domain.RoleHospital}, nil)
		assert.False(t, s.Unrestricted())
		assert.Equal(t, uuid.Nil, *s.HospitalID)
	})

	t.Run("unknown role sees nothing", func(t *testing.T) {
		s := ForClaims(&domain.Claims{UserID: userID, Role: domain.Role("ADMIN")}, nil)
		assert.False(t, s.Unrestricted())
	})
}

func TestCanAccessPatientResource(t *testing.T) {
	owner := uuid.New()

	s := ForClaims(&domain.Claims{UserID: owner, Role: domain.RolePatient}, nil)
	assert.True(t, s.CanAccessPatientResource(owner))
	assert.False(t, s.CanAccessPatientResource(uuid.New()))

	assert.True(t, Scope{}.CanAccessPatientResource(owner), "zero scope is internal and unrestricted")
}
