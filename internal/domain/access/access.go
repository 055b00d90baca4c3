// Package access builds role-scoped query filters so that individual
// services and handlers never branch on the caller's role themselves.
package access

import (
	"github.com/google/uuid"

	"github.com/carelink/carelink-api/internal/domain"
)

// Scope narrows list queries to what the caller may see.
// A zero-value Scope means unrestricted (internal callers only).
type Scope struct {
	PatientID  *uuid.UUID
	DoctorID   *uuid.UUID
	HospitalID *uuid.UUID
}

func (s Scope) Unrestricted() bool {
	return s.PatientID == nil && s.DoctorID == nil && s.HospitalID == nil
}

// ForClaims derives the scope for a caller. Hospital callers are scoped by
// the hospital record linked to their user account, resolved by the caller.
func ForClaims(claims *domain.Claims, hospitalID *uuid.UUID) Scope {
	switch claims.Role {
	case domain.RolePatient:
		id := claims.UserID
		return Scope{PatientID: &id}
	case domain.RoleDoctor:
		id := claims.UserID
		return Scope{DoctorID: &id}
	case domain.RoleHospital:
		if hospitalID != nil {
			return Scope{HospitalID: hospitalID}
		}
		// A hospital account with no hospital record sees nothing.
		nothing := uuid.Nil
		return Scope{HospitalID: &nothing}
	}
	// Unknown roles see nothing rather than everything.
	nothing := uuid.Nil
	return Scope{PatientID: &nothing}
}

// CanAccessPatientResource reports whether the caller may read or mutate a
// resource owned by the given patient.
func (s Scope) CanAccessPatientResource(patientID uuid.UUID) bool {
	if s.Unrestricted() {
		return true
	}
	return s.PatientID != nil && *s.PatientID == patientID
}
