package service

import (
	"context"

	"github.com/carelink/carelink-api/internal/domain"
	"github.com/carelink/carelink-api/internal/domain/access"
	"github.com/carelink/carelink-api/internal/domain/hospital"
)

// scopeFor resolves the caller's list scope. Hospital accounts are scoped
// through the hospital row linked to their user ID; a hospital user without
// a hospital record sees nothing.
func scopeFor(ctx context.Context, claims *domain.Claims, hospitals hospital.Repository) (access.Scope, error) {
	if claims.Role != domain.RoleHospital {
		return access.ForClaims(claims, nil), nil
	}

	h, err := hospitals.GetByAdminUserID(ctx, claims.UserID)
	if err != nil {
		return access.ForClaims(claims, nil), nil
	}
	return access.ForClaims(claims, &h.ID), nil
}
