package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/carelink/carelink-api/internal/domain/hospital"
	"github.com/carelink/carelink-api/internal/repository/memory"
)

func newHospitalFixture(t *testing.T) (*HospitalService, *memory.HospitalRepository) {
	t.Helper()
	repo := memory.NewHospitalRepository()
	svc := NewHospitalService(repo, newTestAuditService(t), zap.NewNop())
	return svc, repo
}

func TestUpdateHospitalAdminOnly(t *testing.T) {
	svc, repo := newHospitalFixture(t)
	ctx := context.Background()

	admin := hospitalClaims()
	h := seedHospital(t, repo, admin.UserID, 10)

	beds := 25
	updated, err := svc.UpdateHospital(ctx, h.ID, &hospital.UpdateCommand{TotalBeds: &beds}, admin, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 25, updated.TotalBeds)

	_, err = svc.UpdateHospital(ctx, h.ID, &hospital.UpdateCommand{TotalBeds: &beds}, hospitalClaims(), "127.0.0.1")
	assert.ErrorIs(t, err, ErrForbidden, "another hospital account cannot edit")

	_, err = svc.UpdateHospital(ctx, h.ID, &hospital.UpdateCommand{TotalBeds: &beds}, patientClaims(), "127.0.0.1")
	assert.ErrorIs(t, err, ErrForbidden)

	negative := -1
	_, err = svc.UpdateHospital(ctx, h.ID, &hospital.UpdateCommand{TotalBeds: &negative}, admin, "127.0.0.1")
	assert.ErrorIs(t, err, hospital.ErrInvalidBedCount)
}

func TestListHospitalsFilters(t *testing.T) {
	svc, repo := newHospitalFixture(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &hospital.Hospital{Name: "City General", City: "Pune", TotalBeds: 100}))
	require.NoError(t, repo.Create(ctx, &hospital.Hospital{Name: "Coastal Care", City: "Mumbai", TotalBeds: 50}))

	byCity, err := svc.ListHospitals(ctx, &hospital.ListQuery{City: "pune"})
	require.NoError(t, err)
	require.Len(t, byCity.Hospitals, 1)
	assert.Equal(t, "City General", byCity.Hospitals[0].Name)

	bySearch, err := svc.ListHospitals(ctx, &hospital.ListQuery{Search: "coastal"})
	require.NoError(t, err)
	require.Len(t, bySearch.Hospitals, 1)

	all, err := svc.ListHospitals(ctx, &hospital.ListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.TotalCount)
}

func TestGetHospitalNotFound(t *testing.T) {
	svc, _ := newHospitalFixture(t)

	_, err := svc.GetHospital(context.Background(), uuid.New())
	assert.ErrorIs(t, err, hospital.ErrHospitalNotFound)
}
