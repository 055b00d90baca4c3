package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/carelink/carelink-api/internal/config"
	"github.com/carelink/carelink-api/internal/domain"
	"github.com/carelink/carelink-api/internal/domain/ambulance"
	"github.com/carelink/carelink-api/internal/domain/bedbooking"
	"github.com/carelink/carelink-api/internal/domain/hospital"
	"github.com/carelink/carelink-api/internal/repository/memory"
	"github.com/carelink/carelink-api/internal/service"
	"github.com/carelink/carelink-api/pkg/auth"
	"github.com/carelink/carelink-api/pkg/oauth"
)

type stubGoogleProvider struct{}

func (stubGoogleProvider) AuthCodeURL(state string) string { return "https://example.com/" + state }
func (stubGoogleProvider) Exchange(context.Context, string) (*oauth.Profile, error) {
	return nil, service.ErrInvalidCredentials
}

type testEnv struct {
	router        *gin.Engine
	userRepo      *memory.UserRepository
	hospitalRepo  *memory.HospitalRepository
	bedRepo       *memory.BedBookingRepository
	ambulanceRepo *memory.AmbulanceRepository
	jwtManager    *auth.JWTManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		App: config.AppConfig{
			Name:           "carelink-api",
			Environment:    "test",
			Version:        "test",
			FrontendOrigin: "http://localhost:5173",
		},
		JWT: config.JWTConfig{
			Secret:               "test-secret-at-least-32-characters!!",
			AccessTokenTTL:       15 * time.Minute,
			RefreshTokenTTL:      24 * time.Hour,
			RegistrationTokenTTL: 10 * time.Minute,
			Issuer:               "carelink-test",
		},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"http://localhost:5173"},
			AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			MaxAge:         time.Hour,
		},
		RateLimit: config.RateLimitConfig{
			RequestsPerSecond:     1000,
			BurstSize:             1000,
			AuthRequestsPerMinute: 6000,
		},
	}

	log := zap.NewNop()
	jwtManager := auth.NewJWTManager(cfg.JWT)

	userRepo := memory.NewUserRepository()
	patientRepo := memory.NewPatientRepository()
	doctorRepo := memory.NewDoctorRepository()
	hospitalRepo := memory.NewHospitalRepository()
	appointmentRepo := memory.NewAppointmentRepository()
	bedRepo := memory.NewBedBookingRepository()
	ambulanceRepo := memory.NewAmbulanceRepository()
	reviewRepo := memory.NewReviewRepository()

	auditSvc := service.NewAuditService(memory.NewAuditRepository(), log, nil)
	t.Cleanup(auditSvc.Shutdown)

	router := NewRouter(RouterDeps{
		Config:         cfg,
		Log:            log,
		JWTManager:     jwtManager,
		AuthSvc:        service.NewAuthService(userRepo, jwtManager, stubGoogleProvider{}, auditSvc, nil, log),
		ProfileSvc:     service.NewProfileService(patientRepo, auditSvc, log),
		DoctorSvc:      service.NewDoctorService(doctorRepo, reviewRepo, auditSvc, log),
		HospitalSvc:    service.NewHospitalService(hospitalRepo, auditSvc, log),
		AppointmentSvc: service.NewAppointmentService(appointmentRepo, doctorRepo, auditSvc, nil, log),
		BedBookingSvc:  service.NewBedBookingService(bedRepo, hospitalRepo, auditSvc, nil, log),
		AmbulanceSvc:   service.NewAmbulanceService(ambulanceRepo, hospitalRepo, auditSvc, nil, log),
	})

	return &testEnv{
		router:        router,
		userRepo:      userRepo,
		hospitalRepo:  hospitalRepo,
		bedRepo:       bedRepo,
		ambulanceRepo: ambulanceRepo,
		jwtManager:    jwtManager,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) tokenFor(t *testing.T, role domain.Role) (uuid.UUID, string) {
	t.Helper()
	id := uuid.New()
	pair, err := e.jwtManager.GenerateTokenPair(&domain.Claims{
		UserID: id,
		Email:  "user@example.com",
		Role:   role,
	})
	require.NoError(t, err)
	return id, pair.AccessToken
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestRegisterLoginFlow(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Asha Rao",
		"email":    "asha@example.com",
		"password": "longenough",
		"role":     "PATIENT",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data struct {
			User   *domain.User      `json:"user"`
			Tokens *domain.TokenPair `json:"tokens"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.Data.Tokens.AccessToken)
	assert.Empty(t, created.Data.User.PasswordHash, "hash never leaves the server")

	// Duplicate registration conflicts.
	w = env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Asha Rao",
		"email":    "asha@example.com",
		"password": "longenough",
		"role":     "PATIENT",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "asha@example.com",
		"password": "longenough",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "asha@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/profile", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	_, token := env.tokenFor(t, domain.RolePatient)
	w = env.do(t, http.MethodGet, "/api/profile", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Role guard: a doctor token has no patient profile surface.
	_, docToken := env.tokenFor(t, domain.RoleDoctor)
	w = env.do(t, http.MethodGet, "/api/profile", docToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBedAvailabilityResponseShape(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	h := &hospital.Hospital{Name: "City General", City: "Pune", TotalBeds: 10}
	require.NoError(t, env.hospitalRepo.Create(ctx, h))

	for i := 0; i < 3; i++ {
		require.NoError(t, env.bedRepo.Create(ctx, &bedbooking.BedBooking{
			PatientID:     uuid.New(),
			HospitalID:    h.ID,
			BedType:       bedbooking.BedTypeGeneral,
			AdmissionDate: time.Now(),
			Status:        bedbooking.StatusActive,
		}))
	}

	w := env.do(t, http.MethodGet, "/api/bed-bookings/availability/"+h.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "City General", body.Data["hospitalName"])
	assert.EqualValues(t, 10, body.Data["totalBeds"])
	assert.EqualValues(t, 3, body.Data["occupiedBeds"])
	assert.EqualValues(t, 7, body.Data["availableBeds"])

	w = env.do(t, http.MethodGet, "/api/bed-bookings/availability/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/bed-bookings/availability/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAmbulanceBookingEndpoint(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	h := &hospital.Hospital{Name: "City General", City: "Pune", TotalBeds: 10}
	require.NoError(t, env.hospitalRepo.Create(ctx, h))
	require.NoError(t, env.ambulanceRepo.CreateAmbulance(ctx, &ambulance.Ambulance{
		HospitalID:    h.ID,
		VehicleNumber: "MH-12-AB-1234",
		Available:     true,
	}))

	_, token := env.tokenFor(t, domain.RolePatient)
	body := gin.H{"pickup_location": "Main St 1", "destination": "City General"}

	w := env.do(t, http.MethodPost, "/api/ambulances/bookings", token, body)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data *ambulance.Booking `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotNil(t, created.Data.Ambulance)
	assert.Equal(t, "MH-12-AB-1234", created.Data.Ambulance.VehicleNumber)

	// Fleet exhausted: rejected with the fixed message.
	w = env.do(t, http.MethodPost, "/api/ambulances/bookings", token, body)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var errBody ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errBody))
	assert.Equal(t, "No ambulance available at the moment", errBody.Error)

	w = env.do(t, http.MethodGet, "/api/ambulances/available", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}
