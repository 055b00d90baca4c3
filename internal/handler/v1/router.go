package v1

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/carelink/carelink-api/internal/config"
	"github.com/carelink/carelink-api/internal/domain"
	"github.com/carelink/carelink-api/internal/service"
	"github.com/carelink/carelink-api/pkg/auth"
	"github.com/carelink/carelink-api/pkg/metrics"
)

type RouterDeps struct {
	Config         *config.Config
	Log            *zap.Logger
	JWTManager     *auth.JWTManager
	Metrics        *metrics.Collector
	AuthSvc        *service.AuthService
	ProfileSvc     *service.ProfileService
	DoctorSvc      *service.DoctorService
	HospitalSvc    *service.HospitalService
	AppointmentSvc *service.AppointmentService
	BedBookingSvc  *service.BedBookingService
	AmbulanceSvc   *service.AmbulanceService
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(deps.Log))
	r.Use(Metrics(deps.Metrics))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.Config.CORS.AllowedOrigins,
		AllowMethods:     deps.Config.CORS.AllowedMethods,
		AllowHeaders:     deps.Config.CORS.AllowedHeaders,
		AllowCredentials: true,
		MaxAge:           deps.Config.CORS.MaxAge,
	}))
	r.Use(RateLimit(deps.Config.RateLimit.RequestsPerSecond, deps.Config.RateLimit.BurstSize))

	authHandler := NewAuthHandler(deps.AuthSvc, deps.Config.App.FrontendOrigin)
	profileHandler := NewProfileHandler(deps.ProfileSvc)
	doctorHandler := NewDoctorHandler(deps.DoctorSvc)
	hospitalHandler := NewHospitalHandler(deps.HospitalSvc)
	appointmentHandler := NewAppointmentHandler(deps.AppointmentSvc)
	bedBookingHandler := NewBedBookingHandler(deps.BedBookingSvc)
	ambulanceHandler := NewAmbulanceHandler(deps.AmbulanceSvc)

	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"version":   deps.Config.App.Version,
		})
	})

	// Brute-force sensitive endpoints get a tighter per-minute bucket on top
	// of the global limiter.
	authLimit := RateLimit(float64(deps.Config.RateLimit.AuthRequestsPerMinute)/60.0, deps.Config.RateLimit.AuthRequestsPerMinute)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authLimit, authHandler.Register)
		authGroup.POST("/login", authLimit, authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.GET("/google", authHandler.GoogleRedirect)
		authGroup.GET("/google/callback", authHandler.GoogleCallback)
		authGroup.POST("/google/complete", authLimit, authHandler.CompleteRegistration)
	}

	authed := AuthRequired(deps.JWTManager)

	profileGroup := api.Group("/profile", authed, RequireRole(domain.RolePatient))
	{
		profileGroup.GET("", profileHandler.GetProfile)
		profileGroup.PUT("", profileHandler.UpdateProfile)
	}

	doctorGroup := api.Group("/doctors")
	{
		doctorGroup.GET("", doctorHandler.ListDoctors)
		doctorGroup.GET("/:id", doctorHandler.GetDoctor)
		doctorGroup.PUT("/:id", authed, doctorHandler.UpdateDoctor)
		doctorGroup.GET("/:id/reviews", doctorHandler.ListReviews)
		doctorGroup.POST("/:id/reviews", authed, doctorHandler.CreateReview)
	}

	hospitalGroup := api.Group("/hospitals")
	{
		hospitalGroup.GET("", hospitalHandler.ListHospitals)
		hospitalGroup.GET("/:id", hospitalHandler.GetHospital)
		hospitalGroup.PUT("/:id", authed, hospitalHandler.UpdateHospital)
	}

	appointmentGroup := api.Group("/appointments", authed)
	{
		appointmentGroup.POST("", appointmentHandler.CreateAppointment)
		appointmentGroup.GET("", appointmentHandler.ListAppointments)
		appointmentGroup.PUT("/:id/status", appointmentHandler.SetStatus)
	}

	bedBookingGroup := api.Group("/bed-bookings")
	{
		bedBookingGroup.POST("", authed, bedBookingHandler.CreateBooking)
		bedBookingGroup.GET("", authed, bedBookingHandler.ListBookings)
		bedBookingGroup.PUT("/:id", authed, bedBookingHandler.UpdateBooking)
		bedBookingGroup.GET("/availability/:hospitalId", bedBookingHandler.Availability)
	}

	ambulanceGroup := api.Group("/ambulances")
	{
		ambulanceGroup.GET("/available", ambulanceHandler.ListAvailable)
		ambulanceGroup.POST("", authed, RequireRole(domain.RoleHospital), ambulanceHandler.RegisterAmbulance)
		ambulanceGroup.POST("/bookings", authed, ambulanceHandler.CreateBooking)
		ambulanceGroup.GET("/bookings", authed, ambulanceHandler.ListBookings)
		ambulanceGroup.PUT("/bookings/:id", authed, ambulanceHandler.SetBookingStatus)
	}

	return r
}
