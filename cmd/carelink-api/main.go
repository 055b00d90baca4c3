package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/carelink/carelink-api/internal/config"
	v1 "github.com/carelink/carelink-api/internal/handler/v1"
	"github.com/carelink/carelink-api/internal/repository/postgres"
	"github.com/carelink/carelink-api/internal/service"
	"github.com/carelink/carelink-api/pkg/auth"
	"github.com/carelink/carelink-api/pkg/database"
	"github.com/carelink/carelink-api/pkg/logger"
	"github.com/carelink/carelink-api/pkg/metrics"
	"github.com/carelink/carelink-api/pkg/oauth"
	"github.com/carelink/carelink-api/pkg/tracer"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("config: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	if cfg.Tracing.Enabled {
		tp, err := tracer.Init(cfg.Tracing)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			_ = tp.Shutdown(shutdownCtx)
		}()
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, log); err != nil {
		return err
	}

	collector := metrics.NewCollector("carelink")
	jwtManager := auth.NewJWTManager(cfg.JWT)
	googleProvider := oauth.NewGoogleProvider(cfg.OAuth)

	userRepo := postgres.NewUserRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	hospitalRepo := postgres.NewHospitalRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	bedBookingRepo := postgres.NewBedBookingRepository(db)
	ambulanceRepo := postgres.NewAmbulanceRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	auditRepo := postgres.NewAuditRepository(db)

	auditSvc := service.NewAuditService(auditRepo, log, collector)
	defer auditSvc.Shutdown()

	deps := v1.RouterDeps{
		Config:         cfg,
		Log:            log,
		JWTManager:     jwtManager,
		Metrics:        collector,
		AuthSvc:        service.NewAuthService(userRepo, jwtManager, googleProvider, auditSvc, collector, log),
		ProfileSvc:     service.NewProfileService(patientRepo, auditSvc, log),
		DoctorSvc:      service.NewDoctorService(doctorRepo, reviewRepo, auditSvc, log),
		HospitalSvc:    service.NewHospitalService(hospitalRepo, auditSvc, log),
		AppointmentSvc: service.NewAppointmentService(appointmentRepo, doctorRepo, auditSvc, collector, log),
		BedBookingSvc:  service.NewBedBookingService(bedBookingRepo, hospitalRepo, auditSvc, collector, log),
		AmbulanceSvc:   service.NewAmbulanceService(ambulanceRepo, hospitalRepo, auditSvc, collector, log),
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      v1.NewRouter(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.App.Environment),
			zap.String("version", cfg.App.Version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info("server stopped")
	return nil
}
