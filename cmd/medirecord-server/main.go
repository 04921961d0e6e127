package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medirecord/medirecord/internal/config"
	"github.com/medirecord/medirecord/internal/domain/access"
	"github.com/medirecord/medirecord/internal/domain/admin"
	"github.com/medirecord/medirecord/internal/domain/doctor"
	"github.com/medirecord/medirecord/internal/domain/history"
	"github.com/medirecord/medirecord/internal/domain/identity"
	"github.com/medirecord/medirecord/internal/domain/patient"
	"github.com/medirecord/medirecord/internal/platform/auth"
	"github.com/medirecord/medirecord/internal/platform/middleware"
	"github.com/medirecord/medirecord/internal/platform/store"
)

// identityResolverAdapter adapts the identity service to the
// auth.IdentityResolver interface, avoiding circular imports between the
// auth and identity packages. Any well-formed identity number resolves:
// unknown numbers get a synthesized record, matching the registry's
// find-or-create contract.
type identityResolverAdapter struct {
	svc *identity.Service
}

func (a *identityResolverAdapter) ResolvePhone(ctx context.Context, identityID string) (string, error) {
	rec, err := a.svc.FindOrCreate(ctx, identityID)
	if err != nil {
		return "", err
	}
	return rec.Phone, nil
}

// accountDirectoryAdapter adapts the patient and doctor services to the
// auth.AccountDirectory interface, mapping each package's not-found
// sentinel to auth.ErrNoAccount.
type accountDirectoryAdapter struct {
	patients *patient.Service
	doctors  *doctor.Service
}

func (a *accountDirectoryAdapter) FindPatientByIdentity(ctx context.Context, identityID string) (string, interface{}, error) {
	p, err := a.patients.GetByIdentity(ctx, identityID)
	if errors.Is(err, patient.ErrNotFound) {
		return "", nil, auth.ErrNoAccount
	}
	if err != nil {
		return "", nil, err
	}
	return p.PatientID, p, nil
}

func (a *accountDirectoryAdapter) FindDoctorByIdentity(ctx context.Context, identityID string) (string, interface{}, error) {
	d, err := a.doctors.GetByIdentity(ctx, identityID)
	if errors.Is(err, doctor.ErrNotFound) {
		return "", nil, auth.ErrNoAccount
	}
	if err != nil {
		return "", nil, err
	}
	return d.DoctorID, d, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "medirecord-server",
		Short: "Medical records portal API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ephemeral, _ := cmd.Flags().GetBool("ephemeral")
			return runServer(ephemeral)
		},
	}
	cmd.Flags().Bool("ephemeral", false, "Keep all data in memory, skip the on-disk snapshot")
	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Reset the snapshot to the fixture data set",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			snap, err := store.Open(cfg.DataDir, logger)
			if err != nil {
				return err
			}
			defer snap.Close()

			for name, seed := range map[string]func(store.Snapshot) error{
				"identities":      identity.Seed,
				"patients":        patient.Seed,
				"doctors":         doctor.Seed,
				"medical history": history.Seed,
				"access requests": access.Seed,
			} {
				if err := seed(snap); err != nil {
					return fmt.Errorf("seed %s: %w", name, err)
				}
			}

			fmt.Printf("Seeded fixture registries into %s\n", cfg.DataDir)
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [patients|doctors]",
		Short: "Write a registry export CSV to disk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			logger := newLogger()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			snap, err := store.Open(cfg.DataDir, logger)
			if err != nil {
				return err
			}
			defer snap.Close()

			identitySvc := identity.NewService(identity.NewMemoryRepository(snap, logger))
			doctorSvc := doctor.NewService(doctor.NewMemoryRepository(snap, logger), identitySvc)
			patientSvc := patient.NewService(patient.NewMemoryRepository(snap, logger), identitySvc, doctorSvc)
			adminSvc := admin.NewService(patientSvc, doctorSvc)

			export, err := adminSvc.ExportRegistry(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if out == "" {
				out = export.Filename
			}
			if err := os.WriteFile(out, []byte(export.Content), 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Printf("Wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().String("out", "", "Output path (defaults to the export's own filename)")
	return cmd
}

func newLogger() zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "" || os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return logger
}

func runServer(ephemeral bool) error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Snapshot store
	var snap store.Snapshot
	if ephemeral {
		snap = store.OpenMemory()
		logger.Info().Msg("running ephemeral, snapshot disabled")
	} else {
		snap, err = store.Open(cfg.DataDir, logger)
		if err != nil {
			logger.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("failed to open snapshot store")
		}
		logger.Info().Str("dir", cfg.DataDir).Msg("snapshot store opened")
	}
	defer snap.Close()

	// Repositories and services
	identityRepo := identity.NewMemoryRepository(snap, logger)
	identitySvc := identity.NewService(identityRepo)

	doctorRepo := doctor.NewMemoryRepository(snap, logger)
	doctorSvc := doctor.NewService(doctorRepo, identitySvc)

	patientRepo := patient.NewMemoryRepository(snap, logger)
	patientSvc := patient.NewService(patientRepo, identitySvc, doctorSvc)

	historyRepo := history.NewMemoryRepository(snap, logger)
	historySvc := history.NewService(historyRepo, patientSvc)

	accessRepo := access.NewMemoryRepository(snap, logger)
	accessSvc := access.NewService(accessRepo, patientSvc, doctorSvc)

	adminSvc := admin.NewService(patientSvc, doctorSvc)
	adminSvc.RegisterCounter("identities", identitySvc)
	adminSvc.RegisterCounter("history_entries", historySvc)
	adminSvc.RegisterCounter("access_requests", accessSvc)

	// Auth
	secret := cfg.SessionSecret
	if secret == "" {
		secret = "medirecord-dev-secret"
	}
	sessions := auth.NewSessionManager(secret, time.Duration(cfg.SessionTTLMinutes)*time.Minute)
	otp := auth.NewOTPService(time.Duration(cfg.OTPTTLMinutes)*time.Minute, logger)
	loginHandler := auth.NewLoginHandler(
		otp,
		sessions,
		&identityResolverAdapter{svc: identitySvc},
		&accountDirectoryAdapter{patients: patientSvc, doctors: doctorSvc},
		cfg.AdminIdentityID,
		cfg.IsDev(),
	)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})

	public := e.Group("/api/v1")
	api := e.Group("/api/v1", auth.SessionMiddleware(sessions))

	loginHandler.RegisterRoutes(public)
	identity.NewHandler(identitySvc).RegisterRoutes(api)
	doctor.NewHandler(doctorSvc).RegisterRoutes(public, api)
	patient.NewHandler(patientSvc, doctorSvc).RegisterRoutes(public, api)
	history.NewHandler(historySvc, doctorSvc).RegisterRoutes(api)
	access.NewHandler(accessSvc, patientSvc).RegisterRoutes(api)
	admin.NewHandler(adminSvc).RegisterRoutes(api)

	// Start and wait for shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}
	return nil
}
