package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fredtinotenda3/LinkOpticians/internal/config"
	"github.com/fredtinotenda3/LinkOpticians/internal/domain/availability"
	"github.com/fredtinotenda3/LinkOpticians/internal/domain/booking"
	"github.com/fredtinotenda3/LinkOpticians/internal/domain/catalog"
	"github.com/fredtinotenda3/LinkOpticians/internal/domain/optician"
	"github.com/fredtinotenda3/LinkOpticians/internal/platform/db"
	"github.com/fredtinotenda3/LinkOpticians/internal/platform/middleware"
	"github.com/fredtinotenda3/LinkOpticians/internal/platform/notification"
)

// The availability engine and the optician roster consume narrow interfaces
// instead of each other's repositories. The adapters below bridge them to the
// concrete repos, avoiding circular imports between the domain packages.

type catalogSourceAdapter struct {
	branches catalog.BranchRepository
	services catalog.ServiceRepository
}

func (a *catalogSourceAdapter) ServiceByID(ctx context.Context, id uuid.UUID) (*availability.ServiceInfo, error) {
	s, err := a.services.GetByID(ctx, id)
	if err != nil || s == nil {
		return nil, err
	}
	return &availability.ServiceInfo{ID: s.ID, Name: s.Name, Duration: s.Duration}, nil
}

func (a *catalogSourceAdapter) BranchByID(ctx context.Context, id uuid.UUID) (*availability.BranchInfo, error) {
	b, err := a.branches.GetByID(ctx, id)
	if err != nil || b == nil {
		return nil, err
	}
	return &availability.BranchInfo{ID: b.ID, Name: b.Name, OperatingHours: b.OperatingHours}, nil
}

type scheduleSourceAdapter struct {
	hours   optician.WorkingHoursRepository
	timeOff optician.TimeOffRepository
}

func (a *scheduleSourceAdapter) WorkingHours(ctx context.Context, opticianID uuid.UUID) ([]availability.WorkingHoursEntry, error) {
	rows, err := a.hours.ListByOptician(ctx, opticianID)
	if err != nil {
		return nil, err
	}
	entries := make([]availability.WorkingHoursEntry, len(rows))
	for i, wh := range rows {
		entries[i] = availability.WorkingHoursEntry{
			DayOfWeek:   wh.DayOfWeek,
			StartTime:   wh.StartTime,
			EndTime:     wh.EndTime,
			IsAvailable: wh.IsAvailable,
		}
	}
	return entries, nil
}

func (a *scheduleSourceAdapter) TimeOffBetween(ctx context.Context, opticianID uuid.UUID, start, end time.Time) ([]availability.TimeOffEntry, error) {
	rows, err := a.timeOff.ListBetween(ctx, opticianID, start, end)
	if err != nil {
		return nil, err
	}
	entries := make([]availability.TimeOffEntry, len(rows))
	for i, to := range rows {
		entries[i] = availability.TimeOffEntry{
			StartDate: to.StartDate,
			EndDate:   to.EndDate,
			Reason:    to.Reason,
			IsAllDay:  to.IsAllDay,
		}
	}
	return entries, nil
}

type appointmentSourceAdapter struct {
	repo booking.Repository
}

func (a *appointmentSourceAdapter) ScheduledTimes(ctx context.Context, f availability.SlotFilter) ([]time.Time, error) {
	return a.repo.ScheduledTimes(ctx, booking.Filter{
		BranchID:   f.BranchID,
		OpticianID: f.OpticianID,
		From:       f.From,
		To:         f.To,
		Statuses:   f.Statuses,
	})
}

type opticianDirectoryAdapter struct {
	repo optician.Repository
}

func (a *opticianDirectoryAdapter) OpticianByID(ctx context.Context, id uuid.UUID) (*availability.OpticianInfo, error) {
	o, err := a.repo.GetByID(ctx, id)
	if err != nil || o == nil {
		return nil, err
	}
	return &availability.OpticianInfo{ID: o.ID, Name: o.Name}, nil
}

type appointmentFinderAdapter struct {
	repo booking.Repository
}

func (a *appointmentFinderAdapter) OccupiedBetween(ctx context.Context, opticianID uuid.UUID, start, end time.Time) ([]optician.AppointmentRef, error) {
	items, err := a.repo.List(ctx, booking.Filter{
		OpticianID: &opticianID,
		From:       start,
		To:         end,
		Statuses:   booking.OccupyingStatuses,
	})
	if err != nil {
		return nil, err
	}
	refs := make([]optician.AppointmentRef, len(items))
	for i, appt := range items {
		refs[i] = optician.AppointmentRef{
			ID:           appt.ID,
			ScheduledAt:  appt.ScheduledAt,
			PatientName:  appt.PatientName,
			PatientPhone: appt.PatientPhone,
		}
	}
	return refs, nil
}

type branchDirectoryAdapter struct {
	repo catalog.BranchRepository
}

func (a *branchDirectoryAdapter) Branches(ctx context.Context) ([]optician.BranchRef, error) {
	items, err := a.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	refs := make([]optician.BranchRef, len(items))
	for i, b := range items {
		refs[i] = optician.BranchRef{ID: b.ID, Name: b.Name}
	}
	return refs, nil
}

type branchContactAdapter struct {
	repo catalog.BranchRepository
}

func (a *branchContactAdapter) ContactByID(ctx context.Context, id uuid.UUID) (*booking.BranchContact, error) {
	b, err := a.repo.GetByID(ctx, id)
	if err != nil || b == nil {
		return nil, err
	}
	return &booking.BranchContact{Name: b.Name, Phone: b.Phone}, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "booking-server",
		Short: "Link Opticians booking API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the booking API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.MigrationsDir
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.MigrationsDir
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(echomw.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Health check
	e.GET("/health", db.HealthHandler(pool))

	// API group
	api := e.Group("/api")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	api.Use(middleware.RateLimit(rateLimitCfg))

	// SMS sender: real Twilio only with real credentials, otherwise log-only.
	var sender notification.SMSSender
	if cfg.SMSConfigured() {
		sender = notification.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, cfg.SMSCountryPrefix)
		logger.Info().Msg("twilio sms sender enabled")
	} else {
		sender = &notification.LogSender{Logger: logger}
		logger.Warn().Msg("twilio credentials not configured; sms messages will be logged only")
	}
	notifier := notification.NewNotifier(sender, notification.NewTemplateEngine())

	// Repositories
	branchRepo := catalog.NewBranchRepoPG(pool)
	serviceRepo := catalog.NewServiceRepoPG(pool)
	opticianRepo := optician.NewRepoPG(pool)
	hoursRepo := optician.NewWorkingHoursRepoPG(pool)
	timeOffRepo := optician.NewTimeOffRepoPG(pool)
	apptRepo := booking.NewRepoPG(pool)

	// Catalog domain
	catalogSvc := catalog.NewCatalog(branchRepo, serviceRepo)
	catalogHandler := catalog.NewHandler(catalogSvc)
	catalogHandler.RegisterRoutes(api)

	// Optician domain
	opticianSvc := optician.NewService(opticianRepo, hoursRepo, timeOffRepo, &appointmentFinderAdapter{repo: apptRepo})
	porter := optician.NewPorter(opticianSvc, &branchDirectoryAdapter{repo: branchRepo})
	opticianHandler := optician.NewHandler(opticianSvc, porter)
	opticianHandler.RegisterRoutes(api)

	// Availability engine
	catalogSource := &catalogSourceAdapter{branches: branchRepo, services: serviceRepo}
	scheduleSource := &scheduleSourceAdapter{hours: hoursRepo, timeOff: timeOffRepo}
	evaluator := availability.NewEvaluator(scheduleSource)
	availabilitySvc := availability.NewService(catalogSource, &appointmentSourceAdapter{repo: apptRepo}, evaluator)
	availabilityHandler := availability.NewHandler(availabilitySvc, catalogSource, scheduleSource, &opticianDirectoryAdapter{repo: opticianRepo})
	availabilityHandler.RegisterRoutes(api)

	// Booking domain
	runTx := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return db.InTx(ctx, pool, fn)
	}
	bookingSvc := booking.NewService(apptRepo, evaluator, runTx)
	bookingHandler := booking.NewHandler(bookingSvc, notifier, &branchContactAdapter{repo: branchRepo})
	bookingHandler.RegisterRoutes(api)

	// Start server with graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown failed")
	}
	return nil
}
