package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/backdeskhq/backdesk/internal/backoffice/http"
	"github.com/backdeskhq/backdesk/internal/backoffice/service"
	"github.com/backdeskhq/backdesk/internal/backoffice/store"
	"github.com/backdeskhq/backdesk/internal/backoffice/store/drivers/sqlite"
	"github.com/backdeskhq/backdesk/pkg/cryptox"
	"github.com/backdeskhq/backdesk/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application wires the back office service together: store, sealer,
// services, router, HTTP server.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	sealer *cryptox.Sealer

	authService         *service.AuthService
	userService         *service.UserService
	noteService         *service.NoteService
	taskService         *service.TaskService
	projectService      *service.ProjectService
	ticketService       *service.TicketService
	documentService     *service.DocumentService
	statsService        *service.StatsService
	seedService         *service.SeedService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized. The
// encryption key is derived once here and exists only inside the sealer;
// neither the secret nor the derived key is logged or stored.
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "backdesk",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	key, err := cryptox.DeriveKey([]byte(cfg.Secret), []byte(cfg.Salt))
	if err != nil {
		return nil, fmt.Errorf("failed to derive encryption key: %w", err)
	}
	sealer, err := cryptox.NewSealer(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sealer: %w", err)
	}
	app.sealer = sealer

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()

	if err := app.seed(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("backdesk starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains in-flight requests, stops the housekeeping worker and
// closes the database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down backdesk...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("backdesk stopped")
	return nil
}

func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied")
	return nil
}

func (app *Application) initServices() {
	app.authService = &service.AuthService{
		Store:      app.db,
		SessionTTL: app.cfg.SessionTTL,
	}
	app.userService = &service.UserService{Store: app.db}
	app.noteService = &service.NoteService{Store: app.db, Sealer: app.sealer}
	app.taskService = &service.TaskService{Store: app.db}
	app.projectService = &service.ProjectService{Store: app.db}
	app.ticketService = &service.TicketService{Store: app.db}
	app.documentService = &service.DocumentService{Store: app.db}
	app.statsService = &service.StatsService{Store: app.db}
	app.seedService = &service.SeedService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// seed creates the bootstrap admin on a fresh database when credentials are
// configured. A populated database skips it silently.
func (app *Application) seed() error {
	if app.cfg.SeedAdminUser == "" && app.cfg.SeedAdminPassword == "" {
		return nil
	}

	ctx := slogx.WithContext(context.Background(), app.logger)
	created, err := app.seedService.EnsureAdmin(ctx, app.cfg.SeedAdminUser, app.cfg.SeedAdminPassword)
	if err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	if created {
		app.logger.Info("bootstrap admin created", "username", app.cfg.SeedAdminUser)
	}
	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.cfg.SecureCookies, app.db, app.logger)

	router.AuthService = app.authService
	router.UserService = app.userService
	router.NoteService = app.noteService
	router.TaskService = app.taskService
	router.ProjectService = app.projectService
	router.TicketService = app.ticketService
	router.DocumentService = app.documentService
	router.StatsService = app.statsService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
