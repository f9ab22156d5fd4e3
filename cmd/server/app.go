package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/tasknest/tasknest-api/internal/api"
	"github.com/tasknest/tasknest-api/internal/api/middleware"
	"github.com/tasknest/tasknest-api/internal/config"
	"github.com/tasknest/tasknest-api/internal/platform/logger"
	"github.com/tasknest/tasknest-api/internal/platform/postgres"
	"github.com/tasknest/tasknest-api/internal/service/auth"
)

// application holds the assembled server dependencies.
type application struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *sql.DB
	router http.Handler
}

// initializeApp loads configuration, sets up logging, connects to the
// database, runs migrations and wires the handlers into a router.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := openDatabase(cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	if err := postgres.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	userStore := postgres.NewPostgresUserStore(db, appLogger)
	taskStore := postgres.NewPostgresTaskStore(db, appLogger)
	passwordHasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	passwordVerifier := auth.NewBcryptVerifier()

	authHandler := api.NewAuthHandler(userStore, jwtService, passwordHasher, passwordVerifier)
	taskHandler := api.NewTaskHandler(taskStore)
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	app := &application{
		cfg:    cfg,
		logger: appLogger,
		db:     db,
		router: newRouter(authHandler, taskHandler, authMiddleware),
	}
	return app, nil
}

// openDatabase opens a pgx-backed connection pool and verifies it with a
// bounded ping.
func openDatabase(url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("connected to database")
	return db, nil
}

// Addr returns the listen address from configuration.
func (a *application) Addr() string {
	return fmt.Sprintf(":%d", a.cfg.Server.Port)
}

// Router returns the assembled HTTP handler.
func (a *application) Router() http.Handler {
	return a.router
}

// Close releases the application's resources.
func (a *application) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}
}
