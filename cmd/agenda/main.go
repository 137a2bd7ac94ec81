// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

// Command agenda runs the municipal cultural-events publishing backend.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/plberthet/agenda-go/internal/cache"
	"github.com/plberthet/agenda-go/internal/config"
	"github.com/plberthet/agenda-go/internal/geocode"
	"github.com/plberthet/agenda-go/internal/handler/api"
	"github.com/plberthet/agenda-go/internal/logging"
	"github.com/plberthet/agenda-go/internal/mail"
	"github.com/plberthet/agenda-go/internal/service"
	"github.com/plberthet/agenda-go/internal/store"
	"github.com/plberthet/agenda-go/internal/upload"

	authpkg "github.com/plberthet/agenda-go/internal/auth"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "agenda - municipal events publishing backend\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  JWT_SECRET      Token signing key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DATABASE_URL    PostgreSQL DSN (in-memory store when unset)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORT            Server port (default: 3000)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  APP_ENV         Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PHOTON_URL      Photon geocoder base URL (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SMTP_HOST       SMTP relay for notifications (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  REDIS_URL       Redis URL for distributed caching (optional)\n")
	}

	flag.Parse()

	if *showVersion {
		_, _ = fmt.Printf("agenda %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Initialize storage: PostgreSQL when configured, an in-memory
	// store otherwise (development and tests).
	var st *store.Store
	if cfg.DatabaseURL != "" {
		slog.Info("initializing database")
		db, err := store.NewDB(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("initializing database: %w", err)
		}
		defer func(db *sql.DB) {
			if err := db.Close(); err != nil {
				slog.Error("error closing database connection", "error", err)
			}
		}(db)

		slog.Info("running database migrations")
		if err := store.Migrate(db); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database ready")
		st = store.NewPostgres(db)
	} else {
		slog.Warn("DATABASE_URL not set, using in-memory store; data will not survive restarts")
		st = store.NewMemory()
	}

	// Upgrade logger to also mirror WARN and ERROR records to the
	// application log store.
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewStoreHandler(textHandler, st.Logs))
	slog.SetDefault(logger)

	ctx := context.Background()
	if err := store.Seed(ctx, st, cfg.DoSeed); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	// Cache for the public published-events listing.
	appCache := cache.New(cfg.RedisURL, cfg.CacheTTLDuration())
	defer func() {
		if err := appCache.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()

	// Geocoding client. An empty PHOTON_URL disables lookups.
	geocoder := geocode.NewClient(cfg.PhotonURL)
	if cfg.PhotonURL == "" {
		slog.Warn("PHOTON_URL not set, geocoding disabled")
	}

	// Mail notifications.
	smtpConfig := mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Secure:   cfg.SMTPSecure,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SenderEmail,
	}
	var sender mail.Sender
	if smtpConfig.Configured() {
		sender = mail.NewSMTPSender(smtpConfig)
		slog.Info("SMTP notifications enabled", "host", cfg.SMTPHost)
	} else {
		sender = mail.NoopSender{}
		slog.Warn("SMTP not configured, notifications will be dropped")
	}
	notifier := mail.NewNotifier(sender, logger)

	// Image uploads.
	uploads, err := upload.NewProcessor(cfg.UploadDir)
	if err != nil {
		return fmt.Errorf("initializing upload directory: %w", err)
	}

	issuer := authpkg.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiresIn)

	// Services.
	eventsSvc := service.NewEvents(st, geocoder, notifier, appCache, cfg.UploadDir, logger)
	categoriesSvc := service.NewCategories(st)
	usersSvc := service.NewUsers(st)
	settingsSvc := service.NewSettings(st)
	authSvc := service.NewAuth(st, issuer)

	h := api.NewHandler(eventsSvc, categoriesSvc, usersSvc, settingsSvc, authSvc, geocoder, uploads)
	router := api.NewRouter(h, api.RouterConfig{
		Issuer:      issuer,
		UploadDir:   cfg.UploadDir,
		StaticDir:   cfg.StaticDir,
		ServeStatic: !cfg.IsDevelopment(),
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Longer to allow for large uploads and slow connections
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB max header size
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	// Flush notifications still in flight before closing the process.
	notifier.Wait()

	slog.Info("server stopped")
	return nil
}
