// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/eventix/internal/api"
	"github.com/olegiv/eventix/internal/cache"
	"github.com/olegiv/eventix/internal/config"
	"github.com/olegiv/eventix/internal/handler"
	"github.com/olegiv/eventix/internal/imaging"
	"github.com/olegiv/eventix/internal/imgbb"
	"github.com/olegiv/eventix/internal/logging"
	"github.com/olegiv/eventix/internal/middleware"
	"github.com/olegiv/eventix/internal/render"
	"github.com/olegiv/eventix/internal/scheduler"
	"github.com/olegiv/eventix/internal/service"
	"github.com/olegiv/eventix/internal/session"
	"github.com/olegiv/eventix/internal/version"
	"github.com/olegiv/eventix/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// Uploaded event images are scaled down to this bound before going to ImgBB.
const (
	imageMaxDimension = 1920
	imageQuality      = 85
	imageMaxBytes     = 10 << 20
)

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")
	envFile := flag.String("env-file", ".env", "Environment file loaded before reading the configuration")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "eventix - event ticketing web front end\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  EVENTIX_SESSION_SECRET  Session and CSRF key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  EVENTIX_API_URL         Backend base URL (default: http://localhost:8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  EVENTIX_SESSION_DB      SQLite session file, empty for memory (default: ./data/sessions.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  EVENTIX_SERVER_PORT     Server port (default: 8081)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  EVENTIX_ENV             Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  EVENTIX_REDIS_URL       Redis URL for the listing cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  EVENTIX_IMGBB_KEY       ImgBB API key, enables image uploads (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Println(buildInfo())
		os.Exit(0)
	}

	if err := run(*envFile); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func buildInfo() version.Info {
	return version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}
}

func run(envFile string) error {
	// Load .env file if present (development)
	_ = godotenv.Load(envFile)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	versionInfo := buildInfo()

	logger := logging.New(os.Stdout, logging.ParseLevel(cfg.LogLevel), cfg.IsDevelopment())
	slog.SetDefault(logger)

	// Session storage
	var sessionDB *sql.DB
	if cfg.SessionDBPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.SessionDBPath), 0o750); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
		sessionDB, err = session.OpenDB(cfg.SessionDBPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := sessionDB.Close(); err != nil {
				slog.Error("error closing session database", "error", err)
			}
		}()
		slog.Info("session store ready", "backend", "sqlite", "path", cfg.SessionDBPath)
	} else {
		slog.Info("session store ready", "backend", "memory")
	}
	store := session.NewStore(session.New(sessionDB, cfg.IsDevelopment()), session.WithMaxAge(cfg.SessionRecheck))

	// Listing cache
	listingCache, cacheKind := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.CacheTTLDuration(),
		MaxSize:    cfg.CacheMaxSize,
	}, logger)
	defer func() { _ = listingCache.Close() }()
	if cfg.UseRedisCache() {
		slog.Info("cache initialized", "backend", cacheKind, "url", cache.SanitizeRedisURL(cfg.RedisURL))
	} else {
		slog.Info("cache initialized", "backend", cacheKind)
	}

	client, err := api.New(cfg.APIURL, api.Options{Timeout: cfg.APITimeout, Logger: logger})
	if err != nil {
		return fmt.Errorf("creating backend client: %w", err)
	}

	bootCfg := session.DefaultBootstrapConfig()
	bootCfg.Wait = cfg.BootstrapWait
	bootCfg.CallTimeout = cfg.APITimeout
	bootstrapper := session.NewBootstrapper(store, client, bootCfg, logger)

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS: templatesFS,
		Store:       store,
		IsDev:       cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	staticFS, err := fs.Sub(web.Static, "static/dist")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}

	listings := service.NewListings(client, listingCache, cfg.CacheTTLDuration(), logger)

	// Scheduled jobs
	sched := scheduler.New(logger, cfg.APITimeout*4)
	if err := sched.Register(handler.WarmJobName, "Refresh the cached event listings", cfg.WarmSchedule, listings.Warm); err != nil {
		return fmt.Errorf("registering %s: %w", handler.WarmJobName, err)
	}
	sched.Start()

	imgClient := imgbb.New(cfg.ImgBBKey, cfg.ImgBBURL, cfg.APITimeout, logger)
	if !imgClient.Enabled() {
		slog.Info("image uploads disabled, EVENTIX_IMGBB_KEY not set")
	}

	loginCfg := middleware.DefaultLoginProtectionConfig()
	loginCfg.IPRateLimit = cfg.LoginRate
	loginCfg.IPBurst = cfg.LoginBurst

	router := handler.NewRouter(handler.App{
		API:          client,
		Store:        store,
		Bootstrapper: bootstrapper,
		Renderer:     renderer,
		Listings:     listings,
		Images: imaging.NewProcessor(imaging.Options{
			MaxDimension: imageMaxDimension,
			Quality:      imageQuality,
			MaxBytes:     imageMaxBytes,
		}),
		ImgBB:           imgClient,
		Scheduler:       sched,
		Cache:           listingCache,
		SessionDB:       sessionDB,
		LoginProtection: middleware.NewLoginProtection(loginCfg),
		StaticFS:        staticFS,
		Version:         versionInfo.Version,
		IsDev:           cfg.IsDevelopment(),
		Addr:            cfg.ServerAddr(),
		SessionSecret:   cfg.SessionSecret,
		RequestTimeout:  cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server",
			"addr", cfg.ServerAddr(),
			"env", cfg.Env,
			"backend", client.BaseURL(),
			"version", versionInfo.Version,
			"commit", versionInfo.GitCommit,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Warm the listings once so the first visitors hit the cache.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.APITimeout*2)
		defer cancel()
		if err := listings.Warm(ctx); err != nil {
			slog.Warn("initial listing warm-up failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	sched.Stop(ctx)

	slog.Info("server stopped")
	return nil
}
