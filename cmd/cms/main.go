// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

// Command cms runs the college content-management server: the public site,
// the JSON admin API and the background jobs that support them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/ktltc/cms-go/internal/cache"
	"github.com/ktltc/cms-go/internal/config"
	"github.com/ktltc/cms-go/internal/geoip"
	"github.com/ktltc/cms-go/internal/handler"
	"github.com/ktltc/cms-go/internal/logging"
	"github.com/ktltc/cms-go/internal/middleware"
	"github.com/ktltc/cms-go/internal/model"
	"github.com/ktltc/cms-go/internal/render"
	"github.com/ktltc/cms-go/internal/scheduler"
	"github.com/ktltc/cms-go/internal/service"
	"github.com/ktltc/cms-go/internal/session"
	"github.com/ktltc/cms-go/internal/stats"
	"github.com/ktltc/cms-go/internal/store"
	"github.com/ktltc/cms-go/internal/version"
	"github.com/ktltc/cms-go/web"
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
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "cms - KTLTC content management server\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CMS_MONGO_URI        MongoDB connection string (required)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CMS_MONGO_DB         Database name (default: ktltc_db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CMS_JWT_SECRET       Token signing key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CMS_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CMS_ENV              Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CMS_REDIS_URL        Redis URL for distributed caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CMS_GEOIP_DB_PATH    GeoLite2 country database path (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CMS_DO_SEED          Create the initial super admin account (default: false)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if *showVersion {
		_, _ = fmt.Printf("cms %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(textHandler))

	ctx := context.Background()

	slog.Info("connecting to database", "db", cfg.MongoDB)
	client, err := store.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			slog.Error("disconnecting from database", "error", err)
		}
	}()

	db := client.Database(cfg.MongoDB)
	st := store.New(db)

	if err := store.EnsureIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensuring indexes: %w", err)
	}
	slog.Info("database ready")

	// Mirror WARN and ERROR records into the events collection now that
	// the store is up.
	slog.SetDefault(slog.New(logging.NewEventLogHandler(textHandler, st.Events)))

	if err := store.Seed(ctx, st, cfg.DoSeed); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	caches := cache.NewManager(cache.ManagerOptions{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: time.Duration(cfg.CacheTTL) * time.Second,
		MaxItems:   cfg.CacheMaxSize,
	})
	defer func() {
		if err := caches.Close(); err != nil {
			slog.Error("closing cache", "error", err)
		}
	}()

	geo, err := geoip.New(cfg.GeoIPDBPath)
	if err != nil {
		slog.Warn("geoip disabled", "error", err)
	}
	defer geo.Close()
	slog.Info("geoip lookups", "configured", cfg.GeoIPEnabled(), "loaded", geo.Enabled())

	sm := session.New(db, cfg.IsDevelopment())

	templates, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("template filesystem: %w", err)
	}
	renderer, err := render.New(templates)
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}

	menu := service.NewMenuService(st.Nav, caches)
	tracker := stats.NewTracker(st.Stats, geo, caches)

	// Reload whenever a database is configured, even if the initial load
	// failed: the file may appear or be replaced on disk later.
	var geoReloader scheduler.Reloader
	if cfg.GeoIPEnabled() {
		geoReloader = geo
	}
	jobs := scheduler.New(slog.Default(), tracker, st.Events, geoReloader, cfg.EventRetentionDays)
	jobs.Start()
	defer jobs.Stop()

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	authHandler := handler.NewAuthHandler(st.Users, sm, loginProtection, cfg.JWTSecret, !cfg.IsDevelopment())
	newsHandler := handler.NewNewsHandler(st.News, caches)
	pagesHandler := handler.NewPagesHandler(st.Pages)
	navbarHandler := handler.NewNavbarHandler(st.Nav, menu)
	usersHandler := handler.NewUsersHandler(st.Users)
	profileHandler := handler.NewProfileHandler(st.Users)
	statsHandler := handler.NewStatsHandler(tracker, st.Stats, caches)
	healthHandler := handler.NewHealthHandler(st, versionInfo)
	docsHandler := handler.NewDocsHandler()
	eventsHandler := handler.NewEventsHandler(st.Events)
	frontendHandler := handler.NewFrontendHandler(renderer, st.News, st.Pages, menu, tracker, cfg.SiteName)
	seoHandler := handler.NewSEOHandler(st.News, st.Pages, cfg.SiteURL, cfg.IsDevelopment())

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(sm.LoadAndSave)
	// The JSON API is cookie+token authenticated; form CSRF applies to the
	// browser routes only.
	r.Use(middleware.SkipCSRF("/api/"))
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.JWTSecret)[:32], cfg.IsDevelopment())))

	r.Handle("/static/*", http.FileServer(http.FS(web.Static)))

	r.Get("/", frontendHandler.Home)
	r.Get("/news", frontendHandler.NewsList)
	r.Get("/news/{id}", frontendHandler.NewsDetail)
	r.Get("/p/{slug}", frontendHandler.Page)
	r.Get("/login", frontendHandler.LoginForm)

	r.Route("/dashboard", func(dash chi.Router) {
		dash.Use(middleware.Auth(sm))
		dash.Use(middleware.LoadUser(sm, st.Users))
		dash.Get("/", frontendHandler.Dashboard)
	})

	r.Get("/robots.txt", seoHandler.Robots)
	r.Get("/sitemap.xml", seoHandler.Sitemap)

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.NewRateLimiter(10, 30).Middleware())

		api.Route("/auth", func(ar chi.Router) {
			ar.With(loginProtection.Middleware()).Post("/login", authHandler.Login)
			ar.Post("/register", authHandler.Register)
			ar.Post("/logout", authHandler.Logout)
		})

		// Public reads. A valid token upgrades the view (drafts, health
		// details) but is never required here.
		api.Group(func(pub chi.Router) {
			pub.Use(middleware.OptionalAPIAuth(cfg.JWTSecret, st.Users))
			pub.Get("/news", newsHandler.List)
			pub.Get("/news/{id}", newsHandler.Get)
			pub.Get("/navbar", navbarHandler.List)
			pub.Get("/navbar/tree", navbarHandler.Tree)
			pub.Get("/pages", pagesHandler.List)
			pub.Get("/pages/{id}", pagesHandler.Get)
			pub.Get("/pages/slug/{slug}", pagesHandler.GetBySlug)
			pub.Post("/stats/visit", statsHandler.RecordVisit)
			pub.Get("/stats/visit", statsHandler.VisitorCount)
			pub.Get("/health", healthHandler.Health)
			pub.Get("/docs", docsHandler.Docs)
		})

		api.Group(func(priv chi.Router) {
			priv.Use(middleware.APIAuth(cfg.JWTSecret, st.Users))

			priv.Group(func(ed chi.Router) {
				ed.Use(middleware.RequireRole(model.RoleEditor))
				ed.Post("/news", newsHandler.Create)
				ed.Put("/news", newsHandler.Update)
				ed.Put("/news/{id}", newsHandler.Update)
				ed.Delete("/news/{id}", newsHandler.Delete)
				ed.Post("/pages", pagesHandler.Create)
				ed.Put("/pages", pagesHandler.Update)
				ed.Delete("/pages/{id}", pagesHandler.Delete)
			})

			priv.Group(func(ad chi.Router) {
				ad.Use(middleware.RequireAdmin())
				ad.Post("/navbar", navbarHandler.Create)
				ad.Put("/navbar", navbarHandler.Update)
				ad.Delete("/navbar/{id}", navbarHandler.Delete)
				ad.Get("/events", eventsHandler.List)
				ad.Get("/stats/daily", statsHandler.Daily)
			})

			priv.Group(func(sa chi.Router) {
				sa.Use(middleware.RequireSuperAdmin())
				sa.Get("/users", usersHandler.List)
				sa.Patch("/users/{id}", usersHandler.Update)
				sa.Patch("/users/{id}/status", usersHandler.UpdateStatus)
				sa.Delete("/users/{id}", usersHandler.Delete)
				sa.Post("/users/reorder", usersHandler.Reorder)
			})

			priv.Get("/profile", profileHandler.Get)
			priv.Patch("/profile", profileHandler.Update)
		})
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", versionInfo.String())
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

	slog.Info("server stopped")
	return nil
}
