// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"houstonpro/internal/cache"
	"houstonpro/internal/database"
	"houstonpro/internal/handlers"
	"houstonpro/internal/middleware"
	"houstonpro/internal/render"
	"houstonpro/internal/router"
	"houstonpro/internal/session"
	"houstonpro/internal/storage"
	"houstonpro/internal/store"
	"houstonpro/web"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default)",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (overrides APP_HOST)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "listen port (overrides APP_PORT)")
}

func runServe(_ *cobra.Command, _ []string) error {
	if serveHost != "" {
		cfg.Host = serveHost
	}
	if servePort != "" {
		cfg.Port = servePort
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"base_url", cfg.BaseURL,
	)

	// Connect to PostgreSQL and apply pending migrations.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			return fmt.Errorf("seed database: %w", err)
		}
	}

	// Connect to Valkey (sessions + profile page cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		return fmt.Errorf("connect valkey: %w", err)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	renderer, err := render.New(cfg.IsDev(), cfg.SiteName)
	if err != nil {
		return fmt.Errorf("init renderer: %w", err)
	}

	// Object storage is optional; gallery uploads are disabled without it.
	// The handlers get an untyped nil so their "storage enabled" check holds.
	var objects handlers.ObjectStore
	var imageOrigins []string
	storageClient, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey,
		cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	if storageClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := storageClient.EnsureBucket(ctx)
		cancel()
		if err != nil {
			slog.Warn("s3 bucket check failed", "error", err, "bucket", cfg.S3Bucket)
		}
		objects = storageClient
		imageOrigins = append(imageOrigins, storageClient.PublicOrigin())
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured, gallery uploads disabled")
	}

	users := store.NewUserStore(db)
	contractors := store.NewContractorStore(db)
	categories := store.NewCategoryStore(db)
	leads := store.NewLeadStore(db)
	reviews := store.NewReviewStore(db)
	gallery := store.NewGalleryStore(db)
	templates := store.NewTemplateStore(db)
	pageCache := cache.NewPageCache(valkeyClient, cache.DefaultPageTTL)

	pages, err := handlers.NewPages(renderer, web.ContentFS)
	if err != nil {
		return fmt.Errorf("load pages: %w", err)
	}
	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("static files: %w", err)
	}

	public := handlers.NewPublic(renderer, contractors, categories, reviews, gallery, templates, leads, pageCache)
	auth := handlers.NewAuth(renderer, sessionStore, users, contractors, categories)
	dashboard := handlers.NewDashboard(renderer, sessionStore, users, contractors, categories,
		leads, reviews, gallery, templates, objects, pageCache, cfg.BaseURL, cfg.SiteName)

	leadLimiter := middleware.NewRateLimiter(cfg.LeadRateLimit, cfg.LeadRateWindow).
		OnLimit(http.HandlerFunc(public.TooManyRequests))
	defer leadLimiter.Stop()

	r := router.New(router.Config{
		Sessions:      sessionStore,
		SecureCookies: secureCookies,
		TrustProxy:    cfg.TrustProxy,
		ImageOrigins:  imageOrigins,
		Static:        static,
		LeadLimiter:   leadLimiter,
		Public:        public,
		Pages:         pages,
		Auth:          auth,
		Dashboard:     dashboard,
	})

	// WriteTimeout leaves room for gallery uploads over slow links.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
