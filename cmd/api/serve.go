package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sangkips/invoicing-api/internal/infrastructure/database"
	"github.com/sangkips/invoicing-api/internal/presentation/http/handler"
	"github.com/sangkips/invoicing-api/internal/presentation/http/middleware"
	"github.com/sangkips/invoicing-api/internal/presentation/http/routes"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	app, err := newApplication()
	if err != nil {
		return err
	}
	defer app.close()

	// Set Gin mode based on environment
	if app.cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := database.AutoMigrate(app.db, app.log); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if app.cfg.App.SeedSampleData {
		if _, err := app.sampleData.Load(ctx, time.Now()); err != nil {
			app.log.Warn("failed to load sample data", zap.Error(err))
		}
	}

	rateLimiter := middleware.NewClientRateLimiter(
		middleware.RateLimiterConfigFromWindow(app.cfg.RateLimit.Requests, app.cfg.RateLimit.Duration),
	)
	defer rateLimiter.Stop()

	router := routes.Setup(&routes.Handlers{
		Invoice: handler.NewInvoiceHandler(app.invoiceService),
	}, &routes.Deps{
		Cfg:             app.cfg,
		Logger:          app.log,
		IdempotencyRepo: app.idempotencyRepo,
		RateLimiter:     rateLimiter,
		Metrics:         app.metrics,
		MetricsHandler:  promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}),
		Ping:            app.ping,
	})

	srv := &http.Server{
		Addr:              ":" + app.cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.log.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", app.cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	go purgeIdempotencyKeys(ctx, app)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// purgeIdempotencyKeys drops expired keys hourly until ctx is done
func purgeIdempotencyKeys(ctx context.Context, app *application) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := app.idempotencyRepo.DeleteExpired(ctx, now)
			if err != nil {
				app.log.Warn("failed to purge idempotency keys", zap.Error(err))
				continue
			}
			if n > 0 {
				app.log.Debug("purged idempotency keys", zap.Int64("count", n))
			}
		}
	}
}
