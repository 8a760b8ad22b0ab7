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

	"go.uber.org/zap"

	"github.com/warli-jewels/storefront/internal/handlers"
	"github.com/warli-jewels/storefront/internal/platform/config"
	"github.com/warli-jewels/storefront/internal/platform/observability"
	"github.com/warli-jewels/storefront/internal/storefront/admin"
	"github.com/warli-jewels/storefront/internal/storefront/cart"
	"github.com/warli-jewels/storefront/internal/storefront/catalog"
	"github.com/warli-jewels/storefront/internal/storefront/client"
	"github.com/warli-jewels/storefront/internal/storefront/localstore"
	"github.com/warli-jewels/storefront/internal/storefront/notify"
)

func main() {
	ctx := context.Background()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("storefront")
	ctx = observability.WithLogger(ctx, logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	catalogClient := client.New(cfg.Storefront.APIBaseURL,
		client.WithHTTPClient(&http.Client{Timeout: cfg.Storefront.RequestTimeout}),
		client.WithLogger(logger),
	)
	store := localstore.Open(cfg.Storefront.StatePath, logger)
	notifier := notify.New(logger)

	productCatalog := catalog.New(catalogClient, logger)
	cartManager := cart.NewManager(store, logger)
	adminSession := admin.NewSession(catalogClient, store, notifier, logger)

	// Initial, non-forced load. A dead product service only costs the custom
	// subset; the built-ins render either way.
	startupCtx, cancel := context.WithTimeout(ctx, cfg.Storefront.RequestTimeout)
	if err := productCatalog.Refresh(startupCtx, false); err != nil {
		logger.Warn("initial catalog load incomplete", zap.Error(err))
	}
	if err := adminSession.RefreshMirror(startupCtx); err != nil {
		logger.Warn("initial mirror load incomplete", zap.Error(err))
	}
	cancel()

	sessionHandlers := handlers.NewSessionHandlers(productCatalog, cartManager, adminSession, notifier)
	router := handlers.NewRouter(
		handlers.WithMiddlewares(
			observability.InjectLoggerMiddleware(logger),
			observability.RequestLoggerMiddleware(),
			observability.RecoveryMiddleware(logger),
		),
		handlers.WithSessionRoutes(sessionHandlers.Routes),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Storefront.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront session listening",
			zap.String("addr", server.Addr),
			zap.String("api", cfg.Storefront.APIBaseURL),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Fatal("server error", zap.Error(err))
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
