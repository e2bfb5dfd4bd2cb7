package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/moneymanager/internal/backend"
	"github.com/MrJamesThe3rd/moneymanager/internal/config"
	"github.com/MrJamesThe3rd/moneymanager/internal/export"
	mmHttp "github.com/MrJamesThe3rd/moneymanager/internal/http"
	dashboardHandler "github.com/MrJamesThe3rd/moneymanager/internal/http/dashboard"
	exportHandler "github.com/MrJamesThe3rd/moneymanager/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/moneymanager/internal/http/importcsv"
	txHandler "github.com/MrJamesThe3rd/moneymanager/internal/http/transaction"
	"github.com/MrJamesThe3rd/moneymanager/internal/importer"
	"github.com/MrJamesThe3rd/moneymanager/internal/transaction"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.Level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := backend.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := store.Close(closeCtx); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}()

	var (
		transactionService = transaction.NewService(store.Repository)
		importService      = importer.NewService(transactionService)
		exportService      = export.NewService(transactionService)
	)

	router := mmHttp.New(
		cfg.CORS.AllowedOrigins,
		txHandler.NewHandler(transactionService),
		importHandler.NewHandler(importService),
		exportHandler.NewHandler(exportService),
		dashboardHandler.NewHandler(transactionService),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.Timeout,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr, "store", cfg.Store.Driver)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
