package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contactform/internal/config"
	"contactform/internal/database"
	"contactform/internal/logging"
	"contactform/internal/server"
	"contactform/internal/services"
)

const (
	shutdownTimeout = 30 * time.Second
	readTimeout     = 15 * time.Second
	writeTimeout    = 45 * time.Second // covers a full SMTP send
	idleTimeout     = 60 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.SetPrefix("[API] ")
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting",
		"debug", cfg.App.Debug,
		"host", cfg.App.Host,
		"port", cfg.App.Port,
		"contact_path", cfg.App.ContactPath,
	)

	db, err := database.Open(cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		logger.Info("closing database connections")
		if err := database.Close(db); err != nil {
			logger.Error("error closing database", "error", err)
		}
	}()

	emailSvc := services.NewEmailService(&cfg.Email, logger)
	contactSvc := services.NewContactService(db, emailSvc, &cfg.Email, logger)
	healthSvc := services.NewHealthService(db, cfg.App.Name)
	if !emailSvc.IsEnabled() {
		logger.Warn("email disabled, notifications and digests will only be logged")
	}

	handler := server.New(cfg, services.NewDispatcher(contactSvc), healthSvc, logger)

	addr := fmt.Sprintf("%s:%s", cfg.App.Host, cfg.App.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server failed to start: %w", err)
	case sig := <-shutdown:
		logger.Info("starting graceful shutdown", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("error during graceful shutdown", "error", err)
		if errors.Is(err, context.DeadlineExceeded) {
			logger.Warn("shutdown timeout exceeded, forcing close")
			_ = httpServer.Close()
		}
	}

	logger.Info("server shutdown complete")
	return nil
}
