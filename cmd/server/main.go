package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	api "arendol-backend/internal/api/http"
	"arendol-backend/internal/config"
	"arendol-backend/internal/jobs"
	"arendol-backend/internal/logger"
	"arendol-backend/internal/metrics"
	"arendol-backend/internal/notify"
	"arendol-backend/internal/repository/postgres"
	"arendol-backend/internal/security"
	"arendol-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Arendol API server...", "log_level", cfg.Log.Level)

	metrics.Register()

	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)
	dispatcher := buildDispatcher(cfg, store)

	approvalService := service.NewApprovalService(store.ItemRepository, store.UserRepository)
	bookingService := service.NewBookingService(
		store.BookingRepository,
		store.ItemRepository,
		store.UserRepository,
		approvalService,
		dispatcher,
		cfg.Booking,
	)
	reviewService := service.NewReviewService(
		store.ReviewRepository,
		store.BookingRepository,
		store.ItemRepository,
		store.UserRepository,
		dispatcher,
	)

	jobRunner := jobs.NewJobRunner(jobs.Repos{
		Bookings: store.BookingRepository,
		Items:    store.ItemRepository,
		Users:    store.UserRepository,
		Messages: store.MessageRepository,
		Reviews:  store.ReviewRepository,
		Logs:     store.NotificationLogRepository,
	}, bookingService, dispatcher, cfg)

	tokens := security.NewTokenManager(cfg.JWT.Secret)
	server := api.NewServer(bookingService, reviewService, jobRunner, tokens, cfg.Server.CronSecret)

	httpServer := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "addr", cfg.GetServerAddress())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}

// buildDispatcher wires the outbound channels that have credentials
// configured; missing channels are simply skipped.
func buildDispatcher(cfg *config.Config, store *postgres.Store) notify.Dispatcher {
	var email notify.EmailSender
	if cfg.Notify.SendgridAPIKey != "" {
		email = notify.NewSendGridSender(cfg.Notify.SendgridAPIKey, cfg.Notify.EmailFrom, cfg.Notify.EmailFromName)
	}

	var telegram notify.TelegramSender
	if cfg.Notify.TelegramToken != "" {
		sender, err := notify.NewTelegramBotSender(cfg.Notify.TelegramToken)
		if err != nil {
			logger.Error("Failed to initialize telegram channel", "error", err)
		} else {
			telegram = sender
		}
	}

	var push notify.PushSender
	if cfg.Notify.FirebaseCredentialsFile != "" {
		sender, err := notify.NewFirebasePushSender(context.Background(), cfg.Notify.FirebaseCredentialsFile)
		if err != nil {
			logger.Error("Failed to initialize push channel", "error", err)
		} else {
			push = sender
		}
	}

	return notify.NewService(store.UserRepository, email, telegram, push, cfg.Notify.BaseURL)
}
