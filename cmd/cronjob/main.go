package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"arendol-backend/internal/config"
	"arendol-backend/internal/jobs"
	"arendol-backend/internal/logger"
	"arendol-backend/internal/metrics"
	"arendol-backend/internal/notify"
	"arendol-backend/internal/repository/postgres"
	"arendol-backend/internal/scheduler"
	"arendol-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific sweep once and exit ('notifications' or 'deadlines')")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Arendol Cronjob Runner...", "log_level", cfg.Log.Level)

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

	jobRunner := jobs.NewJobRunner(jobs.Repos{
		Bookings: store.BookingRepository,
		Items:    store.ItemRepository,
		Users:    store.UserRepository,
		Messages: store.MessageRepository,
		Reviews:  store.ReviewRepository,
		Logs:     store.NotificationLogRepository,
	}, bookingService, dispatcher, cfg)

	if *runOnce != "" {
		logger.Info("Running sweep once", "sweep", *runOnce)
		runSweepOnce(jobRunner, *runOnce)
		logger.Info("Sweep execution completed", "sweep", *runOnce)
		return
	}

	cronScheduler := scheduler.NewScheduler(jobRunner)
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runSweepOnce runs a specific sweep once and exits
func runSweepOnce(jobRunner *jobs.JobRunner, name string) {
	ctx := context.Background()
	switch name {
	case "notifications":
		result := jobRunner.RunNotificationCron(ctx)
		logger.Info("Notification sweep result",
			"chat_unread", result.ChatUnread,
			"moderation_reminders", result.ModerationReminders,
			"return_reminders", result.ReturnReminders,
			"review_reminders", result.ReviewReminders,
			"auto_rejected", result.AutoRejected,
			"errors", len(result.Errors))
	case "deadlines":
		count, errs := jobRunner.RunDeadlineSweep(ctx)
		logger.Info("Deadline sweep result", "auto_rejected", count, "errors", len(errs))
	default:
		logger.Error("Unknown sweep name", "sweep", name)
		fmt.Printf("Available sweeps:\n")
		fmt.Printf("  - notifications\n")
		fmt.Printf("  - deadlines\n")
		os.Exit(1)
	}
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
