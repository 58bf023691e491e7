package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"rentalfleet-backend/internal/config"
	"rentalfleet-backend/internal/jobs"
	"rentalfleet-backend/internal/logger"
	"rentalfleet-backend/internal/realtime"
	"rentalfleet-backend/internal/repository/postgres"
	"rentalfleet-backend/internal/scheduler"
	"rentalfleet-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'monthly-stats', 'yearly-stats', 'reminders', 'all-stats')")
	flag.Parse()

	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting RentalFleet Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Services. The cronjob has no websocket clients of its own;
	// server processes pick persisted notifications up through the feed.
	emailService := service.NewEmailService(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From)
	messageSender := service.NewWhatsAppSender(cfg.WhatsApp.BaseURL, cfg.WhatsApp.APIKey, time.Duration(cfg.WhatsApp.TimeoutSeconds)*time.Second)
	dispatcher := service.NewDispatcher(store, emailService, messageSender, realtime.NewHub())

	jobRunner := jobs.NewJobRunner(store, dispatcher, emailService)

	// Run-once mode for manual execution and debugging
	if *runOnce != "" {
		runSingleJob(jobRunner, *runOnce)
		return
	}

	// Start the scheduler
	sched := scheduler.NewScheduler(jobRunner, cfg.Scheduler)
	sched.Start()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown signal received")

	sched.Stop()
	logger.Info("Cronjob runner stopped")
}

func runSingleJob(jr *jobs.JobRunner, name string) {
	logger.Info("Running single job", "job", name)
	switch name {
	case "monthly-stats":
		jr.RecomputeMonthlyStats()
	case "yearly-stats":
		jr.RecomputeYearlyStats()
	case "all-stats":
		jr.RunAllStatsJobs()
	case "unconfirmed-bookings":
		jr.ScanUnconfirmedBookings()
	case "pickup-reminders":
		jr.ScanPickupReminders()
	case "return-reminders":
		jr.ScanReturnReminders()
	case "reminders":
		jr.RunAllReminderJobs()
	default:
		logger.Error("Unknown job name", "job", name)
		os.Exit(1)
	}
	logger.Info("Single job finished", "job", name)
}
