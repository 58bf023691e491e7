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

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	httpapi "rentalfleet-backend/internal/api/http"
	"rentalfleet-backend/internal/config"
	"rentalfleet-backend/internal/docrender"
	"rentalfleet-backend/internal/logger"
	"rentalfleet-backend/internal/realtime"
	"rentalfleet-backend/internal/repository/postgres"
	"rentalfleet-backend/internal/security"
	"rentalfleet-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting RentalFleet Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("SMTP configuration", "host", cfg.SMTP.Host, "port", cfg.SMTP.Port)

	// Initialize Database
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

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)

	// Initialize Document Storage
	logger.Info("Using local document storage", "upload_dir", cfg.Storage.UploadDir)
	localStorage, err := docrender.NewLocalStorage(cfg.Storage.BaseURL, cfg.Storage.UploadDir)
	if err != nil {
		logger.Error("Failed to initialize document storage", "error", err)
		log.Fatalf("Failed to initialize document storage: %v", err)
	}

	// Initialize Renderer Client
	renderer := docrender.NewHTTPRenderer(
		cfg.Renderer.BaseURL,
		cfg.Renderer.APIKey,
		time.Duration(cfg.Renderer.TimeoutSeconds)*time.Second,
		cfg.Renderer.PollAttempts,
		time.Duration(cfg.Renderer.PollIntervalSeconds)*time.Second,
	)

	// Initialize Services
	emailService := service.NewEmailService(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From)
	messageSender := service.NewWhatsAppSender(cfg.WhatsApp.BaseURL, cfg.WhatsApp.APIKey, time.Duration(cfg.WhatsApp.TimeoutSeconds)*time.Second)
	hub := realtime.NewHub()
	dispatcher := service.NewDispatcher(store, emailService, messageSender, hub)

	documentService := service.NewDocumentService(store, renderer, localStorage, service.DocumentConfig{
		InvoiceTemplateID:   cfg.Renderer.InvoiceTemplateID,
		AgreementTemplateID: cfg.Renderer.AgreementTemplateID,
		SignaturePagePath:   cfg.Renderer.SignaturePagePath,
	})
	bookingService := service.NewBookingService(store, documentService, dispatcher)
	notificationService := service.NewNotificationService(store)
	statsService := service.NewStatsService(store)
	tenantService := service.NewTenantService(store)

	// Initialize HTTP surface
	router := httpapi.NewRouter(httpapi.Handlers{
		Bookings:      httpapi.NewBookingHandler(bookingService),
		Documents:     httpapi.NewDocumentHandler(documentService),
		Notifications: httpapi.NewNotificationHandler(notificationService),
		Stats:         httpapi.NewStatsHandler(statsService),
		WS:            httpapi.NewWSHandler(hub),
		Tenants:       tenantService,
	}, tokenManager)

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}
