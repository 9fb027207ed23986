package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"

	httpapi "presign-backend/internal/api/http"
	"presign-backend/internal/config"
	"presign-backend/internal/jobs"
	"presign-backend/internal/logger"
	"presign-backend/internal/repository/postgres"
	"presign-backend/internal/scheduler"
	"presign-backend/internal/security"
	"presign-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Presign Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

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
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)
	urlSigner := security.NewURLSigner(cfg.Media.SignatureSalt, cfg.Media.MaxAgeMinutes)

	// Initialize Email Service
	emailSvc := service.NewEmailService(
		cfg.Email.APIKey,
		cfg.Email.FromEmail,
		cfg.Email.FromName,
	)

	// Initialize Services
	authSvc := service.NewAuthService(store.UserRepository, tokenManager)
	orgSvc := service.NewOrganizerService(store.OrganizerRepository, store.UserRepository)
	eventSvc := service.NewEventService(store.EventRepository, store.TextRepository)
	questionnaireSvc := service.NewQuestionnaireService(store.QuestionnaireRepository)
	participantSvc := service.NewParticipantService(
		store.ParticipantRepository,
		store.AnswerRepository,
		store.LogRepository,
		store.EventRepository,
		store.QuestionnaireRepository,
		store,
		cfg.Participant.SecretRetries,
	)
	notificationSvc := service.NewNotificationService(store.TextRepository, emailSvc, "en")

	// Initialize HTTP API
	router := httpapi.NewRouter(
		authSvc,
		orgSvc,
		eventSvc,
		questionnaireSvc,
		participantSvc,
		notificationSvc,
		tokenManager,
		urlSigner,
		cfg.Media.UploadDir,
		cfg.Server.BaseURL,
	)

	// Start the embedded scheduler alongside the API
	jobRunner := jobs.NewJobRunner(db, store, &jobs.Services{Email: emailSvc}, cfg)
	cronScheduler := scheduler.NewScheduler(jobRunner)
	cronScheduler.Start()
	defer cronScheduler.Stop()

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router.Handler()); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
