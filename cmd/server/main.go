package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/atlastours/atlas-backend/config"
	"github.com/atlastours/atlas-backend/internal/app/controller"
	"github.com/atlastours/atlas-backend/internal/app/repository"
	"github.com/atlastours/atlas-backend/internal/app/service"
	"github.com/atlastours/atlas-backend/internal/db"
	apperrors "github.com/atlastours/atlas-backend/internal/errors"
	"github.com/atlastours/atlas-backend/internal/middleware"
	"github.com/atlastours/atlas-backend/internal/router"
	"github.com/atlastours/atlas-backend/internal/scheduler"
	"github.com/atlastours/atlas-backend/pkg/logger"
	"github.com/atlastours/atlas-backend/pkg/mailer"
	"github.com/atlastours/atlas-backend/pkg/payment/paymob"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	// Error payloads include internals only outside production
	apperrors.SetVerbose(!cfg.IsProduction())

	logger.Info("Starting Atlas Tours Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	tourRepo := repository.NewTourRepository(db.GetDB())
	reviewRepo := repository.NewReviewRepository(db.GetDB())
	bookingRepo := repository.NewBookingRepository(db.GetDB())

	// Initialize payment gateway client
	paymobClient, err := paymob.NewClient(paymob.Config{
		APIKey:              cfg.Payment.Paymob.APIKey,
		BaseURL:             cfg.Payment.Paymob.BaseURL,
		CardIntegrationID:   cfg.Payment.Paymob.CardIntegrationID,
		WalletIntegrationID: cfg.Payment.Paymob.WalletIntegrationID,
		IframeID:            cfg.Payment.Paymob.IframeID,
		Currency:            cfg.Payment.Paymob.Currency,
	})
	if err != nil {
		logger.Fatal("Failed to initialize payment client", err)
	}

	// Initialize mailer
	mail := mailer.New(mailer.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Email:    cfg.SMTP.Email,
		Password: cfg.SMTP.Password,
	})

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.TokenExpiry)
	passwordResetService := service.NewPasswordResetService(userRepo, mail, cfg.JWT.Secret, cfg.JWT.TokenExpiry, cfg.JWT.ResetTokenTTL)
	tourService := service.NewTourService(tourRepo)
	reviewService := service.NewReviewService(reviewRepo, tourRepo)
	bookingService := service.NewBookingService(bookingRepo, tourRepo, userRepo, paymobClient, cfg.Payment.Paymob.Currency)

	// Initialize controllers
	authController := controller.NewAuthController(authService, passwordResetService, cfg.JWT.TokenExpiry, cfg.IsProduction())
	tourController := controller.NewTourController(tourService)
	reviewController := controller.NewReviewController(reviewService)
	bookingController := controller.NewBookingController(bookingService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, userRepo)

	// Start reset token cleanup scheduler
	resetTokenScheduler := scheduler.NewResetTokenScheduler(userRepo)
	if err := resetTokenScheduler.Start(); err != nil {
		logger.Fatal("Failed to start reset token scheduler", err)
	}
	defer resetTokenScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		tourController,
		reviewController,
		bookingController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
