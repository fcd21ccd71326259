package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/sheda3838/tuteskillz-backend/internal/config"
	"github.com/sheda3838/tuteskillz-backend/internal/database"
	"github.com/sheda3838/tuteskillz-backend/internal/handler"
	"github.com/sheda3838/tuteskillz-backend/internal/middleware"
	"github.com/sheda3838/tuteskillz-backend/internal/models"
	"github.com/sheda3838/tuteskillz-backend/internal/repository"
	"github.com/sheda3838/tuteskillz-backend/internal/router"
	"github.com/sheda3838/tuteskillz-backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(database.PostgresConfig{
		DSN:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	}, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Address{},
		&models.User{},
		&models.Guardian{},
		&models.Student{},
		&models.Tutor{},
		&models.Verification{},
		&models.Subject{},
		&models.TutorSubject{},
		&models.Session{},
		&models.Payment{},
		&models.CreditEntry{},
		&models.Feedback{},
		&models.Note{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL, logger)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())

	sessionRepo := repository.NewSessionRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	creditRepo := repository.NewCreditRepository(db)
	userRepo := repository.NewUserRepository(db)
	tutorRepo := repository.NewTutorRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	uow := repository.NewUnitOfWork(db)

	var mailer service.Mailer
	if cfg.SMTPHost != "" {
		mailer = service.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	} else {
		mailer = service.NewLogMailer(logger)
	}

	dashboardService := service.NewDashboardService(sessionRepo, creditRepo, redisClient, cfg.DashboardCacheTTL, logger)
	scheduleService := service.NewScheduleService(sessionRepo, logger)
	sessionService := service.NewSessionService(sessionRepo, paymentRepo, uow, scheduleService, mailer, dashboardService, validate, cfg.FrontendURL, logger)
	paymentService := service.NewPaymentService(service.PaymentConfig{
		MerchantID: cfg.PayHereMerchantID,
		Secret:     cfg.PayHereSecret,
		NotifyURL:  cfg.PayHereNotifyURL,
		ReturnBase: cfg.FrontendURL,
		Amount:     cfg.SessionAmount,
		Currency:   cfg.SessionCurrency,
	}, sessionService, validate, logger)
	feedbackService := service.NewFeedbackService(feedbackRepo, sessionRepo, validate, cfg.FeedbackEditLimit, logger)
	noteService := service.NewNoteService(noteRepo, sessionRepo, validate, logger)
	verificationService := service.NewVerificationService(tutorRepo, uow, mailer, validate, logger)
	accountService := service.NewAccountService(userRepo, uow, validate, cfg.JWTSecret, logger)

	sweeper := service.NewCompletionSweeper(sessionRepo, cfg.SweepInterval, logger)
	sweeper.Start(context.Background())
	defer sweeper.Stop()

	accountHandler := handler.NewAccountHandler(accountService, logger)
	sessionHandler := handler.NewSessionHandler(sessionService, scheduleService, logger)
	paymentHandler := handler.NewPaymentHandler(paymentService, logger)
	feedbackHandler := handler.NewFeedbackHandler(feedbackService, logger)
	noteHandler := handler.NewNoteHandler(noteService, logger)
	adminHandler := handler.NewAdminHandler(verificationService, logger)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    8 * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{
		Logger:         &logger,
		AllowedOrigins: cfg.FrontendURL,
	})
	router.Register(app, cfg, router.Dependencies{
		AccountHandler:   accountHandler,
		SessionHandler:   sessionHandler,
		PaymentHandler:   paymentHandler,
		FeedbackHandler:  feedbackHandler,
		NoteHandler:      noteHandler,
		AdminHandler:     adminHandler,
		DashboardHandler: dashboardHandler,
		JWTMiddleware:    middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
