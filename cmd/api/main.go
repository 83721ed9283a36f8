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
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/edupulse/school-portal-api/internal/config"
	"github.com/edupulse/school-portal-api/internal/database"
	"github.com/edupulse/school-portal-api/internal/handler"
	"github.com/edupulse/school-portal-api/internal/middleware"
	"github.com/edupulse/school-portal-api/internal/models"
	"github.com/edupulse/school-portal-api/internal/repository"
	"github.com/edupulse/school-portal-api/internal/router"
	"github.com/edupulse/school-portal-api/internal/service"
	cloud "github.com/edupulse/school-portal-api/pkg/cloudinary"
	"github.com/edupulse/school-portal-api/pkg/grader"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.School{}, &models.User{}, &models.PaperRecord{}, &models.Notification{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis not configured, submission locks and aggregate caching disabled")
	}

	var archive service.FileArchiver
	if cfg.CloudinaryCloudName != "" {
		cloudArchive, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create cloudinary client: %v", err)
		}
		archive = cloudArchive
	} else {
		logger.Warn().Msg("cloudinary not configured, artifact archiving disabled")
	}

	gradingProvider, assistant, videos, err := buildGraderProvider(cfg, logger)
	if err != nil {
		log.Fatalf("failed to configure grading provider: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	resultStore := repository.NewPaperResultStore(db)

	authService := service.NewAuthService(userRepo, validate, cfg.JWTSecret, cfg.TokenTTL, logger)
	submissionService := service.NewSubmissionService(gradingProvider, archive, redisClient, validate, cfg.MaxUploadMB, cfg.SubmissionLockTTL, logger)
	assistantService := service.NewAssistantService(assistant, videos, validate, logger)
	broadcastService := service.NewBroadcastService(userRepo, notificationRepo, validate, logger)
	resultsService := service.NewResultsService(resultStore, redisClient, cfg.AggregateCacheTTL, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    (cfg.MaxUploadMB + 1) * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, router.Dependencies{
		JWTSecret:  cfg.JWTSecret,
		Health:     handler.NewHealthHandler(cfg.AppName),
		Auth:       handler.NewAuthHandler(authService, logger),
		Submission: handler.NewSubmissionHandler(submissionService, logger),
		Assistant:  handler.NewAssistantHandler(assistantService, logger),
		Broadcast:  handler.NewBroadcastHandler(broadcastService, logger),
		Results:    handler.NewResultsHandler(resultsService, validate, logger),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

// buildGraderProvider selects between the remote grading service and the
// direct OpenAI provider. Video generation is only available upstream.
func buildGraderProvider(cfg config.Config, logger zerolog.Logger) (grader.Grader, grader.Assistant, grader.VideoGenerator, error) {
	switch cfg.GraderProvider {
	case "openai":
		direct, err := grader.NewOpenAIGrader(grader.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OpenAIModel,
			Logger: logger,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		return direct, direct, nil, nil
	default:
		upstream, err := grader.NewUpstreamClient(grader.UpstreamConfig{
			BaseURL: cfg.GraderBaseURL,
			Timeout: cfg.GraderTimeout,
			Logger:  logger,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		return upstream, upstream, upstream, nil
	}
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
