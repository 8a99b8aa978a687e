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

	"github.com/noah-isme/studyprep-go-api/internal/config"
	"github.com/noah-isme/studyprep-go-api/internal/database"
	"github.com/noah-isme/studyprep-go-api/internal/handler"
	"github.com/noah-isme/studyprep-go-api/internal/middleware"
	"github.com/noah-isme/studyprep-go-api/internal/models"
	"github.com/noah-isme/studyprep-go-api/internal/observability"
	"github.com/noah-isme/studyprep-go-api/internal/repository"
	"github.com/noah-isme/studyprep-go-api/internal/router"
	"github.com/noah-isme/studyprep-go-api/internal/service"
	cloud "github.com/noah-isme/studyprep-go-api/pkg/cloudinary"
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

	if err := db.AutoMigrate(
		&models.User{},
		&models.StudyPlan{},
		&models.StudyPlanItem{},
		&models.Question{},
		&models.AnswerRecord{},
		&models.WrongQuestion{},
		&models.CommunityPost{},
		&models.PostComment{},
		&models.StudyCheckIn{},
		&models.LearningResource{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	planRepo := repository.NewStudyPlanRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	recordRepo := repository.NewAnswerRecordRepository(db)
	wrongRepo := repository.NewWrongQuestionRepository(db)
	communityRepo := repository.NewCommunityRepository(db)
	checkInRepo := repository.NewCheckInRepository(db)
	resourceRepo := repository.NewResourceRepository(db)
	practiceTx := repository.NewPracticeTxRunner(db)

	sessions := service.NewWechatSessionExchanger(cfg.WechatAppID, cfg.WechatAppSecret)

	userService := service.NewUserService(userRepo, sessions, redisClient, cfg.ProfileCacheTTL, cfg.JWTSecret, cfg.JWTTokenTTL, validate, logger)
	planService := service.NewStudyPlanService(planRepo, validate, logger)
	questionService := service.NewQuestionService(questionRepo, redisClient, cfg.QuestionCacheTTL, validate, logger)
	practiceService := service.NewPracticeService(questionRepo, recordRepo, wrongRepo, practiceTx, validate, logger)
	communityService := service.NewCommunityService(communityRepo, checkInRepo, validate, logger)
	resourceService := service.NewResourceService(resourceRepo, redisClient, cfg.ResourceCacheTTL, validate, logger)
	uploadService := service.NewUploadService(uploader, cfg.UploadMaxSizeMB, logger)
	adminService := service.NewAdminService(userRepo, questionRepo, resourceRepo, communityRepo, checkInRepo, redisClient, cfg.StatisticsCacheTTL, cfg.JWTSecret, cfg.JWTTokenTTL, validate, logger)

	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		if err := adminService.EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminPassword); err != nil {
			log.Fatalf("failed to provision admin account: %v", err)
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	app.Get("/metrics", observability.MetricsHandler())
	router.Register(app, cfg, router.Dependencies{
		UserHandler:      handler.NewUserHandler(userService, logger),
		PlanHandler:      handler.NewPlanHandler(planService, logger),
		QuestionHandler:  handler.NewQuestionHandler(questionService, logger),
		PracticeHandler:  handler.NewPracticeHandler(practiceService, logger),
		CommunityHandler: handler.NewCommunityHandler(communityService, logger),
		ResourceHandler:  handler.NewResourceHandler(resourceService, logger),
		UploadHandler:    handler.NewUploadHandler(uploadService, logger),
		AdminHandler:     handler.NewAdminHandler(adminService, questionService, communityService, logger),
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
