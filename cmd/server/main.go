package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/config"
	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/database"
	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/handlers"
	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/jobs"
	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/logging"
	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/middleware"
	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/providers"
	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/services"
	"github.com/Andreiysm-dev/ContentGenerator-sub001/pkg/auth"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting Content Generation Server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	cfg := config.Load()
	log.Printf("📋 Configuration loaded (Port: %s)", cfg.Port)

	if cfg.MongoURI == "" {
		log.Fatal("❌ MONGODB_URI environment variable is required")
	}
	db, err := database.NewMongoDB(cfg.MongoURI)
	if err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}
	defer db.Close(context.Background())

	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.Initialize(initCtx); err != nil {
		cancelInit()
		log.Fatalf("❌ Failed to initialize MongoDB: %v", err)
	}
	cancelInit()

	// Redis is optional: notifications still persist and usage events
	// still land in the ledger without it.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️ Invalid REDIS_URL, continuing without Redis: %v", err)
		} else {
			redisClient = redis.NewClient(redisOpts)
			pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
			if err := redisClient.Ping(pingCtx).Err(); err != nil {
				log.Printf("⚠️ Redis unreachable, continuing without it: %v", err)
				redisClient = nil
			} else {
				log.Println("✅ Connected to Redis")
			}
			cancelPing()
		}
	}

	// Local JWT auth
	var jwtAuth *auth.LocalJWTAuth
	if cfg.JWTSecret != "" {
		jwtAuth, err = auth.NewLocalJWTAuth(cfg.JWTSecret, 0, 0)
		if err != nil {
			log.Fatalf("❌ Failed to initialize JWT auth: %v", err)
		}
		log.Println("🔐 Local JWT authentication enabled")
	} else {
		log.Println("⚠️  JWT_SECRET not set, running without authentication")
	}

	// Stores
	contentStore := services.NewContentStore(db)
	brandStore := services.NewBrandStore(db)
	companyService := services.NewCompanyService(db)
	notificationService := services.NewNotificationService(db, redisClient)
	usageService := services.NewUsageService(db, redisClient)
	assetStorage := services.NewAssetStorage(cfg.AssetDir)

	// Providers
	textClient := providers.NewTextClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAITemperature)
	imageRegistry := providers.NewImageRegistry(cfg.DefaultImageProvider)
	if cfg.GoogleAPIKey != "" {
		imageRegistry.Register(providers.NewGoogleImageProvider(cfg.GoogleBaseURL, cfg.GoogleAPIKey, cfg.GoogleModel))
	}
	if cfg.FalKey != "" {
		imageRegistry.Register(providers.NewFalImageProvider(cfg.FalBaseURL, cfg.FalKey, cfg.FalModel))
	}
	if cfg.ReplicateToken != "" {
		imageRegistry.Register(providers.NewReplicateImageProvider(cfg.ReplicateBase, cfg.ReplicateToken, cfg.ReplicateModel))
	}
	if len(imageRegistry.Tags()) == 0 {
		log.Println("⚠️ No image provider configured, image generation will fail")
	}

	// Orchestrators
	captionService := services.NewCaptionService(contentStore, brandStore, companyService, textClient, notificationService, usageService)
	reviewService := services.NewReviewService(contentStore, brandStore, companyService, textClient, notificationService, usageService)
	imageService := services.NewImageService(contentStore, brandStore, companyService, textClient, imageRegistry, assetStorage, notificationService, usageService)

	contentHandler := handlers.NewContentHandler(contentStore, captionService, reviewService, imageService)
	healthHandler := handlers.NewHealthHandler(db, redisClient)

	// Background tasks
	runner, err := jobs.NewRunner()
	if err != nil {
		log.Fatalf("❌ Failed to create task runner: %v", err)
	}
	stuckReporter := jobs.NewStuckItemReporter(contentStore, cfg.StuckThreshold)
	if err := runner.Register("stuck-item-reporter", cfg.StuckReportCron, stuckReporter); err != nil {
		log.Fatalf("❌ %v", err)
	}
	runner.Start()

	app := fiber.New(fiber.Config{
		AppName:      "contentgen",
		BodyLimit:    10 * 1024 * 1024,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: getCORSOrigins(),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	prometheus := fiberprometheus.New("contentgen")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	app.Get("/health", healthHandler.Handle)
	app.Static("/uploads", cfg.AssetDir)

	api := app.Group("/api", middleware.LocalAuthMiddleware(jwtAuth))
	content := api.Group("/content")
	content.Get("/:id", contentHandler.Get)
	content.Post("/generate-bulk", contentHandler.GenerateBulk)
	content.Post("/:id/generate", contentHandler.Generate)
	content.Post("/:id/review", contentHandler.Review)
	content.Post("/:id/dmp", contentHandler.GenerateDmp)
	content.Post("/:id/image", contentHandler.GenerateImage)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("🛑 Shutting down server...")
		if err := runner.Shutdown(); err != nil {
			log.Printf("⚠️ Task runner shutdown: %v", err)
		}
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			log.Printf("⚠️ Server shutdown: %v", err)
		}
	}()

	log.Printf("🌐 Server listening on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Server error: %v", err)
	}

	log.Println("👋 Server stopped")
}

func getCORSOrigins() string {
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		return origins
	}
	return "http://localhost:5173, http://localhost:3000"
}
