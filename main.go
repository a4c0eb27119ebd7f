package main

import (
	"log"

	"backend_assetflow/api"
	"backend_assetflow/config"
	"backend_assetflow/database"
	"backend_assetflow/middleware"
	"backend_assetflow/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// initDB initializes the database connection
func initDB() {
	log.Println("Initializing database...")

	if err := database.CreateDatabaseIfNotExists(); err != nil {
		log.Fatal("Failed to create database: ", err)
	}

	if err := database.ConnectDatabase(); err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	log.Println("Database initialized")
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}
	cfg.LogConfig()

	initDB()

	// Redis is optional: caching and rate limiting degrade gracefully
	if err := database.InitRedis(); err != nil {
		log.Printf("Redis unavailable, running without cache: %v", err)
	}

	db := database.GetDB()

	// Services
	cacheService := services.NewCacheService(database.GetRedis(), log.Default())
	storageService := services.NewStorageService(cfg.Storage.UploadDir)
	exportService := services.NewExportService(db)
	notificationService := services.NewNotificationService(
		cfg.External.TelegramBotToken, cfg.External.TelegramChatID)
	seedService := services.NewSeedService(db)

	if err := seedService.SeedDefaultUsers(); err != nil {
		log.Printf("Warning: failed to seed default users: %v", err)
	}

	overdueService := services.NewOverdueService(db, notificationService)
	if err := overdueService.Start(cfg.External.OverdueCheckSpec); err != nil {
		log.Printf("Warning: overdue sweeper not started: %v", err)
	}
	defer overdueService.Stop()

	// Auth
	authMW := middleware.NewAuthMiddleware(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpiresIn)

	// API handlers
	authAPI := api.NewAuthAPI(db, authMW)
	assetAPI := api.NewAssetAPI(db, cacheService, exportService)
	assignmentAPI := api.NewAssignmentAPI(db, cacheService, exportService, notificationService)
	maintenanceAPI := api.NewMaintenanceAPI(db)
	searchAPI := api.NewSearchAPI(db)
	statsAPI := api.NewStatsAPI(db, cacheService)
	uploadAPI := api.NewUploadAPI(storageService)
	userAPI := api.NewUserAPI(db)

	// Router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
	}))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":   "success",
			"message":  "pong",
			"database": "connected",
		})
	})

	// Uploaded photos and documents are served statically
	r.Static("/assets", cfg.Storage.UploadDir+"/assets")

	// Public auth routes
	r.POST("/api/auth/login", middleware.LoginRateLimit(), authAPI.Login)

	// Protected API routes, rate limited per authenticated user
	apiRateLimit := middleware.RateLimit(middleware.RateLimitConfig{
		Requests:     cfg.Security.RateLimitRequests,
		Window:       cfg.Security.RateLimitWindow,
		KeyGenerator: middleware.UserKeyGenerator,
	})
	protected := r.Group("/api", authMW.RequireAuth(), apiRateLimit)
	{
		protected.GET("/auth/me", authAPI.GetMe)

		protected.GET("/assets", assetAPI.GetAssets)
		protected.POST("/assets", assetAPI.CreateAsset)
		protected.GET("/assets/export", assetAPI.ExportAssets)
		protected.GET("/assets/:id", assetAPI.GetAsset)
		protected.PATCH("/assets/:id", assetAPI.UpdateAsset)
		protected.DELETE("/assets/:id", authMW.RequireRole("Admin"), assetAPI.DeleteAsset)

		protected.GET("/assignments", assignmentAPI.GetAssignments)
		protected.POST("/assignments", assignmentAPI.CreateAssignment)
		protected.PATCH("/assignments/:id", assignmentAPI.UpdateAssignment)
		protected.GET("/assignments/:id/receipt", assignmentAPI.DownloadReceipt)

		protected.GET("/maintenance", maintenanceAPI.GetMaintenanceRecords)
		protected.POST("/maintenance", maintenanceAPI.CreateMaintenanceRecord)

		protected.GET("/search", searchAPI.Search)
		protected.GET("/stats", statsAPI.GetStats)
		protected.POST("/upload", uploadAPI.UploadFiles)
		protected.GET("/users", userAPI.GetUsers)
	}

	log.Printf("Server listening on port %s", cfg.App.Port)
	if err := r.Run(":" + cfg.App.Port); err != nil {
		log.Fatal("Server failed: ", err)
	}
}
