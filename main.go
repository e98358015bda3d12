package main

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"hospital-management-server/internal/config"
	"hospital-management-server/internal/logger"
	"hospital-management-server/internal/middleware"
	"hospital-management-server/internal/models"
	"hospital-management-server/internal/routes"
	"hospital-management-server/internal/session"
	"hospital-management-server/internal/utils"
)

func main() {
	// Load environment variables; a missing .env file is fine in containers
	envErr := godotenv.Load()

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.New("info", "json").Fatalf("Error loading config: %v", err)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		log.WithError(envErr).Warn("No .env file loaded, using process environment")
	}
	if cfg.SessionSecret == "default_session_secret" && !cfg.IsDevelopment() {
		log.Warn("SESSION_SECRET is not set, session cookies are signed with the default secret")
	}

	// Create a DatabaseConfig for models
	modelDbConfig := models.DatabaseConfig{
		DSN: cfg.Database.DSN,
	}

	// Initialize database connection
	db, err := models.InitDB(modelDbConfig)
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	sessions := session.NewManager(
		session.NewMemoryStore(time.Duration(cfg.SessionTTLHours)*time.Hour),
		session.ManagerConfig{
			Secret:     cfg.SessionSecret,
			CookieName: cfg.SessionCookieName,
			MaxAge:     time.Duration(cfg.SessionTTLHours) * time.Hour,
			Secure:     !cfg.IsDevelopment(),
		},
	)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	utils.UseJSONFieldNames()

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))

	router.Use(middleware.LoadSession(sessions))

	// Set up routes - passing DB, config and the session manager to let routes.go create the handlers
	routes.SetupRoutes(router, db, cfg, sessions, log)

	// Start server
	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	log.WithField("port", cfg.Port).Info("Server running")
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
