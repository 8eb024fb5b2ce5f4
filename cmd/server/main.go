package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rentalmap/internal/config"
	"rentalmap/internal/handler"
	"rentalmap/internal/repository"
	"rentalmap/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Print version info
	log.Printf("Rental Map")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Initialize database connection
	db, err := repository.Open(cfg.Database.Driver, cfg.GetDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Printf("✅ Connected to %s database", cfg.Database.Driver)

	// Initialize repositories
	listingRepo := repository.NewListingRepository(db, cfg.Database.ListingTable)
	accountRepo := repository.NewAccountRepository(db)

	if err := accountRepo.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("Failed to prepare accounts table: %v", err)
	}

	// Initialize services
	catalog := service.NewCatalogService(listingRepo)
	authService := service.NewAuthService(accountRepo, cfg.Auth.BcryptCost)
	sessions := service.NewSessionManager(time.Duration(cfg.Session.TTLMinutes) * time.Minute)

	// Initial catalog load; a failing store degrades to an empty dataset
	loaded, dropped, err := catalog.Load(context.Background())
	if err != nil {
		log.Printf("⚠️  Initial catalog load failed: %v (serving empty dataset)", err)
	} else {
		log.Printf("✅ Catalog loaded: %d listings (%d rows dropped for unparsable rent)", loaded, dropped)
	}

	log.Println("✅ Services initialized")

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, sessions, cfg.Session.CookieName)
	listingHandler := handler.NewListingHandler(catalog)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":     "healthy",
			"service":    "rental-map",
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth endpoints (no session required)
		apiV1.POST("/auth/signup", authHandler.Signup)
		apiV1.POST("/auth/login", authHandler.Login)
		apiV1.POST("/auth/logout", authHandler.Logout)

		// Everything behind the login gate
		authed := apiV1.Group("", authHandler.RequireSession())
		{
			authed.GET("/facets", listingHandler.Facets)
			authed.POST("/search/preview", listingHandler.Preview)
			authed.POST("/search/commit", listingHandler.Commit)
			authed.POST("/display/toggle", listingHandler.ToggleDisplay)
			authed.GET("/results", listingHandler.Results)
			authed.GET("/map", listingHandler.Map)
			authed.POST("/catalog/reload", listingHandler.Reload)
		}
	}

	// Expire abandoned sessions in the background
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			sessions.Sweep()
		}
	}()

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("🚀 Starting server on %s", addr)
	log.Printf("📝 API Documentation: http://localhost:%d/api/v1", cfg.Server.Port)

	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	log.Println("✅ Server stopped")
}
