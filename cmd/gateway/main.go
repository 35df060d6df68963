package main

import (
	"log"
	"net/http"
	"os"

	"fund-admin-gateway/backend"
	"fund-admin-gateway/config"
	"fund-admin-gateway/controllers"
	"fund-admin-gateway/middleware"
	"fund-admin-gateway/monitor"
	"fund-admin-gateway/routes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	config.ReloadMailerConfig()

	logFile, _ := config.InitLogging()
	if logFile != nil {
		defer logFile.Close()
	}

	// Wire the backend client into the handlers
	client := backend.NewClient(
		config.BackendBaseURL(),
		config.BackendFileBaseURL(),
		config.BackendAPIToken(),
		&http.Client{Timeout: config.BackendTimeout()},
	)
	controllers.Init(client, config.AggregatePageSize(), config.AggregateMaxRows())

	// Set Gin mode
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Add logging middleware
	router.Use(gin.LoggerWithWriter(config.LogWriter))

	// Add recovery middleware
	router.Use(gin.Recovery())

	// Add security headers middleware
	router.Use(func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	})

	// Add CORS middleware
	router.Use(middleware.CORSMiddleware())

	// Operator pages
	monitor.RegisterMonitorPage(router)
	monitor.RegisterLogsRoute(router)

	// Setup routes
	routes.SetupRoutes(router)

	port := config.ServerPort()
	log.Printf("Gateway starting on port %s", port)
	log.Printf("Backend API at %s", config.BackendBaseURL())

	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
