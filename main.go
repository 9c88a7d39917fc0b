package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/videgrenier/marketplace_backend/controllers"
	"github.com/videgrenier/marketplace_backend/database"
	"github.com/videgrenier/marketplace_backend/docs"
	"github.com/videgrenier/marketplace_backend/metrics"
	"github.com/videgrenier/marketplace_backend/middleware"
	"github.com/videgrenier/marketplace_backend/websocket"
)

// @title           Marketplace API
// @version         1.0
// @description     API Server for Classifieds Marketplace
// @host            localhost:8080
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Initialize database
	database.Connect()
	database.Migrate()

	// Set up Swagger info
	docs.SwaggerInfo.Title = "Marketplace API"
	docs.SwaggerInfo.Description = "API Server for Classifieds Marketplace"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = "localhost:" + os.Getenv("PORT")
	if docs.SwaggerInfo.Host == "localhost:" {
		docs.SwaggerInfo.Host = "localhost:8080"
	}
	docs.SwaggerInfo.BasePath = "/"
	docs.SwaggerInfo.Schemes = []string{"http"}

	// Redis client for message rate limiting
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	messageLimiter := middleware.NewRateLimiter(redisClient, "ratelimit:messages:", 30, time.Minute)

	// Conversation relay hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up router
	router := gin.Default()

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Prometheus metrics
	router.GET("/metrics", metrics.Handler())

	// Authentication routes
	auth := router.Group("/api")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
	}

	// Public listing routes
	public := router.Group("/api")
	{
		public.GET("/listings", controllers.GetListings)
		public.GET("/listings/:id", controllers.GetListing)
	}

	// Protected routes
	api := router.Group("/api")
	api.Use(middleware.JWTAuth())
	{
		// Listing routes
		api.POST("/listings", controllers.CreateListing)
		api.PUT("/listings/:id", controllers.UpdateListing)
		api.DELETE("/listings/:id", controllers.DeleteListing)

		// Conversation routes
		api.GET("/conversations", controllers.GetConversations)
		api.DELETE("/conversations", controllers.DeleteConversation)

		// Message routes
		api.GET("/messages", controllers.GetMessages)
		api.POST("/messages", messageLimiter.Middleware(), controllers.CreateMessage)

		// Payment routes
		api.GET("/payments", controllers.GetPayments)
		api.POST("/payments", controllers.CreatePayment)

		// Moderation routes
		api.POST("/reports", controllers.ReportListing)
		api.GET("/admin/reports", controllers.GetReports)
		api.POST("/admin/reports/:id/resolve", controllers.ResolveReport)
		api.POST("/admin/payments/:id/refund", controllers.RefundPayment)
	}

	// WebSocket route
	router.GET("/ws", websocket.ServeWS(hub))

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server running on port %s", port)
	log.Printf("Swagger documentation available at http://localhost:%s/swagger/index.html", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
