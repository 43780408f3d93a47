package routes

import (
	"time"

	"loungebot/handlers"
	"loungebot/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterBotRoutes registers the webhook endpoint the chat relay
// delivers inbound events to.
func RegisterBotRoutes(r *gin.Engine, bot *handlers.BotHandler) {
	api := r.Group("/api/bot")
	{
		api.Use(middleware.RelayAuthMiddleware())
		api.POST("/event", bot.HandleEvent)
	}
}

// RegisterAvailabilityRoutes registers the pull-style availability views.
func RegisterAvailabilityRoutes(r *gin.Engine, bot *handlers.BotHandler) {
	api := r.Group("/api/availability")
	{
		api.GET("", bot.GetAvailabilityRange)
		api.GET("/:date", bot.GetAvailability)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.Health)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, bot *handlers.BotHandler) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Relay-Secret"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterBotRoutes(r, bot)
	RegisterAvailabilityRoutes(r, bot)
	RegisterHealthRoute(r)
}
