package router

import (
	"time"

	"github.com/gantaAishwarya/Lunch-log/internal/middleware"
	"github.com/gantaAishwarya/Lunch-log/internal/receipt"
	"github.com/gantaAishwarya/Lunch-log/internal/restaurant"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(receiptHandler *receipt.Handler, restaurantHandler *restaurant.Handler) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check route
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ───────────────────────── RECEIPT ROUTES ─────────────────────────
	receipts := r.Group("/receipts")
	receipts.Use(middleware.AuthMiddleware())
	{
		receipts.POST("", receiptHandler.Create)
		receipts.GET("", receiptHandler.List)
	}

	// ───────────────────────── RECOMMENDATION ROUTES ─────────────────────────
	recommendations := r.Group("/recommendations")
	recommendations.Use(middleware.AuthMiddleware())
	{
		recommendations.GET("", restaurantHandler.GetRecommendations)
		recommendations.GET("/discover", restaurantHandler.Discover)
	}

	// ───────────────────────── RESTAURANT ROUTES ─────────────────────────
	restaurants := r.Group("/restaurants")
	restaurants.Use(middleware.AuthMiddleware())
	{
		restaurants.POST("/fetch", restaurantHandler.FetchByCity)
	}

	return r
}
