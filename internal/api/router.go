package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"placelog/internal/config"
	"placelog/internal/handler"
	"placelog/internal/middleware"
)

// Deps carries the wired handlers the router exposes.
type Deps struct {
	Cfg      *config.Config
	Fixes    *handler.FixHandler
	Timeline *handler.TimelineHandler
	Places   *handler.PlaceHandler
	Admin    *handler.AdminHandler
}

// SetupRouter builds the HTTP surface.
func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "placelog API is running",
		})
	})

	api := r.Group("/api/v1")
	{
		api.POST("/fixes", d.Fixes.Ingest)
		api.GET("/detector/state", d.Fixes.State)

		days := api.Group("/days")
		{
			days.GET("/:day/stays", d.Timeline.GetStays)
			days.GET("/:day/timeline", d.Timeline.GetTimeline)
			days.PUT("/:day/timeline", d.Timeline.SaveTimeline)
		}

		// Search fans out to Nominatim, keep it on a tight budget.
		places := api.Group("/places", middleware.RateLimit(30, time.Minute))
		{
			places.GET("/search", d.Places.Search)
			places.GET("/:id", d.Places.Details)
		}

		api.DELETE("/data", middleware.RequireAuth(d.Cfg.JWTSecret), d.Admin.ClearAll)
	}

	return r
}
