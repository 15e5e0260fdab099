// Package server wires the news portal to HTTP.
package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"daily-updates/internal/config"
	"daily-updates/internal/portal"
)

// NewRouter builds the gin engine serving app.
func NewRouter(cfg *config.Config, app *portal.App) *gin.Engine {
	// Initialize router
	r := gin.Default()

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	if len(cfg.Server.AllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Server.AllowOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	r.Use(cors.New(corsConfig))

	ps := NewPortalService(app)
	hub := NewHub(app)

	// Page and form
	r.GET("/", ps.Page)
	r.POST("/subscribe", ps.Subscribe)
	r.GET("/ws", hub.ServeWS)

	// Setup routes
	api := r.Group("/api/v1")
	{
		api.GET("/news", ps.GetNews)
		api.GET("/filters", ps.GetFilters)
		api.POST("/commands", ps.PostCommand)
		api.GET("/health", ps.Health)
	}

	return r
}
