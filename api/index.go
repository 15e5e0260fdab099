package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"daily-updates/internal/config"
	"daily-updates/internal/loader"
	"daily-updates/internal/portal"
	"daily-updates/internal/render"
	"daily-updates/internal/server"
)

var router *gin.Engine

func init() {
	router = setupRouter()
}

func setupRouter() *gin.Engine {
	cfg, err := config.Load("")
	if err != nil {
		log.Printf("Invalid config, using defaults: %v", err)
		cfg = config.Default()
	}

	renderer, err := render.New()
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}

	app := portal.New(cfg, loader.New(cfg.Data.Source, cfg.Data.UserAgent, cfg.Timeout()), renderer)
	r := server.NewRouter(cfg, app)
	app.Start(context.Background())
	return r
}

// Handler is the entry point for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	router.ServeHTTP(w, r)
}
