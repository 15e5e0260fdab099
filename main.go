package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"daily-updates/internal/config"
	"daily-updates/internal/loader"
	"daily-updates/internal/portal"
	"daily-updates/internal/render"
	"daily-updates/internal/server"
)

func main() {
	var configPath, addr, dataSource string
	flag.StringVarP(&configPath, "config", "c", "", "path to a TOML config file")
	flag.StringVar(&addr, "addr", "", "listen address (overrides config)")
	flag.StringVar(&dataSource, "data", "", "news data file or URL (overrides config)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if dataSource != "" {
		cfg.Data.Source = dataSource
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	renderer, err := render.New()
	if err != nil {
		log.Fatal("Failed to parse templates:", err)
	}

	// Load news once in the background
	app := portal.New(cfg, loader.New(cfg.Data.Source, cfg.Data.UserAgent, cfg.Timeout()), renderer)
	router := server.NewRouter(cfg, app)
	app.Start(ctx)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	log.Printf("Starting news portal on %s (data: %s)", cfg.Server.Addr, cfg.Data.Source)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("Failed to start server:", err)
	}
	log.Println("News portal stopped gracefully")
}
