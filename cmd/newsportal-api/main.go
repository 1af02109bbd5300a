package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pevans/newsportal/api"
	"github.com/pevans/newsportal/config"
	"github.com/pevans/newsportal/logger"
	"github.com/pevans/newsportal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	defaultPath, _ := config.DefaultPath()
	configPath := flag.String("config", getEnv("NEWSPORTAL_CONFIG", defaultPath), "Path to config file")
	flag.Parse()

	cfg, err := config.LoadConfigFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg.ApplyEnv()

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	svc, closer, err := service.FromConfig(cfg, log)
	if err != nil {
		log.Error("Failed to create service", logger.Err(err))
		os.Exit(1)
	}
	defer closer.Close()

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	server := api.NewAPIServer(svc, log, cfg.Scrape.MaxPages)
	httpServer := &http.Server{
		Addr:    cfg.API.Addr,
		Handler: server.SetupRouter(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting news portal API server",
			logger.String("addr", cfg.API.Addr),
			logger.String("storage_type", cfg.Storage.Type),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			log.Error("Server failed", logger.Err(err))
			os.Exit(1)
		}
	case <-ctx.Done():
		log.Info("Shutting down news portal API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("Graceful shutdown failed", logger.Err(err))
		}
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
