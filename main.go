package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avelez/accountd/internal/api"
	"github.com/avelez/accountd/internal/api/handlers"
	"github.com/avelez/accountd/internal/auth"
	"github.com/avelez/accountd/internal/config"
	"github.com/avelez/accountd/internal/logger"
	"github.com/avelez/accountd/internal/password"
	"github.com/avelez/accountd/internal/services"
	"github.com/avelez/accountd/internal/store"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info")
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.LogLevel)

	// Set up the user store
	userStore, err := store.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer userStore.Close()

	if err := userStore.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up core components
	hasher := password.NewHasher(cfg.BcryptCost)
	authority := auth.NewAuthority([]byte(cfg.JWTSecret), cfg.TokenTTL)
	accountService := services.NewAccountService(userStore, hasher)

	// Set up router
	accountHandler := handlers.NewAccountHandler(accountService, authority, cfg.IsProduction())
	router := api.NewRouter(accountHandler, authority, cfg.CORSOrigin)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
