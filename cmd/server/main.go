package main

// @title           Castle Chat Server API
// @version         1.0
// @description     Real-time presence and message fan-out relay
// @host            localhost:3003
// @BasePath        /

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/castle-games/chat-server/internal/api/routes"
	"github.com/castle-games/chat-server/internal/auth"
	"github.com/castle-games/chat-server/internal/config"
	"github.com/castle-games/chat-server/internal/relay"
	"github.com/castle-games/chat-server/internal/websocket"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger := slog.Default()
	logger.Info("Starting chat server")

	gateway := auth.NewGateway(
		cfg.Identity.PrimaryHost,
		cfg.Identity.SecondaryHost,
		cfg.Identity.LookupTimeout,
		logger,
	)

	r := relay.New(logger)
	hub := websocket.NewHub(r, gateway, logger)
	r.BindTransport(hub)
	go hub.Run()

	router := routes.NewRouter(hub, r, cfg.Relay.SecretKey)
	router.SetupRoutes()

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.GetEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	hub.Stop()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server stopped")
}
