package main

import (
	"context"
	"errors"
	"fmt"
	"knitcraft_server/api"
	"knitcraft_server/config"
	"knitcraft_server/database"
	"knitcraft_server/services"
	"knitcraft_server/structs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 15 * time.Second

var logger *gecho.Logger
var cfg *structs.Config

// init loads environment variables, then the config, logger and database
func init() {
	envErr := godotenv.Load()

	cfg = config.GetConfig()
	logger = config.InitializeLogger()

	if envErr != nil {
		logger.Warn("No .env file found or error loading .env file, proceeding with system environment variables")
	}

	if err := database.Initialize(cfg.Database, logger); err != nil {
		logger.Fatal("Failed to initialize database", gecho.Field("error", err))
	}

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(database.GetInstance(), logger); err != nil {
			logger.Fatal("Failed to run migrations", gecho.Field("error", err))
		}
	}
}

func main() {
	sm := services.NewServiceManager(logger, cfg, database.GetInstance())

	bootstrapCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := sm.AuthService.EnsureAdmin(bootstrapCtx); err != nil {
		logger.Error("Failed to bootstrap admin account", gecho.Field("error", err))
	}
	cancel()

	server := &http.Server{
		Addr:           cfg.Server.Port,
		Handler:        api.App(cfg, sm),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		logger.Info(fmt.Sprintf("Starting server (%s) on %s", cfg.Server.AppName, cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", gecho.Field("error", err))
		}
	}()

	waitForShutdown(server, sm)
}

// waitForShutdown blocks until SIGINT or SIGTERM, then drains the server
// and releases the database, redis and kafka connections.
func waitForShutdown(server *http.Server, sm *services.ServiceManager) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	sig := <-c
	logger.Info("Received shutdown signal", gecho.Field("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", gecho.Field("error", err))
	}

	sm.Close()
	if err := database.CloseInstance(); err != nil {
		logger.Error("Failed to close database", gecho.Field("error", err))
	}
	logger.Info("Server stopped")
}
