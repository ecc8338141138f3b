package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/OleksandrShtyka/parser/api"
	"github.com/OleksandrShtyka/parser/internal/app"
	"github.com/OleksandrShtyka/parser/internal/infrastructure"
	"github.com/OleksandrShtyka/parser/pkg/logger"
)

var configPath = flag.String("config", "", "Path to config file")

func main() {
	flag.Parse()

	config, err := app.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:      config.Logging.Level,
		Format:     config.Logging.Format,
		OutputPath: config.Logging.OutputPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting Parser server",
		zap.String("host", config.Server.Host),
		zap.Int("port", config.Server.Port),
		zap.String("engine", config.Engine.Binary))

	// Scratch directories abandoned by earlier runs are reclaimed before
	// the first request can create new ones.
	app.SweepScratch(config.Download.ScratchRoot, config.Download.ScratchMaxAge, log)

	engine := infrastructure.NewYTDLPEngine(&config.Engine, log)
	orchestrator := app.NewOrchestrator(engine, &config.Download, &config.Engine, log)
	mailer := infrastructure.NewMailer(&config.SMTP, log)

	router := api.SetupRouter(engine, orchestrator, mailer, log)

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// In-flight downloads get a grace period to stream their last bytes
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
