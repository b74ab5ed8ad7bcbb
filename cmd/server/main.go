package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"versefeed/auth"
	"versefeed/internal"
	"versefeed/moderation"
	"versefeed/observability"
	"versefeed/realtime"
	"versefeed/repositories"
	"versefeed/services"
	"versefeed/transport"
	"versefeed/workers"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting, so every deferred cleanup (Badger close,
// sequence release) executes before the process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return err
	}

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.INFO))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Messaging core
	repository, err := repositories.NewMessageRepository(db, log)
	if err != nil {
		return err
	}
	defer func() {
		_ = repository.Close()
	}()

	censor, err := moderation.NewDefaultCensor(charReplacement)
	if err != nil {
		return fmt.Errorf("moderation setup failed: %w", err)
	}

	stats := observability.NewDeliveryStats()
	registry := realtime.NewRegistry()
	router := realtime.NewRouter(log, registry, stats)
	messageService := services.NewMessageService(repository, censor, log, config.MaxContentLength)
	verifier := auth.NewVerifier(config.AuthSecret)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Background telemetry
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(workers.NewReporterWorker(log, stats, registry, config.MetricInterval))
	go sup.Run(ctx)

	// 6. Websocket server
	server := transport.NewServer(log, registry, messageService, router,
		verifier, stats, config.SendBufferSize, config.WriteTimeout)
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	httpServer := &http.Server{Addr: address, Handler: server.Handler()}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting websocket server", "address", address, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("websocket server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 8. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	sup.Stop()
	log.Info("Program stopped cleanly")

	return nil
}
