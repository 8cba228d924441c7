package server

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"td-generator-be/internal/bootstrap"
	"td-generator-be/internal/config"
	"td-generator-be/internal/tracer"
	"td-generator-be/pkg/database"

	"gorm.io/gorm"
)

// Serve starts the HTTP server with every background component and blocks
// until SIGINT/SIGTERM or a listener error.
func Serve(cfg *config.Config) error {
	shutdownTracer := tracer.InitTracer(cfg.Tracing)
	defer shutdownTracer(context.Background())

	var db *gorm.DB
	if cfg.Database.Connection != "" {
		gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.IsProduction())
		if err != nil {
			return err
		}
		db = gormDB
	}

	container := bootstrap.NewContainer(db, cfg)
	defer container.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := container.ConsumerService.Consume(ctx); err != nil {
		return err
	}

	srv := New(cfg, container)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Printf("Received %s, shutting down", sig)
	}

	done := make(chan error, 1)
	go func() { done <- srv.Shutdown() }()
	select {
	case err := <-done:
		return err
	case <-time.After(10 * time.Second):
		log.Println("Shutdown timed out")
		return nil
	}
}
