package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace/internal/cart"
	"marketplace/internal/catalog"
	"marketplace/internal/checkout"
	"marketplace/internal/config"
	"marketplace/internal/db"
	"marketplace/internal/events"
	httpserver "marketplace/internal/http"
	"marketplace/internal/middleware"
	"marketplace/internal/order"
	"marketplace/internal/sequence"
)

func main() {
	cfg := config.Load()

	logger := log.New(os.Stdout, "[marketplace] ", log.LstdFlags|log.Lshortfile)

	if cfg.DatabaseDSN == "" {
		logger.Fatal("MARKETPLACE_DB_DSN not set")
	}
	if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
		logger.Fatalf("run migrations: %v", err)
	}

	database, err := db.Open(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatalf("open db: %v", err)
	}
	defer database.Close()

	catalogRepo := catalog.NewRepository(database)
	cartRepo := cart.NewRepository(database)
	orderRepo := order.NewRepository(database)

	rabbitConn := events.MustDialRabbit(cfg.RabbitURL)
	defer rabbitConn.Close()

	sequenceRepo := sequence.NewRepository(database)
	publisher, err := events.NewPublisher(rabbitConn, sequenceRepo)
	if err != nil {
		logger.Fatalf("create publisher: %v", err)
	}

	cartService := cart.NewService(cartRepo, catalogRepo)
	engine := checkout.NewEngine(database, cartRepo, orderRepo, publisher, logger)
	orderService := order.NewService(orderRepo)

	mux := httpserver.NewRouter(cartService, engine, orderService)

	var handler http.Handler = mux
	handler = middleware.Recover(logger)(handler)
	handler = middleware.CORS(cfg.CORSAllowOrigins)(handler)
	handler = middleware.CorrelationID(handler)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("marketplace listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Printf("shutdown signal received")
	case err := <-errCh:
		logger.Fatalf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown error: %v", err)
	}
	if err := publisher.Close(); err != nil {
		logger.Printf("publisher close error: %v", err)
	}
}
