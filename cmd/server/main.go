package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	domainRepo "booking-sync-service/internal/domain/repository"
	"booking-sync-service/internal/infrastructure/config"
	"booking-sync-service/internal/infrastructure/persistence"
	"booking-sync-service/internal/interface/handler"
	"booking-sync-service/internal/interface/repository"
	"booking-sync-service/internal/usecase"
	"booking-sync-service/pkg/logger"
	"booking-sync-service/pkg/metrics"
	"booking-sync-service/pkg/normalize"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	defer log.Sync()
	log.Info("Starting Booking Sync Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gormDB, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}
	if err := gormDB.WithContext(ctx).AutoMigrate(&repository.Bookings{}); err != nil {
		log.Fatal("Failed to migrate bookings table", "error", err)
	}

	// The audit trail is optional; without MongoDB the engine still syncs.
	var mongoClient *mongo.Client
	var runRepo domainRepo.SyncRunRepository
	if cfg.MongoURI != "" {
		log.Info("Connecting to MongoDB")
		mongoClient, err = persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB", "error", err)
		}
		db := persistence.GetDatabase(mongoClient, cfg.MongoDB)
		runRepo = repository.NewMongoSyncRunRepository(db)
	} else {
		log.Warn("MONGODB_DSN not set, sync run audit trail disabled")
	}

	m := metrics.NewMetrics("booking_sync")
	normalizer := normalize.NewNormalizer(log)

	bookingRepo := repository.NewGormBookingRepository(gormDB)
	source := repository.NewHTTPBookingSource(cfg, log)

	syncUsecase := usecase.NewSyncUsecase(source, bookingRepo, runRepo, normalizer, log, m, usecase.SyncConfig{
		FetchLimit:    cfg.SyncFetchLimit,
		Workers:       cfg.SyncWorkers,
		RecordTimeout: cfg.SyncRecordTimeout,
		RunTimeout:    cfg.SyncRunTimeout,
	})
	checkUsecase := usecase.NewUpdateCheckUsecase(source, bookingRepo, normalizer, log, cfg.SyncFetchLimit)

	// Set up HTTP server
	mux := http.NewServeMux()
	syncHandler := handler.NewSyncHandler(syncUsecase, checkUsecase, log)
	syncHandler.Register(mux)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel()

	if mongoClient != nil {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error("MongoDB disconnect error", "error", err)
		}
	}

	log.Info("Booking Sync Service stopped")
}
