package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/MariaMashkovska/library-project/internal/config"
	"github.com/MariaMashkovska/library-project/internal/handlers"
	"github.com/MariaMashkovska/library-project/internal/models"
	"github.com/MariaMashkovska/library-project/internal/notify"
	"github.com/MariaMashkovska/library-project/internal/policies"
	"github.com/MariaMashkovska/library-project/internal/repositories"
	"github.com/MariaMashkovska/library-project/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get generic DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&models.Book{}, &models.Reader{}, &models.Rental{}); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	pricing, err := policies.PricingFor(cfg.PricingStrategy)
	if err != nil {
		log.Fatalf("invalid PRICING_STRATEGY: %v", err)
	}
	log.Printf("[INFO] pricing strategy: %s", pricing.Name())

	hub := notify.NewHub(notify.LogListener{})
	if cfg.OverdueWebhookURL != "" {
		hub.Attach(notify.NewWebhookListener(cfg.OverdueWebhookURL))
	}

	bookRepo := repositories.NewBookRepository(db)
	readerRepo := repositories.NewReaderRepository(db)
	rentalRepo := repositories.NewRentalRepository(db)

	libraryService := services.NewLibraryService(
		db, bookRepo, readerRepo, rentalRepo,
		pricing, policies.StandardFineCalculator{}, hub,
	)

	sweeper := services.NewOverdueSweeper(libraryService, cfg.OverdueSweepSchedule)
	if err := sweeper.Start(); err != nil {
		log.Fatalf("failed to start overdue sweeper: %v", err)
	}
	defer sweeper.Stop()

	router := gin.Default()
	handlers.RegisterRoutes(router, libraryService, cfg.DefaultRentalDays)

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("Starting server on %s", cfg.ServerAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
