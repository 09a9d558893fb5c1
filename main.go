package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"wildoasis-backend/config"
	"wildoasis-backend/controllers"
	"wildoasis-backend/routes"
	"wildoasis-backend/services"
	"wildoasis-backend/utils"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found or couldn't load it; continuing with environment variables")
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Database connect failed: %v", err)
	}
	db := config.DB
	if db == nil {
		log.Fatal("config.DB is nil after ConnectDatabase()")
	}
	log.Println("Database connection established, migrations applied")

	identityService := services.NewIdentityServiceFromEnv()
	if identityService.BaseURL == "" {
		log.Println("IDENTITY_URL not set; guest options come from the directory only")
	}

	cabinService := services.NewCabinService(db)
	guestService := services.NewGuestService(db)
	settingsService := services.NewSettingsService(db)
	bookingService := services.NewBookingService(db)

	draftManager := services.NewDraftManager(
		cabinService,
		guestService,
		identityService,
		settingsService,
		bookingService,
	)

	draftController := controllers.NewDraftController(draftManager)
	bookingController := controllers.NewBookingController(bookingService)
	cabinController := controllers.NewCabinController(cabinService)
	guestController := controllers.NewGuestController(guestService)
	settingsController := controllers.NewSettingsController(settingsService)

	router := routes.SetupRouter(
		draftController,
		bookingController,
		cabinController,
		guestController,
		settingsController,
	)

	addr := ":" + utils.EnvOrDefault("PORT", "8080")

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped gracefully")
}
