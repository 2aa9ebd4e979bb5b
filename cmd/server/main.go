package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/tahmidul512/linkloop/backend/internal/router"
	"github.com/tahmidul512/linkloop/backend/pkg/config"
	"github.com/tahmidul512/linkloop/backend/pkg/firebase"
	"github.com/tahmidul512/linkloop/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase (auth + FCM). Mobile pushes are disabled when
	// no credentials are configured.
	deps := router.Deps{
		Postgres: db.Postgres,
		Mongo:    db.Mongo,
		Redis:    db.Redis,
	}
	if cfg.FirebaseCredentialsPath != "" {
		ctx := context.Background()
		firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		deps.Auth = firebaseApp.AuthClient
		deps.Messaging = firebaseApp.MessagingClient
	} else {
		log.Println("No Firebase credentials configured, falling back to JWT auth, mobile pushes disabled.")
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Validator
	e.Validator = validators.NewValidator()

	// Setup routes and dependencies
	coordinator := router.SetupRoutes(e, cfg, deps)
	defer coordinator.Wait() // drain in-flight fan-outs before closing DBs

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
