package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/messaging"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/tahmidul512/linkloop/backend/internal/handlers"
	"github.com/tahmidul512/linkloop/backend/internal/middleware"
	"github.com/tahmidul512/linkloop/backend/internal/models"
	"github.com/tahmidul512/linkloop/backend/internal/notifications"
	"github.com/tahmidul512/linkloop/backend/internal/push"
	"github.com/tahmidul512/linkloop/backend/internal/realtime"
	"github.com/tahmidul512/linkloop/backend/internal/repositories"
	"github.com/tahmidul512/linkloop/backend/pkg/config"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// Deps bundles the external clients the notification engine is wired
// against.
type Deps struct {
	Postgres  *gorm.DB
	Mongo     *mongo.Client
	Redis     *redis.Client
	Auth      *auth.Client
	Messaging *messaging.Client
}

// SetupRoutes configures all application routes and injects
// dependencies. It returns the coordinator so main can drain in-flight
// fan-outs on shutdown.
func SetupRoutes(e *echo.Echo, cfg *config.Config, deps Deps) *notifications.Coordinator {
	// AutoMigrate PostgreSQL models
	err := deps.Postgres.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Notification{},
		&models.Device{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(deps.Postgres)
	followRepo := repositories.NewPostgresFollowRepository(deps.Postgres)
	notificationRepo := repositories.NewPostgresNotificationRepository(deps.Postgres)
	deviceRepo := repositories.NewPostgresDeviceRepository(deps.Postgres)
	postRepo := repositories.NewMongoPostRepository(deps.Mongo.Database("linkloop"))

	// --- Realtime channel ---
	hub := realtime.NewHub()
	var channel realtime.Channel = hub
	if deps.Redis != nil {
		channel = realtime.NewBridge(deps.Redis, hub, "")
	}

	// --- Delivery pipeline ---
	var pusher notifications.MobilePusher
	if deps.Messaging != nil {
		pusher = push.NewFCMSender(deps.Messaging, deviceRepo)
	}
	counter := notifications.NewCounter(notificationRepo, channel)
	coordinator := notifications.NewCoordinator(notificationRepo, userRepo, followRepo, channel, counter, pusher)
	service := notifications.NewService(coordinator, userRepo, postRepo)

	// --- Protected routes ---
	// Firebase ID tokens when an auth client is configured, first-party
	// JWTs otherwise.
	api := e.Group("/api/v1")
	if deps.Auth != nil {
		api.Use(middleware.FirebaseAuthMiddleware(deps.Auth, userRepo))
		log.Println("Firebase authentication middleware applied to /api/v1 group.")
	} else {
		api.Use(middleware.JWTAuthMiddleware())
		log.Println("JWT authentication middleware applied to /api/v1 group.")
	}

	// Notification feed routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	// Realtime websocket endpoint
	realtimeHandler := handlers.NewRealtimeHandler(hub)
	realtimeHandler.RegisterRealtimeRoutes(api)
	log.Println("Realtime routes configured.")

	// Device token routes
	deviceHandler := handlers.NewDeviceHandler(deviceRepo)
	deviceHandler.RegisterDeviceRoutes(api)
	log.Println("Device routes configured.")

	// Admin live feed
	admin := api.Group("/admin")
	admin.Use(middleware.AdminOnlyMiddleware())
	notificationHandler.RegisterAdminRoutes(admin)
	log.Println("Admin routes configured.")

	// Internal event endpoints for the post/comment/follow services
	internal := e.Group("/api/v1/internal")
	internal.Use(middleware.InternalAuthMiddleware(cfg.InternalAPIToken))
	eventHandler := handlers.NewEventHandler(service)
	eventHandler.RegisterEventRoutes(internal)
	log.Println("Internal event routes configured.")

	log.Println("All routes configured.")
	return coordinator
}
