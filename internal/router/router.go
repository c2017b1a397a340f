package router

import (
	"firebase.google.com/go/v4/auth"
	"github.com/explorenow/backend/internal/docstore"
	"github.com/explorenow/backend/internal/handlers"
	"github.com/explorenow/backend/internal/middleware"
	"github.com/explorenow/backend/internal/stores"
	"github.com/explorenow/backend/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// SetupRoutes configures all application routes and injects dependencies.
// Every store receives the same document store client; firebaseAuthClient is
// nil for the mongo and memory backends, which fall back to JWT auth.
func SetupRoutes(e *echo.Echo, client docstore.Client, firebaseAuthClient *auth.Client, cfg *config.Config, log *zap.Logger) {
	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Stores ---
	userStore := stores.NewUserStore(client, log)
	notificationStore := stores.NewNotificationStore(client, userStore, log)
	relationshipStore := stores.NewRelationshipStore(client, notificationStore, userStore, log)
	blockStore := stores.NewBlockStore(client, log)
	postStore := stores.NewPostStore(client, notificationStore, log)
	messageStore := stores.NewMessageStore(client, blockStore, log)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userStore, firebaseAuthClient, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)

	// --- Protected routes ---
	api := e.Group("/api/v1")
	if firebaseAuthClient != nil {
		api.Use(middleware.FirebaseAuthMiddleware(firebaseAuthClient))
		log.Info("Firebase authentication middleware applied to /api/v1 group")
	} else {
		api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
		log.Info("JWT authentication middleware applied to /api/v1 group")
	}

	// User profile and settings routes
	userHandler := handlers.NewUserHandler(userStore)
	userHandler.RegisterProfileRoutes(api)

	// Friendship routes
	friendshipHandler := handlers.NewFriendshipHandler(relationshipStore, userStore)
	friendshipHandler.RegisterFriendshipRoutes(api)

	// Block routes
	blockHandler := handlers.NewBlockHandler(blockStore)
	blockHandler.RegisterBlockRoutes(api)

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationStore)
	notificationHandler.RegisterNotificationRoutes(api)

	// Post routes
	postHandler := handlers.NewPostHandler(postStore)
	postHandler.RegisterPostRoutes(api)

	// Message routes
	messageHandler := handlers.NewMessageHandler(messageStore)
	messageHandler.RegisterMessageRoutes(api)

	log.Info("All routes configured")
}
