package main

import (
	"context"
	"log"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/explorenow/backend/internal/docstore"
	"github.com/explorenow/backend/internal/router"
	"github.com/explorenow/backend/pkg/config"
	"github.com/explorenow/backend/pkg/firebase"
	"github.com/explorenow/backend/pkg/logger"
	"github.com/explorenow/backend/validators"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zapLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Initialize the document store backend
	ctx := context.Background()
	client, authClient, err := initStore(ctx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize document store", zap.Error(err))
	}
	defer client.Close()

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, client, authClient, cfg, zapLogger)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}

// initStore selects the document store backend. Firestore is the production
// backend and the only one that brings a Firebase auth client with it; the
// mongo and memory backends authenticate with locally-issued JWTs.
func initStore(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger) (docstore.Client, *auth.Client, error) {
	switch cfg.StoreBackend {
	case "memory":
		zapLogger.Info("Using in-memory document store backend")
		return docstore.NewMemoryClient(), nil, nil

	case "mongo":
		clientOptions := options.Client().ApplyURI(cfg.MongoURI)
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		mongoClient, err := mongo.Connect(connectCtx, clientOptions)
		if err != nil {
			return nil, nil, err
		}
		if err = mongoClient.Ping(connectCtx, nil); err != nil {
			return nil, nil, err
		}
		zapLogger.Info("Using MongoDB document store backend", zap.String("database", cfg.MongoDatabase))
		return docstore.NewMongoClient(mongoClient.Database(cfg.MongoDatabase)), nil, nil

	default:
		app, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.FirebaseProjectID)
		if err != nil {
			return nil, nil, err
		}
		zapLogger.Info("Using Firestore document store backend")
		return docstore.NewFirestoreClient(app.Firestore), app.AuthClient, nil
	}
}
