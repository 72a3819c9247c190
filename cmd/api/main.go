package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"keyflow-api-server/config"
	"keyflow-api-server/internal/api/routes"
	"keyflow-api-server/internal/database"
	"keyflow-api-server/internal/socket"
	"keyflow-api-server/internal/upload"
)

func main() {
	// A missing .env is fine; config falls back to real env vars.
	godotenv.Load()

	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("JWT_SECRET must be set")
	}
	if cfg.Owner.PIN == "" {
		log.Fatal("OWNER_PIN must be set")
	}

	client, db, err := database.Connect(cfg.Mongo.URI, cfg.Mongo.DBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	if err := database.EnsureIndexes(db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	var storage upload.Storage
	uploadDir := ""
	if cfg.S3.Bucket != "" {
		storage, err = upload.NewS3Storage(cfg.S3)
		if err != nil {
			log.Fatalf("Failed to initialize S3 storage: %v", err)
		}
		log.Printf("Storing uploads in S3 bucket %s", cfg.S3.Bucket)
	} else {
		local, err := upload.NewLocalStorage(cfg.Upload.Dir, "/api/uploads")
		if err != nil {
			log.Fatalf("Failed to initialize local storage: %v", err)
		}
		storage = local
		uploadDir = cfg.Upload.Dir
	}

	wsHub := socket.NewHub()

	router := routes.SetupRouter(cfg, db, storage, wsHub, uploadDir)

	log.Printf("Starting API server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
