package main

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/yeloe-dev/yeloe/db"
	"github.com/yeloe-dev/yeloe/internal/auth"
	"github.com/yeloe-dev/yeloe/internal/handlers"
	"github.com/yeloe-dev/yeloe/internal/reconciler"
	"github.com/yeloe-dev/yeloe/internal/router"
	"github.com/yeloe-dev/yeloe/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	if err := auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize JWT: %v", err)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if err := db.ConnectDatabase(dsn); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	var mailer *services.Mailer
	if sender := services.NewSendGridSenderFromEnv(); sender != nil {
		mailer = services.NewMailer(sender)
	}
	handlers.Init(mailer)

	reconciler.Initialize(15 * time.Minute)
	defer reconciler.Shutdown()

	r := router.NewRouter()

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
