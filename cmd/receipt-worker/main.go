package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gantaAishwarya/Lunch-log/internal/db"
	"github.com/gantaAishwarya/Lunch-log/internal/places"
	"github.com/gantaAishwarya/Lunch-log/internal/receipt"
	"github.com/gantaAishwarya/Lunch-log/internal/restaurant"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Note: No .env file found, using environment variables")
	}

	log.Println("🧾 Receipt worker starting...")

	for _, k := range []string{"DATABASE_URL", "GOOGLE_API_KEY"} {
		if os.Getenv(k) == "" {
			log.Fatalf("❌ Missing env var: %s", k)
		}
	}

	// Database connection
	pgDB := db.ConnectPostgres()
	defer pgDB.Close()

	restaurantRepo := restaurant.NewPostgresRepository(pgDB)
	restaurantService := restaurant.NewService(restaurantRepo, places.NewGoogleClient())

	receiptRepo := receipt.NewPostgresRepository(pgDB)
	service := receipt.NewService(receiptRepo, restaurantService)

	log.Println("✅ Receipt worker initialized and running...")
	log.Println("Processing pending receipts every 2 seconds. Press Ctrl+C to stop.")

	service.Run(context.Background(), 2*time.Second)
}
