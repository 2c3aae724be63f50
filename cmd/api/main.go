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
	"github.com/gantaAishwarya/Lunch-log/internal/router"
	"github.com/gantaAishwarya/Lunch-log/internal/storage"

	"github.com/joho/godotenv"
)

func main() {

	// ───────────────────────── ENV ─────────────────────────
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	required := []string{
		"JWT_SECRET",
		"DATABASE_URL",
		"GOOGLE_API_KEY",
		"R2_ACCESS_KEY",
		"R2_SECRET_KEY",
		"R2_BUCKET_NAME",
		"R2_ENDPOINT",
		"R2_PUBLIC_BASE_URL",
	}

	for _, k := range required {
		if os.Getenv(k) == "" {
			log.Fatalf("❌ Missing env var: %s", k)
		}
	}

	// ───────────────────────── DB ─────────────────────────
	pgDB := db.ConnectPostgres()
	defer pgDB.Close()

	// ───────────────────────── STORAGE ─────────────────────────
	r2Client, err := storage.NewR2Client(context.Background())
	if err != nil {
		log.Fatal("❌ R2 init failed:", err)
	}

	// ───────────────────────── SERVICES ─────────────────────────
	placesClient := places.NewGoogleClient()

	restaurantRepo := restaurant.NewPostgresRepository(pgDB)
	restaurantService := restaurant.NewService(restaurantRepo, placesClient)
	restaurantHandler := restaurant.NewHandler(restaurantService)

	receiptRepo := receipt.NewPostgresRepository(pgDB)
	receiptService := receipt.NewService(receiptRepo, restaurantService)
	receiptHandler := receipt.NewHandler(receiptRepo, r2Client)

	// ───────────────────────── RECEIPT WORKER ─────────────────────────
	// The API binary runs an in-process worker; cmd/receipt-worker is
	// the standalone variant for deployments that scale it separately.
	go receiptService.Run(context.Background(), 2*time.Second)

	// ───────────────────────── START ─────────────────────────
	r := router.NewRouter(receiptHandler, restaurantHandler)

	log.Println("🚀 API running at http://localhost:8000")
	r.Run(":8000")
}
