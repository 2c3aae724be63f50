package db

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func ConnectPostgres() *pgxpool.Pool {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		log.Fatal(err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		log.Fatal(err)
	}

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal("Postgres connection failed:", err)
	}

	log.Println("✅ Connected to PostgreSQL")

	// Initialize schema
	if err := initSchema(db); err != nil {
		log.Fatal("Failed to initialize schema:", err)
	}

	return db
}

// initSchema creates or updates the database schema
func initSchema(db *pgxpool.Pool) error {
	ctx := context.Background()

	// -------------------------------
	// RESTAURANTS
	// -------------------------------
	restaurantsSQL := `
		CREATE TABLE IF NOT EXISTS restaurants (
			id SERIAL PRIMARY KEY,
			place_id TEXT UNIQUE,
			name VARCHAR(255) NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			city VARCHAR(255) NOT NULL DEFAULT '',
			cuisine JSONB NOT NULL DEFAULT '[]',
			rating DOUBLE PRECISION,
			user_ratings_total INT,
			phone_number VARCHAR(50),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(ctx, restaurantsSQL); err != nil {
		return err
	}

	cityIndexSQL := `
		CREATE INDEX IF NOT EXISTS idx_restaurants_city
		ON restaurants (LOWER(city))
	`
	if _, err := db.Exec(ctx, cityIndexSQL); err != nil {
		return err
	}

	// -------------------------------
	// INTERACTIONS
	// -------------------------------
	interactionsSQL := `
		CREATE TABLE IF NOT EXISTS interactions (
			id SERIAL PRIMARY KEY,
			user_id UUID NOT NULL,
			restaurant_id INT NOT NULL REFERENCES restaurants(id),
			visits INT NOT NULL DEFAULT 0,
			last_visited DATE NOT NULL,
			average_spend NUMERIC(10,2),
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user_id, restaurant_id)
		)
	`
	if _, err := db.Exec(ctx, interactionsSQL); err != nil {
		return err
	}

	// -------------------------------
	// RECEIPTS (the table doubles as the processing queue)
	// -------------------------------
	receiptsSQL := `
		CREATE TABLE IF NOT EXISTS receipts (
			id SERIAL PRIMARY KEY,
			user_id UUID NOT NULL,
			restaurant_name VARCHAR(255) NOT NULL,
			address TEXT NOT NULL,
			date DATE NOT NULL,
			price NUMERIC(10,2) NOT NULL,
			image_url VARCHAR(500),
			status VARCHAR(50) NOT NULL DEFAULT 'PENDING',
			error TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(ctx, receiptsSQL); err != nil {
		return err
	}

	pendingIndexSQL := `
		CREATE INDEX IF NOT EXISTS idx_receipts_status
		ON receipts (status, id)
	`
	if _, err := db.Exec(ctx, pendingIndexSQL); err != nil {
		return err
	}

	log.Println("✅ Schema initialized successfully")
	return nil
}
