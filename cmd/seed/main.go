package main

import (
	"context"
	"log"
	"time"

	"resellscan/internal/models"
	"resellscan/internal/repository"
	"resellscan/pkg/config"
	"resellscan/pkg/logger"
	"resellscan/pkg/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	// Connect to database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	appLogger.Info("Creating schema...")
	if err := createSchema(ctx, db); err != nil {
		appLogger.Fatal("Failed to create schema", zap.Error(err))
	}

	appLogger.Info("Seeding product catalog...")
	productRepo := repository.NewProductRepository(db, appLogger)
	if err := seedProducts(ctx, productRepo); err != nil {
		appLogger.Fatal("Failed to seed products", zap.Error(err))
	}

	appLogger.Info("Database seeding completed successfully!")
}

func createSchema(ctx context.Context, db *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			password VARCHAR(255) NOT NULL,
			role VARCHAR(32) NOT NULL DEFAULT 'user',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id UUID PRIMARY KEY,
			barcode VARCHAR(64) NOT NULL UNIQUE,
			title VARCHAR(512) NOT NULL,
			category VARCHAR(255) NOT NULL DEFAULT '',
			item_type VARCHAR(32) NOT NULL DEFAULT 'other',
			image_url TEXT NOT NULL DEFAULT '',
			author VARCHAR(255) NOT NULL DEFAULT '',
			publisher VARCHAR(255) NOT NULL DEFAULT '',
			platform VARCHAR(255) NOT NULL DEFAULT '',
			cost NUMERIC(10,2) NOT NULL DEFAULT 0,
			buy_box_price NUMERIC(10,2) NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS scans (
			id UUID PRIMARY KEY,
			barcode VARCHAR(64) NOT NULL,
			title VARCHAR(512) NOT NULL,
			item_type VARCHAR(32) NOT NULL,
			decision VARCHAR(32) NOT NULL,
			profit NUMERIC(10,2) NOT NULL,
			submitted_by VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scans_submitted_by ON scans (submitted_by, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS inventory_items (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			title VARCHAR(512) NOT NULL,
			barcode VARCHAR(64) NOT NULL,
			item_type VARCHAR(32) NOT NULL DEFAULT 'other',
			status VARCHAR(32) NOT NULL DEFAULT 'pending',
			price NUMERIC(10,2) NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_inventory_user ON inventory_items (user_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			user_id VARCHAR(255) PRIMARY KEY,
			session_id VARCHAR(255) NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func seedProducts(ctx context.Context, repo *repository.ProductRepository) error {
	now := time.Now()
	products := []*models.Product{
		{
			Barcode:     "9780135957059",
			Title:       "The Pragmatic Programmer",
			Category:    "Books",
			ItemType:    "books",
			Author:      "David Thomas, Andrew Hunt",
			Publisher:   "Addison-Wesley",
			Cost:        12.50,
			BuyBoxPrice: 32.99,
		},
		{
			Barcode:     "9780134190440",
			Title:       "The Go Programming Language",
			Category:    "Books",
			ItemType:    "books",
			Author:      "Alan A. A. Donovan, Brian W. Kernighan",
			Publisher:   "Addison-Wesley",
			Cost:        18.00,
			BuyBoxPrice: 28.50,
		},
		{
			Barcode:     "0045496590420",
			Title:       "The Legend of Zelda: Breath of the Wild",
			Category:    "Video Games",
			ItemType:    "video_games",
			Platform:    "Nintendo Switch",
			Cost:        31.00,
			BuyBoxPrice: 36.99,
		},
		{
			Barcode:     "0094638246817",
			Title:       "Abbey Road",
			Category:    "Music",
			ItemType:    "music",
			Author:      "The Beatles",
			Publisher:   "Apple Records",
			Cost:        14.00,
			BuyBoxPrice: 13.25,
		},
		{
			Barcode:     "0883929665839",
			Title:       "The Lord of the Rings: The Motion Picture Trilogy",
			Category:    "Videos",
			ItemType:    "videos",
			Publisher:   "Warner Bros.",
			Cost:        9.00,
			BuyBoxPrice: 19.99,
		},
		// Offline demo barcodes used by terminal clients without a server.
		{
			Barcode:     "0000000000001",
			Title:       "The Pragmatic Programmer",
			Category:    "Books",
			ItemType:    "books",
			Author:      "David Thomas, Andrew Hunt",
			Publisher:   "Addison-Wesley",
			Cost:        12.50,
			BuyBoxPrice: 32.99,
		},
		{
			Barcode:     "0000000000002",
			Title:       "The Legend of Zelda: Breath of the Wild",
			Category:    "Video Games",
			ItemType:    "video_games",
			Platform:    "Nintendo Switch",
			Cost:        31.00,
			BuyBoxPrice: 36.99,
		},
		{
			Barcode:     "0000000000003",
			Title:       "Abbey Road",
			Category:    "Music",
			ItemType:    "music",
			Author:      "The Beatles",
			Publisher:   "Apple Records",
			Cost:        14.00,
			BuyBoxPrice: 13.25,
		},
	}

	for _, p := range products {
		p.ID = uuid.New()
		p.CreatedAt = now
		p.UpdatedAt = now
		if err := repo.Create(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
