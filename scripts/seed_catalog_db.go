//go:build ignore

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"mini-storefront/internal/config"
	"mini-storefront/internal/database"
	"mini-storefront/internal/model"
	"mini-storefront/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

// seedCatalogDB applies the schema and upserts the products from a JSON
// catalogue file into Postgres, preserving file order.
//
//	go run scripts/seed_catalog_db.go [path]
func main() {
	path := "data/catalog.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	if err := run(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(path string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := config.NewLogger(cfg.Logger)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc struct {
		Products []model.Product `json:"products"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := repository.EnsureSchema(ctx, pool); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for i, p := range doc.Products {
		batch.Queue(`
			INSERT INTO products (id, name, price, image, category, description, rating, in_stock, stock, created_at, popularity, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name, price = EXCLUDED.price, image = EXCLUDED.image,
				category = EXCLUDED.category, description = EXCLUDED.description,
				rating = EXCLUDED.rating, in_stock = EXCLUDED.in_stock, stock = EXCLUDED.stock,
				created_at = EXCLUDED.created_at, popularity = EXCLUDED.popularity,
				position = EXCLUDED.position
		`, p.ID, p.Name, p.Price, p.Image, p.Category, p.Description, p.Rating, p.InStock, p.Stock, p.CreatedAt, p.Popularity, i)
	}

	if err := pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	fmt.Printf("Seeded %d products from %s\n", len(doc.Products), path)
	return nil
}
