package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"mini-storefront/internal/model"
	"mini-storefront/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const testAPIKey = "test-api-key"

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container with the application schema.
// It skips the calling test in -short mode.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := repository.EnsureSchema(ctx, pool); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

// TestProducts is the catalogue seeded by SeedProducts, in catalogue order.
func TestProducts() []model.Product {
	return []model.Product{
		{ID: "P001", Name: "Dark Chocolate", Price: 4.50, Category: "Chocolate", Rating: 4.8, InStock: true, Stock: intPtr(10), Popularity: floatPtr(90)},
		{ID: "P002", Name: "Milk Chocolate", Price: 3.00, Category: "Chocolate", Rating: 4.2, InStock: true, Stock: intPtr(0), Popularity: floatPtr(70)},
		{ID: "P003", Name: "Cola", Price: 1.50, Category: "Drinks", Rating: 4.0, InStock: true, Popularity: floatPtr(95)},
		{ID: "P004", Name: "Crisps", Price: 2.00, Category: "Snacks", Rating: 3.9, InStock: true, Stock: intPtr(30)},
		{ID: "P005", Name: "Truffle Box", Price: 24.99, Category: "Premium", Rating: 4.9, InStock: true, Stock: intPtr(3), Popularity: floatPtr(60)},
	}
}

// SeedProducts inserts TestProducts into the database.
func SeedProducts(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	for i, p := range TestProducts() {
		_, err := pool.Exec(ctx, `
			INSERT INTO products (id, name, price, image, category, description, rating, in_stock, stock, created_at, popularity, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			p.ID, p.Name, p.Price, p.Image, p.Category, p.Description, p.Rating, p.InStock, p.Stock, p.CreatedAt, p.Popularity, i,
		)
		if err != nil {
			t.Fatalf("failed to seed product %s: %v", p.ID, err)
		}
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"order_items", "orders", "products"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
