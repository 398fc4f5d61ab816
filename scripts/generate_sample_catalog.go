//go:build ignore

package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

type product struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Price       float64    `json:"price"`
	Image       string     `json:"image"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Rating      float64    `json:"rating"`
	InStock     bool       `json:"inStock"`
	Stock       *int       `json:"stock,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	Popularity  *float64   `json:"popularity,omitempty"`
}

type catalog struct {
	Categories []string  `json:"categories"`
	Products   []product `json:"products"`
}

// generateSampleCatalog writes data/catalog.json and a gzipped copy for the
// file and S3 catalogue loaders.
func main() {
	dataDir := "data"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	c := sampleCatalog()

	plain := filepath.Join(dataDir, "catalog.json")
	if err := writeJSON(plain, c, false); err != nil {
		log.Fatalf("Failed to create %s: %v", plain, err)
	}
	fmt.Printf("Created %s with %d products\n", plain, len(c.Products))

	gz := plain + ".gz"
	if err := writeJSON(gz, c, true); err != nil {
		log.Fatalf("Failed to create %s: %v", gz, err)
	}
	fmt.Printf("Created %s\n", gz)

	fmt.Println("\nCategories:")
	for _, category := range c.Categories {
		fmt.Printf("  - %s\n", category)
	}
}

func sampleCatalog() catalog {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	stock := func(n int) *int { return &n }
	pop := func(v float64) *float64 { return &v }
	at := func(days int) *time.Time { t := base.AddDate(0, 0, days); return &t }

	products := []product{
		{ID: "1", Name: "Dark Chocolate Bar", Price: 4.99, Category: "Chocolate", Description: "70% cocoa, single origin", Rating: 4.8, InStock: true, Stock: stock(40), CreatedAt: at(10), Popularity: pop(95)},
		{ID: "2", Name: "Milk Chocolate Buttons", Price: 2.49, Category: "Chocolate", Description: "Creamy milk chocolate drops", Rating: 4.5, InStock: true, Stock: stock(120), CreatedAt: at(3), Popularity: pop(88)},
		{ID: "3", Name: "Chocolate Chip Cookies", Price: 3.29, Category: "Bakery", Description: "Soft baked with chocolate chips", Rating: 4.6, InStock: true, Stock: stock(25), CreatedAt: at(40), Popularity: pop(91)},
		{ID: "4", Name: "Sea Salt Crisps", Price: 1.99, Category: "Snacks", Description: "Thick cut potato crisps", Rating: 4.2, InStock: true, Stock: stock(80), CreatedAt: at(22), Popularity: pop(70)},
		{ID: "5", Name: "Trail Mix", Price: 5.49, Category: "Snacks", Description: "Nuts, seeds and dried fruit", Rating: 4.4, InStock: true, Stock: stock(0), CreatedAt: at(55), Popularity: pop(52)},
		{ID: "6", Name: "Sparkling Lemonade", Price: 1.49, Category: "Drinks", Description: "Lightly carbonated, real lemons", Rating: 4.1, InStock: true, Stock: stock(200), CreatedAt: at(60), Popularity: pop(64)},
		{ID: "7", Name: "Cold Brew Coffee", Price: 3.99, Category: "Drinks", Description: "Slow steeped for 18 hours", Rating: 4.7, InStock: true, Stock: stock(18), CreatedAt: at(75), Popularity: pop(83)},
		{ID: "8", Name: "Truffle Selection Box", Price: 24.99, Category: "Premium", Description: "Twelve handmade chocolate truffles", Rating: 4.9, InStock: true, Stock: stock(6), CreatedAt: at(90), Popularity: pop(77)},
		{ID: "9", Name: "Butter Croissant", Price: 1.79, Category: "Bakery", Description: "Flaky, all-butter pastry", Rating: 4.3, InStock: true, CreatedAt: at(14)},
		{ID: "10", Name: "Salted Caramel Popcorn", Price: 2.99, Category: "Snacks", Description: "Air popped and caramel coated", Rating: 4.0, InStock: true, Stock: stock(35), Popularity: pop(58)},
	}

	for i := range products {
		products[i].Image = fmt.Sprintf("/images/products/%s.jpg", products[i].ID)
	}

	return catalog{
		Categories: []string{"All", "Chocolate", "Bakery", "Snacks", "Drinks", "Premium"},
		Products:   products,
	}
}

func writeJSON(path string, c catalog, compress bool) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if !compress {
		enc := json.NewEncoder(file)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	}

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	if err := json.NewEncoder(gzipWriter).Encode(c); err != nil {
		return fmt.Errorf("failed to write catalogue: %w", err)
	}

	return nil
}
