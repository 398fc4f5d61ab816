package catalog

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogDocument(t *testing.T, categories []string) []byte {
	t.Helper()
	data, err := json.Marshal(map[string]any{
		"categories": categories,
		"products":   testProducts(),
	})
	require.NoError(t, err)
	return data
}

// createCatalogFile writes a catalogue document, gzipped when the name ends in .gz.
func createCatalogFile(t *testing.T, filename string, data []byte) string {
	t.Helper()
	filePath := filepath.Join(t.TempDir(), filename)

	file, err := os.Create(filePath)
	require.NoError(t, err)
	defer file.Close()

	if filepath.Ext(filename) != ".gz" {
		_, err = file.Write(data)
		require.NoError(t, err)
		return filePath
	}

	gzipWriter := gzip.NewWriter(file)
	_, err = gzipWriter.Write(data)
	require.NoError(t, err)
	require.NoError(t, gzipWriter.Close())

	return filePath
}

func TestFileLoader_Load_JSON(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())
	filePath := createCatalogFile(t, "catalog.json", catalogDocument(t, []string{"All", "Choco", "Drinks", "Healthy", "Snacks"}))

	c, err := loader.Load(context.Background(), filePath)

	require.NoError(t, err)
	assert.Len(t, c.Products, 4)
	assert.Equal(t, []string{"All", "Choco", "Drinks", "Healthy", "Snacks"}, c.Categories)
	_, ok := c.Lookup("2")
	assert.True(t, ok)
}

func TestFileLoader_Load_Gzip(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())
	filePath := createCatalogFile(t, "catalog.json.gz", catalogDocument(t, nil))

	c, err := loader.Load(context.Background(), filePath)

	require.NoError(t, err)
	assert.Len(t, c.Products, 4)
	assert.Equal(t, []string{"All", "Choco", "Drinks", "Healthy"}, c.Categories)
}

func TestFileLoader_Load_Errors(t *testing.T) {
	tests := []struct {
		name     string
		filePath func(t *testing.T) string
	}{
		{
			name:     "Missing file",
			filePath: func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.json") },
		},
		{
			name:     "Not JSON",
			filePath: func(t *testing.T) string { return createCatalogFile(t, "broken.json", []byte("not json")) },
		},
		{
			name:     "Not gzip",
			filePath: func(t *testing.T) string {
				filePath := filepath.Join(t.TempDir(), "plain.json.gz")
				require.NoError(t, os.WriteFile(filePath, catalogDocument(t, nil), 0o644))
				return filePath
			},
		},
		{
			name: "Invalid product",
			filePath: func(t *testing.T) string {
				return createCatalogFile(t, "invalid.json", []byte(`{"products":[{"id":"1","name":"","price":1,"category":"Choco"}]}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := NewFileLoader(zerolog.Nop())

			c, err := loader.Load(context.Background(), tt.filePath(t))

			assert.Error(t, err)
			assert.Nil(t, c)
		})
	}
}

func TestFileLoader_Load_CancelledContext(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())
	filePath := createCatalogFile(t, "catalog.json", catalogDocument(t, nil))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loader.Load(ctx, filePath)

	assert.ErrorIs(t, err, context.Canceled)
}
