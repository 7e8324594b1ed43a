package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type seedCategory struct {
	Name        string
	Description string
}

type seedProduct struct {
	Name        string
	Description string
	Price       decimal.Decimal
	SKU         string
	ImageURL    string
	Stock       int
	Category    string
}

// SeedCategories are the starter categories.
var SeedCategories = []seedCategory{
	{Name: "Frutas Orgánicas", Description: "Las frutas más frescas y libres de químicos."},
	{Name: "Verduras Orgánicas", Description: "Verduras de temporada cultivadas de forma sostenible."},
	{Name: "Despensa Orgánica", Description: "Granos, legumbres, aceites y más."},
}

// SeedProducts are the starter products, all published.
var SeedProducts = []seedProduct{
	{
		Name:        "Manzana Fuji Orgánica (Kg)",
		Description: "Manzanas Fuji crujientes y dulces, cultivadas orgánicamente.",
		Price:       decimal.RequireFromString("3.50"),
		SKU:         "FRU-MAN-FUJI-01",
		ImageURL:    "/images/products/manzana_fuji.jpg",
		Stock:       50,
		Category:    "Frutas Orgánicas",
	},
	{
		Name:        "Banana Cavendish Orgánica (Manojo)",
		Description: "Bananas dulces y cremosas, fuente natural de potasio.",
		Price:       decimal.RequireFromString("2.80"),
		SKU:         "FRU-BAN-CAV-01",
		ImageURL:    "/images/products/banana.jpg",
		Stock:       80,
		Category:    "Frutas Orgánicas",
	},
	{
		Name:        "Tomate Cherry Orgánico (Bandeja)",
		Description: "Pequeños tomates llenos de sabor, ideales para ensaladas.",
		Price:       decimal.RequireFromString("4.20"),
		SKU:         "VER-TOM-CHER-01",
		ImageURL:    "/images/products/tomate_cherry.jpg",
		Stock:       40,
		Category:    "Verduras Orgánicas",
	},
	{
		Name:        "Espinaca Fresca Orgánica (Bolsa)",
		Description: "Hojas tiernas de espinaca, perfectas para cocinar o ensaladas.",
		Price:       decimal.RequireFromString("3.10"),
		SKU:         "VER-ESP-FRE-01",
		ImageURL:    "/images/products/espinaca.jpg",
		Stock:       35,
		Category:    "Verduras Orgánicas",
	},
	{
		Name:        "Lenteja Pardina Orgánica (500g)",
		Description: "Lentejas nutritivas y versátiles, base de muchos platos.",
		Price:       decimal.RequireFromString("2.50"),
		SKU:         "DES-LEN-PAR-01",
		ImageURL:    "/images/products/lentejas.jpg",
		Stock:       100,
		Category:    "Despensa Orgánica",
	},
}

// Seed upserts the starter catalog in one transaction. Existing categories are
// left as they are; existing products are only re-published.
func Seed(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	categoryIDs := make(map[string]int64, len(SeedCategories))
	for _, c := range SeedCategories {
		var id int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO categories (name, description)
			VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, c.Name, c.Description).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to seed category %q: %w", c.Name, err)
		}
		categoryIDs[c.Name] = id
	}

	for _, p := range SeedProducts {
		categoryID, ok := categoryIDs[p.Category]
		if !ok {
			return fmt.Errorf("seed product %s references unknown category %q", p.SKU, p.Category)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO products (name, description, price, sku, image_url, stock, published, category_id)
			VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7)
			ON CONFLICT (sku) DO UPDATE SET published = TRUE
		`, p.Name, p.Description, p.Price, p.SKU, p.ImageURL, p.Stock, categoryID)
		if err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.SKU, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}

	logger.Info("Seeding finished",
		zap.Int("categories", len(SeedCategories)),
		zap.Int("products", len(SeedProducts)),
	)
	return nil
}
