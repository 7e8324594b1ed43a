package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlaceholderImageURL is shown for products without an image.
const PlaceholderImageURL = "/images/placeholder-image.png"

// Product represents a product in the catalog
type Product struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	SKU         string          `json:"sku" db:"sku"`
	ImageURL    *string         `json:"imageUrl" db:"image_url"`
	Stock       int             `json:"stock" db:"stock"`
	Published   bool            `json:"published" db:"published"`
	CategoryID  int64           `json:"categoryId" db:"category_id"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`

	// CategoryName is filled by queries that join the category.
	CategoryName string `json:"categoryName,omitempty" db:"category_name"`
}

// DisplayImageURL returns the product image or the placeholder.
func (p *Product) DisplayImageURL() string {
	if p.ImageURL == nil || *p.ImageURL == "" {
		return PlaceholderImageURL
	}
	return *p.ImageURL
}

// Category represents a product category
type Category struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// CategoryWithCount is a category together with the number of products
// referencing it.
type CategoryWithCount struct {
	Category
	ProductCount int `json:"productCount"`
}
