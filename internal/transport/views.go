package transport

import (
	"ecomarket/internal/cart"
	"ecomarket/internal/domain"
	"ecomarket/internal/money"
	"ecomarket/internal/service"

	"github.com/shopspring/decimal"
)

// ProductView is a product as the storefront and back-office display it.
// ImageURL shadows the stored value and falls back to the placeholder.
type ProductView struct {
	*domain.Product
	ImageURL       string `json:"imageUrl"`
	FormattedPrice string `json:"formattedPrice"`
}

func newProductView(p *domain.Product) ProductView {
	return ProductView{
		Product:        p,
		ImageURL:       p.DisplayImageURL(),
		FormattedPrice: money.FormatPrice(p.Price),
	}
}

func newProductViews(products []*domain.Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, newProductView(p))
	}
	return views
}

// CatalogPageView is one storefront page.
type CatalogPageView struct {
	Products      []ProductView `json:"products"`
	CurrentPage   int           `json:"currentPage"`
	TotalPages    int           `json:"totalPages"`
	TotalProducts int           `json:"totalProducts"`
	PageSize      int           `json:"pageSize"`
	Search        string        `json:"search"`
	Category      string        `json:"category"`
	EmptyMessage  string        `json:"emptyMessage,omitempty"`
}

func newCatalogPageView(page *service.CatalogPage) CatalogPageView {
	return CatalogPageView{
		Products:      newProductViews(page.Products),
		CurrentPage:   page.CurrentPage,
		TotalPages:    page.TotalPages,
		TotalProducts: page.TotalProducts,
		PageSize:      service.CatalogPageSize,
		Search:        page.Search,
		Category:      page.Category,
		EmptyMessage:  page.EmptyMessage,
	}
}

// CartItemView is one cart line.
type CartItemView struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Price             decimal.Decimal `json:"price"`
	FormattedPrice    string          `json:"formattedPrice"`
	ImageURL          string          `json:"imageUrl"`
	Quantity          int             `json:"quantity"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	FormattedSubtotal string          `json:"formattedSubtotal"`
}

// CartView is the whole cart with its totals.
type CartView struct {
	Items          []CartItemView  `json:"items"`
	ItemCount      int             `json:"itemCount"`
	Total          decimal.Decimal `json:"total"`
	FormattedTotal string          `json:"formattedTotal"`
}

func newCartItemViews(items []cart.Item) []CartItemView {
	views := make([]CartItemView, 0, len(items))
	for _, it := range items {
		image := domain.PlaceholderImageURL
		if it.ImageURL != nil && *it.ImageURL != "" {
			image = *it.ImageURL
		}
		subtotal := it.Subtotal()
		views = append(views, CartItemView{
			ID:                it.ID,
			Name:              it.Name,
			Price:             it.Price,
			FormattedPrice:    money.FormatPrice(it.Price),
			ImageURL:          image,
			Quantity:          it.Quantity,
			Subtotal:          subtotal,
			FormattedSubtotal: money.FormatPrice(subtotal),
		})
	}
	return views
}

func newCartView(store *cart.Store) CartView {
	total := store.Total()
	return CartView{
		Items:          newCartItemViews(store.Items()),
		ItemCount:      store.ItemCount(),
		Total:          total,
		FormattedTotal: money.FormatPrice(total),
	}
}

// CheckoutResponse confirms a simulated order.
type CheckoutResponse struct {
	Success        bool            `json:"success"`
	Message        string          `json:"message"`
	ItemCount      int             `json:"itemCount"`
	Total          decimal.Decimal `json:"total"`
	FormattedTotal string          `json:"formattedTotal"`
	Redirect       string          `json:"redirect"`
}
