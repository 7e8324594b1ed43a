package service

import (
	"context"

	"ecomarket/internal/cart"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CheckoutResult describes a simulated order.
type CheckoutResult struct {
	Items     []cart.Item
	ItemCount int
	Total     decimal.Decimal
}

type CartService interface {
	// Open loads the cart of session.
	Open(ctx context.Context, session string) *cart.Store
	// Checkout simulates placing an order for the cart of session and empties
	// it. Nothing is recorded.
	Checkout(ctx context.Context, session string) (*CheckoutResult, error)
}

type cartService struct {
	storage cart.Storage
	logger  *zap.Logger
}

// NewCartService serves carts out of storage, one namespace per session.
func NewCartService(storage cart.Storage, logger *zap.Logger) CartService {
	return &cartService{storage: storage, logger: logger}
}

func (s *cartService) Open(ctx context.Context, session string) *cart.Store {
	return cart.NewStore(ctx, cart.NewScoped(s.storage, session), s.logger.With(zap.String("cart_session", session)))
}

func (s *cartService) Checkout(ctx context.Context, session string) (*CheckoutResult, error) {
	store := s.Open(ctx, session)
	if store.IsEmpty() {
		return nil, ErrCartEmpty
	}

	result := &CheckoutResult{
		Items:     store.Items(),
		ItemCount: store.ItemCount(),
		Total:     store.Total(),
	}

	s.logger.Info("Simulated order placed",
		zap.String("cart_session", session),
		zap.Any("items", result.Items),
		zap.Int("units", result.ItemCount),
		zap.String("total", result.Total.StringFixed(2)),
	)

	if err := store.Clear(ctx); err != nil {
		return nil, err
	}
	return result, nil
}
