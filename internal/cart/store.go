// Package cart holds the shopper's line items and keeps them in a key-value
// storage between requests.
package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StorageKey is the fixed key the serialized collection lives under.
const StorageKey = "cartItems"

var (
	ErrInvalidPrice    = errors.New("price is not a number")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// Item is one line item. Price is the unit price captured when the product was
// added.
type Item struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL *string         `json:"imageUrl"`
	Quantity int             `json:"quantity"`
}

// Subtotal is price times quantity.
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// PriceInput is a price as supplied by a client: a JSON number or a string
// holding one.
type PriceInput string

func (p *PriceInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = PriceInput(s)
		return nil
	}
	*p = PriceInput(b)
	return nil
}

func (p PriceInput) parse() (decimal.Decimal, error) {
	raw := strings.TrimSpace(string(p))
	if raw == "" || raw == "null" {
		return decimal.Zero, ErrInvalidPrice
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, ErrInvalidPrice
	}
	return d, nil
}

// ProductInput describes a product being put into the cart.
type ProductInput struct {
	ID       int64      `json:"id"`
	Name     string     `json:"name"`
	Price    PriceInput `json:"price"`
	ImageURL *string    `json:"imageUrl"`
}

// storedItem mirrors Item on the wire but keeps the price raw so loading can
// tell numbers from anything else.
type storedItem struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    json.RawMessage `json:"price"`
	ImageURL *string         `json:"imageUrl"`
	Quantity int             `json:"quantity"`
}

// Store is the line-item collection of a single cart. It is not safe for
// concurrent use; callers build one per request.
type Store struct {
	storage Storage
	logger  *zap.Logger
	items   []Item
	loaded  bool
}

// NewStore loads the previously saved collection before returning, so no
// mutation can overwrite it with an empty one.
func NewStore(ctx context.Context, storage Storage, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{storage: storage, logger: logger}
	s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) {
	defer func() { s.loaded = true }()

	raw, ok, err := s.storage.Get(ctx, StorageKey)
	if err != nil {
		s.logger.Warn("Failed to read stored cart, starting empty", zap.Error(err))
		return
	}
	if !ok {
		s.logger.Debug("No stored cart found")
		return
	}

	items, err := decodeItems(raw)
	if err != nil {
		s.logger.Warn("Stored cart is invalid, discarding", zap.Error(err))
		if err := s.storage.Remove(ctx, StorageKey); err != nil {
			s.logger.Warn("Failed to remove invalid cart", zap.Error(err))
		}
		return
	}

	s.items = items
	s.logger.Debug("Cart loaded from storage", zap.Int("items", len(items)))
}

func decodeItems(raw string) ([]Item, error) {
	if trimmed := strings.TrimSpace(raw); !strings.HasPrefix(trimmed, "[") {
		return nil, errors.New("stored cart is not a list")
	}

	var stored []storedItem
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, fmt.Errorf("failed to parse cart: %w", err)
	}

	items := make([]Item, 0, len(stored))
	for _, si := range stored {
		price, err := numericPrice(si.Price)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", si.ID, err)
		}
		items = append(items, Item{
			ID:       si.ID,
			Name:     si.Name,
			Price:    price,
			ImageURL: si.ImageURL,
			Quantity: si.Quantity,
		})
	}
	return items, nil
}

// numericPrice accepts only a JSON number literal.
func numericPrice(raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || !(raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9')) {
		return decimal.Zero, ErrInvalidPrice
	}
	d, err := decimal.NewFromString(string(raw))
	if err != nil {
		return decimal.Zero, ErrInvalidPrice
	}
	return d, nil
}

func encodeItems(items []Item) (string, error) {
	stored := make([]storedItem, 0, len(items))
	for _, it := range items {
		stored = append(stored, storedItem{
			ID:       it.ID,
			Name:     it.Name,
			Price:    json.RawMessage(it.Price.String()),
			ImageURL: it.ImageURL,
			Quantity: it.Quantity,
		})
	}
	b, err := json.Marshal(stored)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *Store) save(ctx context.Context) error {
	if !s.loaded {
		return nil
	}

	value, err := encodeItems(s.items)
	if err != nil {
		s.logger.Error("Failed to serialize cart", zap.Error(err))
		return fmt.Errorf("failed to serialize cart: %w", err)
	}

	if err := s.storage.Set(ctx, StorageKey, value); err != nil {
		s.logger.Error("Failed to save cart", zap.Error(err))
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (s *Store) indexOf(productID int64) int {
	for i := range s.items {
		if s.items[i].ID == productID {
			return i
		}
	}
	return -1
}

// Add puts quantity units of the product in the cart, merging with an existing
// line for the same product id. An unparseable price leaves the cart untouched.
func (s *Store) Add(ctx context.Context, product ProductInput, quantity int) error {
	price, err := product.Price.parse()
	if err != nil {
		s.logger.Warn("Rejected cart item with invalid price",
			zap.Int64("product_id", product.ID),
			zap.String("price", string(product.Price)),
		)
		return err
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	if i := s.indexOf(product.ID); i >= 0 {
		s.items[i].Quantity += quantity
	} else {
		s.items = append(s.items, Item{
			ID:       product.ID,
			Name:     product.Name,
			Price:    price,
			ImageURL: product.ImageURL,
			Quantity: quantity,
		})
	}

	return s.save(ctx)
}

// Remove drops the line for productID if there is one.
func (s *Store) Remove(ctx context.Context, productID int64) error {
	i := s.indexOf(productID)
	if i < 0 {
		return nil
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return s.save(ctx)
}

// UpdateQuantity overwrites a line's quantity; zero or less removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, productID int64, quantity int) error {
	if quantity <= 0 {
		return s.Remove(ctx, productID)
	}
	i := s.indexOf(productID)
	if i < 0 {
		return nil
	}
	s.items[i].Quantity = quantity
	return s.save(ctx)
}

func (s *Store) Clear(ctx context.Context) error {
	s.items = nil
	return s.save(ctx)
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// ItemCount is the total number of units across all lines.
func (s *Store) ItemCount() int {
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

// Total is the sum of price times quantity.
func (s *Store) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.items {
		total = total.Add(it.Subtotal())
	}
	return total
}

func (s *Store) IsEmpty() bool {
	return len(s.items) == 0
}
