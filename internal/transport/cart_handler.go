package transport

import (
	"errors"
	"net/http"

	"ecomarket/internal/cart"
	"ecomarket/internal/middleware"
	"ecomarket/internal/money"
	"ecomarket/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AddItemRequest puts a product into the cart. Quantity defaults to 1.
type AddItemRequest struct {
	ID       int64           `json:"id" validate:"required,gt=0"`
	Name     string          `json:"name" validate:"required"`
	Price    cart.PriceInput `json:"price"`
	ImageURL *string         `json:"imageUrl"`
	Quantity *int            `json:"quantity"`
}

// UpdateQuantityRequest sets a line quantity; zero or less removes the line.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// CartHandler serves the shopper's cart. Routes must run behind
// middleware.CartSessionMiddleware.
type CartHandler struct {
	carts  service.CartService
	logger *zap.Logger
}

func NewCartHandler(carts service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{carts: carts, logger: logger}
}

func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Delete("/", h.ClearCart)
		r.Post("/items", h.AddItem)
		r.Patch("/items/{id}", h.UpdateItem)
		r.Delete("/items/{id}", h.RemoveItem)
	})
	r.Post("/api/checkout", h.Checkout)
}

// openCart loads the cart of the request's session. It writes the error
// response itself and returns nil when there is no session.
func (h *CartHandler) openCart(w http.ResponseWriter, r *http.Request) *cart.Store {
	session, ok := middleware.GetCartSession(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "missing cart session")
		return nil
	}
	return h.carts.Open(r.Context(), session)
}

func (h *CartHandler) respondCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrInvalidPrice):
		middleware.RespondWithErrorDetails(w, http.StatusBadRequest, "the product price is not valid", map[string]any{"field": "price"})
	case errors.Is(err, cart.ErrInvalidQuantity):
		middleware.RespondWithErrorDetails(w, http.StatusBadRequest, "quantity must be at least 1", map[string]any{"field": "quantity"})
	default:
		h.logger.Error("Failed to save cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "could not update the cart")
	}
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	store := h.openCart(w, r)
	if store == nil {
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, newCartView(store))
}

// AddItem handles POST /api/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := middleware.DecodeAndValidate(w, r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	store := h.openCart(w, r)
	if store == nil {
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	product := cart.ProductInput{ID: req.ID, Name: req.Name, Price: req.Price, ImageURL: req.ImageURL}
	if err := store.Add(r.Context(), product, quantity); err != nil {
		h.respondCartError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newCartView(store))
}

// UpdateItem handles PATCH /api/cart/items/{id}
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req UpdateQuantityRequest
	if err := middleware.DecodeAndValidate(w, r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	store := h.openCart(w, r)
	if store == nil {
		return
	}
	if err := store.UpdateQuantity(r.Context(), id, *req.Quantity); err != nil {
		h.respondCartError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newCartView(store))
}

// RemoveItem handles DELETE /api/cart/items/{id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	store := h.openCart(w, r)
	if store == nil {
		return
	}
	if err := store.Remove(r.Context(), id); err != nil {
		h.respondCartError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newCartView(store))
}

// ClearCart handles DELETE /api/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	store := h.openCart(w, r)
	if store == nil {
		return
	}
	if err := store.Clear(r.Context()); err != nil {
		h.respondCartError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newCartView(store))
}

// Checkout handles POST /api/checkout. The order is simulated.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetCartSession(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "missing cart session")
		return
	}

	result, err := h.carts.Checkout(r.Context(), session)
	if errors.Is(err, service.ErrCartEmpty) {
		middleware.RespondWithError(w, http.StatusBadRequest, "cart is empty")
		return
	}
	if err != nil {
		h.logger.Error("Checkout failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "could not complete the order")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, CheckoutResponse{
		Success:        true,
		Message:        "Thank you for your purchase! (simulated order)",
		ItemCount:      result.ItemCount,
		Total:          result.Total,
		FormattedTotal: money.FormatPrice(result.Total),
		Redirect:       "/thank-you",
	})
}
