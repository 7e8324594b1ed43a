package transport

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"ecomarket/internal/middleware"
	"ecomarket/internal/repository"
	"ecomarket/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	productNotFoundMessage = "product not found"
	// multipartOverhead leaves room for form boundaries and headers around
	// the image part.
	multipartOverhead = 1 << 20
	sniffLen          = 512
)

// AdminProductHandler serves product management for the back-office.
type AdminProductHandler struct {
	products       service.ProductService
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewAdminProductHandler(products service.ProductService, maxUploadBytes int64, logger *zap.Logger) *AdminProductHandler {
	return &AdminProductHandler{products: products, maxUploadBytes: maxUploadBytes, logger: logger}
}

func (h *AdminProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/admin/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/image", h.UploadImage)
	})
}

// List handles GET /api/admin/products
func (h *AdminProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "could not load products")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{"products": newProductViews(products)})
}

// Get handles GET /api/admin/products/{id}
func (h *AdminProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, productNotFoundMessage)
		return
	}

	product, err := h.products.Get(r.Context(), id)
	if errors.Is(err, repository.ErrProductNotFound) {
		middleware.RespondWithError(w, http.StatusNotFound, productNotFoundMessage)
		return
	}
	if err != nil {
		h.logger.Error("Failed to load product", zap.Int64("product_id", id), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "could not load product")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, newProductView(product))
}

// Create handles POST /api/admin/products
func (h *AdminProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.ProductInput
	if err := middleware.DecodeJSON(w, r, &in); err != nil {
		respondInvalidBody(w)
		return
	}

	product, err := h.products.Create(r.Context(), in)
	if err != nil {
		respondActionError(w, h.logger, err, productNotFoundMessage)
		return
	}
	middleware.RespondWithAction(w, http.StatusCreated, middleware.ActionSucceeded("product created successfully", newProductView(product)))
}

// Update handles PUT /api/admin/products/{id}
func (h *AdminProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithAction(w, http.StatusNotFound, middleware.ActionFailed(productNotFoundMessage, nil))
		return
	}

	var in service.ProductInput
	if err := middleware.DecodeJSON(w, r, &in); err != nil {
		respondInvalidBody(w)
		return
	}

	product, err := h.products.Update(r.Context(), id, in)
	if err != nil {
		respondActionError(w, h.logger, err, "the product to update was not found", repository.ErrProductNotFound)
		return
	}
	middleware.RespondWithAction(w, http.StatusOK, middleware.ActionSucceeded("product updated successfully", newProductView(product)))
}

// Delete handles DELETE /api/admin/products/{id}
func (h *AdminProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithAction(w, http.StatusNotFound, middleware.ActionFailed(productNotFoundMessage, nil))
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		respondActionError(w, h.logger, err, "the product to delete was not found", repository.ErrProductNotFound)
		return
	}
	middleware.RespondWithAction(w, http.StatusOK, middleware.ActionSucceeded("product deleted successfully", nil))
}

func imageFieldError(message string) middleware.ActionResult {
	return middleware.ActionFailed(message, map[string][]string{"image": {message}})
}

// UploadImage handles POST /api/admin/products/{id}/image with a multipart
// "image" part. The content type is sniffed from the bytes, not trusted from
// the client.
func (h *AdminProductHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithAction(w, http.StatusNotFound, middleware.ActionFailed(productNotFoundMessage, nil))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.RespondWithAction(w, http.StatusRequestEntityTooLarge, imageFieldError("the image is too large"))
			return
		}
		middleware.RespondWithAction(w, http.StatusBadRequest, imageFieldError("an image file is required"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		middleware.RespondWithAction(w, http.StatusBadRequest, imageFieldError("an image file is required"))
		return
	}
	defer file.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		h.logger.Error("Failed to read uploaded image", zap.Error(err))
		middleware.RespondWithAction(w, http.StatusBadRequest, imageFieldError("the image could not be read"))
		return
	}
	head = head[:n]

	product, err := h.products.UploadImage(r.Context(), id, service.ImageUpload{
		Body:        io.MultiReader(bytes.NewReader(head), file),
		Size:        header.Size,
		ContentType: http.DetectContentType(head),
	})
	if err != nil {
		respondActionError(w, h.logger, err, productNotFoundMessage, repository.ErrProductNotFound)
		return
	}
	middleware.RespondWithAction(w, http.StatusOK, middleware.ActionSucceeded("product image updated", newProductView(product)))
}
