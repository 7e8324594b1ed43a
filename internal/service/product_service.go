package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ecomarket/internal/domain"
	"ecomarket/internal/events"
	"ecomarket/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductInput is the back-office product form.
type ProductInput struct {
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Price       FieldText `json:"price" validate:"required"`
	SKU         string    `json:"sku" validate:"required"`
	ImageURL    string    `json:"imageUrl"`
	Stock       FieldText `json:"stock" validate:"required"`
	CategoryID  FieldText `json:"categoryId" validate:"required"`
	Published   bool      `json:"published"`
}

func (in *ProductInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.SKU = strings.TrimSpace(in.SKU)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.Price = FieldText(in.Price.trimmed())
	in.Stock = FieldText(in.Stock.trimmed())
	in.CategoryID = FieldText(in.CategoryID.trimmed())
}

// toProduct validates in and converts it. The returned error is always a
// *ValidationError.
func (in ProductInput) toProduct() (*domain.Product, error) {
	in.normalize()
	verr := validateStruct(in)

	product := &domain.Product{
		Name:        in.Name,
		Description: in.Description,
		SKU:         in.SKU,
		Published:   in.Published,
	}
	if in.ImageURL != "" {
		product.ImageURL = &in.ImageURL
	}

	if raw := in.Price.trimmed(); raw != "" {
		price, err := decimal.NewFromString(raw)
		switch {
		case err != nil:
			verr.Add("price", "price must be a number")
		case !price.IsPositive():
			verr.Add("price", "price must be greater than 0")
		default:
			product.Price = price.Round(2)
		}
	}

	if raw := in.Stock.trimmed(); raw != "" {
		stock, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			verr.Add("stock", "stock must be a whole number")
		case stock < 0:
			verr.Add("stock", "stock cannot be negative")
		default:
			product.Stock = stock
		}
	}

	if raw := in.CategoryID.trimmed(); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 1 {
			verr.Add("categoryId", "the selected category is not valid")
		} else {
			product.CategoryID = id
		}
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return product, nil
}

// ImageUpload is an image file sent for a product.
type ImageUpload struct {
	Body        io.Reader
	Size        int64
	ContentType string
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ImageStore persists uploaded product images.
type ImageStore interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

type ProductService interface {
	List(ctx context.Context) ([]*domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, in ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, in ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	UploadImage(ctx context.Context, id int64, upload ImageUpload) (*domain.Product, error)
}

type productService struct {
	products       repository.ProductRepository
	images         ImageStore
	maxUploadBytes int64
	notify         changeNotifier
	logger         *zap.Logger
}

// NewProductService creates the back-office product service. images may be
// nil, in which case uploads fail with ErrImageStorageDisabled.
func NewProductService(
	products repository.ProductRepository,
	images ImageStore,
	maxUploadBytes int64,
	invalidator CatalogInvalidator,
	publisher events.Publisher,
	logger *zap.Logger,
) ProductService {
	return &productService{
		products:       products,
		images:         images,
		maxUploadBytes: maxUploadBytes,
		notify:         newChangeNotifier(invalidator, publisher, logger),
		logger:         logger,
	}
}

func (s *productService) List(ctx context.Context) ([]*domain.Product, error) {
	return s.products.ListAll(ctx)
}

func (s *productService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

// mapProductWriteError turns constraint failures into form errors.
func mapProductWriteError(err error) error {
	switch {
	case errors.Is(err, repository.ErrSKUAlreadyExists):
		return NewValidationError("a product with this sku already exists").
			Add("sku", "this sku is already in use")
	case errors.Is(err, repository.ErrCategoryInvalid):
		return NewValidationError("the selected category is not valid").
			Add("categoryId", "the selected category is not valid")
	}
	return err
}

func (s *productService) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	product, err := in.toProduct()
	if err != nil {
		return nil, err
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, mapProductWriteError(err)
	}

	s.logger.Info("Product created", zap.Int64("product_id", product.ID), zap.String("sku", product.SKU))
	s.notify.changed(ctx, events.ProductCreated, product.ID, product)
	return product, nil
}

func (s *productService) Update(ctx context.Context, id int64, in ProductInput) (*domain.Product, error) {
	product, err := in.toProduct()
	if err != nil {
		return nil, err
	}
	product.ID = id

	if err := s.products.Update(ctx, product); err != nil {
		return nil, mapProductWriteError(err)
	}

	s.logger.Info("Product updated", zap.Int64("product_id", id))
	s.notify.changed(ctx, events.ProductUpdated, id, product)
	return product, nil
}

func (s *productService) Delete(ctx context.Context, id int64) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Product deleted", zap.Int64("product_id", id))
	s.notify.changed(ctx, events.ProductDeleted, id, nil)
	return nil
}

func (s *productService) UploadImage(ctx context.Context, id int64, upload ImageUpload) (*domain.Product, error) {
	if s.images == nil {
		return nil, ErrImageStorageDisabled
	}

	ext, ok := imageExtensions[upload.ContentType]
	if !ok {
		return nil, NewValidationError("unsupported image type").
			Add("image", "the image must be a JPEG, PNG, WebP or GIF file")
	}
	if s.maxUploadBytes > 0 && upload.Size > s.maxUploadBytes {
		return nil, NewValidationError("image is too large").
			Add("image", fmt.Sprintf("the image must not exceed %d bytes", s.maxUploadBytes))
	}

	if _, err := s.products.FindByID(ctx, id); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("products/%d/%s%s", id, uuid.NewString(), ext)
	key, err := s.images.Upload(ctx, key, upload.Body, upload.Size, upload.ContentType)
	if err != nil {
		return nil, err
	}

	if err := s.products.UpdateImage(ctx, id, s.images.URL(key)); err != nil {
		if delErr := s.images.Delete(ctx, key); delErr != nil {
			s.logger.Warn("Failed to remove orphaned image", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Product image updated", zap.Int64("product_id", id), zap.String("key", key))
	s.notify.changed(ctx, events.ProductImageUpdated, id, map[string]string{"imageUrl": product.DisplayImageURL()})
	return product, nil
}
