package service

import (
	"context"
	"errors"
	"strings"

	"ecomarket/internal/domain"
	"ecomarket/internal/events"
	"ecomarket/internal/repository"

	"go.uber.org/zap"
)

// CategoryInput is the back-office category form.
type CategoryInput struct {
	Name        string `json:"name" validate:"required,min=3"`
	Description string `json:"description"`
}

func (in CategoryInput) toCategory() (*domain.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)

	if err := validateStruct(in).OrNil(); err != nil {
		return nil, err
	}

	category := &domain.Category{Name: in.Name}
	if in.Description != "" {
		category.Description = &in.Description
	}
	return category, nil
}

type CategoryService interface {
	List(ctx context.Context) ([]*domain.CategoryWithCount, error)
	Get(ctx context.Context, id int64) (*domain.Category, error)
	Create(ctx context.Context, in CategoryInput) (*domain.Category, error)
	Update(ctx context.Context, id int64, in CategoryInput) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
}

type categoryService struct {
	categories repository.CategoryRepository
	notify     changeNotifier
	logger     *zap.Logger
}

func NewCategoryService(
	categories repository.CategoryRepository,
	invalidator CatalogInvalidator,
	publisher events.Publisher,
	logger *zap.Logger,
) CategoryService {
	return &categoryService{
		categories: categories,
		notify:     newChangeNotifier(invalidator, publisher, logger),
		logger:     logger,
	}
}

func (s *categoryService) List(ctx context.Context) ([]*domain.CategoryWithCount, error) {
	return s.categories.ListWithCounts(ctx)
}

func (s *categoryService) Get(ctx context.Context, id int64) (*domain.Category, error) {
	return s.categories.FindByID(ctx, id)
}

func duplicateCategoryName() error {
	return NewValidationError("a category with this name already exists").
		Add("name", "this name is already in use")
}

func (s *categoryService) Create(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	category, err := in.toCategory()
	if err != nil {
		return nil, err
	}

	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrCategoryAlreadyExists) {
			return nil, duplicateCategoryName()
		}
		return nil, err
	}

	s.logger.Info("Category created", zap.Int64("category_id", category.ID), zap.String("name", category.Name))
	s.notify.changed(ctx, events.CategoryCreated, category.ID, category)
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, id int64, in CategoryInput) (*domain.Category, error) {
	category, err := in.toCategory()
	if err != nil {
		return nil, err
	}
	category.ID = id

	if err := s.categories.Update(ctx, category); err != nil {
		if errors.Is(err, repository.ErrCategoryAlreadyExists) {
			return nil, duplicateCategoryName()
		}
		return nil, err
	}

	s.logger.Info("Category updated", zap.Int64("category_id", id))
	s.notify.changed(ctx, events.CategoryUpdated, id, category)
	return category, nil
}

// Delete removes the category, or returns *CategoryInUseError when products
// still reference it.
func (s *categoryService) Delete(ctx context.Context, id int64) error {
	count, err := s.categories.DeleteIfUnused(ctx, id)
	if errors.Is(err, repository.ErrCategoryInUse) {
		s.logger.Warn("Refused to delete category with products",
			zap.Int64("category_id", id),
			zap.Int("products", count),
		)
		return &CategoryInUseError{Count: count}
	}
	if err != nil {
		return err
	}

	s.logger.Info("Category deleted", zap.Int64("category_id", id))
	s.notify.changed(ctx, events.CategoryDeleted, id, nil)
	return nil
}
