package service

import (
	"context"
	"fmt"

	"ecomarket/internal/domain"
	"ecomarket/internal/repository"

	"golang.org/x/sync/errgroup"
)

type SummaryService interface {
	Summary(ctx context.Context) (*domain.DashboardSummary, error)
}

type summaryService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	messages   repository.ContactMessageRepository
}

func NewSummaryService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	messages repository.ContactMessageRepository,
) SummaryService {
	return &summaryService{products: products, categories: categories, messages: messages}
}

// Summary gathers the back-office counters concurrently.
func (s *summaryService) Summary(ctx context.Context) (*domain.DashboardSummary, error) {
	var summary domain.DashboardSummary

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary.Products, summary.PublishedProducts, err = s.products.Totals(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		summary.Categories, err = s.categories.Count(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		summary.UnreadMessages, err = s.messages.CountUnread(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load dashboard summary: %w", err)
	}
	return &summary, nil
}
