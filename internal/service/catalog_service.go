package service

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"ecomarket/internal/domain"
	"ecomarket/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CatalogPageSize is the fixed number of products per storefront page.
const CatalogPageSize = 8

// maxFetchablePage is the last page whose offset fits in an int.
const maxFetchablePage = math.MaxInt/CatalogPageSize + 1

// CatalogQuery is the storefront listing request.
type CatalogQuery struct {
	Search   string
	Category string
	Page     int
}

// ParsePage reads a page number from the query string. Anything that is not
// an integer yields page 1; values below 1 are clamped to 1.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// CatalogPage is one page of the storefront listing.
type CatalogPage struct {
	Products      []*domain.Product `json:"products"`
	CurrentPage   int               `json:"currentPage"`
	TotalPages    int               `json:"totalPages"`
	TotalProducts int               `json:"totalProducts"`
	Search        string            `json:"search"`
	Category      string            `json:"category"`
	EmptyMessage  string            `json:"emptyMessage,omitempty"`
}

// CatalogCache is a read-through cache for listings. Get resolves key to a
// versioned entry and returns it even on a miss; the page loaded after the
// miss is stored with Set under that entry, never under a newer version.
type CatalogCache interface {
	Get(ctx context.Context, key string, dest any) (entry string, hit bool, err error)
	Set(ctx context.Context, entry string, value any) error
}

type CatalogService interface {
	ListProducts(ctx context.Context, q CatalogQuery) (*CatalogPage, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
}

type catalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	cache      CatalogCache
	logger     *zap.Logger
}

// NewCatalogService creates the storefront catalog service. cache may be nil.
func NewCatalogService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	cache CatalogCache,
	logger *zap.Logger,
) CatalogService {
	return &catalogService{
		products:   products,
		categories: categories,
		cache:      cache,
		logger:     logger,
	}
}

func cacheKey(q CatalogQuery) string {
	v := url.Values{}
	v.Set("search", q.Search)
	v.Set("category", q.Category)
	v.Set("page", strconv.Itoa(q.Page))
	return "products?" + v.Encode()
}

func (s *catalogService) ListProducts(ctx context.Context, q CatalogQuery) (*CatalogPage, error) {
	q.Search = strings.TrimSpace(q.Search)
	q.Category = strings.TrimSpace(q.Category)
	if q.Page < 1 {
		q.Page = 1
	}

	var entry string
	if s.cache != nil {
		var (
			cached CatalogPage
			hit    bool
			err    error
		)
		entry, hit, err = s.cache.Get(ctx, cacheKey(q), &cached)
		if err != nil {
			s.logger.Warn("Catalog cache read failed, querying database", zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	page, err := s.queryPage(ctx, q)
	if err != nil {
		return nil, err
	}

	if entry != "" {
		if err := s.cache.Set(ctx, entry, page); err != nil {
			s.logger.Warn("Catalog cache write failed", zap.Error(err))
		}
	}
	return page, nil
}

func (s *catalogService) queryPage(ctx context.Context, q CatalogQuery) (*CatalogPage, error) {
	filter := repository.CatalogFilter(q.Search, q.Category)

	var (
		products = []*domain.Product{}
		total    int
	)

	g, gctx := errgroup.WithContext(ctx)
	// Pages past maxFetchablePage cannot hold products; only the count runs.
	if q.Page <= maxFetchablePage {
		skip := (q.Page - 1) * CatalogPageSize
		g.Go(func() error {
			var err error
			products, err = s.products.List(gctx, filter, CatalogPageSize, skip)
			return err
		})
	}
	g.Go(func() error {
		var err error
		total, err = s.products.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load catalog page: %w", err)
	}

	page := &CatalogPage{
		Products:      products,
		CurrentPage:   q.Page,
		TotalPages:    (total + CatalogPageSize - 1) / CatalogPageSize,
		TotalProducts: total,
		Search:        q.Search,
		Category:      q.Category,
	}
	if len(products) == 0 {
		page.EmptyMessage = emptyMessage(q, total)
	}
	return page, nil
}

// emptyMessage tells apart "nothing matches" from "nothing on this page".
func emptyMessage(q CatalogQuery, total int) string {
	if total > 0 {
		return fmt.Sprintf("There are no products on page %d matching your search. Try another page or adjust the filters.", q.Page)
	}

	var b strings.Builder
	b.WriteString("No products match")
	if q.Search != "" {
		fmt.Fprintf(&b, " '%s'", q.Search)
	}
	if q.Category != "" {
		fmt.Fprintf(&b, " in category '%s'", q.Category)
	}
	b.WriteString(". Try adjusting your search or filters.")
	return b.String()
}

// GetProduct returns a published product.
func (s *catalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.FindPublishedByID(ctx, id)
}

func (s *catalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}
