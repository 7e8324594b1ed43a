package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"ecomarket/internal/domain"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrSKUAlreadyExists = errors.New("product with this sku already exists")
	ErrCategoryInvalid  = errors.New("category does not exist")
)

// ProductFilter narrows a catalog listing. Empty strings mean "no filter".
type ProductFilter struct {
	Search        string
	CategoryName  string
	PublishedOnly bool
}

// CatalogFilter is the filter used by the public storefront: published
// products only.
func CatalogFilter(search, categoryName string) ProductFilter {
	return ProductFilter{
		Search:        strings.TrimSpace(search),
		CategoryName:  strings.TrimSpace(categoryName),
		PublishedOnly: true,
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// BuildProductWhere renders the WHERE clause for filter against the
// products p / categories c join. Values are returned as positional args
// starting at $1; the clause is empty when nothing filters.
func BuildProductWhere(filter ProductFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if filter.PublishedOnly {
		conds = append(conds, "p.published = TRUE")
	}
	if filter.Search != "" {
		args = append(args, likeEscaper.Replace(filter.Search))
		conds = append(conds, fmt.Sprintf("p.name ILIKE '%%' || $%d || '%%'", len(args)))
	}
	if filter.CategoryName != "" {
		args = append(args, filter.CategoryName)
		conds = append(conds, fmt.Sprintf("c.name = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter, limit, offset int) ([]*domain.Product, error)
	Count(ctx context.Context, filter ProductFilter) (int, error)
	ListAll(ctx context.Context) ([]*domain.Product, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	FindPublishedByID(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	UpdateImage(ctx context.Context, id int64, imageURL string) error
	Delete(ctx context.Context, id int64) error
	Totals(ctx context.Context) (total, published int, err error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `
	p.id, p.name, p.description, p.price, p.sku, p.image_url, p.stock,
	p.published, p.category_id, p.created_at, p.updated_at, c.name
`

const productFrom = `FROM products p JOIN categories c ON c.id = p.category_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (*domain.Product, error) {
	product := &domain.Product{}
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.SKU,
		&product.ImageURL,
		&product.Stock,
		&product.Published,
		&product.CategoryID,
		&product.CreatedAt,
		&product.UpdatedAt,
		&product.CategoryName,
	)
	return product, err
}

func (r *productRepository) queryProducts(ctx context.Context, query string, args ...any) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// List returns one page of products matching filter, newest first.
func (r *productRepository) List(ctx context.Context, filter ProductFilter, limit, offset int) ([]*domain.Product, error) {
	where, args := BuildProductWhere(filter)
	query := fmt.Sprintf(`
		SELECT %s
		%s
		%s
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $%d OFFSET $%d
	`, productColumns, productFrom, where, len(args)+1, len(args)+2)

	args = append(args, limit, offset)
	return r.queryProducts(ctx, query, args...)
}

// Count returns how many products match filter.
func (r *productRepository) Count(ctx context.Context, filter ProductFilter) (int, error) {
	where, args := BuildProductWhere(filter)
	query := fmt.Sprintf("SELECT COUNT(*) %s %s", productFrom, where)

	var total int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, nil
}

// ListAll returns every product for the back-office, grouped by category.
func (r *productRepository) ListAll(ctx context.Context) ([]*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		%s
		ORDER BY c.name ASC, p.name ASC
	`, productColumns, productFrom)

	return r.queryProducts(ctx, query)
}

func (r *productRepository) findOne(ctx context.Context, id int64, publishedOnly bool) (*domain.Product, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE p.id = $1", productColumns, productFrom)
	if publishedOnly {
		query += " AND p.published = TRUE"
	}

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return product, nil
}

// FindByID retrieves a product by ID regardless of its published flag.
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	return r.findOne(ctx, id, false)
}

// FindPublishedByID retrieves a product visible in the storefront.
func (r *productRepository) FindPublishedByID(ctx context.Context, id int64) (*domain.Product, error) {
	return r.findOne(ctx, id, true)
}

func mapProductWriteError(action string, err error) error {
	switch {
	case isUniqueViolation(err, "products_sku_key"):
		return ErrSKUAlreadyExists
	case isForeignKeyViolation(err):
		return ErrCategoryInvalid
	}
	return fmt.Errorf("failed to %s product: %w", action, err)
}

// Create inserts product and fills in its generated id and timestamps.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (name, description, price, sku, image_url, stock, published, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		product.Name,
		product.Description,
		product.Price,
		product.SKU,
		product.ImageURL,
		product.Stock,
		product.Published,
		product.CategoryID,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return mapProductWriteError("create", err)
	}

	return nil
}

// Update overwrites every editable field of product.
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, sku = $5, image_url = $6,
		    stock = $7, published = $8, category_id = $9
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.SKU,
		product.ImageURL,
		product.Stock,
		product.Published,
		product.CategoryID,
	).Scan(&product.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductNotFound
		}
		return mapProductWriteError("update", err)
	}

	return nil
}

func (r *productRepository) UpdateImage(ctx context.Context, id int64, imageURL string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE products SET image_url = $2 WHERE id = $1`, id, imageURL)
	if err != nil {
		return fmt.Errorf("failed to update product image: %w", err)
	}
	return requireAffected(result, ErrProductNotFound)
}

// Delete removes a product from the database
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return requireAffected(result, ErrProductNotFound)
}

// Totals returns the number of products and how many of them are published.
func (r *productRepository) Totals(ctx context.Context) (int, int, error) {
	var total, published int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE published)
		FROM products
	`).Scan(&total, &published)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, published, nil
}

func requireAffected(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
