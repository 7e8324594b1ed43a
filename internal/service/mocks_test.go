package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"ecomarket/internal/domain"
	"ecomarket/internal/events"
	"ecomarket/internal/repository"
)

type mockProductRepository struct {
	mu       sync.Mutex
	products map[int64]*domain.Product
	nextID   int64
	listErr  error
	countErr error
	lists    int
	offsets  []int
	// afterList runs once List has read its result.
	afterList func()
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[int64]*domain.Product)}
}

func (m *mockProductRepository) add(p *domain.Product) *domain.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	p.ID = m.nextID
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Unix(m.nextID, 0)
	}
	m.products[p.ID] = p
	return p
}

func matches(p *domain.Product, f repository.ProductFilter) bool {
	if f.PublishedOnly && !p.Published {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
		return false
	}
	if f.CategoryName != "" && p.CategoryName != f.CategoryName {
		return false
	}
	return true
}

func (m *mockProductRepository) filtered(f repository.ProductFilter) []*domain.Product {
	var out []*domain.Product
	for _, p := range m.products {
		if matches(p, f) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (m *mockProductRepository) List(_ context.Context, f repository.ProductFilter, limit, offset int) ([]*domain.Product, error) {
	page, err := m.list(f, limit, offset)
	if m.afterList != nil {
		m.afterList()
	}
	return page, err
}

func (m *mockProductRepository) list(f repository.ProductFilter, limit, offset int) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	m.offsets = append(m.offsets, offset)
	if m.listErr != nil {
		return nil, m.listErr
	}
	if offset < 0 {
		return nil, errors.New("OFFSET must not be negative")
	}
	all := m.filtered(f)
	if offset >= len(all) {
		return []*domain.Product{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	out := make([]*domain.Product, 0, end-offset)
	for _, p := range all[offset:end] {
		c := *p
		out = append(out, &c)
	}
	return out, nil
}

func (m *mockProductRepository) Count(_ context.Context, f repository.ProductFilter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countErr != nil {
		return 0, m.countErr
	}
	return len(m.filtered(f)), nil
}

func (m *mockProductRepository) ListAll(context.Context) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filtered(repository.ProductFilter{}), nil
}

func (m *mockProductRepository) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return p, nil
}

func (m *mockProductRepository) FindPublishedByID(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := m.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Published {
		return nil, repository.ErrProductNotFound
	}
	return p, nil
}

func (m *mockProductRepository) Create(_ context.Context, product *domain.Product) error {
	m.mu.Lock()
	for _, p := range m.products {
		if p.SKU == product.SKU {
			m.mu.Unlock()
			return repository.ErrSKUAlreadyExists
		}
	}
	m.mu.Unlock()
	if product.CategoryID > 100 {
		return repository.ErrCategoryInvalid
	}
	m.add(product)
	return nil
}

func (m *mockProductRepository) Update(_ context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	for _, p := range m.products {
		if p.SKU == product.SKU && p.ID != product.ID {
			return repository.ErrSKUAlreadyExists
		}
	}
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) UpdateImage(_ context.Context, id int64, imageURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	p.ImageURL = &imageURL
	return nil
}

func (m *mockProductRepository) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) Totals(context.Context) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	published := 0
	for _, p := range m.products {
		if p.Published {
			published++
		}
	}
	return len(m.products), published, nil
}

type mockCategoryRepository struct {
	categories map[int64]*domain.Category
	// productCounts simulates products referencing each category.
	productCounts map[int64]int
	nextID        int64
	countErr      error
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{
		categories:    make(map[int64]*domain.Category),
		productCounts: make(map[int64]int),
	}
}

func (m *mockCategoryRepository) nameTaken(name string, except int64) bool {
	for _, c := range m.categories {
		if c.Name == name && c.ID != except {
			return true
		}
	}
	return false
}

func (m *mockCategoryRepository) Create(_ context.Context, category *domain.Category) error {
	if m.nameTaken(category.Name, 0) {
		return repository.ErrCategoryAlreadyExists
	}
	m.nextID++
	category.ID = m.nextID
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepository) Update(_ context.Context, category *domain.Category) error {
	if _, ok := m.categories[category.ID]; !ok {
		return repository.ErrCategoryNotFound
	}
	if m.nameTaken(category.Name, category.ID) {
		return repository.ErrCategoryAlreadyExists
	}
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepository) List(context.Context) ([]*domain.Category, error) {
	out := make([]*domain.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockCategoryRepository) ListWithCounts(ctx context.Context) ([]*domain.CategoryWithCount, error) {
	list, _ := m.List(ctx)
	out := make([]*domain.CategoryWithCount, 0, len(list))
	for _, c := range list {
		out = append(out, &domain.CategoryWithCount{Category: *c, ProductCount: m.productCounts[c.ID]})
	}
	return out, nil
}

func (m *mockCategoryRepository) FindByID(_ context.Context, id int64) (*domain.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	return c, nil
}

func (m *mockCategoryRepository) DeleteIfUnused(_ context.Context, id int64) (int, error) {
	if _, ok := m.categories[id]; !ok {
		return 0, repository.ErrCategoryNotFound
	}
	if n := m.productCounts[id]; n > 0 {
		return n, repository.ErrCategoryInUse
	}
	delete(m.categories, id)
	return 0, nil
}

func (m *mockCategoryRepository) Count(context.Context) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return len(m.categories), nil
}

type mockContactMessageRepository struct {
	messages map[int64]*domain.ContactMessage
	nextID   int64
}

func newMockContactMessageRepository() *mockContactMessageRepository {
	return &mockContactMessageRepository{messages: make(map[int64]*domain.ContactMessage)}
}

func (m *mockContactMessageRepository) Create(_ context.Context, msg *domain.ContactMessage) error {
	m.nextID++
	msg.ID = m.nextID
	msg.CreatedAt = time.Now()
	m.messages[msg.ID] = msg
	return nil
}

func (m *mockContactMessageRepository) List(context.Context) ([]*domain.ContactMessage, error) {
	out := make([]*domain.ContactMessage, 0, len(m.messages))
	for _, msg := range m.messages {
		out = append(out, msg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *mockContactMessageRepository) MarkRead(_ context.Context, id int64) error {
	msg, ok := m.messages[id]
	if !ok {
		return repository.ErrMessageNotFound
	}
	msg.IsRead = true
	return nil
}

func (m *mockContactMessageRepository) Delete(_ context.Context, id int64) error {
	if _, ok := m.messages[id]; !ok {
		return repository.ErrMessageNotFound
	}
	delete(m.messages, id)
	return nil
}

func (m *mockContactMessageRepository) CountUnread(context.Context) (int, error) {
	n := 0
	for _, msg := range m.messages {
		if !msg.IsRead {
			n++
		}
	}
	return n, nil
}

type mockInvalidator struct {
	calls int
	err   error
}

func (m *mockInvalidator) Invalidate(context.Context) error {
	m.calls++
	return m.err
}

type mockPublisher struct {
	events []events.Event
	err    error
}

func (m *mockPublisher) Publish(_ context.Context, e events.Event) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, e)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

func (m *mockPublisher) types() []string {
	out := make([]string, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Type)
	}
	return out
}

// mockCatalogCache keeps copies of the pages it is given. Entries are
// prefixed with the current version; Invalidate bumps it.
type mockCatalogCache struct {
	entries map[string]CatalogPage
	version int
	getErr  error
	gets    int
}

func newMockCatalogCache() *mockCatalogCache {
	return &mockCatalogCache{entries: make(map[string]CatalogPage)}
}

func (m *mockCatalogCache) Get(_ context.Context, key string, dest any) (string, bool, error) {
	m.gets++
	if m.getErr != nil {
		return "", false, m.getErr
	}
	entry := fmt.Sprintf("v%d:%s", m.version, key)
	page, ok := m.entries[entry]
	if !ok {
		return entry, false, nil
	}
	p, ok := dest.(*CatalogPage)
	if !ok {
		return "", false, errors.New("unexpected cache destination")
	}
	*p = page
	return entry, true, nil
}

func (m *mockCatalogCache) Set(_ context.Context, entry string, value any) error {
	page, ok := value.(*CatalogPage)
	if !ok {
		return errors.New("unexpected cache value")
	}
	m.entries[entry] = *page
	return nil
}

func (m *mockCatalogCache) Invalidate(context.Context) error {
	m.version++
	return nil
}

type mockImageStore struct {
	objects map[string][]byte
	deleted []string
}

func newMockImageStore() *mockImageStore {
	return &mockImageStore{objects: make(map[string][]byte)}
}

func (m *mockImageStore) Upload(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.objects[key] = data
	return key, nil
}

func (m *mockImageStore) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *mockImageStore) URL(key string) string {
	return "http://images.test/" + key
}
