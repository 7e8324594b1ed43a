package transport

import (
	"context"
	"io"

	"ecomarket/internal/domain"
	"ecomarket/internal/repository"
	"ecomarket/internal/service"
)

type fakeCatalogService struct {
	page       *service.CatalogPage
	products   map[int64]*domain.Product
	categories []*domain.Category
	err        error
	lastQuery  service.CatalogQuery
}

func (f *fakeCatalogService) ListProducts(_ context.Context, q service.CatalogQuery) (*service.CatalogPage, error) {
	f.lastQuery = q
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

func (f *fakeCatalogService) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeCatalogService) ListCategories(context.Context) ([]*domain.Category, error) {
	return f.categories, f.err
}

type fakeProductService struct {
	products map[int64]*domain.Product
	err      error
	upload   *service.ImageUpload
	body     []byte
}

func newFakeProductService() *fakeProductService {
	return &fakeProductService{products: make(map[int64]*domain.Product)}
}

func (f *fakeProductService) List(context.Context) ([]*domain.Product, error) {
	out := make([]*domain.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, f.err
}

func (f *fakeProductService) Get(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeProductService) Create(_ context.Context, in service.ProductInput) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	p := &domain.Product{ID: int64(len(f.products) + 1), Name: in.Name, SKU: in.SKU}
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeProductService) Update(_ context.Context, id int64, in service.ProductInput) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.products[id]; !ok {
		return nil, repository.ErrProductNotFound
	}
	p := &domain.Product{ID: id, Name: in.Name, SKU: in.SKU}
	f.products[id] = p
	return p, nil
}

func (f *fakeProductService) Delete(_ context.Context, id int64) error {
	if _, ok := f.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeProductService) UploadImage(_ context.Context, id int64, upload service.ImageUpload) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	body, err := io.ReadAll(upload.Body)
	if err != nil {
		return nil, err
	}
	f.upload = &upload
	f.body = body
	url := "http://images.test/products/1/image.png"
	p.ImageURL = &url
	return p, nil
}

type fakeCategoryService struct {
	categories map[int64]*domain.Category
	err        error
}

func (f *fakeCategoryService) List(context.Context) ([]*domain.CategoryWithCount, error) {
	out := make([]*domain.CategoryWithCount, 0, len(f.categories))
	for _, c := range f.categories {
		out = append(out, &domain.CategoryWithCount{Category: *c})
	}
	return out, nil
}

func (f *fakeCategoryService) Get(_ context.Context, id int64) (*domain.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	return c, nil
}

func (f *fakeCategoryService) Create(_ context.Context, in service.CategoryInput) (*domain.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	c := &domain.Category{ID: int64(len(f.categories) + 1), Name: in.Name}
	f.categories[c.ID] = c
	return c, nil
}

func (f *fakeCategoryService) Update(_ context.Context, id int64, in service.CategoryInput) (*domain.Category, error) {
	if _, ok := f.categories[id]; !ok {
		return nil, repository.ErrCategoryNotFound
	}
	c := &domain.Category{ID: id, Name: in.Name}
	f.categories[id] = c
	return c, nil
}

func (f *fakeCategoryService) Delete(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.categories[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	delete(f.categories, id)
	return nil
}

type fakeContactService struct {
	messages map[int64]*domain.ContactMessage
	err      error
	received []service.ContactInput
}

func newFakeContactService() *fakeContactService {
	return &fakeContactService{messages: make(map[int64]*domain.ContactMessage)}
}

func (f *fakeContactService) Submit(_ context.Context, in service.ContactInput) (*domain.ContactMessage, error) {
	f.received = append(f.received, in)
	if f.err != nil {
		return nil, f.err
	}
	msg := &domain.ContactMessage{ID: int64(len(f.messages) + 1), Name: in.Name, Email: in.Email, Message: in.Message}
	f.messages[msg.ID] = msg
	return msg, nil
}

func (f *fakeContactService) List(context.Context) ([]*domain.ContactMessage, error) {
	out := make([]*domain.ContactMessage, 0, len(f.messages))
	for _, m := range f.messages {
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeContactService) MarkRead(_ context.Context, id int64) error {
	m, ok := f.messages[id]
	if !ok {
		return repository.ErrMessageNotFound
	}
	m.IsRead = true
	return nil
}

func (f *fakeContactService) Delete(_ context.Context, id int64) error {
	if _, ok := f.messages[id]; !ok {
		return repository.ErrMessageNotFound
	}
	delete(f.messages, id)
	return nil
}

type fakeSummaryService struct {
	summary *domain.DashboardSummary
	err     error
}

func (f *fakeSummaryService) Summary(context.Context) (*domain.DashboardSummary, error) {
	return f.summary, f.err
}
