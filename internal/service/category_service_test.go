package service

import (
	"context"
	"errors"
	"testing"

	"ecomarket/internal/events"
	"ecomarket/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCategoryService() (CategoryService, *mockCategoryRepository, *mockInvalidator, *mockPublisher) {
	repo := newMockCategoryRepository()
	inv := &mockInvalidator{}
	pub := &mockPublisher{}
	return NewCategoryService(repo, inv, pub, zap.NewNop()), repo, inv, pub
}

func TestCategoryService_CreateValidation(t *testing.T) {
	tests := []struct {
		name string
		in   CategoryInput
		want string
	}{
		{"empty", CategoryInput{Name: ""}, "this field is required"},
		{"blank", CategoryInput{Name: "    "}, "this field is required"},
		{"too short", CategoryInput{Name: "Té"}, "must be at least 3 characters long"},
		{"short after trim", CategoryInput{Name: "  ab  "}, "must be at least 3 characters long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, inv, _ := newTestCategoryService()
			_, err := svc.Create(context.Background(), tt.in)
			verr := requireValidation(t, err)
			assert.Equal(t, []string{tt.want}, verr.Fields["name"])
			assert.Empty(t, repo.categories)
			assert.Zero(t, inv.calls)
		})
	}
}

func TestCategoryService_CreateTrimsAndNotifies(t *testing.T) {
	svc, _, inv, pub := newTestCategoryService()

	category, err := svc.Create(context.Background(), CategoryInput{Name: " Despensa ", Description: "  "})
	require.NoError(t, err)
	assert.Equal(t, "Despensa", category.Name)
	assert.Nil(t, category.Description)
	assert.Equal(t, 1, inv.calls)
	assert.Equal(t, []string{events.CategoryCreated}, pub.types())
}

func TestCategoryService_DuplicateName(t *testing.T) {
	svc, _, _, _ := newTestCategoryService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CategoryInput{Name: "Lácteos"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CategoryInput{Name: "Lácteos"})
	verr := requireValidation(t, err)
	assert.Equal(t, "a category with this name already exists", verr.Message)
	assert.Equal(t, []string{"this name is already in use"}, verr.Fields["name"])

	other, err := svc.Create(ctx, CategoryInput{Name: "Panadería"})
	require.NoError(t, err)
	_, err = svc.Update(ctx, other.ID, CategoryInput{Name: "Lácteos"})
	requireValidation(t, err)
}

func TestCategoryService_UpdateMissing(t *testing.T) {
	svc, _, inv, _ := newTestCategoryService()

	_, err := svc.Update(context.Background(), 7, CategoryInput{Name: "Cereales"})
	assert.ErrorIs(t, err, repository.ErrCategoryNotFound)
	assert.Zero(t, inv.calls)
}

func TestCategoryService_DeleteInUse(t *testing.T) {
	svc, repo, inv, pub := newTestCategoryService()
	ctx := context.Background()

	category, err := svc.Create(ctx, CategoryInput{Name: "Frutas Orgánicas"})
	require.NoError(t, err)
	repo.productCounts[category.ID] = 2

	err = svc.Delete(ctx, category.ID)
	var inUse *CategoryInUseError
	require.True(t, errors.As(err, &inUse))
	assert.Equal(t, 2, inUse.Count)
	assert.Equal(t, "cannot delete the category because it has 2 associated product(s)", err.Error())
	assert.Contains(t, repo.categories, category.ID)

	repo.productCounts[category.ID] = 0
	require.NoError(t, svc.Delete(ctx, category.ID))
	assert.NotContains(t, repo.categories, category.ID)
	assert.ErrorIs(t, svc.Delete(ctx, category.ID), repository.ErrCategoryNotFound)

	assert.Equal(t, 2, inv.calls)
	assert.Equal(t, []string{events.CategoryCreated, events.CategoryDeleted}, pub.types())
}

// uncountedInUseRepository refuses deletes without knowing how many products
// block them, as when the database rejects the delete itself.
type uncountedInUseRepository struct {
	*mockCategoryRepository
}

func (uncountedInUseRepository) DeleteIfUnused(context.Context, int64) (int, error) {
	return 0, repository.ErrCategoryInUse
}

func TestCategoryService_DeleteInUseWithoutCount(t *testing.T) {
	repo := uncountedInUseRepository{newMockCategoryRepository()}
	inv := &mockInvalidator{}
	svc := NewCategoryService(repo, inv, &mockPublisher{}, zap.NewNop())

	err := svc.Delete(context.Background(), 1)
	var inUse *CategoryInUseError
	require.True(t, errors.As(err, &inUse))
	assert.Zero(t, inUse.Count)
	assert.Equal(t, "cannot delete the category because it has associated products", err.Error())
	assert.NotContains(t, err.Error(), "0")
	assert.Zero(t, inv.calls)
}

func TestCategoryService_ListIncludesCounts(t *testing.T) {
	svc, repo, _, _ := newTestCategoryService()
	ctx := context.Background()

	a, err := svc.Create(ctx, CategoryInput{Name: "Verduras Frescas"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CategoryInput{Name: "Despensa"})
	require.NoError(t, err)
	repo.productCounts[a.ID] = 4

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Despensa", list[0].Name)
	assert.Equal(t, 0, list[0].ProductCount)
	assert.Equal(t, 4, list[1].ProductCount)

	got, err := svc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Verduras Frescas", got.Name)
}
