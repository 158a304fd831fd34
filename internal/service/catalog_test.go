package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/commerce-api/pkg/global"
	"github.com/shopfront/commerce-api/pkg/models"
)

func ptr[T any](v T) *T { return &v }

func newCatalog(cache ProductCache) (*CatalogService, *memProducts, *memCategories) {
	products := newMemProducts()
	categories := newMemCategories(&models.Category{CategoryID: "dresses", Name: "Dresses"})
	return NewCatalogService(products, categories, cache, discardLogger()), products, categories
}

func validProductRequest() *models.CreateProductRequest {
	return &models.CreateProductRequest{
		ProductID:   "P1",
		Name:        "Linen Dress",
		Description: "Summer dress",
		Price:       ptr(49.99),
		Category:    "dresses",
		Stock:       ptr(3),
		Sizes:       []string{"S", "M"},
	}
}

func TestCreateProduct(t *testing.T) {
	catalog, _, _ := newCatalog(nil)

	product, err := catalog.CreateProduct(context.Background(), validProductRequest())
	require.NoError(t, err)

	assert.False(t, product.ID.IsZero())
	assert.Equal(t, 49.99, product.Price)
	assert.Equal(t, 3, product.Stock)
	assert.Equal(t, []string{}, product.Colors)
	require.NotNil(t, product.CategoryDetails)
	assert.Equal(t, "Dresses", product.CategoryDetails.Name)
}

func TestCreateProduct_DefaultStock(t *testing.T) {
	catalog, _, _ := newCatalog(nil)
	req := validProductRequest()
	req.Stock = nil

	product, err := catalog.CreateProduct(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0, product.Stock)
}

func TestCreateProduct_TrimsKeys(t *testing.T) {
	catalog, products, _ := newCatalog(nil)
	ctx := context.Background()
	req := validProductRequest()
	req.ProductID = "  P1 "
	req.Name = " Linen Dress\t"
	req.Category = " dresses "

	product, err := catalog.CreateProduct(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "P1", product.ProductID)
	assert.Equal(t, "Linen Dress", product.Name)
	require.NotNil(t, product.CategoryDetails)

	again := validProductRequest()
	again.ProductID = "P1  "
	_, err = catalog.CreateProduct(ctx, again)
	var dupErr *global.DuplicateKeyError
	require.True(t, errors.As(err, &dupErr), "got %v", err)
	assert.Len(t, products.items, 1)

	blank := validProductRequest()
	blank.ProductID = "   "
	_, err = catalog.CreateProduct(ctx, blank)
	var vErr *global.ValidationFailedError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "product_id", vErr.Fields[0].Field)
}

func TestCreateProduct_AcceptsRelativeImagePath(t *testing.T) {
	catalog, _, _ := newCatalog(nil)
	ctx := context.Background()

	for i, ref := range []string{"/images/dress.jpg", "dress.jpg", "https://cdn.example.com/dress.jpg"} {
		req := validProductRequest()
		req.ProductID = fmt.Sprintf("IMG-%d", i)
		req.Name = fmt.Sprintf("Dress %d", i)
		req.ImageURL = ref

		product, err := catalog.CreateProduct(ctx, req)
		require.NoError(t, err, ref)
		assert.Equal(t, ref, product.ImageURL)
	}

	updated, err := catalog.UpdateProduct(ctx, "IMG-0", &models.UpdateProductRequest{ImageURL: ptr("thumbs/dress.png")})
	require.NoError(t, err)
	assert.Equal(t, "IMG-0", updated.ProductID)
}

func TestCreateProduct_ValidationListsEveryField(t *testing.T) {
	catalog, _, _ := newCatalog(nil)

	_, err := catalog.CreateProduct(context.Background(), &models.CreateProductRequest{
		Price: ptr(-1.0),
		Sizes: []string{"XXXL"},
	})

	var vErr *global.ValidationFailedError
	require.True(t, errors.As(err, &vErr))

	fields := map[string]bool{}
	for _, f := range vErr.Fields {
		fields[f.Field] = true
	}
	for _, want := range []string{"product_id", "name", "description", "price", "category", "sizes[0]"} {
		assert.True(t, fields[want], "missing field error for %s", want)
	}
}

func TestCreateProduct_UnknownCategory(t *testing.T) {
	catalog, products, _ := newCatalog(nil)
	req := validProductRequest()
	req.Category = "hats"

	_, err := catalog.CreateProduct(context.Background(), req)

	var refErr *global.ReferenceNotFoundError
	require.True(t, errors.As(err, &refErr))
	assert.Contains(t, err.Error(), "hats")
	assert.Empty(t, products.items)
}

func TestCreateProduct_Duplicate(t *testing.T) {
	catalog, _, _ := newCatalog(nil)
	ctx := context.Background()

	_, err := catalog.CreateProduct(ctx, validProductRequest())
	require.NoError(t, err)

	_, err = catalog.CreateProduct(ctx, validProductRequest())
	var dupErr *global.DuplicateKeyError
	require.True(t, errors.As(err, &dupErr))
	assert.Equal(t, "Duplicate product_id: P1", err.Error())
}

func TestGetProduct_CacheAside(t *testing.T) {
	cache := newFakeCache()
	catalog, products, _ := newCatalog(cache)
	ctx := context.Background()
	_, err := catalog.CreateProduct(ctx, validProductRequest())
	require.NoError(t, err)

	first, err := catalog.GetProduct(ctx, "P1")
	require.NoError(t, err)
	second, err := catalog.GetProduct(ctx, "P1")
	require.NoError(t, err)

	assert.Equal(t, 1, products.getCalls)
	assert.Equal(t, first.Name, second.Name)
	require.NotNil(t, second.CategoryDetails)
	assert.Nil(t, cache.items["P1"].CategoryDetails)
}

func TestGetProduct_CacheFailureFallsBack(t *testing.T) {
	cache := newFakeCache()
	cache.getErr = errors.New("connection refused")
	catalog, _, _ := newCatalog(cache)
	ctx := context.Background()
	_, err := catalog.CreateProduct(ctx, validProductRequest())
	require.NoError(t, err)

	product, err := catalog.GetProduct(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, "P1", product.ProductID)
}

func TestGetProduct_NotFound(t *testing.T) {
	catalog, _, _ := newCatalog(newFakeCache())

	_, err := catalog.GetProduct(context.Background(), "missing")
	assert.True(t, errors.Is(err, global.ErrNotFound))
}

func TestUpdateProduct(t *testing.T) {
	cache := newFakeCache()
	catalog, _, categories := newCatalog(cache)
	ctx := context.Background()
	require.NoError(t, categories.Create(ctx, &models.Category{CategoryID: "tops", Name: "Tops"}))
	_, err := catalog.CreateProduct(ctx, validProductRequest())
	require.NoError(t, err)
	_, err = catalog.GetProduct(ctx, "P1")
	require.NoError(t, err)

	updated, err := catalog.UpdateProduct(ctx, "P1", &models.UpdateProductRequest{
		Price:    ptr(39.0),
		Category: ptr("tops"),
	})
	require.NoError(t, err)

	assert.Equal(t, 39.0, updated.Price)
	assert.Equal(t, "Tops", updated.CategoryDetails.Name)
	assert.Equal(t, "Linen Dress", updated.Name)
	assert.Contains(t, cache.deleted, "P1")
	assert.NotContains(t, cache.items, "P1")
}

func TestUpdateProduct_Errors(t *testing.T) {
	catalog, _, _ := newCatalog(nil)
	ctx := context.Background()
	_, err := catalog.CreateProduct(ctx, validProductRequest())
	require.NoError(t, err)

	_, err = catalog.UpdateProduct(ctx, "P1", &models.UpdateProductRequest{Category: ptr("hats")})
	var refErr *global.ReferenceNotFoundError
	assert.True(t, errors.As(err, &refErr))

	_, err = catalog.UpdateProduct(ctx, "P1", &models.UpdateProductRequest{Stock: ptr(-2)})
	var vErr *global.ValidationFailedError
	assert.True(t, errors.As(err, &vErr))

	_, err = catalog.UpdateProduct(ctx, "missing", &models.UpdateProductRequest{Name: ptr("x")})
	assert.True(t, errors.Is(err, global.ErrNotFound))
}

func TestDeleteProduct(t *testing.T) {
	cache := newFakeCache()
	catalog, products, _ := newCatalog(cache)
	ctx := context.Background()
	_, err := catalog.CreateProduct(ctx, validProductRequest())
	require.NoError(t, err)

	require.NoError(t, catalog.DeleteProduct(ctx, "P1"))
	assert.Empty(t, products.items)
	assert.Contains(t, cache.deleted, "P1")

	err = catalog.DeleteProduct(ctx, "P1")
	assert.True(t, errors.Is(err, global.ErrNotFound))
}

func TestListProducts_OrphanedCategory(t *testing.T) {
	catalog, products, categories := newCatalog(nil)
	ctx := context.Background()
	_, err := catalog.CreateProduct(ctx, validProductRequest())
	require.NoError(t, err)
	require.NoError(t, categories.Delete(ctx, "dresses"))

	list, err := catalog.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].CategoryDetails)
	assert.Len(t, products.items, 1)

	byCategory, err := catalog.ListProductsByCategory(ctx, "dresses")
	require.NoError(t, err)
	assert.Len(t, byCategory, 1)

	none, err := catalog.ListProductsByCategory(ctx, "hats")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCategoryCRUD(t *testing.T) {
	catalog, _, _ := newCatalog(nil)
	ctx := context.Background()

	created, err := catalog.CreateCategory(ctx, &models.CreateCategoryRequest{CategoryID: "tops", Name: "Tops"})
	require.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero())

	_, err = catalog.CreateCategory(ctx, &models.CreateCategoryRequest{CategoryID: "tees", Name: "Tops"})
	var dupErr *global.DuplicateKeyError
	require.True(t, errors.As(err, &dupErr))
	assert.Equal(t, "name", dupErr.Field)

	_, err = catalog.CreateCategory(ctx, &models.CreateCategoryRequest{CategoryID: " tops ", Name: "Shirts"})
	require.True(t, errors.As(err, &dupErr))
	assert.Equal(t, "category_id", dupErr.Field)

	_, err = catalog.CreateCategory(ctx, &models.CreateCategoryRequest{})
	var vErr *global.ValidationFailedError
	require.True(t, errors.As(err, &vErr))
	assert.Len(t, vErr.Fields, 2)

	updated, err := catalog.UpdateCategory(ctx, "tops", &models.UpdateCategoryRequest{Description: ptr("Shirts and blouses")})
	require.NoError(t, err)
	assert.Equal(t, "Shirts and blouses", updated.Description)

	got, err := catalog.GetCategory(ctx, "tops")
	require.NoError(t, err)
	assert.Equal(t, "Tops", got.Name)

	list, err := catalog.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, catalog.DeleteCategory(ctx, "tops"))
	assert.True(t, errors.Is(catalog.DeleteCategory(ctx, "tops"), global.ErrNotFound))
}
