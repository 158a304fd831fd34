package service

import (
	"context"
	"errors"
	"log"

	"github.com/shopfront/commerce-api/pkg/global"
	"github.com/shopfront/commerce-api/pkg/models"
	productcache "github.com/shopfront/commerce-api/pkg/redis"
)

type CatalogService struct {
	products   ProductRepository
	categories CategoryRepository
	cache      ProductCache
	logger     *log.Logger
}

// NewCatalogService wires the catalog. cache may be nil.
func NewCatalogService(products ProductRepository, categories CategoryRepository, cache ProductCache, logger *log.Logger) *CatalogService {
	return &CatalogService{
		products:   products,
		categories: categories,
		cache:      cache,
		logger:     logger,
	}
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]*models.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.attachCategories(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *CatalogService) ListProductsByCategory(ctx context.Context, categoryID string) ([]*models.Product, error) {
	products, err := s.products.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if err := s.attachCategories(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct looks the product up by product_id or storage id, going
// through the cache first.
func (s *CatalogService) GetProduct(ctx context.Context, identifier string) (*models.Product, error) {
	product := s.cachedProduct(ctx, identifier)
	if product == nil {
		var err error
		product, err = s.products.Get(ctx, identifier)
		if err != nil {
			return nil, err
		}
		s.cacheProduct(ctx, product)
	}

	if err := s.attachCategory(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	req.Normalize()
	if err := global.ValidateStruct(req); err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, req.Category); err != nil {
		return nil, err
	}

	product := req.ToProduct()
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	if err := s.attachCategory(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, identifier string, req *models.UpdateProductRequest) (*models.Product, error) {
	req.Normalize()
	if err := global.ValidateStruct(req); err != nil {
		return nil, err
	}
	if req.Category != nil {
		if err := s.ensureCategory(ctx, *req.Category); err != nil {
			return nil, err
		}
	}

	product, err := s.products.Update(ctx, identifier, req.SetFields())
	if err != nil {
		return nil, err
	}
	s.evictProduct(ctx, product.ProductID)

	if err := s.attachCategory(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, identifier string) error {
	product, err := s.products.Delete(ctx, identifier)
	if err != nil {
		return err
	}
	s.evictProduct(ctx, product.ProductID)
	return nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.categories.List(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, categoryID string) (*models.Category, error) {
	return s.categories.Get(ctx, categoryID)
}

func (s *CatalogService) CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {
	req.Normalize()
	if err := global.ValidateStruct(req); err != nil {
		return nil, err
	}

	category := req.ToCategory()
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, categoryID string, req *models.UpdateCategoryRequest) (*models.Category, error) {
	req.Normalize()
	if err := global.ValidateStruct(req); err != nil {
		return nil, err
	}
	return s.categories.Update(ctx, categoryID, req.SetFields())
}

// DeleteCategory removes the category only; products keep their reference.
func (s *CatalogService) DeleteCategory(ctx context.Context, categoryID string) error {
	return s.categories.Delete(ctx, categoryID)
}

func (s *CatalogService) ensureCategory(ctx context.Context, categoryID string) error {
	exists, err := s.categories.Exists(ctx, categoryID)
	if err != nil {
		return err
	}
	if !exists {
		return &global.ReferenceNotFoundError{Entity: "Category", ID: categoryID}
	}
	return nil
}

// attachCategory fills CategoryDetails. An orphaned reference leaves it nil.
func (s *CatalogService) attachCategory(ctx context.Context, product *models.Product) error {
	category, err := s.categories.Get(ctx, product.Category)
	if errors.Is(err, global.ErrNotFound) {
		product.CategoryDetails = nil
		return nil
	}
	if err != nil {
		return err
	}
	product.CategoryDetails = category
	return nil
}

func (s *CatalogService) attachCategories(ctx context.Context, products []*models.Product) error {
	if len(products) == 0 {
		return nil
	}

	categories, err := s.categories.List(ctx)
	if err != nil {
		return err
	}
	byID := make(map[string]*models.Category, len(categories))
	for _, c := range categories {
		byID[c.CategoryID] = c
	}
	for _, p := range products {
		p.CategoryDetails = byID[p.Category]
	}
	return nil
}

func (s *CatalogService) cachedProduct(ctx context.Context, productID string) *models.Product {
	if s.cache == nil {
		return nil
	}
	product, err := s.cache.Get(ctx, productID)
	if err != nil {
		if !errors.Is(err, productcache.ErrCacheMiss) {
			s.logger.Printf("Warning: product cache read failed for %s: %v", productID, err)
		}
		return nil
	}
	return product
}

func (s *CatalogService) cacheProduct(ctx context.Context, product *models.Product) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, product); err != nil {
		s.logger.Printf("Warning: %v", err)
	}
}

func (s *CatalogService) evictProduct(ctx context.Context, productID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, productID); err != nil {
		s.logger.Printf("Warning: %v", err)
	}
}
