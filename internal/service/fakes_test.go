package service

import (
	"context"
	"io"
	"log"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/shopfront/commerce-api/pkg/global"
	"github.com/shopfront/commerce-api/pkg/models"
	productcache "github.com/shopfront/commerce-api/pkg/redis"
)

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// memProducts is an in-memory ProductRepository keyed by product_id.
type memProducts struct {
	mu       sync.Mutex
	items    map[string]*models.Product
	getCalls int
}

func newMemProducts(products ...*models.Product) *memProducts {
	m := &memProducts{items: map[string]*models.Product{}}
	for _, p := range products {
		m.items[p.ProductID] = p
	}
	return m
}

func (m *memProducts) List(ctx context.Context) ([]*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Product{}
	for _, p := range m.items {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memProducts) ListByCategory(ctx context.Context, categoryID string) ([]*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Product{}
	for _, p := range m.items {
		if p.Category == categoryID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memProducts) FindByProductIDs(ctx context.Context, ids []string) (map[string]*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]*models.Product{}
	for _, id := range ids {
		if p, ok := m.items[id]; ok {
			cp := *p
			out[id] = &cp
		}
	}
	return out, nil
}

func (m *memProducts) Get(ctx context.Context, identifier string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	p, ok := m.items[identifier]
	if !ok {
		return nil, global.NotFound("product")
	}
	cp := *p
	return &cp, nil
}

func (m *memProducts) Create(ctx context.Context, product *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[product.ProductID]; ok {
		return &global.DuplicateKeyError{Field: "product_id", Value: product.ProductID}
	}
	product.ID = bson.NewObjectID()
	cp := *product
	m.items[product.ProductID] = &cp
	return nil
}

func (m *memProducts) Update(ctx context.Context, identifier string, set bson.M) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[identifier]
	if !ok {
		return nil, global.NotFound("product")
	}
	if v, ok := set["name"].(string); ok {
		p.Name = v
	}
	if v, ok := set["price"].(float64); ok {
		p.Price = v
	}
	if v, ok := set["category"].(string); ok {
		p.Category = v
	}
	if v, ok := set["updated_at"].(time.Time); ok {
		p.UpdatedAt = v
	}
	cp := *p
	return &cp, nil
}

func (m *memProducts) Delete(ctx context.Context, identifier string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[identifier]
	if !ok {
		return nil, global.NotFound("product")
	}
	delete(m.items, identifier)
	return p, nil
}

type memCategories struct {
	mu    sync.Mutex
	items map[string]*models.Category
}

func newMemCategories(categories ...*models.Category) *memCategories {
	m := &memCategories{items: map[string]*models.Category{}}
	for _, c := range categories {
		m.items[c.CategoryID] = c
	}
	return m
}

func (m *memCategories) List(ctx context.Context) ([]*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Category{}
	for _, c := range m.items {
		out = append(out, c)
	}
	return out, nil
}

func (m *memCategories) Get(ctx context.Context, categoryID string) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[categoryID]
	if !ok {
		return nil, global.NotFound("category")
	}
	return c, nil
}

func (m *memCategories) Exists(ctx context.Context, categoryID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.items[categoryID]
	return ok, nil
}

func (m *memCategories) Create(ctx context.Context, category *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[category.CategoryID]; ok {
		return &global.DuplicateKeyError{Field: "category_id", Value: category.CategoryID}
	}
	for _, c := range m.items {
		if c.Name == category.Name {
			return &global.DuplicateKeyError{Field: "name", Value: category.Name}
		}
	}
	category.ID = bson.NewObjectID()
	m.items[category.CategoryID] = category
	return nil
}

func (m *memCategories) Update(ctx context.Context, categoryID string, set bson.M) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[categoryID]
	if !ok {
		return nil, global.NotFound("category")
	}
	if v, ok := set["name"].(string); ok {
		c.Name = v
	}
	if v, ok := set["description"].(string); ok {
		c.Description = v
	}
	return c, nil
}

func (m *memCategories) Delete(ctx context.Context, categoryID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[categoryID]; !ok {
		return global.NotFound("category")
	}
	delete(m.items, categoryID)
	return nil
}

// memCarts mirrors the merge semantics of the mongo cart store.
type memCarts struct {
	mu       sync.Mutex
	carts    map[string]*models.Cart
	clearErr error
}

func newMemCarts() *memCarts {
	return &memCarts{carts: map[string]*models.Cart{}}
}

func (m *memCarts) snapshot(cart *models.Cart) *models.Cart {
	cp := *cart
	cp.Items = append([]models.CartItem{}, cart.Items...)
	return &cp
}

func (m *memCarts) Get(ctx context.Context, userID string) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart, ok := m.carts[userID]
	if !ok {
		return nil, global.NotFound("cart")
	}
	return m.snapshot(cart), nil
}

func (m *memCarts) AddItem(ctx context.Context, userID string, item models.CartItem) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart, ok := m.carts[userID]
	if !ok {
		cart = &models.Cart{ID: bson.NewObjectID(), UserID: userID, Items: []models.CartItem{}}
		m.carts[userID] = cart
	}
	for i := range cart.Items {
		if cart.Items[i].Matches(item.ProductID, item.Size, item.Color) {
			cart.Items[i].Quantity += item.Quantity
			return m.snapshot(cart), nil
		}
	}
	item.ID = bson.NewObjectID()
	cart.Items = append(cart.Items, item)
	return m.snapshot(cart), nil
}

func (m *memCarts) RemoveItem(ctx context.Context, userID, itemID string) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart, ok := m.carts[userID]
	if !ok {
		return nil, global.NotFound("cart")
	}
	kept := []models.CartItem{}
	for _, it := range cart.Items {
		if it.ID.Hex() != itemID {
			kept = append(kept, it)
		}
	}
	cart.Items = kept
	return m.snapshot(cart), nil
}

func (m *memCarts) Clear(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.clearErr != nil {
		return m.clearErr
	}
	if cart, ok := m.carts[userID]; ok {
		cart.Items = []models.CartItem{}
	}
	return nil
}

type memOrders struct {
	mu        sync.Mutex
	orders    []*models.Order
	createErr error
}

func (m *memOrders) Create(ctx context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	order.ID = bson.NewObjectID()
	m.orders = append(m.orders, order)
	return nil
}

func (m *memOrders) ListByUser(ctx context.Context, userID string) ([]*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Order{}
	for i := len(m.orders) - 1; i >= 0; i-- {
		if m.orders[i].UserID == userID {
			cp := *m.orders[i]
			cp.Items = append([]models.OrderItem{}, m.orders[i].Items...)
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeCache struct {
	mu      sync.Mutex
	items   map[string]*models.Product
	getErr  error
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: map[string]*models.Product{}}
}

func (f *fakeCache) Get(ctx context.Context, productID string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.items[productID]
	if !ok {
		return nil, productcache.ErrCacheMiss
	}
	cp := *p
	return &cp, nil
}

func (f *fakeCache) Set(ctx context.Context, product *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *product
	f.items[product.ProductID] = &cp
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, productIDs ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range productIDs {
		delete(f.items, id)
		f.deleted = append(f.deleted, id)
	}
	return nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	sendFn func(ctx context.Context, recipient string, order *models.Order) error
	sent   []string
}

func (f *fakeNotifier) SendOrderConfirmation(ctx context.Context, recipient string, order *models.Order) error {
	f.mu.Lock()
	f.sent = append(f.sent, recipient)
	f.mu.Unlock()
	if f.sendFn != nil {
		return f.sendFn(ctx, recipient, order)
	}
	return nil
}

func (f *fakeNotifier) recipients() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.sent...)
}

type fakePublisher struct {
	mu        sync.Mutex
	published []string
	err       error
	publishFn func(ctx context.Context, order *models.Order) error
}

func (f *fakePublisher) PublishOrderCreated(ctx context.Context, order *models.Order) error {
	f.mu.Lock()
	f.published = append(f.published, order.ID.Hex())
	fn, err := f.publishFn, f.err
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, order)
	}
	return err
}
