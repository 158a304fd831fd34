package router

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopfront/commerce-api/pkg/global"
	"github.com/shopfront/commerce-api/pkg/models"
)

type CatalogService interface {
	ListProducts(ctx context.Context) ([]*models.Product, error)
	GetProduct(ctx context.Context, identifier string) (*models.Product, error)
	ListProductsByCategory(ctx context.Context, categoryID string) ([]*models.Product, error)
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, identifier string, req *models.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, identifier string) error
	ListCategories(ctx context.Context) ([]*models.Category, error)
	GetCategory(ctx context.Context, categoryID string) (*models.Category, error)
	CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error)
	UpdateCategory(ctx context.Context, categoryID string, req *models.UpdateCategoryRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, categoryID string) error
}

type CartService interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	AddToCart(ctx context.Context, req *models.AddToCartRequest) (*models.Cart, error)
	RemoveFromCart(ctx context.Context, userID, itemID string) (*models.Cart, error)
}

type OrderService interface {
	CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error)
	GetOrders(ctx context.Context, userID string) ([]*models.Order, error)
}

// HealthChecker reports whether the database is reachable.
type HealthChecker func(ctx context.Context) error

type Handler struct {
	catalog CatalogService
	carts   CartService
	orders  OrderService
	health  HealthChecker
	logger  *log.Logger
}

func NewHandler(catalog CatalogService, carts CartService, orders OrderService, health HealthChecker, logger *log.Logger) *Handler {
	return &Handler{
		catalog: catalog,
		carts:   carts,
		orders:  orders,
		health:  health,
		logger:  logger,
	}
}

func (h *Handler) HealthCheck(c *gin.Context) {
	if err := h.health(c.Request.Context()); err != nil {
		h.logger.Printf("Health check failed: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Database connection failed", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(map[string]string{"status": "OK", "database": "Connected"}))
}

func (h *Handler) GetAllProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(products))
}

func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(product))
}

func (h *Handler) GetProductsByCategory(c *gin.Context) {
	products, err := h.catalog.ListProductsByCategory(c.Request.Context(), c.Param("categoryId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(products))
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.catalog.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, global.SuccessResponse(product))
}

// UpdateProduct applies a partial update. Fields outside the mutable set,
// product_id included, are ignored.
func (h *Handler) UpdateProduct(c *gin.Context) {
	var req models.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.catalog.UpdateProduct(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(product))
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.catalog.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.MessageResponse("Product deleted successfully"))
}

func (h *Handler) GetAllCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(categories))
}

func (h *Handler) GetCategory(c *gin.Context) {
	category, err := h.catalog.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(category))
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.catalog.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, global.SuccessResponse(category))
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	var req models.UpdateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.catalog.UpdateCategory(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(category))
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	if err := h.catalog.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.MessageResponse("Category deleted successfully"))
}

func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.carts.GetCart(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(cart))
}

func (h *Handler) AddToCart(c *gin.Context) {
	var req models.AddToCartRequest
	if !bindJSON(c, &req) {
		return
	}

	cart, err := h.carts.AddToCart(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, global.SuccessResponse(cart))
}

func (h *Handler) RemoveFromCart(c *gin.Context) {
	cart, err := h.carts.RemoveFromCart(c.Request.Context(), c.Param("userId"), c.Param("itemId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(cart))
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, global.SuccessResponse(order))
}

func (h *Handler) GetOrders(c *gin.Context) {
	orders, err := h.orders.GetOrders(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(orders))
}
