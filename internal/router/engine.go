package router

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/shopfront/commerce-api/pkg/global"
)

// NewEngine builds the gin engine with middleware and every route mounted
// under /api.
func NewEngine(cfg global.ServerConfig, h *Handler) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), RequestID())
	router.Use(cors.New(corsConfig(cfg.CORSAllowOrigins)))

	registerRoutes(router, h)
	return router
}

// corsConfig allows the listed origins with credentials. An empty list or
// "*" opens CORS to every origin without credentials.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func registerRoutes(router *gin.Engine, h *Handler) {
	api := router.Group("/api")
	{
		api.GET("/health", h.HealthCheck)

		products := api.Group("/products")
		{
			products.GET("", h.GetAllProducts)
			products.POST("", h.CreateProduct)
			products.GET("/category/:categoryId", h.GetProductsByCategory)
			products.GET("/:id", h.GetProduct)
			products.PUT("/:id", h.UpdateProduct)
			products.DELETE("/:id", h.DeleteProduct)
		}

		categories := api.Group("/categories")
		{
			categories.GET("", h.GetAllCategories)
			categories.POST("", h.CreateCategory)
			categories.GET("/:id", h.GetCategory)
			categories.PUT("/:id", h.UpdateCategory)
			categories.DELETE("/:id", h.DeleteCategory)
		}

		cart := api.Group("/cart")
		{
			cart.POST("/add", h.AddToCart)
			cart.GET("/:userId", h.GetCart)
			cart.DELETE("/:userId/:itemId", h.RemoveFromCart)
		}

		orders := api.Group("/orders")
		{
			orders.POST("", h.CreateOrder)
			orders.GET("/:userId", h.GetOrders)
		}
	}
}
