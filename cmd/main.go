package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/shopfront/commerce-api/internal/router"
	"github.com/shopfront/commerce-api/internal/service"
	"github.com/shopfront/commerce-api/pkg/events"
	"github.com/shopfront/commerce-api/pkg/global"
	"github.com/shopfront/commerce-api/pkg/mail"
	"github.com/shopfront/commerce-api/pkg/mongo"
	"github.com/shopfront/commerce-api/pkg/redis"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := global.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := log.New(os.Stdout, "[commerce-api] ", log.LstdFlags)

	ctx, cancel := global.GetDefaultTimer()
	client, err := mongo.Connect(ctx, cfg.Mongo)
	if err != nil {
		cancel()
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	db := client.Database(cfg.Mongo.Database)
	err = mongo.EnsureIndexes(ctx, db)
	cancel()
	if err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}

	var cache service.ProductCache
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(cfg.Redis)
		defer redisClient.Close()
		cache = redis.NewProductCache(redisClient, cfg.Redis.ProductTTL)
		logger.Printf("Product cache enabled at %s", cfg.Redis.Address)
	}

	var publisher service.EventPublisher
	if cfg.Events.RabbitMQURL != "" {
		p, err := events.Dial(cfg.Events.RabbitMQURL)
		if err != nil {
			logger.Printf("Warning: order events disabled: %v", err)
		} else {
			defer p.Close()
			publisher = p
		}
	}

	mailer, err := mail.New(cfg.Mail, logger)
	if err != nil {
		log.Fatalf("Failed to configure mailer: %v", err)
	}

	products := mongo.NewProductStore(db)
	categories := mongo.NewCategoryStore(db)
	carts := mongo.NewCartStore(db)
	orders := mongo.NewOrderStore(db)

	catalogService := service.NewCatalogService(products, categories, cache, logger)
	cartService := service.NewCartService(carts, products)
	orderService := service.NewOrderService(orders, cartService, products, mailer, publisher, logger, cfg.NotifyTimeout)

	health := func(ctx context.Context) error { return mongo.Ping(ctx, db) }
	handler := router.NewHandler(catalogService, cartService, orderService, health, logger)
	engine := router.NewEngine(cfg.Server, handler)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server is running on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to run server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("Server forced to shutdown: %v", err)
	}

	orderService.Wait()

	if err := client.Disconnect(shutdownCtx); err != nil {
		logger.Printf("Error disconnecting from MongoDB: %v", err)
	}
	log.Println("Server exited")
}
