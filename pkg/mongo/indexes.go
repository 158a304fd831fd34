package mongo

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type IndexConfig struct {
	CollectionName string
	IndexModel     mongo.IndexModel
}

// uniqueIndexFields maps unique index names to the field they guard, used
// when a duplicate key error only names the index.
var uniqueIndexFields = map[string]string{
	"idx_product_id_unique":    "product_id",
	"idx_product_name_unique":  "name",
	"idx_category_id_unique":   "category_id",
	"idx_category_name_unique": "name",
	"idx_cart_user_unique":     "user_id",
}

var requiredIndexes = []IndexConfig{
	// Products
	{
		CollectionName: ProductsCollection,
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "product_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_product_id_unique"),
		},
	},
	{
		CollectionName: ProductsCollection,
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_product_name_unique"),
		},
	},
	// Filtering by category
	{
		CollectionName: ProductsCollection,
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("idx_category"),
		},
	},

	// Categories
	{
		CollectionName: CategoriesCollection,
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "category_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_category_id_unique"),
		},
	},
	{
		CollectionName: CategoriesCollection,
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_category_name_unique"),
		},
	},

	// Carts: one per user, the atomic add relies on this
	{
		CollectionName: CartsCollection,
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_cart_user_unique"),
		},
	},

	// Orders: user history, newest first
	{
		CollectionName: OrdersCollection,
		IndexModel: mongo.IndexModel{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_user_orders"),
		},
	},
}

func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	log.Println("Starting index creation...")

	for _, idxConfig := range requiredIndexes {
		collection := db.Collection(idxConfig.CollectionName)

		indexName, err := collection.Indexes().CreateOne(ctx, idxConfig.IndexModel)
		if err != nil {
			return fmt.Errorf("create index on collection %s: %w", idxConfig.CollectionName, err)
		}

		log.Printf("Created index '%s' on collection '%s'", indexName, idxConfig.CollectionName)
	}

	log.Println("All indexes created successfully")
	return nil
}
