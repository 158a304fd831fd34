package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/shopfront/commerce-api/pkg/models"
)

// maxAddAttempts bounds the retry when two first-adds for the same user race
// on the unique user_id index.
const maxAddAttempts = 3

type CartStore struct {
	coll *mongo.Collection
}

func NewCartStore(db *mongo.Database) *CartStore {
	return &CartStore{coll: db.Collection(CartsCollection)}
}

// Get returns the user's cart or a not-found error.
func (s *CartStore) Get(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	if err := s.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart); err != nil {
		return nil, translateError(err, "cart")
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return &cart, nil
}

// AddItem merges item into the user's cart without a read-modify-write
// cycle: the matching line is incremented in place, otherwise the line is
// pushed, creating the cart if needed.
func (s *CartStore) AddItem(ctx context.Context, userID string, item models.CartItem) (*models.Cart, error) {
	lineMatch := bson.M{
		"product": item.ProductID,
		"size":    item.Size,
		"color":   item.Color,
	}

	for attempt := 0; attempt < maxAddAttempts; attempt++ {
		now := time.Now().UTC()

		res, err := s.coll.UpdateOne(ctx,
			bson.M{"user_id": userID, "items": bson.M{"$elemMatch": lineMatch}},
			bson.M{
				"$inc": bson.M{"items.$.quantity": item.Quantity},
				"$set": bson.M{"updated_at": now},
			},
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount > 0 {
			return s.Get(ctx, userID)
		}

		if item.ID.IsZero() {
			item.ID = bson.NewObjectID()
		}
		_, err = s.coll.UpdateOne(ctx,
			bson.M{"user_id": userID, "items": bson.M{"$not": bson.M{"$elemMatch": lineMatch}}},
			bson.M{
				"$push":        bson.M{"items": item},
				"$set":         bson.M{"updated_at": now},
				"$setOnInsert": bson.M{"created_at": now},
			},
			options.UpdateOne().SetUpsert(true),
		)
		if err == nil {
			return s.Get(ctx, userID)
		}
		// A concurrent add created the cart or the line first; go round again
		// and take the increment path.
		if !mongo.IsDuplicateKeyError(err) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("add item to cart for user %s: too much contention", userID)
}

// RemoveItem pulls the line with itemID. An unknown or malformed item id
// leaves the cart as it is.
func (s *CartStore) RemoveItem(ctx context.Context, userID, itemID string) (*models.Cart, error) {
	oid, err := bson.ObjectIDFromHex(itemID)
	if err != nil {
		return s.Get(ctx, userID)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var cart models.Cart
	err = s.coll.FindOneAndUpdate(ctx,
		bson.M{"user_id": userID},
		bson.M{
			"$pull": bson.M{"items": bson.M{"_id": oid}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
		opts,
	).Decode(&cart)
	if err != nil {
		return nil, translateError(err, "cart")
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return &cart, nil
}

// Clear empties the user's cart. A user without a cart is not an error and
// no cart is created.
func (s *CartStore) Clear(ctx context.Context, userID string) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"items": bson.A{}, "updated_at": time.Now().UTC()}},
	)
	return err
}
