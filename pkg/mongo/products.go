package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/shopfront/commerce-api/pkg/models"
)

type ProductStore struct {
	coll *mongo.Collection
}

func NewProductStore(db *mongo.Database) *ProductStore {
	return &ProductStore{coll: db.Collection(ProductsCollection)}
}

// identifierFilter matches the external product_id, or the storage _id when
// the identifier is an ObjectID hex string.
func identifierFilter(field, identifier string) bson.M {
	if oid, err := bson.ObjectIDFromHex(identifier); err == nil {
		return bson.M{"$or": bson.A{
			bson.M{field: identifier},
			bson.M{"_id": oid},
		}}
	}
	return bson.M{field: identifier}
}

func (s *ProductStore) List(ctx context.Context) ([]*models.Product, error) {
	return s.find(ctx, bson.M{})
}

func (s *ProductStore) ListByCategory(ctx context.Context, categoryID string) ([]*models.Product, error) {
	return s.find(ctx, bson.M{"category": categoryID})
}

// FindByProductIDs returns the products with the given external ids keyed by product_id.
func (s *ProductStore) FindByProductIDs(ctx context.Context, productIDs []string) (map[string]*models.Product, error) {
	found := make(map[string]*models.Product, len(productIDs))
	if len(productIDs) == 0 {
		return found, nil
	}
	products, err := s.find(ctx, bson.M{"product_id": bson.M{"$in": productIDs}})
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		found[p.ProductID] = p
	}
	return found, nil
}

func (s *ProductStore) Get(ctx context.Context, identifier string) (*models.Product, error) {
	var product models.Product
	err := s.coll.FindOne(ctx, identifierFilter("product_id", identifier)).Decode(&product)
	if err != nil {
		return nil, translateError(err, "product")
	}
	return &product, nil
}

func (s *ProductStore) Create(ctx context.Context, product *models.Product) error {
	res, err := s.coll.InsertOne(ctx, product)
	if err != nil {
		return translateError(err, "product")
	}
	if oid, ok := res.InsertedID.(bson.ObjectID); ok {
		product.ID = oid
	}
	return nil
}

func (s *ProductStore) Update(ctx context.Context, identifier string, set bson.M) (*models.Product, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product models.Product
	err := s.coll.FindOneAndUpdate(ctx, identifierFilter("product_id", identifier), bson.M{"$set": set}, opts).Decode(&product)
	if err != nil {
		return nil, translateError(err, "product")
	}
	return &product, nil
}

func (s *ProductStore) Delete(ctx context.Context, identifier string) (*models.Product, error) {
	var product models.Product
	err := s.coll.FindOneAndDelete(ctx, identifierFilter("product_id", identifier)).Decode(&product)
	if err != nil {
		return nil, translateError(err, "product")
	}
	return &product, nil
}

func (s *ProductStore) find(ctx context.Context, filter bson.M) ([]*models.Product, error) {
	cursor, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := []*models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}
