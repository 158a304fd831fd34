package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/shopfront/commerce-api/pkg/models"
)

type CategoryStore struct {
	coll *mongo.Collection
}

func NewCategoryStore(db *mongo.Database) *CategoryStore {
	return &CategoryStore{coll: db.Collection(CategoriesCollection)}
}

func (s *CategoryStore) List(ctx context.Context) ([]*models.Category, error) {
	cursor, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	categories := []*models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *CategoryStore) Get(ctx context.Context, categoryID string) (*models.Category, error) {
	var category models.Category
	err := s.coll.FindOne(ctx, identifierFilter("category_id", categoryID)).Decode(&category)
	if err != nil {
		return nil, translateError(err, "category")
	}
	return &category, nil
}

// Exists reports whether a category with the external id is stored.
func (s *CategoryStore) Exists(ctx context.Context, categoryID string) (bool, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"category_id": categoryID}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *CategoryStore) Create(ctx context.Context, category *models.Category) error {
	res, err := s.coll.InsertOne(ctx, category)
	if err != nil {
		return translateError(err, "category")
	}
	if oid, ok := res.InsertedID.(bson.ObjectID); ok {
		category.ID = oid
	}
	return nil
}

func (s *CategoryStore) Update(ctx context.Context, categoryID string, set bson.M) (*models.Category, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var category models.Category
	err := s.coll.FindOneAndUpdate(ctx, identifierFilter("category_id", categoryID), bson.M{"$set": set}, opts).Decode(&category)
	if err != nil {
		return nil, translateError(err, "category")
	}
	return &category, nil
}

func (s *CategoryStore) Delete(ctx context.Context, categoryID string) error {
	res, err := s.coll.DeleteOne(ctx, identifierFilter("category_id", categoryID))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return translateError(mongo.ErrNoDocuments, "category")
	}
	return nil
}
