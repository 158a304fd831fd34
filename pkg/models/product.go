package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Sizes accepted on a product.
var Sizes = []string{"XS", "S", "M", "L", "XL", "XXL"}

// Product represents a catalog item. ProductID is the external, human
// assigned identifier (a SKU); ID is the storage identifier.
type Product struct {
	ID              bson.ObjectID `json:"id" bson:"_id,omitempty"`
	ProductID       string        `json:"product_id" bson:"product_id"`
	Name            string        `json:"name" bson:"name"`
	Description     string        `json:"description" bson:"description"`
	Price           float64       `json:"price" bson:"price"`
	Category        string        `json:"category" bson:"category"`
	CategoryDetails *Category     `json:"category_details,omitempty" bson:"-"`
	ImageURL        string        `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Stock           int           `json:"stock" bson:"stock"`
	Sizes           []string      `json:"sizes" bson:"sizes"`
	Colors          []string      `json:"colors" bson:"colors"`
	CreatedAt       time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" bson:"updated_at"`
}

type CreateProductRequest struct {
	ProductID   string   `json:"product_id" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Category    string   `json:"category" validate:"required"`
	ImageURL    string   `json:"image_url" validate:"max=2048"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	Sizes       []string `json:"sizes" validate:"dive,oneof=XS S M L XL XXL"`
	Colors      []string `json:"colors" validate:"dive,required"`
}

// UpdateProductRequest is the allow-list of mutable product fields. A nil
// field is left untouched.
type UpdateProductRequest struct {
	Name        *string   `json:"name" validate:"omitnil,min=1"`
	Description *string   `json:"description" validate:"omitnil,min=1"`
	Price       *float64  `json:"price" validate:"omitnil,gte=0"`
	Category    *string   `json:"category" validate:"omitnil,min=1"`
	ImageURL    *string   `json:"image_url" validate:"omitnil,max=2048"`
	Stock       *int      `json:"stock" validate:"omitnil,gte=0"`
	Sizes       *[]string `json:"sizes" validate:"omitnil,dive,oneof=XS S M L XL XXL"`
	Colors      *[]string `json:"colors" validate:"omitnil,dive,required"`
}

// Normalize trims the identifier, name and category reference in place.
func (req *CreateProductRequest) Normalize() {
	req.ProductID = strings.TrimSpace(req.ProductID)
	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)
}

func (req *UpdateProductRequest) Normalize() {
	trimPtr(req.Name)
	trimPtr(req.Category)
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

func (req *CreateProductRequest) ToProduct() *Product {
	now := time.Now().UTC()
	product := &Product{
		ProductID:   req.ProductID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Sizes:       req.Sizes,
		Colors:      req.Colors,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if product.Sizes == nil {
		product.Sizes = []string{}
	}
	if product.Colors == nil {
		product.Colors = []string{}
	}
	return product
}

// SetFields returns the $set document for the provided fields, keyed by
// bson field name. updated_at is always included.
func (req *UpdateProductRequest) SetFields() bson.M {
	set := bson.M{"updated_at": time.Now().UTC()}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Price != nil {
		set["price"] = *req.Price
	}
	if req.Category != nil {
		set["category"] = *req.Category
	}
	if req.ImageURL != nil {
		set["image_url"] = *req.ImageURL
	}
	if req.Stock != nil {
		set["stock"] = *req.Stock
	}
	if req.Sizes != nil {
		set["sizes"] = *req.Sizes
	}
	if req.Colors != nil {
		set["colors"] = *req.Colors
	}
	return set
}
