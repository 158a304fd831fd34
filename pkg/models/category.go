package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Category groups products. CategoryID is the external identifier products
// reference; deleting a category does not touch its products.
type Category struct {
	ID          bson.ObjectID `json:"id" bson:"_id,omitempty"`
	CategoryID  string        `json:"category_id" bson:"category_id"`
	Name        string        `json:"name" bson:"name"`
	Description string        `json:"description,omitempty" bson:"description,omitempty"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" bson:"updated_at"`
}

type CreateCategoryRequest struct {
	CategoryID  string `json:"category_id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitnil,min=1"`
	Description *string `json:"description"`
}

func (req *CreateCategoryRequest) Normalize() {
	req.CategoryID = strings.TrimSpace(req.CategoryID)
	req.Name = strings.TrimSpace(req.Name)
}

func (req *UpdateCategoryRequest) Normalize() {
	trimPtr(req.Name)
}

func (req *CreateCategoryRequest) ToCategory() *Category {
	c := &Category{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
	}
	c.SetTimestamps()
	return c
}

func (req *UpdateCategoryRequest) SetFields() bson.M {
	set := bson.M{"updated_at": time.Now().UTC()}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	return set
}

// SetTimestamps sets created_at on first call and always updates updated_at
func (c *Category) SetTimestamps() {
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
}
