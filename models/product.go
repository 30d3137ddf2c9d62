package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is the single catalog entity. Image stays nil until an upload is
// attached, so it serializes as JSON null rather than an empty string.
type Product struct {
	ID          uuid.UUID `json:"_id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Price       float64   `json:"price" bson:"price"`
	Category    string    `json:"category" bson:"category"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Image       *string   `json:"image" bson:"image,omitempty"`
	InStock     bool      `json:"inStock" bson:"in_stock"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updated_at"`
}
