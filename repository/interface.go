package repository

import (
	"context"
	"errors"

	"catalog-service/models"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no product exists for the given ID.
var ErrNotFound = errors.New("product not found")

// ProductRepo defines the store operations used by the service layer.
// It uses plain Go types (no mongo-driver types) to make swapping adapters easier.
type ProductRepo interface {
	Create(ctx context.Context, product *models.Product) error
	FindAll(ctx context.Context) ([]*models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	// Update merges the supplied fields into the existing record and returns
	// the updated record. Field keys follow the bson names of models.Product.
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*models.Product, error)
	// Delete permanently removes the record.
	Delete(ctx context.Context, id uuid.UUID) error
}
