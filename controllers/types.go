package controllers

import (
	"context"
	"mime/multipart"
	"time"

	"catalog-service/models"
	"catalog-service/services"

	"github.com/google/uuid"
)

// Default configuration values
const (
	DefaultCacheTTL       = 10 * time.Minute
	DefaultContextTimeout = 30 * time.Second
)

// ProductServiceAPI defines the interface for product service operations
type ProductServiceAPI interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context) ([]*models.Product, error)
	CreateProduct(ctx context.Context, req services.ProductCreateRequest, image *multipart.FileHeader) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req services.ProductUpdateRequest, image *multipart.FileHeader) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}
