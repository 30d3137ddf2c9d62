package services

import (
	"context"
	"mime/multipart"
	"strings"
	"time"

	"catalog-service/models"
	"catalog-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImageUploader persists an uploaded image and returns its public path.
type ImageUploader interface {
	Save(fh *multipart.FileHeader) (string, error)
}

// ProductService orchestrates validation, image upload and persistence.
type ProductService struct {
	repo     repository.ProductRepo
	uploader ImageUploader
}

func NewProductService(repo repository.ProductRepo, uploader ImageUploader) *ProductService {
	return &ProductService{
		repo:     repo,
		uploader: uploader,
	}
}

func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// ListProducts returns the full collection. No paging; acceptable at this
// system's scale.
func (s *ProductService) ListProducts(ctx context.Context) ([]*models.Product, error) {
	return s.repo.FindAll(ctx)
}

// CreateProduct validates the request, uploads the optional image, then
// persists the record. The image write happens before the record insert; if
// the insert fails the uploaded file is left behind for the sweeper.
func (s *ProductService) CreateProduct(ctx context.Context, req ProductCreateRequest, image *multipart.FileHeader) (*models.Product, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	var imagePath *string
	if image != nil {
		path, err := s.uploader.Save(image)
		if err != nil {
			return nil, err
		}
		imagePath = &path
	}

	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}

	now := time.Now().UTC()
	product := &models.Product{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		Price:       req.Price,
		Category:    strings.TrimSpace(req.Category),
		Description: req.Description,
		Image:       imagePath,
		InStock:     inStock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		if imagePath != nil {
			zap.L().Warn("Product insert failed after image upload, file orphaned",
				zap.String("image", *imagePath), zap.Error(err))
		}
		return nil, err
	}

	return product, nil
}

// UpdateProduct merges the supplied fields into the stored record. A new
// image replaces the old reference; the old file stays on disk. Concurrent
// updates to the same product resolve last-write-wins.
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req ProductUpdateRequest, image *multipart.FileHeader) (*models.Product, error) {
	if err := validateUpdate(req); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.Category != nil {
		fields["category"] = strings.TrimSpace(*req.Category)
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.InStock != nil {
		fields["in_stock"] = *req.InStock
	}

	if image != nil {
		path, err := s.uploader.Save(image)
		if err != nil {
			return nil, err
		}
		fields["image"] = path
	}

	if len(fields) == 0 {
		return nil, invalidField("update", "requires at least one field")
	}

	return s.repo.Update(ctx, id, fields)
}

func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func validateCreate(req ProductCreateRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return invalidField("name", "is required")
	}
	if req.Price <= 0 {
		return invalidField("price", "must be a positive number")
	}
	if strings.TrimSpace(req.Category) == "" {
		return invalidField("category", "is required")
	}
	return nil
}

func validateUpdate(req ProductUpdateRequest) error {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return invalidField("name", "must not be empty")
	}
	if req.Price != nil && *req.Price <= 0 {
		return invalidField("price", "must be a positive number")
	}
	if req.Category != nil && strings.TrimSpace(*req.Category) == "" {
		return invalidField("category", "must not be empty")
	}
	return nil
}
