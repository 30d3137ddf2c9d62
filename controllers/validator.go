package controllers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"catalog-service/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const maxFormMemory = 32 << 20 // 32MB

// CreateProductRequest defines the expected multipart form for creating a product
type CreateProductRequest struct {
	Name        string  `form:"name" validate:"required"`
	Price       float64 `form:"price" validate:"required,gt=0"`
	Category    string  `form:"category" validate:"required"`
	Description string  `form:"description"`
	InStock     *bool   `form:"inStock"`
}

// RequestValidator handles all input validation
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{
		validate: validator.New(),
	}
}

// ParseCreateProductRequest validates and parses the product creation form.
// The image file is optional; at most one is accepted under the "image" field.
func (rv *RequestValidator) ParseCreateProductRequest(c *gin.Context) (services.ProductCreateRequest, *multipart.FileHeader, error) {
	var req CreateProductRequest
	if err := c.ShouldBind(&req); err != nil {
		return services.ProductCreateRequest{}, nil, fmt.Errorf("invalid form data: %w", err)
	}

	if err := rv.validate.Struct(&req); err != nil {
		return services.ProductCreateRequest{}, nil, fmt.Errorf("validation failed: %w", err)
	}

	image, err := formImage(c)
	if err != nil {
		return services.ProductCreateRequest{}, nil, err
	}

	serviceReq := services.ProductCreateRequest{
		Name:        req.Name,
		Price:       req.Price,
		Category:    req.Category,
		Description: req.Description,
		InStock:     req.InStock,
	}

	return serviceReq, image, nil
}

// ParseUpdateProductRequest parses a partial-update multipart form. Only
// fields present in the form are set; everything else stays nil so the
// stored values survive the merge.
func (rv *RequestValidator) ParseUpdateProductRequest(c *gin.Context) (services.ProductUpdateRequest, *multipart.FileHeader, error) {
	req := services.ProductUpdateRequest{}

	if err := c.Request.ParseMultipartForm(maxFormMemory); err != nil {
		return req, nil, errors.New("expected multipart form data")
	}

	values := c.Request.MultipartForm.Value
	if v, ok := firstValue(values, "name"); ok {
		req.Name = &v
	}
	if v, ok := firstValue(values, "price"); ok {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return req, nil, errors.New("invalid price value")
		}
		req.Price = &price
	}
	if v, ok := firstValue(values, "category"); ok {
		req.Category = &v
	}
	if v, ok := firstValue(values, "description"); ok {
		req.Description = &v
	}
	if v, ok := firstValue(values, "inStock"); ok {
		inStock, err := strconv.ParseBool(v)
		if err != nil {
			return req, nil, errors.New("invalid boolean value for 'inStock'")
		}
		req.InStock = &inStock
	}

	image, err := formImage(c)
	if err != nil {
		return req, nil, err
	}

	if req.IsEmpty() && image == nil {
		return req, nil, errors.New("no update fields provided")
	}

	return req, image, nil
}

func firstValue(values map[string][]string, key string) (string, bool) {
	if vs, ok := values[key]; ok && len(vs) > 0 {
		return vs[0], true
	}
	return "", false
}

// formImage returns the optional single file under the "image" field.
func formImage(c *gin.Context) (*multipart.FileHeader, error) {
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, nil
	}
	return fh, nil
}
