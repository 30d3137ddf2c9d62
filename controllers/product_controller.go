package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductController exposes the product CRUD operations over HTTP. Each
// handler is a thin validate → service call → respond orchestration; no
// state is held across requests.
type ProductController struct {
	service   ProductServiceAPI
	validator *RequestValidator
	cache     *CacheManager
}

// NewProductController wires the controller. rdb may be nil; caching then
// degrades to a no-op.
func NewProductController(service ProductServiceAPI, rdb *redis.Client) *ProductController {
	return &ProductController{
		service:   service,
		validator: NewRequestValidator(),
		cache:     NewCacheManager(rdb),
	}
}

// GetProducts returns the full product collection.
func (ctrl *ProductController) GetProducts(c *gin.Context) {
	ctx := c.Request.Context()

	if products, ok := ctrl.cache.GetProductList(ctx); ok {
		c.JSON(http.StatusOK, products)
		return
	}

	products, err := ctrl.service.ListProducts(ctx)
	if err != nil {
		zap.L().Error("Error finding products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	ctrl.cache.SetProductListAsync(products)
	c.JSON(http.StatusOK, products)
}

// GetProductByID returns a single product.
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	id := c.Param("id")
	productID, err := uuid.Parse(id)
	if err != nil {
		zap.L().Warn("Invalid UUID format", zap.String("id", id))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid UUID format"})
		return
	}

	ctx := c.Request.Context()
	if product, ok := ctrl.cache.GetProduct(ctx, id); ok {
		c.JSON(http.StatusOK, product)
		return
	}

	product, err := ctrl.service.GetProduct(ctx, productID)
	if err != nil {
		handleServiceError(c, err, "Failed to fetch product")
		return
	}

	ctrl.cache.SetProductAsync(id, product)
	c.JSON(http.StatusOK, product)
}

// CreateProduct creates a new product from a multipart form, uploading the
// optional image before the record is written.
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	req, image, err := ctrl.validator.ParseCreateProductRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := ctrl.service.CreateProduct(c.Request.Context(), req, image)
	if err != nil {
		handleServiceError(c, err, "Failed to create product")
		return
	}

	ctrl.cache.Invalidate(c.Request.Context())

	zap.L().Info("Product created",
		zap.String("id", product.ID.String()),
		zap.String("name", product.Name),
	)
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct merges any subset of fields from a multipart form into the
// stored record. A new image replaces the old reference.
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	id := c.Param("id")
	productID, err := uuid.Parse(id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid UUID format"})
		return
	}

	req, image, err := ctrl.validator.ParseUpdateProductRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := ctrl.service.UpdateProduct(c.Request.Context(), productID, req, image)
	if err != nil {
		handleServiceError(c, err, "Failed to update product")
		return
	}

	ctrl.cache.InvalidateProduct(c.Request.Context(), id)
	c.JSON(http.StatusOK, product)
}

// DeleteProduct permanently removes a product. The referenced image file is
// left on disk; the orphan sweeper handles it if enabled.
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	id := c.Param("id")
	productID, err := uuid.Parse(id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid UUID format"})
		return
	}

	if err := ctrl.service.DeleteProduct(c.Request.Context(), productID); err != nil {
		handleServiceError(c, err, "Failed to delete product")
		return
	}

	ctrl.cache.InvalidateProduct(c.Request.Context(), id)
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
