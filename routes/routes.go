package routes

import (
	"catalog-service/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the product collection.
func RegisterRoutes(r *gin.Engine, productController *controllers.ProductController) {
	productRoutes := r.Group("/products")
	{
		productRoutes.GET("", productController.GetProducts)
		productRoutes.GET("/:id", productController.GetProductByID)
		productRoutes.POST("", productController.CreateProduct)
		productRoutes.PUT("/:id", productController.UpdateProduct)
		productRoutes.DELETE("/:id", productController.DeleteProduct)
	}
}
