package routes

import (
	"github.com/Kariqs/satshop-api/controllers"
	"github.com/Kariqs/satshop-api/middlewares"
	"github.com/gin-gonic/gin"
)

func ProductRoutes(server *gin.Engine) {
	products := server.Group("/products")
	{
		products.GET("", controllers.SearchProducts)
		products.GET("/search", controllers.SearchProducts)
		products.GET("/category/:categoryId", controllers.GetProductsByCategory)
		products.GET("/:productId", controllers.GetProduct)
		products.GET("/:productId/reviews", controllers.GetReviews)
		products.POST("/:productId/reviews", middlewares.RequireAuth(), controllers.AddReview)

		admin := products.Group("", middlewares.RequireAuth(), middlewares.RequireAdmin())
		admin.POST("", controllers.CreateProduct)
		admin.PUT("/:productId", controllers.UpdateProduct)
		admin.DELETE("/:productId", controllers.DeleteProduct)
		admin.POST("/:productId/images", controllers.UploadProductImages)
	}
}

func CategoryRoutes(server *gin.Engine) {
	categories := server.Group("/categories")
	{
		categories.GET("", controllers.GetCategories)
		categories.GET("/:categoryId/products", controllers.GetCategoryProducts)

		admin := categories.Group("", middlewares.RequireAuth(), middlewares.RequireAdmin())
		admin.POST("", controllers.CreateCategory)
		admin.PUT("/:categoryId", controllers.UpdateCategory)
		admin.DELETE("/:categoryId", controllers.DeleteCategory)
	}
}
