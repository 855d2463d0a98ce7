package routes

import (
	"github.com/Kariqs/satshop-api/controllers"
	"github.com/Kariqs/satshop-api/middlewares"
	"github.com/gin-gonic/gin"
)

func CartRoutes(server *gin.Engine) {
	cart := server.Group("/cart/:userId", middlewares.RequireAuth(), middlewares.RequireSelfOrAdmin("userId"))
	{
		cart.GET("", controllers.GetCart)
		cart.DELETE("", controllers.ClearCart)
		cart.POST("/items", controllers.AddToCart)
		cart.PUT("/items/:productId", controllers.UpdateCartItem)
		cart.DELETE("/items/:productId", controllers.RemoveCartItem)
	}
}
