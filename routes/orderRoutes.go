package routes

import (
	"github.com/Kariqs/satshop-api/controllers"
	"github.com/Kariqs/satshop-api/middlewares"
	"github.com/gin-gonic/gin"
)

func OrderRoutes(server *gin.Engine) {
	orders := server.Group("/orders", middlewares.RequireAuth())
	{
		orders.POST("", controllers.CreateOrder)
		orders.GET("/user/:userId", middlewares.RequireSelfOrAdmin("userId"), controllers.GetUserOrders)
		orders.GET("/:orderId", controllers.GetOrder)

		admin := orders.Group("", middlewares.RequireAdmin())
		admin.GET("", controllers.ListOrders)
		admin.PUT("/:orderId/status", controllers.UpdateOrderStatus)
		admin.PUT("/:orderId/delivered", controllers.MarkOrderDelivered)
	}
}

func PromotionRoutes(server *gin.Engine) {
	promotions := server.Group("/promotions")
	{
		promotions.POST("/verify", controllers.VerifyPromotion)

		admin := promotions.Group("", middlewares.RequireAuth(), middlewares.RequireAdmin())
		admin.POST("", controllers.CreatePromotion)
		admin.PUT("/:promotionId/deactivate", controllers.DeactivatePromotion)
	}
}
