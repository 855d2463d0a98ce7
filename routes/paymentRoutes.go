package routes

import (
	"github.com/Kariqs/satshop-api/controllers"
	"github.com/Kariqs/satshop-api/middlewares"
	"github.com/gin-gonic/gin"
)

func PaymentRoutes(server *gin.Engine) {
	payments := server.Group("/payments")
	{
		// processors authenticate with signatures, not tokens
		payments.POST("/webhook", controllers.StripeWebhook)
		payments.POST("/chargily/webhook", controllers.ChargilyWebhook)

		payments.POST("/create-payment-intent", middlewares.RequireAuth(), controllers.CreatePaymentIntent)
		payments.POST("/chargily/checkout", middlewares.RequireAuth(), controllers.CreateChargilyCheckout)
		payments.GET("/user/:userId/history", middlewares.RequireAuth(), middlewares.RequireSelfOrAdmin("userId"), controllers.GetPaymentHistory)

		admin := payments.Group("", middlewares.RequireAuth(), middlewares.RequireAdmin())
		admin.GET("", controllers.ListPayments)
		admin.POST("/:paymentId/refund", controllers.RefundPayment)
	}
}
