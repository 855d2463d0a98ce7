package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/Kariqs/satshop-api/initializers"
	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the SAT SHOP API. IPTV, VOD and charing subscriptions.

AUTH      /auth/register, /auth/login, /auth/profile/:uid, /auth/forgot-password, /auth/reset-password/:resetToken
PRODUCTS  /products, /products/search, /products/category/:categoryId, /products/:productId/reviews
CATEGORY  /categories, /categories/:categoryId/products
CART      /cart/:userId, /cart/:userId/items/:productId
ORDERS    /orders, /orders/user/:userId, /orders/:orderId/status, /orders/:orderId/delivered
PAYMENTS  /payments/create-payment-intent, /payments/webhook, /payments/chargily/checkout, /payments/chargily/webhook
PROMOS    /promotions, /promotions/verify
SETTINGS  /settings/logo, /settings/slides`

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": message})
}

// Health reports database reachability.
func Health(ctx *gin.Context) {
	status := gin.H{"status": "ok", "database": "up"}

	sqlDB, err := initializers.DB.DB()
	if err == nil {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()
		err = sqlDB.PingContext(pingCtx)
	}
	if err != nil {
		status["status"] = "degraded"
		status["database"] = "down"
		sendJSONResponse(ctx, http.StatusServiceUnavailable, status)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, status)
}
