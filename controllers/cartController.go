package controllers

import (
	"net/http"

	"github.com/Kariqs/satshop-api/initializers"
	"github.com/gin-gonic/gin"
)

type cartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type cartQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func AddToCart(ctx *gin.Context) {
	var req cartItemRequest
	if !bindJSON(ctx, &req) {
		return
	}

	userID := ctx.Param("userId")
	reqCtx := ctx.Request.Context()
	if err := initializers.Services.Cart.AddItem(reqCtx, userID, req.ProductID, req.Quantity); err != nil {
		sendServiceError(ctx, err)
		return
	}

	cart, err := initializers.Services.Cart.GetCart(reqCtx, userID)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, cart)
}

func GetCart(ctx *gin.Context) {
	cart, err := initializers.Services.Cart.GetCart(ctx.Request.Context(), ctx.Param("userId"))
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, cart)
}

// UpdateCartItem sets a line's quantity. Zero or less removes the line.
func UpdateCartItem(ctx *gin.Context) {
	var req cartQuantityRequest
	if !bindJSON(ctx, &req) {
		return
	}

	userID := ctx.Param("userId")
	reqCtx := ctx.Request.Context()
	if err := initializers.Services.Cart.UpdateQuantity(reqCtx, userID, ctx.Param("productId"), *req.Quantity); err != nil {
		sendServiceError(ctx, err)
		return
	}

	cart, err := initializers.Services.Cart.GetCart(reqCtx, userID)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, cart)
}

func RemoveCartItem(ctx *gin.Context) {
	userID := ctx.Param("userId")
	reqCtx := ctx.Request.Context()
	if err := initializers.Services.Cart.RemoveItem(reqCtx, userID, ctx.Param("productId")); err != nil {
		sendServiceError(ctx, err)
		return
	}

	cart, err := initializers.Services.Cart.GetCart(reqCtx, userID)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, cart)
}

func ClearCart(ctx *gin.Context) {
	if err := initializers.Services.Cart.ClearCart(ctx.Request.Context(), ctx.Param("userId")); err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart cleared"})
}
