package controllers

import (
	"net/http"

	"github.com/Kariqs/satshop-api/initializers"
	"github.com/Kariqs/satshop-api/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type verifyPromotionRequest struct {
	Code      string          `json:"code" binding:"required"`
	CartTotal decimal.Decimal `json:"cartTotal"`
}

func CreatePromotion(ctx *gin.Context) {
	var input models.PromotionInput
	if !bindJSON(ctx, &input) {
		return
	}

	promotion, err := initializers.Services.Promotions.CreatePromotion(ctx.Request.Context(), input)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, promotion)
}

// VerifyPromotion quotes a code against a cart total without consuming it.
func VerifyPromotion(ctx *gin.Context) {
	var req verifyPromotionRequest
	if !bindJSON(ctx, &req) {
		return
	}

	quote, err := initializers.Services.Promotions.VerifyPromotion(ctx.Request.Context(), req.Code, req.CartTotal)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, quote)
}

func DeactivatePromotion(ctx *gin.Context) {
	if err := initializers.Services.Promotions.DeactivatePromotion(ctx.Request.Context(), ctx.Param("promotionId")); err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Promotion deactivated"})
}
