package controllers

import (
	"net/http"

	"github.com/Kariqs/satshop-api/initializers"
	"github.com/Kariqs/satshop-api/models"
	"github.com/Kariqs/satshop-api/services"
	"github.com/gin-gonic/gin"
)

func GetLogo(ctx *gin.Context) {
	logo, err := initializers.Services.Settings.GetLogo(ctx.Request.Context())
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, logo)
}

func UpdateLogo(ctx *gin.Context) {
	var input models.LogoSettings
	if !bindJSON(ctx, &input) {
		return
	}

	logo, err := initializers.Services.Settings.UpdateLogo(ctx.Request.Context(), input)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, logo)
}

func GetSlides(ctx *gin.Context) {
	slides, err := initializers.Services.Settings.ListSlides(ctx.Request.Context())
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, slides)
}

func CreateSlide(ctx *gin.Context) {
	var input services.SlideInput
	if !bindJSON(ctx, &input) {
		return
	}

	slide, err := initializers.Services.Settings.CreateSlide(ctx.Request.Context(), input)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, slide)
}

func UpdateSlide(ctx *gin.Context) {
	var input services.SlideInput
	if !bindJSON(ctx, &input) {
		return
	}

	slide, err := initializers.Services.Settings.UpdateSlide(ctx.Request.Context(), ctx.Param("slideId"), input)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, slide)
}

func DeleteSlide(ctx *gin.Context) {
	if err := initializers.Services.Settings.DeleteSlide(ctx.Request.Context(), ctx.Param("slideId")); err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Slide deleted successfully"})
}
