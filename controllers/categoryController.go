package controllers

import (
	"net/http"
	"strconv"

	"github.com/Kariqs/satshop-api/initializers"
	"github.com/Kariqs/satshop-api/models"
	"github.com/Kariqs/satshop-api/services"
	"github.com/gin-gonic/gin"
)

func CreateCategory(ctx *gin.Context) {
	var input models.CategoryInput
	if !bindJSON(ctx, &input) {
		return
	}

	category, err := initializers.Services.Categories.CreateCategory(ctx.Request.Context(), input)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, category)
}

// GetCategories returns the category tree.
func GetCategories(ctx *gin.Context) {
	tree, err := initializers.Services.Categories.Tree(ctx.Request.Context())
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, tree)
}

func UpdateCategory(ctx *gin.Context) {
	var input models.CategoryInput
	if !bindJSON(ctx, &input) {
		return
	}

	category, err := initializers.Services.Categories.UpdateCategory(ctx.Request.Context(), ctx.Param("categoryId"), input)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, category)
}

func DeleteCategory(ctx *gin.Context) {
	if err := initializers.Services.Categories.DeleteCategory(ctx.Request.Context(), ctx.Param("categoryId")); err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

func GetCategoryProducts(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))

	result, err := initializers.Services.Categories.CategoryProducts(ctx.Request.Context(), ctx.Param("categoryId"), services.PageQuery{
		Page:  page,
		Limit: limit,
		Sort:  ctx.Query("sort"),
		Order: ctx.Query("order"),
	})
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, result)
}
