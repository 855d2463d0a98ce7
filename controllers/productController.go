package controllers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/Kariqs/satshop-api/initializers"
	"github.com/Kariqs/satshop-api/logger"
	"github.com/Kariqs/satshop-api/models"
	"github.com/Kariqs/satshop-api/services"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func CreateProduct(ctx *gin.Context) {
	var input models.ProductInput
	if !bindJSON(ctx, &input) {
		return
	}

	product, err := initializers.Services.Catalog.CreateProduct(ctx.Request.Context(), input)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, product)
}

func UpdateProduct(ctx *gin.Context) {
	var input models.ProductInput
	if !bindJSON(ctx, &input) {
		return
	}

	product, err := initializers.Services.Catalog.UpdateProduct(ctx.Request.Context(), ctx.Param("productId"), input)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, product)
}

func DeleteProduct(ctx *gin.Context) {
	if err := initializers.Services.Catalog.DeleteProduct(ctx.Request.Context(), ctx.Param("productId")); err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func GetProduct(ctx *gin.Context) {
	product, err := initializers.Services.Catalog.GetProduct(ctx.Request.Context(), ctx.Param("productId"))
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, product)
}

// SearchProducts handles ?query=&category=&minPrice=&maxPrice=.
func SearchProducts(ctx *gin.Context) {
	filter := services.ProductFilter{
		Query:      ctx.Query("query"),
		CategoryID: ctx.Query("category"),
	}

	var err error
	if filter.MinPrice, err = priceParam(ctx, "minPrice"); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid minPrice")
		return
	}
	if filter.MaxPrice, err = priceParam(ctx, "maxPrice"); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid maxPrice")
		return
	}

	products, err := initializers.Services.Catalog.SearchProducts(ctx.Request.Context(), filter)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, products)
}

func priceParam(ctx *gin.Context, name string) (*decimal.Decimal, error) {
	raw := ctx.Query(name)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func GetProductsByCategory(ctx *gin.Context) {
	products, err := initializers.Services.Catalog.ProductsByCategory(ctx.Request.Context(), ctx.Param("categoryId"))
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, products)
}

// UploadProductImages stores the multipart "images" files and appends their
// URLs to the product. Files that fail to upload are listed in "failed".
func UploadProductImages(ctx *gin.Context) {
	storage := initializers.Gateways.Storage
	if storage == nil {
		sendErrorResponse(ctx, http.StatusServiceUnavailable, "Image storage is not configured")
		return
	}

	productID := ctx.Param("productId")
	reqCtx := ctx.Request.Context()
	if _, err := initializers.Services.Catalog.GetProduct(reqCtx, productID); err != nil {
		sendServiceError(ctx, err)
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid form data")
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "No files uploaded")
		return
	}

	uploaded := []string{}
	failed := []string{}
	for _, file := range files {
		f, err := file.Open()
		if err != nil {
			logger.Warn(reqCtx, "failed to open upload", "file", file.Filename, "error", err)
			failed = append(failed, file.Filename)
			continue
		}

		key := fmt.Sprintf("products/%s/%s-%s", productID, time.Now().Format("20060102150405"), filepath.Base(file.Filename))
		location, err := storage.Upload(reqCtx, key, f, file.Header.Get("Content-Type"))
		f.Close()
		if err != nil {
			logger.Warn(reqCtx, "failed to upload product image", "file", file.Filename, "error", err)
			failed = append(failed, file.Filename)
			continue
		}
		uploaded = append(uploaded, location)
	}

	product, err := initializers.Services.Catalog.AppendImages(reqCtx, productID, uploaded)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": "Files processed",
		"urls":    uploaded,
		"failed":  failed,
		"product": product,
	})
}

func AddReview(ctx *gin.Context) {
	var input services.ReviewInput
	if !bindJSON(ctx, &input) {
		return
	}
	if input.UserID == "" || !isAdmin(ctx) {
		input.UserID = currentUserID(ctx)
	}

	review, err := initializers.Services.Catalog.AddReview(ctx.Request.Context(), ctx.Param("productId"), input)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, review)
}

func GetReviews(ctx *gin.Context) {
	summary, err := initializers.Services.Catalog.ListReviews(ctx.Request.Context(), ctx.Param("productId"))
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, summary)
}
