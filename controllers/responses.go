package controllers

import (
	"net/http"

	"github.com/Kariqs/satshop-api/logger"
	"github.com/Kariqs/satshop-api/services"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	msgInvalidInput        = "Invalid input"
	msgInternalServerError = "Internal server error"
)

func sendJSONResponse(ctx *gin.Context, status int, data any) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"error": message})
}

// sendServiceError maps a service error to its HTTP status. Unclassified
// errors are logged and hidden behind a generic 500.
func sendServiceError(ctx *gin.Context, err error) {
	switch services.ErrorCode(err) {
	case services.EINVALID:
		sendErrorResponse(ctx, http.StatusBadRequest, services.ErrorMessage(err))
	case services.ENOTFOUND:
		sendErrorResponse(ctx, http.StatusNotFound, services.ErrorMessage(err))
	case services.ECONFLICT:
		sendErrorResponse(ctx, http.StatusConflict, services.ErrorMessage(err))
	default:
		logger.Error(ctx.Request.Context(), "request failed", "path", ctx.FullPath(), "error", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
	}
}

func bindJSON(ctx *gin.Context, dest any) bool {
	if err := ctx.ShouldBindJSON(dest); err != nil {
		logger.Debug(ctx.Request.Context(), "bind error", "path", ctx.FullPath(), "error", err)
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return false
	}
	return true
}

// currentUserID returns the user id carried by the request's token, if any.
func currentUserID(ctx *gin.Context) string {
	value, exists := ctx.Get("user")
	if !exists {
		return ""
	}
	claims, ok := value.(jwt.MapClaims)
	if !ok {
		return ""
	}
	id, _ := claims["user_id"].(string)
	return id
}

func isAdmin(ctx *gin.Context) bool {
	value, exists := ctx.Get("user")
	if !exists {
		return false
	}
	claims, ok := value.(jwt.MapClaims)
	if !ok {
		return false
	}
	role, _ := claims["role"].(string)
	return role == "admin"
}
