package middlewares

import (
	"net/http"
	"strings"

	"github.com/Kariqs/satshop-api/initializers"
	"github.com/Kariqs/satshop-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// RequireAuth validates the Bearer token and stores its claims under "user".
func RequireAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
			return
		}

		claims, err := utils.ParseJWT(tokenString, initializers.Config.JWT.Secret)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		ctx.Set("user", claims)
		ctx.Next()
	}
}

// RequireSelfOrAdmin lets a user reach routes whose param names their own
// id. Admins may reach any user's routes.
func RequireSelfOrAdmin(param string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims, ok := userClaims(ctx)
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
			return
		}

		if role, _ := claims["role"].(string); role == "admin" {
			ctx.Next()
			return
		}
		if userID, _ := claims["user_id"].(string); userID == "" || userID != ctx.Param(param) {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}

		ctx.Next()
	}
}

func userClaims(ctx *gin.Context) (jwt.MapClaims, bool) {
	value, exists := ctx.Get("user")
	if !exists {
		return nil, false
	}
	claims, ok := value.(jwt.MapClaims)
	return claims, ok
}
