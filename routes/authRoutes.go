package routes

import (
	"github.com/Kariqs/satshop-api/controllers"
	"github.com/Kariqs/satshop-api/middlewares"
	"github.com/gin-gonic/gin"
)

func AuthRoutes(server *gin.Engine) {
	auth := server.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/forgot-password", controllers.SendPasswordResetLink)
		auth.POST("/reset-password/:resetToken", controllers.ResetPassword)

		profile := auth.Group("/profile/:uid", middlewares.RequireAuth(), middlewares.RequireSelfOrAdmin("uid"))
		profile.GET("", controllers.GetProfile)
		profile.PUT("", controllers.UpdateProfile)
	}
}
