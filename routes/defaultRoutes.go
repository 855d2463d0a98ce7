package routes

import (
	"github.com/Kariqs/satshop-api/controllers"
	"github.com/Kariqs/satshop-api/middlewares"
	"github.com/gin-gonic/gin"
)

func DefaultRoutes(server *gin.Engine) {
	server.GET("/", controllers.GetHome)
	server.GET("/health", controllers.Health)
}

func SettingsRoutes(server *gin.Engine) {
	settings := server.Group("/settings")
	{
		settings.GET("/logo", controllers.GetLogo)
		settings.GET("/slides", controllers.GetSlides)

		admin := settings.Group("", middlewares.RequireAuth(), middlewares.RequireAdmin())
		admin.PUT("/logo", controllers.UpdateLogo)
		admin.POST("/slides", controllers.CreateSlide)
		admin.PUT("/slides/:slideId", controllers.UpdateSlide)
		admin.DELETE("/slides/:slideId", controllers.DeleteSlide)
	}
}
