package routes

import (
	"time"

	"github.com/Kariqs/satshop-api/initializers"
	"github.com/Kariqs/satshop-api/metrics"
	"github.com/Kariqs/satshop-api/middlewares"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// NewRouter builds the engine with the global middleware stack and every
// route group. It reads the initializers globals.
func NewRouter() *gin.Engine {
	cfg := initializers.Config

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}

	server := gin.New()
	server.Use(
		middlewares.Recovery(),
		middlewares.RequestLogger(initializers.Metrics),
		cors.New(corsConfig),
	)

	var rdb *redis.Client
	if initializers.Redis != nil {
		rdb = initializers.Redis.Client()
	}
	server.Use(middlewares.RateLimit(rdb, cfg.RateLimit))

	if initializers.Registry != nil {
		server.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler(initializers.Registry)))
	}

	DefaultRoutes(server)
	AuthRoutes(server)
	ProductRoutes(server)
	CategoryRoutes(server)
	CartRoutes(server)
	OrderRoutes(server)
	PromotionRoutes(server)
	PaymentRoutes(server)
	SettingsRoutes(server)
	return server
}
