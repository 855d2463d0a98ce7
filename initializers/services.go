package initializers

import (
	"time"

	"github.com/Kariqs/satshop-api/services"
)

type AppServices struct {
	Catalog    *services.CatalogService
	Categories *services.CategoryService
	Cart       *services.CartService
	Promotions *services.PromotionService
	Orders     *services.OrderService
	Payments   *services.PaymentService
	Settings   *services.SettingsService
}

var Services AppServices

// BuildServices wires the services from the initialized globals.
func BuildServices() {
	var categoryCache services.Cache
	if Redis != nil {
		categoryCache = Redis
	}

	promotions := services.NewPromotionService(DB, Metrics)
	Services = AppServices{
		Catalog:    services.NewCatalogService(DB),
		Categories: services.NewCategoryService(DB, categoryCache, time.Duration(Config.Redis.CacheTTL)*time.Second, Metrics),
		Cart:       services.NewCartService(DB),
		Promotions: promotions,
		Orders:     services.NewOrderService(DB, promotions, Publisher, Metrics),
		Payments: services.NewPaymentService(DB, services.PaymentDeps{
			Processor:       Gateways.Processor,
			Checkout:        Gateways.Checkout,
			Publisher:       Publisher,
			Metrics:         Metrics,
			Mailer:          Gateways.Mailer,
			Promotions:      promotions,
			DefaultCurrency: Config.Stripe.DefaultCurrency,
			LogoURL:         Config.Mail.LogoURL,
		}),
		Settings: services.NewSettingsService(DB),
	}
}
