package initializers

import (
	"context"
	"time"

	"github.com/Kariqs/satshop-api/gateways"
	"github.com/Kariqs/satshop-api/logger"
	"github.com/Kariqs/satshop-api/services"
	"github.com/Kariqs/satshop-api/utils"
)

// PaymentGateways holds the external collaborators the services and
// webhook handlers talk to. Nil fields disable the matching feature.
type PaymentGateways struct {
	Processor       services.PaymentProcessor
	Checkout        services.CheckoutProvider
	StripeWebhook   services.WebhookParser
	ChargilyWebhook services.WebhookParser
	Storage         gateways.ObjectStorage
	Mailer          services.Mailer
}

var Gateways PaymentGateways

func InitGateways() {
	ctx := context.Background()

	sc := Config.Stripe
	if sc.SecretKey == "" {
		logger.Warn(ctx, "stripe secret key missing, payment intents and refunds will fail")
	}
	stripe := gateways.NewStripeGateway(sc.SecretKey, sc.WebhookSecret)
	Gateways.Processor = stripe
	Gateways.StripeWebhook = stripe

	cc := Config.Chargily
	chargily := gateways.NewChargilyGateway(gateways.ChargilyConfig{
		BaseURL:    cc.BaseURL,
		SecretKey:  cc.SecretKey,
		SuccessURL: cc.SuccessURL,
		FailureURL: cc.FailureURL,
		WebhookURL: cc.WebhookURL,
		Timeout:    time.Duration(cc.Timeout) * time.Second,
	})
	Gateways.Checkout = chargily
	Gateways.ChargilyWebhook = chargily

	if Config.S3.Bucket != "" {
		storage, err := gateways.NewS3Storage(ctx, Config.S3.Bucket, Config.S3.Region)
		if err != nil {
			logger.Warn(ctx, "s3 unavailable, image uploads are disabled", "error", err)
		} else {
			Gateways.Storage = storage
		}
	}

	mc := Config.Mail
	if mc.Enabled {
		Gateways.Mailer = utils.NewSMTPMailer(utils.MailConfig{
			From:         mc.From,
			Password:     mc.Password,
			SMTPHost:     mc.SMTPHost,
			SMTPAddress:  mc.SMTPAddress,
			TemplatesDir: mc.TemplatesDir,
		})
	}
}
