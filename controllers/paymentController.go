package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/Kariqs/satshop-api/gateways"
	"github.com/Kariqs/satshop-api/initializers"
	"github.com/Kariqs/satshop-api/logger"
	"github.com/Kariqs/satshop-api/services"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const maxWebhookBodyBytes = 65536

type paymentIntentRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	OrderID  string          `json:"orderId"`
}

type checkoutRequest struct {
	OrderID    string `json:"orderId" binding:"required"`
	SuccessURL string `json:"successUrl"`
	FailureURL string `json:"failureUrl"`
}

type refundRequest struct {
	Amount *decimal.Decimal `json:"amount"`
	Reason string           `json:"reason"`
}

func CreatePaymentIntent(ctx *gin.Context) {
	if initializers.Gateways.Processor == nil {
		sendErrorResponse(ctx, http.StatusServiceUnavailable, "Card payments are not configured")
		return
	}

	var req paymentIntentRequest
	if !bindJSON(ctx, &req) {
		return
	}

	intent, err := initializers.Services.Payments.CreatePaymentIntent(ctx.Request.Context(), req.Amount, req.Currency, req.OrderID)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"clientSecret": intent.ClientSecret})
}

func CreateChargilyCheckout(ctx *gin.Context) {
	if initializers.Gateways.Checkout == nil {
		sendErrorResponse(ctx, http.StatusServiceUnavailable, "Chargily payments are not configured")
		return
	}

	var req checkoutRequest
	if !bindJSON(ctx, &req) {
		return
	}

	checkout, err := initializers.Services.Payments.CreateCheckout(ctx.Request.Context(), req.OrderID, req.SuccessURL, req.FailureURL)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"checkoutUrl": checkout.CheckoutURL, "checkoutId": checkout.ID})
}

func StripeWebhook(ctx *gin.Context) {
	handleWebhook(ctx, gateways.ProviderStripe, initializers.Gateways.StripeWebhook, "Stripe-Signature")
}

func ChargilyWebhook(ctx *gin.Context) {
	handleWebhook(ctx, gateways.ProviderChargily, initializers.Gateways.ChargilyWebhook, "signature")
}

// handleWebhook verifies the raw body against the provider signature before
// anything is read from it, then reconciles the event.
func handleWebhook(ctx *gin.Context, provider string, parser services.WebhookParser, signatureHeader string) {
	reqCtx := ctx.Request.Context()
	if parser == nil {
		sendErrorResponse(ctx, http.StatusServiceUnavailable, "Webhook is not configured")
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Unable to read request body")
		return
	}

	event, err := parser.ParseWebhook(payload, ctx.GetHeader(signatureHeader))
	if err != nil {
		if errors.Is(err, gateways.ErrInvalidSignature) {
			initializers.Metrics.WebhookRejectedSignature(provider)
			logger.Warn(reqCtx, "webhook signature rejected", "provider", provider, "error", err)
			sendErrorResponse(ctx, http.StatusBadRequest, services.ErrInvalidSignature.Message)
			return
		}
		logger.Warn(reqCtx, "webhook payload rejected", "provider", provider, "error", err)
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid webhook payload")
		return
	}

	result, err := initializers.Services.Payments.ApplyPaymentEvent(reqCtx, event)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}

	response := gin.H{"received": true}
	if result.Duplicate {
		response["duplicate"] = true
	}
	sendJSONResponse(ctx, http.StatusOK, response)
}

func RefundPayment(ctx *gin.Context) {
	if initializers.Gateways.Processor == nil {
		sendErrorResponse(ctx, http.StatusServiceUnavailable, "Card payments are not configured")
		return
	}

	var req refundRequest
	if ctx.Request.ContentLength != 0 && !bindJSON(ctx, &req) {
		return
	}

	result, err := initializers.Services.Payments.Refund(ctx.Request.Context(), ctx.Param("paymentId"), req.Amount, req.Reason)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, result)
}

func GetPaymentHistory(ctx *gin.Context) {
	orders, err := initializers.Services.Payments.PaymentHistory(ctx.Request.Context(), ctx.Param("userId"))
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, orders)
}

// ListPayments is the admin payment tracker: orders with their payment data.
func ListPayments(ctx *gin.Context) {
	ListOrders(ctx)
}
