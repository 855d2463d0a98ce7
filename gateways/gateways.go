// Package gateways talks to the payment processors and the object store.
package gateways

import "errors"

const (
	ProviderStripe   = "stripe"
	ProviderChargily = "chargily"
)

// Normalized outcome of a processor event.
const (
	PaymentSucceeded = "succeeded"
	PaymentFailed    = "failed"
	PaymentOther     = "other"
)

// ErrInvalidSignature is returned when a webhook payload fails verification.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// PaymentEvent is a verified webhook event reduced to what reconciliation needs.
type PaymentEvent struct {
	ID           string
	Provider     string
	Type         string
	Outcome      string
	OrderID      string
	PaymentID    string
	ErrorMessage string
}

type PaymentIntent struct {
	ID           string
	ClientSecret string
}

type Refund struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
	Status string `json:"status"`
}

type CheckoutRequest struct {
	OrderID     string
	Amount      int64
	Currency    string
	Description string
	SuccessURL  string
	FailureURL  string
}

type Checkout struct {
	ID          string `json:"id"`
	CheckoutURL string `json:"checkout_url"`
	Status      string `json:"status"`
}
