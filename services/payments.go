package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Kariqs/satshop-api/events"
	"github.com/Kariqs/satshop-api/gateways"
	"github.com/Kariqs/satshop-api/logger"
	"github.com/Kariqs/satshop-api/metrics"
	"github.com/Kariqs/satshop-api/models"
	"github.com/Kariqs/satshop-api/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultRefundReason      = "requested_by_customer"
	checkoutCurrency         = "dzd"
	orderConfirmationMail    = "order_confirmation.html"
	orderConfirmationSubject = "Your SAT SHOP order is confirmed"
)

type PaymentDeps struct {
	Processor       PaymentProcessor
	Checkout        CheckoutProvider
	Publisher       events.Publisher
	Metrics         *metrics.Metrics
	Mailer          Mailer
	Promotions      *PromotionService
	DefaultCurrency string
	LogoURL         string
}

type PaymentService struct {
	db   *gorm.DB
	deps PaymentDeps
	now  func() time.Time
}

func NewPaymentService(db *gorm.DB, deps PaymentDeps) *PaymentService {
	if deps.Publisher == nil {
		deps.Publisher = events.NopPublisher{}
	}
	if deps.DefaultCurrency == "" {
		deps.DefaultCurrency = "eur"
	}
	if deps.Promotions == nil {
		deps.Promotions = NewPromotionService(db, deps.Metrics)
	}
	return &PaymentService{db: db, deps: deps, now: time.Now}
}

type OversoldLine struct {
	ProductID string `json:"productId"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// ReconcileResult describes what applying a processor event did.
type ReconcileResult struct {
	EventID   string         `json:"eventId"`
	OrderID   string         `json:"orderId,omitempty"`
	Status    string         `json:"status,omitempty"`
	Duplicate bool           `json:"duplicate"`
	Applied   bool           `json:"applied"`
	Oversold  []OversoldLine `json:"oversold,omitempty"`
}

type RefundResult struct {
	Refund  *gateways.Refund `json:"refund"`
	OrderID string           `json:"orderId,omitempty"`
	Status  string           `json:"status,omitempty"`
}

// toMinorUnits converts a major-unit amount to cents, rounding half away from zero.
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// CreatePaymentIntent asks the processor for an intent tagged with orderID.
// Nothing is persisted locally.
func (s *PaymentService) CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, currency, orderID string) (*gateways.PaymentIntent, error) {
	if !amount.IsPositive() {
		return nil, Errorf(EINVALID, "Amount must be greater than zero")
	}
	if orderID == "" {
		return nil, Errorf(EINVALID, "orderId is required")
	}
	if currency == "" {
		currency = s.deps.DefaultCurrency
	}

	intent, err := s.deps.Processor.CreatePaymentIntent(ctx, toMinorUnits(amount), strings.ToLower(currency), orderID)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "payment intent created", "order_id", orderID, "payment_id", intent.ID)
	return intent, nil
}

// CreateCheckout opens a hosted checkout for the order's total.
func (s *PaymentService) CreateCheckout(ctx context.Context, orderID, successURL, failureURL string) (*gateways.Checkout, error) {
	var order models.Order
	if err := findOrder(s.db.WithContext(ctx), orderID, &order); err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusPaymentFailed {
		return nil, Errorf(ECONFLICT, "Order is already %s", order.Status)
	}

	checkout, err := s.deps.Checkout.CreateCheckout(ctx, gateways.CheckoutRequest{
		OrderID:     order.ID,
		Amount:      order.Total.Round(0).IntPart(),
		Currency:    checkoutCurrency,
		Description: "SAT SHOP order " + order.ID,
		SuccessURL:  successURL,
		FailureURL:  failureURL,
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "chargily checkout created", "order_id", order.ID, "checkout_id", checkout.ID)
	return checkout, nil
}

// ApplyPaymentEvent reconciles a verified processor event with the store.
// The ledger insert, the order transition and the stock decrements commit
// together, so a redelivered event id is a no-op.
func (s *PaymentService) ApplyPaymentEvent(ctx context.Context, ev *gateways.PaymentEvent) (*ReconcileResult, error) {
	if ev.ID == "" {
		return nil, Errorf(EINVALID, "Event id is missing")
	}
	if ev.Outcome != gateways.PaymentOther && ev.OrderID == "" {
		return nil, ErrMissingOrderReference
	}

	result := &ReconcileResult{EventID: ev.ID, OrderID: ev.OrderID}
	var order models.Order

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry := models.ProcessedEvent{
			EventID:     ev.ID,
			Provider:    ev.Provider,
			EventType:   ev.Type,
			OrderID:     ev.OrderID,
			ProcessedAt: s.now(),
		}
		inserted := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry)
		if inserted.Error != nil {
			return inserted.Error
		}
		if inserted.RowsAffected == 0 {
			return ErrDuplicateEvent
		}

		switch ev.Outcome {
		case gateways.PaymentSucceeded:
			return s.markPaid(ctx, tx, ev, &order, result)
		case gateways.PaymentFailed:
			return s.markFailed(ctx, tx, ev, &order, result)
		}
		return nil
	})

	if errors.Is(err, ErrDuplicateEvent) {
		s.deps.Metrics.WebhookDuplicate(ev.Provider)
		logger.Info(ctx, "payment event already processed", "event_id", ev.ID, "provider", ev.Provider)
		result.Duplicate = true
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	if result.Applied {
		s.afterCommit(ctx, ev, &order, result)
	}
	return result, nil
}

func (s *PaymentService) markPaid(ctx context.Context, tx *gorm.DB, ev *gateways.PaymentEvent, order *models.Order, result *ReconcileResult) error {
	if err := findOrder(tx, ev.OrderID, order); err != nil {
		return err
	}
	result.Status = order.Status

	if !canSettle(order.Status) {
		logger.Warn(ctx, "payment success for settled order ignored", "order_id", order.ID, "status", order.Status, "event_id", ev.ID)
		return nil
	}

	paidAt := s.now()
	updated := tx.Model(&models.Order{}).
		Where("id = ? AND status IN ?", order.ID, []string{models.OrderStatusPending, models.OrderStatusPaymentFailed}).
		Updates(map[string]any{
			"status":        models.OrderStatusPaid,
			"payment_id":    ev.PaymentID,
			"paid_at":       paidAt,
			"payment_error": "",
		})
	if updated.Error != nil {
		return updated.Error
	}
	if updated.RowsAffected == 0 {
		return nil
	}

	order.Status = models.OrderStatusPaid
	order.PaymentID = ev.PaymentID
	order.PaidAt = &paidAt
	order.PaymentError = ""
	result.Status = order.Status
	result.Applied = true

	for _, item := range order.Items {
		line, err := decrementStock(tx, item)
		if err != nil {
			return err
		}
		if line != nil {
			logger.Warn(ctx, "stock oversold", "order_id", order.ID, "product_id", line.ProductID, "requested", line.Requested, "available", line.Available)
			result.Oversold = append(result.Oversold, *line)
		}
	}

	if order.PromotionCode != "" {
		if _, err := s.deps.Promotions.redeemInTx(ctx, tx, order.PromotionCode); err != nil {
			if ErrorCode(err) == EINTERNAL {
				return err
			}
			// the buyer already paid the discounted total
			logger.Warn(ctx, "promotion use not recorded", "order_id", order.ID, "code", order.PromotionCode, "reason", ErrorMessage(err))
		}
	}
	return nil
}

// decrementStock takes item.Quantity off the product's stock, flooring at
// zero. It reports the line when stock was short.
func decrementStock(tx *gorm.DB, item models.OrderItem) (*OversoldLine, error) {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected > 0 {
		return nil, nil
	}

	var product models.Product
	if err := tx.Select("id", "stock").Where("id = ?", item.ProductID).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// the product was deleted after the order was placed
			return nil, nil
		}
		return nil, err
	}

	if product.Stock > 0 {
		if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).UpdateColumn("stock", 0).Error; err != nil {
			return nil, err
		}
	}
	return &OversoldLine{ProductID: item.ProductID, Requested: item.Quantity, Available: product.Stock}, nil
}

func (s *PaymentService) markFailed(ctx context.Context, tx *gorm.DB, ev *gateways.PaymentEvent, order *models.Order, result *ReconcileResult) error {
	if err := findOrder(tx, ev.OrderID, order); err != nil {
		return err
	}
	result.Status = order.Status

	if !canSettle(order.Status) {
		logger.Warn(ctx, "payment failure for settled order ignored", "order_id", order.ID, "status", order.Status, "event_id", ev.ID)
		return nil
	}

	updated := tx.Model(&models.Order{}).
		Where("id = ? AND status IN ?", order.ID, []string{models.OrderStatusPending, models.OrderStatusPaymentFailed}).
		Updates(map[string]any{
			"status":        models.OrderStatusPaymentFailed,
			"payment_error": ev.ErrorMessage,
			"updated_at":    s.now(),
		})
	if updated.Error != nil {
		return updated.Error
	}
	if updated.RowsAffected == 0 {
		return nil
	}

	order.Status = models.OrderStatusPaymentFailed
	order.PaymentError = ev.ErrorMessage
	result.Status = order.Status
	result.Applied = true
	return nil
}

func canSettle(status string) bool {
	return status == models.OrderStatusPending || status == models.OrderStatusPaymentFailed
}

func canRefund(status string) bool {
	return status == models.OrderStatusPaid || status == models.OrderStatusPartiallyRefunded
}

func (s *PaymentService) afterCommit(ctx context.Context, ev *gateways.PaymentEvent, order *models.Order, result *ReconcileResult) {
	switch order.Status {
	case models.OrderStatusPaid:
		s.deps.Metrics.PaymentProcessed(ev.Provider, gateways.PaymentSucceeded)
		s.deps.Metrics.Oversold(len(result.Oversold))
		logger.Info(ctx, "order paid", "order_id", order.ID, "payment_id", ev.PaymentID, "provider", ev.Provider)

		s.publish(ctx, events.OrderPaid, order.ID, events.OrderPaidEvent{
			OrderID:   order.ID,
			UserID:    order.UserID,
			PaymentID: ev.PaymentID,
			Provider:  ev.Provider,
			PaidAt:    *order.PaidAt,
		})
		for _, line := range result.Oversold {
			s.publish(ctx, events.StockOversold, line.ProductID, events.StockOversoldEvent{
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Requested: line.Requested,
				Available: line.Available,
			})
		}
		s.sendConfirmation(ctx, order)

	case models.OrderStatusPaymentFailed:
		s.deps.Metrics.PaymentProcessed(ev.Provider, gateways.PaymentFailed)
		logger.Info(ctx, "order payment failed", "order_id", order.ID, "reason", ev.ErrorMessage, "provider", ev.Provider)
		s.publish(ctx, events.OrderPaymentFailed, order.ID, events.OrderPaymentFailedEvent{OrderID: order.ID, Reason: ev.ErrorMessage})
	}
}

// sendConfirmation mails the buyer. Failures are logged only.
func (s *PaymentService) sendConfirmation(ctx context.Context, order *models.Order) {
	if s.deps.Mailer == nil {
		return
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", order.UserID).First(&user).Error; err != nil {
		logger.Warn(ctx, "order confirmation skipped, user lookup failed", "order_id", order.ID, "error", err)
		return
	}

	data := utils.EmailData{
		Name:    user.DisplayName,
		Message: "We received your payment. Your access details will be delivered shortly.",
		LogoURL: s.deps.LogoURL,
		OrderID: order.ID,
		Total:   order.Total.StringFixed(2),
	}
	if data.Name == "" {
		data.Name = user.Email
	}
	for _, item := range order.Items {
		data.Items = append(data.Items, utils.EmailItem{Name: item.Name, Quantity: item.Quantity, Price: item.Price.StringFixed(2)})
	}

	if err := s.deps.Mailer.SendEmail(user.Email, orderConfirmationSubject, data, orderConfirmationMail); err != nil {
		logger.Warn(ctx, "failed to send order confirmation", "order_id", order.ID, "error", err)
		return
	}
	logger.Info(ctx, "order confirmation sent", "order_id", order.ID, "email", user.Email)
}

// Refund refunds paymentID through the processor, fully when amount is nil,
// then marks the order carrying that payment id. Only paid or partially
// refunded orders can be refunded. Stock is not restored.
func (s *PaymentService) Refund(ctx context.Context, paymentID string, amount *decimal.Decimal, reason string) (*RefundResult, error) {
	var minor int64
	if amount != nil {
		if !amount.IsPositive() {
			return nil, Errorf(EINVALID, "Refund amount must be greater than zero")
		}
		minor = toMinorUnits(*amount)
	}
	if reason == "" {
		reason = defaultRefundReason
	}

	var current models.Order
	err := s.db.WithContext(ctx).Where("payment_id = ?", paymentID).First(&current).Error
	switch {
	case err == nil:
		if !canRefund(current.Status) {
			return nil, Errorf(ECONFLICT, "Order is %s and cannot be refunded", current.Status)
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	refund, err := s.deps.Processor.Refund(ctx, paymentID, minor, reason)
	if err != nil {
		return nil, err
	}

	partial := amount != nil
	status := models.OrderStatusRefunded
	if partial {
		status = models.OrderStatusPartiallyRefunded
	}

	result := &RefundResult{Refund: refund}
	var order models.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("payment_id = ?", paymentID).First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		refundedAt := s.now()
		updated := tx.Model(&models.Order{}).
			Where("id = ? AND status IN ?", order.ID, []string{models.OrderStatusPaid, models.OrderStatusPartiallyRefunded}).
			Updates(map[string]any{
				"status":          status,
				"refund_id":       refund.ID,
				"refunded_amount": order.RefundedAmount.Add(decimal.New(refund.Amount, -2)),
				"refunded_at":     refundedAt,
			})
		if updated.Error != nil {
			return updated.Error
		}
		if updated.RowsAffected == 0 {
			logger.Warn(ctx, "refund issued but order left unchanged", "order_id", order.ID, "status", order.Status, "refund_id", refund.ID)
			return nil
		}
		result.OrderID = order.ID
		result.Status = status
		return nil
	})
	if err != nil {
		// the processor already refunded; surface the refund alongside the error
		logger.Error(ctx, "refund issued but order update failed", "payment_id", paymentID, "refund_id", refund.ID, "error", err)
		return result, err
	}

	s.deps.Metrics.Refunded(partial)
	if result.OrderID == "" {
		logger.Warn(ctx, "refund issued for unknown payment", "payment_id", paymentID, "refund_id", refund.ID)
		return result, nil
	}

	logger.Info(ctx, "order refunded", "order_id", result.OrderID, "refund_id", refund.ID, "status", status)
	s.publish(ctx, events.OrderRefunded, result.OrderID, events.OrderRefundedEvent{
		OrderID:   result.OrderID,
		PaymentID: paymentID,
		RefundID:  refund.ID,
		Amount:    decimal.New(refund.Amount, -2),
		Partial:   partial,
	})
	return result, nil
}

// PaymentHistory returns the user's paid orders, most recently paid first.
func (s *PaymentService) PaymentHistory(ctx context.Context, userID string) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.OrderStatusPaid).
		Order("paid_at desc").
		Find(&orders).Error
	return orders, err
}

func (s *PaymentService) publish(ctx context.Context, eventType, key string, payload any) {
	if err := s.deps.Publisher.Publish(ctx, eventType, key, payload); err != nil {
		logger.Warn(ctx, "failed to publish payment event", "event_type", eventType, "key", key, "error", err)
	}
}
