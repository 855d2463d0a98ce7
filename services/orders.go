package services

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"time"

	"github.com/Kariqs/satshop-api/events"
	"github.com/Kariqs/satshop-api/logger"
	"github.com/Kariqs/satshop-api/metrics"
	"github.com/Kariqs/satshop-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OrderService struct {
	db         *gorm.DB
	promotions *PromotionService
	publisher  events.Publisher
	metrics    *metrics.Metrics
}

func NewOrderService(db *gorm.DB, promotions *PromotionService, publisher events.Publisher, m *metrics.Metrics) *OrderService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &OrderService{db: db, promotions: promotions, publisher: publisher, metrics: m}
}

type OrderLineInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type CreateOrderInput struct {
	UserID          string           `json:"userId"`
	Items           []OrderLineInput `json:"items"`
	ShippingAddress json.RawMessage  `json:"shippingAddress"`
	PaymentMethod   string           `json:"paymentMethod"`
	PromotionCode   string           `json:"promotionCode"`
}

type OrderFilter struct {
	Status    string
	Delivered *bool
	Page      int
	Limit     int
}

type OrderPage struct {
	Orders     []models.Order `json:"orders"`
	Pagination Pagination     `json:"pagination"`
}

// CreateOrder prices every line from the live product record, stores a
// pending order and removes the ordered products from the user's cart, all
// in one transaction. Stock is not checked here.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	if in.UserID == "" {
		return nil, Errorf(EINVALID, "userId is required")
	}
	if len(in.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	paymentMethod := in.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = models.PaymentMethodStripe
	}
	if paymentMethod != models.PaymentMethodStripe && paymentMethod != models.PaymentMethodChargily {
		return nil, Errorf(EINVALID, "Unsupported payment method: %s", paymentMethod)
	}
	for _, line := range in.Items {
		if line.ProductID == "" || line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}

	order := models.Order{
		UserID:          in.UserID,
		PaymentMethod:   paymentMethod,
		Status:          models.OrderStatusPending,
		ShippingAddress: datatypes.JSON(in.ShippingAddress),
		Discount:        decimal.Zero,
		RefundedAmount:  decimal.Zero,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		subtotal := decimal.Zero
		items := make([]models.OrderItem, 0, len(in.Items))
		productIDs := make([]string, 0, len(in.Items))

		for _, line := range in.Items {
			var product models.Product
			if err := findProduct(tx, line.ProductID, &product); err != nil {
				if errors.Is(err, ErrProductNotFound) {
					return refine(ErrProductNotFound, "Product %s not found", line.ProductID)
				}
				return err
			}

			subtotal = subtotal.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				Price:     product.Price,
				Name:      product.Name,
			})
			productIDs = append(productIDs, product.ID)
		}

		order.Items = items
		order.Subtotal = subtotal

		if in.PromotionCode != "" {
			discount, err := s.promotions.quoteInTx(tx, in.PromotionCode, subtotal)
			if err != nil {
				return err
			}
			order.Discount = discount
			order.PromotionCode = normalizeCode(in.PromotionCode)
		}

		order.Total = subtotal.Sub(order.Discount)
		if order.Total.IsNegative() {
			order.Total = decimal.Zero
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		return tx.Where("user_id = ? AND product_id IN ?", in.UserID, productIDs).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}

	s.metrics.OrderCreated(order.PaymentMethod)
	logger.Info(ctx, "order created", "order_id", order.ID, "user_id", order.UserID, "total", order.Total.String())
	s.publish(ctx, events.OrderCreated, order.ID, events.OrderCreatedEvent{
		OrderID:       order.ID,
		UserID:        order.UserID,
		Total:         order.Total,
		PaymentMethod: order.PaymentMethod,
		PromotionCode: order.PromotionCode,
		CreatedAt:     order.CreatedAt,
	})

	return &order, nil
}

func (s *OrderService) GetUserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&orders).Error
	return orders, err
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := findOrder(s.db.WithContext(ctx), id, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders pages through all orders, newest first, optionally filtered by
// status and delivery.
func (s *OrderService) ListOrders(ctx context.Context, filter OrderFilter) (*OrderPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 15
	}

	filterScope := func(db *gorm.DB) *gorm.DB {
		if filter.Status != "" {
			db = db.Where("status = ?", filter.Status)
		}
		if filter.Delivered != nil {
			db = db.Where("delivered = ?", *filter.Delivered)
		}
		return db
	}

	db := s.db.WithContext(ctx)
	var total int64
	if err := db.Model(&models.Order{}).Scopes(filterScope).Count(&total).Error; err != nil {
		return nil, err
	}

	orders := []models.Order{}
	err := db.Scopes(filterScope).
		Order("created_at desc").
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	pages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &OrderPage{
		Orders:     orders,
		Pagination: Pagination{Total: total, Page: filter.Page, Limit: filter.Limit, Pages: pages},
	}, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (*models.Order, error) {
	if !slices.Contains(models.OrderStatuses, status) {
		return nil, ErrInvalidStatus
	}

	var order models.Order
	var previous string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findOrder(tx, id, &order); err != nil {
			return err
		}
		previous = order.Status
		order.Status = status
		return tx.Model(&order).Update("status", status).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "order status updated", "order_id", id, "from", previous, "to", status)
	s.publish(ctx, events.OrderStatusChanged, id, events.OrderStatusChangedEvent{OrderID: id, From: previous, To: status})
	return &order, nil
}

// MarkDelivered flags a paid order as delivered.
func (s *OrderService) MarkDelivered(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findOrder(tx, id, &order); err != nil {
			return err
		}
		if order.Status != models.OrderStatusPaid {
			return ErrOrderNotPaid
		}

		now := time.Now()
		order.Delivered = true
		order.DeliveredAt = &now
		return tx.Model(&order).Updates(map[string]any{"delivered": true, "delivered_at": now}).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "order delivered", "order_id", id)
	s.publish(ctx, events.OrderDelivered, id, events.OrderStatusChangedEvent{OrderID: id, From: order.Status, To: "delivered"})
	return &order, nil
}

func (s *OrderService) publish(ctx context.Context, eventType, key string, payload any) {
	if err := s.publisher.Publish(ctx, eventType, key, payload); err != nil {
		logger.Warn(ctx, "failed to publish order event", "event_type", eventType, "order_id", key, "error", err)
	}
}

func findOrder(db *gorm.DB, id string, order *models.Order) error {
	err := db.Where("id = ?", id).First(order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrOrderNotFound
	}
	return err
}
