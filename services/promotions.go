package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Kariqs/satshop-api/logger"
	"github.com/Kariqs/satshop-api/metrics"
	"github.com/Kariqs/satshop-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var hundred = decimal.NewFromInt(100)

type PromotionService struct {
	db      *gorm.DB
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewPromotionService(db *gorm.DB, m *metrics.Metrics) *PromotionService {
	return &PromotionService{db: db, metrics: m, now: time.Now}
}

// PromotionQuote is the outcome of a successful verification.
type PromotionQuote struct {
	Valid     bool             `json:"valid"`
	Discount  decimal.Decimal  `json:"discount"`
	Promotion models.Promotion `json:"promotion"`
}

func (s *PromotionService) CreatePromotion(ctx context.Context, in models.PromotionInput) (*models.Promotion, error) {
	code := normalizeCode(in.Code)
	if code == "" {
		return nil, Errorf(EINVALID, "Promotion code is required")
	}
	if in.DiscountType != models.DiscountPercentage && in.DiscountType != models.DiscountFixed {
		return nil, Errorf(EINVALID, "Discount type must be percentage or fixed")
	}
	if !in.DiscountValue.IsPositive() {
		return nil, Errorf(EINVALID, "Discount value must be greater than zero")
	}
	if in.DiscountType == models.DiscountPercentage && in.DiscountValue.GreaterThan(hundred) {
		return nil, Errorf(EINVALID, "Percentage discount cannot exceed 100")
	}
	if !in.EndDate.IsZero() && in.EndDate.Before(in.StartDate) {
		return nil, Errorf(EINVALID, "End date must be after start date")
	}
	if in.MaxUses < 0 || in.MinPurchase.IsNegative() {
		return nil, Errorf(EINVALID, "Invalid promotion limits")
	}

	promotion := models.Promotion{
		Code:          code,
		DiscountType:  in.DiscountType,
		DiscountValue: in.DiscountValue,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		MinPurchase:   in.MinPurchase,
		MaxUses:       in.MaxUses,
		CurrentUses:   0,
		Active:        true,
	}

	// duplicate codes are rejected by the unique index
	if err := s.db.WithContext(ctx).Create(&promotion).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicatePromotion
		}
		return nil, err
	}
	return &promotion, nil
}

// VerifyPromotion checks code against cartTotal without consuming a use.
func (s *PromotionService) VerifyPromotion(ctx context.Context, code string, cartTotal decimal.Decimal) (*PromotionQuote, error) {
	var promotion models.Promotion
	if err := findActivePromotion(s.db.WithContext(ctx), code, &promotion); err != nil {
		return nil, err
	}

	discount, err := s.evaluate(&promotion, cartTotal)
	if err != nil {
		return nil, err
	}
	return &PromotionQuote{Valid: true, Discount: discount, Promotion: promotion}, nil
}

// RedeemPromotion consumes one use of code. It fails once the usage limit is reached.
func (s *PromotionService) RedeemPromotion(ctx context.Context, code string) (*models.Promotion, error) {
	var promotion *models.Promotion
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		promotion, err = s.redeemInTx(ctx, tx, code)
		return err
	})
	if err != nil {
		return nil, err
	}
	return promotion, nil
}

// redeemInTx consumes one use of code inside tx. Payment confirmation calls
// it, so only paid orders count against maxUses.
func (s *PromotionService) redeemInTx(ctx context.Context, tx *gorm.DB, code string) (*models.Promotion, error) {
	var promotion models.Promotion
	if err := findActivePromotion(tx, code, &promotion); err != nil {
		return nil, err
	}
	if err := s.redeem(ctx, tx, &promotion); err != nil {
		return nil, err
	}
	return &promotion, nil
}

// quoteInTx validates code against subtotal inside tx and returns the
// discount. No use is consumed.
func (s *PromotionService) quoteInTx(tx *gorm.DB, code string, subtotal decimal.Decimal) (decimal.Decimal, error) {
	var promotion models.Promotion
	if err := findActivePromotion(tx, code, &promotion); err != nil {
		return decimal.Zero, err
	}
	return s.evaluate(&promotion, subtotal)
}

func (s *PromotionService) redeem(ctx context.Context, tx *gorm.DB, promotion *models.Promotion) error {
	result := tx.Model(&models.Promotion{}).
		Where("id = ? AND active = ? AND (max_uses = 0 OR current_uses < max_uses)", promotion.ID, true).
		UpdateColumn("current_uses", gorm.Expr("current_uses + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPromotionExhausted
	}

	promotion.CurrentUses++
	s.metrics.PromotionRedeemed()
	logger.Info(ctx, "promotion redeemed", "code", promotion.Code, "current_uses", promotion.CurrentUses)
	return nil
}

func (s *PromotionService) DeactivatePromotion(ctx context.Context, id string) error {
	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.Promotion{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return refine(ErrPromotionNotFound, "Promotion not found")
	}
	return db.Model(&models.Promotion{}).Where("id = ?", id).Update("active", false).Error
}

// evaluate returns the discount promotion grants on total, capped at total.
func (s *PromotionService) evaluate(promotion *models.Promotion, total decimal.Decimal) (decimal.Decimal, error) {
	now := s.now()
	if now.Before(promotion.StartDate) {
		return decimal.Zero, ErrPromotionNotStarted
	}
	if !promotion.EndDate.IsZero() && now.After(promotion.EndDate) {
		return decimal.Zero, ErrPromotionExpired
	}
	if promotion.MaxUses > 0 && promotion.CurrentUses >= promotion.MaxUses {
		return decimal.Zero, ErrPromotionExhausted
	}
	if total.LessThan(promotion.MinPurchase) {
		return decimal.Zero, refine(ErrPromotionBelowMinimum, "Minimum purchase amount of %s required", promotion.MinPurchase.String())
	}

	var discount decimal.Decimal
	if promotion.DiscountType == models.DiscountPercentage {
		discount = total.Mul(promotion.DiscountValue).Div(hundred)
	} else {
		discount = promotion.DiscountValue
	}

	if discount.GreaterThan(total) {
		discount = total
	}
	return discount.Round(2), nil
}

func findActivePromotion(db *gorm.DB, code string, promotion *models.Promotion) error {
	err := db.Where("code = ? AND active = ?", normalizeCode(code), true).First(promotion).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPromotionNotFound
	}
	return err
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
