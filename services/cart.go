package services

import (
	"context"
	"time"

	"github.com/Kariqs/satshop-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartService struct {
	db *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// AddItem adds quantity of productID to the user's cart. The stock check is
// against the requested quantity only; nothing is reserved.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	db := s.db.WithContext(ctx)
	var product models.Product
	if err := findProduct(db, productID, &product); err != nil {
		return err
	}
	if product.Stock < quantity {
		return ErrInsufficientStock
	}

	item := models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		Price:     product.Price,
		Name:      product.Name,
	}

	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", quantity),
			"updated_at": time.Now(),
		}),
	}).Create(&item).Error
}

func (s *CartService) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	items := []models.CartItem{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	cart := &models.Cart{UserID: userID, Items: items}
	for _, item := range items {
		if cart.UpdatedAt == nil || item.UpdatedAt.After(*cart.UpdatedAt) {
			updated := item.UpdatedAt
			cart.UpdatedAt = &updated
		}
	}
	return cart, nil
}

// UpdateQuantity sets the line's quantity; zero or less removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, productID)
	}

	db := s.db.WithContext(ctx)
	result := db.Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Updates(map[string]any{"quantity": quantity, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}
