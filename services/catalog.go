package services

import (
	"context"
	"errors"
	"strings"

	"github.com/Kariqs/satshop-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

type ProductFilter struct {
	Query      string
	CategoryID string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
}

type ReviewInput struct {
	UserID  string `json:"userId"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type ReviewSummary struct {
	Reviews       []models.Review `json:"reviews"`
	AverageRating float64         `json:"averageRating"`
	Count         int             `json:"count"`
}

func (s *CatalogService) CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, Errorf(EINVALID, "Product name is required")
	}
	if in.Price == nil || in.Price.IsNegative() {
		return nil, Errorf(EINVALID, "Product price must be zero or more")
	}
	if in.Stock != nil && *in.Stock < 0 {
		return nil, Errorf(EINVALID, "Product stock must be zero or more")
	}

	db := s.db.WithContext(ctx)
	if err := ensureCategory(db, in.CategoryID); err != nil {
		return nil, err
	}

	product := models.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price.Round(2),
		CategoryID:  in.CategoryID,
		Images:      datatypes.JSONSlice[string](in.Images),
		PaymentLink: in.PaymentLink,
	}
	if in.Stock != nil {
		product.Stock = *in.Stock
	}

	if err := db.Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct applies the non-empty fields of in.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in models.ProductInput) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findProduct(tx, id, &product); err != nil {
			return err
		}

		if name := strings.TrimSpace(in.Name); name != "" {
			product.Name = name
		}
		if in.Description != "" {
			product.Description = in.Description
		}
		if in.Price != nil {
			if in.Price.IsNegative() {
				return Errorf(EINVALID, "Product price must be zero or more")
			}
			product.Price = in.Price.Round(2)
		}
		if in.Stock != nil {
			if *in.Stock < 0 {
				return Errorf(EINVALID, "Product stock must be zero or more")
			}
			product.Stock = *in.Stock
		}
		if in.CategoryID != "" && in.CategoryID != product.CategoryID {
			if err := ensureCategory(tx, in.CategoryID); err != nil {
				return err
			}
			product.CategoryID = in.CategoryID
		}
		if in.Images != nil {
			product.Images = datatypes.JSONSlice[string](in.Images)
		}
		if in.PaymentLink != "" {
			product.PaymentLink = in.PaymentLink
		}

		return tx.Save(&product).Error
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&models.Product{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrProductNotFound
		}
		return tx.Where("product_id = ?", id).Delete(&models.Review{}).Error
	})
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := findProduct(s.db.WithContext(ctx), id, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// SearchProducts narrows by category in the store, then filters price bounds
// (inclusive) and the text query (name or description, case-insensitive) in memory.
func (s *CatalogService) SearchProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	query := s.db.WithContext(ctx).Order("created_at desc")
	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}

	var candidates []models.Product
	if err := query.Find(&candidates).Error; err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(filter.Query))
	products := make([]models.Product, 0, len(candidates))
	for _, p := range candidates {
		if filter.MinPrice != nil && p.Price.LessThan(*filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && p.Price.GreaterThan(*filter.MaxPrice) {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

func (s *CatalogService) ProductsByCategory(ctx context.Context, categoryID string) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("created_at desc").
		Find(&products).Error
	return products, err
}

// AppendImages adds urls to the product's image list.
func (s *CatalogService) AppendImages(ctx context.Context, id string, urls []string) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findProduct(tx, id, &product); err != nil {
			return err
		}
		product.Images = append(product.Images, urls...)
		return tx.Model(&product).Update("images", product.Images).Error
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *CatalogService) AddReview(ctx context.Context, productID string, in ReviewInput) (*models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, Errorf(EINVALID, "Rating must be between 1 and 5")
	}

	db := s.db.WithContext(ctx)
	var product models.Product
	if err := findProduct(db, productID, &product); err != nil {
		return nil, err
	}

	review := models.Review{
		ProductID: productID,
		UserID:    in.UserID,
		Rating:    in.Rating,
		Comment:   strings.TrimSpace(in.Comment),
	}
	if err := db.Create(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// ListReviews returns the product's reviews, newest first, with their average rating.
func (s *CatalogService) ListReviews(ctx context.Context, productID string) (*ReviewSummary, error) {
	reviews := []models.Review{}
	err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at desc").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}

	summary := &ReviewSummary{Reviews: reviews, Count: len(reviews)}
	if len(reviews) > 0 {
		total := 0
		for _, r := range reviews {
			total += r.Rating
		}
		summary.AverageRating = float64(total) / float64(len(reviews))
	}
	return summary, nil
}

func findProduct(db *gorm.DB, id string, product *models.Product) error {
	err := db.Where("id = ?", id).First(product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProductNotFound
	}
	return err
}

func ensureCategory(db *gorm.DB, id string) error {
	if id == "" {
		return nil
	}
	var count int64
	if err := db.Model(&models.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
