package services

import (
	"context"
	"errors"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/Kariqs/satshop-api/logger"
	"github.com/Kariqs/satshop-api/metrics"
	"github.com/Kariqs/satshop-api/models"
	"gorm.io/gorm"
)

const categoryTreeCacheKey = "categories:tree"

var whitespaceRun = regexp.MustCompile(`\s+`)

// Slugify lowercases name and replaces whitespace runs with a single dash.
func Slugify(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

type CategoryService struct {
	db       *gorm.DB
	cache    Cache
	cacheTTL time.Duration
	metrics  *metrics.Metrics
}

// NewCategoryService builds the service. cache may be nil.
func NewCategoryService(db *gorm.DB, cache Cache, cacheTTL time.Duration, m *metrics.Metrics) *CategoryService {
	return &CategoryService{db: db, cache: cache, cacheTTL: cacheTTL, metrics: m}
}

type PageQuery struct {
	Page  int
	Limit int
	Sort  string
	Order string
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

type ProductPage struct {
	Products   []models.Product `json:"products"`
	Pagination Pagination       `json:"pagination"`
}

var productSortColumns = map[string]string{
	"createdAt": "created_at",
	"price":     "price",
	"name":      "name",
	"stock":     "stock",
}

func (q *PageQuery) normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	if _, ok := productSortColumns[q.Sort]; !ok {
		q.Sort = "createdAt"
	}
	if q.Order != "asc" {
		q.Order = "desc"
	}
}

func (s *CategoryService) CreateCategory(ctx context.Context, in models.CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, Errorf(EINVALID, "Category name is required")
	}

	db := s.db.WithContext(ctx)
	category := models.Category{
		Name:        name,
		Slug:        Slugify(name),
		Description: in.Description,
		Image:       in.Image,
		Icon:        in.Icon,
	}

	if in.ParentID != nil && *in.ParentID != "" {
		var count int64
		if err := db.Model(&models.Category{}).Where("id = ?", *in.ParentID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrParentNotFound
		}
		parentID := *in.ParentID
		category.ParentID = &parentID
	}

	if err := db.Create(&category).Error; err != nil {
		return nil, err
	}

	s.invalidateTree(ctx)
	return &category, nil
}

// Tree returns the root categories with their descendants nested under children.
func (s *CategoryService) Tree(ctx context.Context) ([]*models.Category, error) {
	if s.cache != nil {
		var cached []*models.Category
		hit, err := s.cache.GetJSON(ctx, categoryTreeCacheKey, &cached)
		if err != nil {
			logger.Warn(ctx, "category tree cache read failed", "error", err)
		}
		s.metrics.CacheLookup(hit)
		if hit {
			return cached, nil
		}
	}

	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("created_at asc, name asc").Find(&categories).Error; err != nil {
		return nil, err
	}

	tree := BuildCategoryTree(categories)

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, categoryTreeCacheKey, tree, s.cacheTTL); err != nil {
			logger.Warn(ctx, "category tree cache write failed", "error", err)
		}
	}
	return tree, nil
}

// BuildCategoryTree nests categories under their parents to any depth.
// Categories whose parent does not exist become roots, and a parent cycle is
// broken at the first category visited.
func BuildCategoryTree(categories []models.Category) []*models.Category {
	nodes := make(map[string]*models.Category, len(categories))
	ordered := make([]*models.Category, 0, len(categories))
	for i := range categories {
		c := categories[i]
		c.Children = []*models.Category{}
		nodes[c.ID] = &c
		ordered = append(ordered, &c)
	}

	childrenOf := make(map[string][]*models.Category)
	roots := []*models.Category{}
	for _, n := range ordered {
		if n.ParentID != nil && *n.ParentID != n.ID {
			if _, ok := nodes[*n.ParentID]; ok {
				childrenOf[*n.ParentID] = append(childrenOf[*n.ParentID], n)
				continue
			}
		}
		roots = append(roots, n)
	}

	visited := make(map[string]bool, len(ordered))
	var attach func(n *models.Category)
	attach = func(n *models.Category) {
		visited[n.ID] = true
		for _, child := range childrenOf[n.ID] {
			if visited[child.ID] {
				continue
			}
			n.Children = append(n.Children, child)
			attach(child)
		}
	}

	for _, r := range roots {
		attach(r)
	}

	// members of a parent cycle are unreachable from any root
	for _, n := range ordered {
		if !visited[n.ID] {
			roots = append(roots, n)
			attach(n)
		}
	}

	return roots
}

// UpdateCategory applies the non-empty fields of in. A new name also updates the slug.
func (s *CategoryService) UpdateCategory(ctx context.Context, id string, in models.CategoryInput) (*models.Category, error) {
	var category models.Category
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findCategory(tx, id, &category); err != nil {
			return err
		}

		if name := strings.TrimSpace(in.Name); name != "" {
			category.Name = name
			category.Slug = Slugify(name)
		}
		if in.Description != "" {
			category.Description = in.Description
		}
		if in.Image != "" {
			category.Image = in.Image
		}
		if in.Icon != "" {
			category.Icon = in.Icon
		}

		return tx.Save(&category).Error
	})
	if err != nil {
		return nil, err
	}

	s.invalidateTree(ctx)
	return &category, nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := findCategory(tx, id, &category); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Product{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrCategoryHasProducts
		}

		if err := tx.Model(&models.Category{}).Where("parent_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrCategoryHasChildren
		}

		return tx.Delete(&category).Error
	})
	if err != nil {
		return err
	}

	s.invalidateTree(ctx)
	return nil
}

func (s *CategoryService) CategoryProducts(ctx context.Context, categoryID string, q PageQuery) (*ProductPage, error) {
	q.normalize()
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Product{}).Where("category_id = ?", categoryID).Count(&total).Error; err != nil {
		return nil, err
	}

	products := []models.Product{}
	err := db.Where("category_id = ?", categoryID).
		Order(productSortColumns[q.Sort] + " " + q.Order).
		Limit(q.Limit).
		Offset((q.Page - 1) * q.Limit).
		Find(&products).Error
	if err != nil {
		return nil, err
	}

	return &ProductPage{
		Products: products,
		Pagination: Pagination{
			Total: total,
			Page:  q.Page,
			Limit: q.Limit,
			Pages: int(math.Ceil(float64(total) / float64(q.Limit))),
		},
	}, nil
}

func (s *CategoryService) invalidateTree(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, categoryTreeCacheKey); err != nil {
		logger.Warn(ctx, "category tree cache invalidation failed", "error", err)
	}
}

func findCategory(db *gorm.DB, id string, category *models.Category) error {
	err := db.Where("id = ?", id).First(category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCategoryNotFound
	}
	return err
}
