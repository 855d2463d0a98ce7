package services

import (
	"context"
	"errors"

	"github.com/Kariqs/satshop-api/models"
	"gorm.io/gorm"
)

var logoThemes = map[string]bool{"gradient": true, "solid": true, "outline": true}

type SettingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

type SlideInput struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Position    *int   `json:"position"`
}

// GetLogo returns the stored logo, or the default one when none was saved.
func (s *SettingsService) GetLogo(ctx context.Context) (*models.LogoSettings, error) {
	var logo models.LogoSettings
	err := s.db.WithContext(ctx).Where("name = ?", models.LogoSettingsKey).First(&logo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logo = models.DefaultLogo
		return &logo, nil
	}
	if err != nil {
		return nil, err
	}
	return &logo, nil
}

// UpdateLogo merges the non-empty fields of in into the stored logo.
func (s *SettingsService) UpdateLogo(ctx context.Context, in models.LogoSettings) (*models.LogoSettings, error) {
	if in.Theme != "" && !logoThemes[in.Theme] {
		return nil, Errorf(EINVALID, "Theme must be gradient, solid or outline")
	}

	logo, err := s.GetLogo(ctx)
	if err != nil {
		return nil, err
	}

	if in.Icon != "" {
		logo.Icon = in.Icon
	}
	if in.Text != "" {
		logo.Text = in.Text
	}
	if in.Theme != "" {
		logo.Theme = in.Theme
	}
	if in.TextColor != "" {
		logo.TextColor = in.TextColor
	}
	if in.GradientFrom != "" {
		logo.GradientFrom = in.GradientFrom
	}
	if in.GradientTo != "" {
		logo.GradientTo = in.GradientTo
	}
	logo.Key = models.LogoSettingsKey

	if err := s.db.WithContext(ctx).Save(logo).Error; err != nil {
		return nil, err
	}
	return logo, nil
}

func (s *SettingsService) ListSlides(ctx context.Context) ([]models.Slide, error) {
	slides := []models.Slide{}
	err := s.db.WithContext(ctx).Order("position asc, created_at asc").Find(&slides).Error
	return slides, err
}

func (s *SettingsService) CreateSlide(ctx context.Context, in SlideInput) (*models.Slide, error) {
	if in.URL == "" {
		return nil, Errorf(EINVALID, "Slide url is required")
	}

	db := s.db.WithContext(ctx)
	slide := models.Slide{URL: in.URL, Title: in.Title, Description: in.Description}
	if in.Position != nil {
		slide.Position = *in.Position
	} else {
		var count int64
		if err := db.Model(&models.Slide{}).Count(&count).Error; err != nil {
			return nil, err
		}
		slide.Position = int(count)
	}

	if err := db.Create(&slide).Error; err != nil {
		return nil, err
	}
	return &slide, nil
}

func (s *SettingsService) UpdateSlide(ctx context.Context, id string, in SlideInput) (*models.Slide, error) {
	var slide models.Slide
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&slide).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSlideNotFound
			}
			return err
		}

		if in.URL != "" {
			slide.URL = in.URL
		}
		if in.Title != "" {
			slide.Title = in.Title
		}
		if in.Description != "" {
			slide.Description = in.Description
		}
		if in.Position != nil {
			slide.Position = *in.Position
		}
		return tx.Save(&slide).Error
	})
	if err != nil {
		return nil, err
	}
	return &slide, nil
}

func (s *SettingsService) DeleteSlide(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Slide{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSlideNotFound
	}
	return nil
}
