package services

import (
	"context"
	"testing"

	"github.com/Kariqs/satshop-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogoDefaultsAndMerge(t *testing.T) {
	svc := NewSettingsService(newTestDB(t))
	ctx := context.Background()

	logo, err := svc.GetLogo(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultLogo.Text, logo.Text)

	updated, err := svc.UpdateLogo(ctx, models.LogoSettings{Text: "IPTV HUB", Theme: "solid"})
	require.NoError(t, err)
	assert.Equal(t, "IPTV HUB", updated.Text)
	assert.Equal(t, "solid", updated.Theme)
	assert.Equal(t, models.DefaultLogo.Icon, updated.Icon)

	_, err = svc.UpdateLogo(ctx, models.LogoSettings{TextColor: "#000000"})
	require.NoError(t, err)

	logo, err = svc.GetLogo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "IPTV HUB", logo.Text)
	assert.Equal(t, "#000000", logo.TextColor)

	_, err = svc.UpdateLogo(ctx, models.LogoSettings{Theme: "neon"})
	assert.Equal(t, EINVALID, ErrorCode(err))
}

func TestSlides(t *testing.T) {
	svc := NewSettingsService(newTestDB(t))
	ctx := context.Background()

	_, err := svc.CreateSlide(ctx, SlideInput{Title: "no url"})
	assert.Equal(t, EINVALID, ErrorCode(err))

	first, err := svc.CreateSlide(ctx, SlideInput{URL: "https://cdn/a.jpg", Title: "A"})
	require.NoError(t, err)
	assert.Equal(t, 0, first.Position)

	second, err := svc.CreateSlide(ctx, SlideInput{URL: "https://cdn/b.jpg", Title: "B"})
	require.NoError(t, err)
	assert.Equal(t, 1, second.Position)

	_, err = svc.UpdateSlide(ctx, second.ID, SlideInput{Position: ptr(-1)})
	require.NoError(t, err)

	slides, err := svc.ListSlides(ctx)
	require.NoError(t, err)
	require.Len(t, slides, 2)
	assert.Equal(t, second.ID, slides[0].ID)
	assert.Equal(t, "B", slides[0].Title)

	_, err = svc.UpdateSlide(ctx, "missing", SlideInput{Title: "x"})
	assert.ErrorIs(t, err, ErrSlideNotFound)

	require.NoError(t, svc.DeleteSlide(ctx, first.ID))
	assert.ErrorIs(t, svc.DeleteSlide(ctx, first.ID), ErrSlideNotFound)
}
