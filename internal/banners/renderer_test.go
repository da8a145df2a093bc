package banners

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portaldovale/backend/internal/models"
)

func TestRenderEmptyListIsNil(t *testing.T) {
	for _, k := range templateKinds {
		assert.Nil(t, Render(k, nil, models.SlotConfig{}, models.DeviceDesktop), k.String())
	}
}

func TestRenderCarousel(t *testing.T) {
	v := Render(TemplateCarousel, testBanners(3), models.SlotConfig{RotationMS: 8000, InfiniteLoop: true}, models.DeviceDesktop)
	require.NotNil(t, v)
	assert.Equal(t, "carousel", v.Template)
	assert.Len(t, v.Items, 3)
	assert.Equal(t, 8000, v.RotationMS)
	assert.True(t, v.InfiniteLoop)
	assert.True(t, v.ShowArrows)
}

func TestRenderCarouselDefaultsRotation(t *testing.T) {
	v := Render(TemplateCarousel, testBanners(2), models.SlotConfig{}, models.DeviceDesktop)
	require.NotNil(t, v)
	assert.Equal(t, DefaultRotationMS, v.RotationMS)
}

func TestRenderCarouselSingleCreative(t *testing.T) {
	v := Render(TemplateCarousel, testBanners(1), models.SlotConfig{RotationMS: 8000}, models.DeviceDesktop)
	require.NotNil(t, v)
	assert.Len(t, v.Items, 1)
	assert.Zero(t, v.RotationMS, "single creative has no timer")
	assert.False(t, v.ShowArrows)
}

func TestRenderGridColumns(t *testing.T) {
	v := Render(TemplateGrid, testBanners(6), models.SlotConfig{Columns: 2, Height: 600}, models.DeviceDesktop)
	require.NotNil(t, v)
	assert.Equal(t, 2, v.Columns)
	assert.Equal(t, 200, v.ItemHeight, "600px split over 3 rows")

	v = Render(TemplateGrid, testBanners(6), models.SlotConfig{}, models.DeviceDesktop)
	require.NotNil(t, v)
	assert.Equal(t, 3, v.Columns, "column default")
}

func TestRenderGridMobileSingleColumn(t *testing.T) {
	v := Render(TemplateGrid, testBanners(4), models.SlotConfig{Columns: 3}, models.DeviceMobile)
	require.NotNil(t, v)
	assert.Equal(t, 1, v.Columns)
}

func TestRenderStaticShowsFirstOnly(t *testing.T) {
	banners := testBanners(3)
	v := Render(TemplateStatic, banners, models.SlotConfig{}, models.DeviceDesktop)
	require.NotNil(t, v)
	require.Len(t, v.Items, 1)
	assert.Equal(t, banners[0].ID, v.Items[0].BannerID)
}

func TestRenderVideoPlayer(t *testing.T) {
	banners := testBanners(1)
	banners[0].MediaURL = "https://cdn.example.com/promo.mp4?v=2"
	v := Render(TemplateVideo, banners, models.SlotConfig{Autoplay: true}, models.DeviceDesktop)
	require.NotNil(t, v)
	require.Len(t, v.Items, 1)
	player := v.Items[0].Player
	require.NotNil(t, player)
	assert.True(t, player.Autoplay)
	assert.True(t, player.Muted, "autoplay forces muted")
	assert.True(t, player.Controls)
	assert.True(t, player.ReportEndAsClick)
}

func TestRenderVideoImageFallback(t *testing.T) {
	banners := testBanners(1)
	banners[0].MediaURL = "https://cdn.example.com/poster.jpg"
	v := Render(TemplateVideo, banners, models.SlotConfig{}, models.DeviceDesktop)
	require.NotNil(t, v)
	require.Len(t, v.Items, 1)
	assert.Nil(t, v.Items[0].Player, "non-video media renders as image")
}

func TestHasVideoExtension(t *testing.T) {
	assert.True(t, HasVideoExtension("https://cdn.example.com/a.mp4"))
	assert.True(t, HasVideoExtension("https://cdn.example.com/a.MP4"))
	assert.True(t, HasVideoExtension("https://cdn.example.com/a.webm?token=x"))
	assert.True(t, HasVideoExtension("https://cdn.example.com/a.mov#t=10"))
	assert.False(t, HasVideoExtension("https://cdn.example.com/a.jpg"))
	assert.False(t, HasVideoExtension("https://cdn.example.com/mp4"))
}
