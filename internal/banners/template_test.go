package banners

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portaldovale/backend/internal/models"
)

func TestRegistryDefaults(t *testing.T) {
	r := NewRegistry()
	assert.Len(t, r.All(), 5)

	tpl, ok := r.Get(TemplateCarousel)
	require.True(t, ok)
	assert.Equal(t, "carousel", tpl.ID)
	assert.Equal(t, DefaultRotationMS, tpl.Defaults.RotationMS)
	assert.True(t, tpl.Defaults.InfiniteLoop)
}

func TestRegistryComponentTypeLookup(t *testing.T) {
	r := NewRegistry()

	for componentType, want := range map[string]TemplateKind{
		"BannerCarousel": TemplateCarousel,
		"BannerGrid":     TemplateGrid,
		"BannerStatic":   TemplateStatic,
		"BannerVideo":    TemplateVideo,
		"BannerCustom":   TemplateCustom,
		"carousel":       TemplateCarousel,
		"static":         TemplateStatic,
	} {
		tpl, ok := r.GetByComponentType(componentType)
		require.True(t, ok, componentType)
		assert.Equal(t, want, tpl.Kind, componentType)
	}

	// Portuguese names from older slot rows, including the column
	// default for slots created without an explicit type.
	for componentType, want := range map[string]TemplateKind{
		"BannerCarrossel":     TemplateCarousel,
		"BannerGrade":         TemplateGrid,
		"BannerEstatico":      TemplateStatic,
		"BannerPersonalizado": TemplateCustom,
	} {
		tpl, ok := r.GetByComponentType(componentType)
		require.True(t, ok, componentType)
		assert.Equal(t, want, tpl.Kind, componentType)
	}

	_, ok := r.GetByComponentType("BannerUnknown")
	assert.False(t, ok)
}

func TestRegistryRegisterOverwrites(t *testing.T) {
	r := NewRegistry()
	r.Register(Template{Kind: TemplateGrid, Name: "Grade larga", Defaults: models.SlotConfig{Columns: 4}})

	tpl, ok := r.Get(TemplateGrid)
	require.True(t, ok)
	assert.Equal(t, "Grade larga", tpl.Name)
	assert.Equal(t, 4, tpl.Defaults.Columns)
	assert.Len(t, r.All(), 5, "overwriting does not add an entry")
}

func TestParseTemplateKind(t *testing.T) {
	for _, k := range templateKinds {
		got, ok := ParseTemplateKind(k.String())
		require.True(t, ok)
		assert.Equal(t, k, got)
	}
	_, ok := ParseTemplateKind("marquee")
	assert.False(t, ok)
}

func TestAllKindsRender(t *testing.T) {
	banners := testBanners(2)
	for _, k := range templateKinds {
		v := Render(k, banners, models.SlotConfig{}, models.DeviceDesktop)
		require.NotNil(t, v, k.String())
		assert.Equal(t, k.String(), v.Template)
	}
}
