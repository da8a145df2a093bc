package banners

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portaldovale/backend/internal/models"
)

func testBanners(n int) []models.Banner {
	out := make([]models.Banner, n)
	for i := range out {
		out[i] = models.Banner{ID: uuid.New(), Title: "banner"}
	}
	return out
}

func TestCacheSetGet(t *testing.T) {
	c := NewCache(time.Minute, false)
	list := testBanners(2)

	_, ok := c.Get("home-top", "/", models.DeviceDesktop)
	assert.False(t, ok)

	c.Set("home-top", "/", models.DeviceDesktop, list)
	got, ok := c.Get("home-top", "/", models.DeviceDesktop)
	require.True(t, ok)
	assert.Len(t, got, 2)
}

func TestCacheKeyIncludesPageAndDevice(t *testing.T) {
	c := NewCache(time.Minute, false)
	c.Set("home-top", "/", models.DeviceDesktop, testBanners(1))

	_, ok := c.Get("home-top", "/news", models.DeviceDesktop)
	assert.False(t, ok, "different page is a different entry")
	_, ok = c.Get("home-top", "/", models.DeviceMobile)
	assert.False(t, ok, "different device is a different entry")
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(5*time.Minute, false)
	base := time.Now()
	c.now = func() time.Time { return base }

	c.Set("home-top", "/", models.DeviceDesktop, testBanners(1))

	c.now = func() time.Time { return base.Add(4 * time.Minute) }
	_, ok := c.Get("home-top", "/", models.DeviceDesktop)
	assert.True(t, ok)

	c.now = func() time.Time { return base.Add(5 * time.Minute) }
	_, ok = c.Get("home-top", "/", models.DeviceDesktop)
	assert.False(t, ok, "entry expires at exactly the ttl boundary")
	assert.Equal(t, 0, c.Len(), "expired entry is evicted on read")
}

func TestCacheClearSlotLeavesOthersIntact(t *testing.T) {
	c := NewCache(time.Minute, false)
	c.Set("home-top", "/", models.DeviceDesktop, testBanners(1))
	c.Set("home-top", "/news", models.DeviceMobile, testBanners(1))
	c.Set("sidebar", "/", models.DeviceDesktop, testBanners(1))

	c.ClearSlot("home-top")

	_, ok := c.Get("home-top", "/", models.DeviceDesktop)
	assert.False(t, ok)
	_, ok = c.Get("home-top", "/news", models.DeviceMobile)
	assert.False(t, ok)
	_, ok = c.Get("sidebar", "/", models.DeviceDesktop)
	assert.True(t, ok, "other slots survive")
}

func TestCacheBypass(t *testing.T) {
	c := NewCache(time.Minute, true)
	c.Set("home-top", "/", models.DeviceDesktop, testBanners(1))
	_, ok := c.Get("home-top", "/", models.DeviceDesktop)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCacheSetOverwrites(t *testing.T) {
	c := NewCache(time.Minute, false)
	c.Set("home-top", "/", models.DeviceDesktop, testBanners(1))
	c.Set("home-top", "/", models.DeviceDesktop, testBanners(3))
	got, ok := c.Get("home-top", "/", models.DeviceDesktop)
	require.True(t, ok)
	assert.Len(t, got, 3)
}
