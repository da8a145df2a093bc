package banners

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCarouselTickWrapsInLoopMode(t *testing.T) {
	c := NewCarousel(3, true)
	assert.Equal(t, 0, c.Index())

	assert.True(t, c.Tick())
	assert.Equal(t, 1, c.Index())
	assert.True(t, c.Tick())
	assert.Equal(t, 2, c.Index())
	assert.True(t, c.Tick())
	assert.Equal(t, 0, c.Index(), "loop mode wraps to the first creative")
}

func TestCarouselTickClampsWithoutLoop(t *testing.T) {
	c := NewCarousel(3, false)
	c.Tick()
	c.Tick()
	assert.Equal(t, 2, c.Index())

	assert.False(t, c.Tick(), "clamped at the last creative")
	assert.Equal(t, 2, c.Index())
}

func TestCarouselPrevWrapsBackward(t *testing.T) {
	c := NewCarousel(4, true)
	assert.True(t, c.Prev())
	assert.Equal(t, 3, c.Index())
}

func TestCarouselPauseSuspendsTickOnly(t *testing.T) {
	c := NewCarousel(3, true)
	c.Pause()

	assert.False(t, c.Tick(), "timer is suspended while paused")
	assert.Equal(t, 0, c.Index())

	assert.True(t, c.Next(), "manual controls keep working while paused")
	assert.Equal(t, 1, c.Index())
	assert.True(t, c.Prev())
	assert.Equal(t, 0, c.Index())

	c.Resume()
	assert.True(t, c.Tick())
}

func TestCarouselSingleCreativeNeverAdvances(t *testing.T) {
	c := NewCarousel(1, true)
	assert.False(t, c.Tick())
	assert.False(t, c.Next())
	assert.False(t, c.Prev())
	assert.Equal(t, 0, c.Index())
}

func TestCarouselEmpty(t *testing.T) {
	c := NewCarousel(0, true)
	assert.False(t, c.Tick())
	c.GoTo(5)
	assert.Equal(t, 0, c.Index())
}

func TestCarouselGoToClamps(t *testing.T) {
	c := NewCarousel(3, false)
	c.GoTo(7)
	assert.Equal(t, 2, c.Index())
	c.GoTo(-2)
	assert.Equal(t, 0, c.Index())
}

func TestCarouselResetReturnsToStart(t *testing.T) {
	c := NewCarousel(3, true)
	c.Tick()
	c.Tick()
	c.Reset(5)
	assert.Equal(t, 0, c.Index())
	assert.Equal(t, 5, c.Len())
}
