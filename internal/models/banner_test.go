package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBannerInWindow(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	open := Banner{}
	assert.True(t, open.InWindow(now), "nil bounds are open-ended")

	started := Banner{StartsAt: &past}
	assert.True(t, started.InWindow(now))

	notYet := Banner{StartsAt: &future}
	assert.False(t, notYet.InWindow(now))

	expired := Banner{EndsAt: &past}
	assert.False(t, expired.InWindow(now))

	live := Banner{StartsAt: &past, EndsAt: &future}
	assert.True(t, live.InWindow(now))
}

func TestEventTypeValid(t *testing.T) {
	assert.True(t, EventImpression.Valid())
	assert.True(t, EventClick.Valid())
	assert.True(t, EventView.Valid())
	assert.False(t, EventType("hover").Valid())
	assert.False(t, EventType("").Valid())
}
