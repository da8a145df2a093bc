package banners

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/portaldovale/backend/internal/models"
)

func activeBanner(scope string) models.Banner {
	return models.Banner{ID: uuid.New(), Active: true, Scope: scope}
}

func TestDeactivationMatchScopeMatrix(t *testing.T) {
	general1 := activeBanner(models.ScopeGeneral)
	general2 := activeBanner(models.ScopeGeneral)
	localA := activeBanner("local-a")
	localB := activeBanner("local-b")
	unscoped := activeBanner("")

	// A local-a deactivation retires local-a, general and unscoped
	// creatives; other localities are untouched.
	assert.True(t, deactivationMatch(localA, "local-a", nil))
	assert.True(t, deactivationMatch(general1, "local-a", nil))
	assert.True(t, deactivationMatch(general2, "local-a", nil))
	assert.True(t, deactivationMatch(unscoped, "local-a", nil))
	assert.False(t, deactivationMatch(localB, "local-a", nil))
}

func TestDeactivationMatchExclude(t *testing.T) {
	keep := activeBanner(models.ScopeGeneral)
	other := activeBanner(models.ScopeGeneral)
	localA := activeBanner("local-a")

	count := 0
	for _, b := range []models.Banner{keep, other, localA} {
		if deactivationMatch(b, "local-a", &keep.ID) {
			count++
		}
	}
	assert.Equal(t, 2, count)
	assert.False(t, deactivationMatch(keep, "local-a", &keep.ID))
	assert.True(t, deactivationMatch(keep, "local-a", nil), "nil exclude spares nothing")
}

func TestDeactivationMatchSkipsInactive(t *testing.T) {
	b := activeBanner(models.ScopeGeneral)
	b.Active = false
	assert.False(t, deactivationMatch(b, "local-a", nil))
}

func TestDeactivationMatchGeneralScope(t *testing.T) {
	// A general deactivation retires general and unscoped creatives but
	// leaves locality-specific ones alone.
	assert.False(t, deactivationMatch(activeBanner("local-a"), models.ScopeGeneral, nil))
	assert.True(t, deactivationMatch(activeBanner(models.ScopeGeneral), models.ScopeGeneral, nil))
	assert.True(t, deactivationMatch(activeBanner(""), models.ScopeGeneral, nil))
}
