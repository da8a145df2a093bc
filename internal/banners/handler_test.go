package banners

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portaldovale/backend/internal/auth"
	"github.com/portaldovale/backend/internal/middleware"
	"github.com/portaldovale/backend/internal/models"
)

func newTestHandlerRouter(store *fakeStore) (*gin.Engine, *Service) {
	gin.SetMode(gin.TestMode)
	svc := NewService(store, NewCache(time.Minute, false), NewRegistry(), nil, nil)
	h := NewHandler(svc, nil, NewRegistry(), NewRotatorRegistry(), nil, nil, nil, nil)
	r := gin.New()
	r.GET("/slots/:slug/banners", h.Serve)
	r.POST("/admin/banners/deactivate-slot", h.DeactivateSlot)
	return r, svc
}

func TestServeUnknownSlotIs404(t *testing.T) {
	r, _ := newTestHandlerRouter(&fakeStore{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slots/nope/banners", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServeEmptySlotIsOKWithNullView(t *testing.T) {
	slot := carouselSlot()
	store := &fakeStore{slotsBySlug: map[string]*models.Slot{slot.Slug: slot}}
	r, _ := newTestHandlerRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slots/home-top/banners", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Slot string          `json:"slot"`
			View json.RawMessage `json:"view"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "home-top", body.Data.Slot)
	assert.Equal(t, "null", string(body.Data.View))
}

func TestServeRendersView(t *testing.T) {
	slot := carouselSlot()
	store := &fakeStore{
		slotsBySlug: map[string]*models.Slot{slot.Slug: slot},
		eligible:    testBanners(2),
	}
	r, _ := newTestHandlerRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slots/home-top/banners?device=mobile&page=/news", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			View *View `json:"view"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Data.View)
	assert.Equal(t, "carousel", body.Data.View.Template)
	assert.Len(t, body.Data.View.Items, 2)
}

type roleTable map[uuid.UUID]string

func (rt roleTable) GetRole(_ context.Context, id uuid.UUID) (string, error) {
	role, ok := rt[id]
	if !ok {
		return "", errors.New("no such user")
	}
	return role, nil
}

func newAdminRouter(store *fakeStore, jwtService *auth.JWTService, roles roleTable) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := NewService(store, NewCache(time.Minute, false), NewRegistry(), nil, nil)
	h := NewHandler(svc, nil, NewRegistry(), NewRotatorRegistry(), nil, nil, nil, nil)
	r := gin.New()
	r.POST("/admin/banners/deactivate-slot",
		middleware.JWT(jwtService),
		middleware.RequireRole("admin", "editor"),
		middleware.RequireProfileRole(roles, "admin"),
		h.DeactivateSlot)
	return r
}

func deactivateRequest(t *testing.T, token string) *http.Request {
	t.Helper()
	body := `{"position_or_name":"home-top","locality_scope":"local"}`
	req := httptest.NewRequest(http.MethodPost, "/admin/banners/deactivate-slot", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestDeactivateSlotForbiddenForEditor(t *testing.T) {
	slot := carouselSlot()
	store := &fakeStore{slotsBySlug: map[string]*models.Slot{slot.Slug: slot}, deactivated: 2}
	svc := auth.NewJWTService("secret", 1)
	editorID := uuid.New()
	r := newAdminRouter(store, svc, roleTable{editorID: "editor"})

	token, err := svc.Generate(editorID, "editor@portal.com", "editor")
	require.NoError(t, err)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, deactivateRequest(t, token))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, store.lastScope, "no deactivation may run for an editor")
}

func TestDeactivateSlotUnauthorizedWithoutToken(t *testing.T) {
	slot := carouselSlot()
	store := &fakeStore{slotsBySlug: map[string]*models.Slot{slot.Slug: slot}, deactivated: 2}
	r := newAdminRouter(store, auth.NewJWTService("secret", 1), roleTable{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, deactivateRequest(t, ""))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, store.lastScope)
}

func TestDeactivateSlotAllowedForAdmin(t *testing.T) {
	slot := carouselSlot()
	store := &fakeStore{slotsBySlug: map[string]*models.Slot{slot.Slug: slot}, deactivated: 2}
	svc := auth.NewJWTService("secret", 1)
	adminID := uuid.New()
	r := newAdminRouter(store, svc, roleTable{adminID: "admin"})

	token, err := svc.Generate(adminID, "admin@portal.com", "admin")
	require.NoError(t, err)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, deactivateRequest(t, token))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "local", store.lastScope)
}

func TestDeactivateSlotRequiresFields(t *testing.T) {
	r, _ := newTestHandlerRouter(&fakeStore{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/banners/deactivate-slot", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeactivateSlotUnknownSlot(t *testing.T) {
	r, _ := newTestHandlerRouter(&fakeStore{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/banners/deactivate-slot",
		strings.NewReader(`{"position_or_name":"nope","locality_scope":"geral"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeactivateSlotReportsAffected(t *testing.T) {
	slot := carouselSlot()
	store := &fakeStore{
		slotsBySlug: map[string]*models.Slot{slot.Slug: slot},
		deactivated: 3,
	}
	r, _ := newTestHandlerRouter(store)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/banners/deactivate-slot",
		strings.NewReader(`{"position_or_name":"home-top","locality_scope":"local"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Affected int64 `json:"affected"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(3), body.Data.Affected)
	assert.Equal(t, "local", store.lastScope)
}

func TestDeactivateSlotRejectsBadExcludeID(t *testing.T) {
	slot := carouselSlot()
	store := &fakeStore{slotsBySlug: map[string]*models.Slot{slot.Slug: slot}}
	r, _ := newTestHandlerRouter(store)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/banners/deactivate-slot",
		strings.NewReader(`{"position_or_name":"home-top","locality_scope":"geral","exclude_creative_id":"not-a-uuid"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
