package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portaldovale/backend/internal/auth"
	"github.com/portaldovale/backend/pkg/response"
)

func protectedRouter(jwtService *auth.JWTService, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{JWT(jwtService)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRole(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		response.OK(c, gin.H{"user_id": c.MustGet(ContextUserID)})
	})
	r.POST("/protected", handlers...)
	return r
}

func TestJWTRejectsMissingHeader(t *testing.T) {
	r := protectedRouter(auth.NewJWTService("secret", 1))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/protected", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTRejectsMalformedHeader(t *testing.T) {
	r := protectedRouter(auth.NewJWTService("secret", 1))
	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTRejectsTokenSignedWithOtherSecret(t *testing.T) {
	r := protectedRouter(auth.NewJWTService("secret", 1))
	token, err := auth.NewJWTService("other-secret", 1).Generate(uuid.New(), "a@b.c", "admin")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAcceptsValidToken(t *testing.T) {
	svc := auth.NewJWTService("secret", 1)
	r := protectedRouter(svc)
	token, err := svc.Generate(uuid.New(), "a@b.c", "admin")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleForbidsOtherRoles(t *testing.T) {
	svc := auth.NewJWTService("secret", 1)
	r := protectedRouter(svc, "admin")
	token, err := svc.Generate(uuid.New(), "a@b.c", "reader")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

type fakeRoleSource struct {
	roles map[uuid.UUID]string
}

func (f *fakeRoleSource) GetRole(_ context.Context, id uuid.UUID) (string, error) {
	role, ok := f.roles[id]
	if !ok {
		return "", errors.New("no such user")
	}
	return role, nil
}

func profileRouter(jwtService *auth.JWTService, src RoleSource, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/protected", JWT(jwtService), RequireProfileRole(src, roles...), func(c *gin.Context) {
		response.OK(c, gin.H{"user_id": c.MustGet(ContextUserID)})
	})
	return r
}

func TestRequireProfileRoleForbidsEditor(t *testing.T) {
	svc := auth.NewJWTService("secret", 1)
	userID := uuid.New()
	src := &fakeRoleSource{roles: map[uuid.UUID]string{userID: "editor"}}
	r := profileRouter(svc, src, "admin")
	token, err := svc.Generate(userID, "a@b.c", "editor")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireProfileRoleAllowsAdmin(t *testing.T) {
	svc := auth.NewJWTService("secret", 1)
	userID := uuid.New()
	src := &fakeRoleSource{roles: map[uuid.UUID]string{userID: "admin"}}
	r := profileRouter(svc, src, "admin")
	token, err := svc.Generate(userID, "a@b.c", "admin")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireProfileRoleSeesDemotion(t *testing.T) {
	// The token still claims admin but the stored profile was demoted.
	svc := auth.NewJWTService("secret", 1)
	userID := uuid.New()
	src := &fakeRoleSource{roles: map[uuid.UUID]string{userID: "reader"}}
	r := profileRouter(svc, src, "admin")
	token, err := svc.Generate(userID, "a@b.c", "admin")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireProfileRoleForbidsUnknownUser(t *testing.T) {
	svc := auth.NewJWTService("secret", 1)
	src := &fakeRoleSource{roles: map[uuid.UUID]string{}}
	r := profileRouter(svc, src, "admin")
	token, err := svc.Generate(uuid.New(), "a@b.c", "admin")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRoleAllowsListedRole(t *testing.T) {
	svc := auth.NewJWTService("secret", 1)
	r := protectedRouter(svc, "admin", "editor")
	token, err := svc.Generate(uuid.New(), "a@b.c", "editor")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
