package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	for _, s := range []string{"user", "admin", "partner", "referrer"} {
		role, ok := ParseRole(s)
		assert.True(t, ok, s)
		assert.Equal(t, Role(s), role)
	}

	for _, s := range []string{"", "superadmin", "Admin", "USER", "root"} {
		_, ok := ParseRole(s)
		assert.False(t, ok, s)
	}
}

func performWithRole(t *testing.T, role interface{}, handler gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if role != nil {
		c.Set("role", role)
	}

	handler(c)
	if !c.IsAborted() {
		w.WriteHeader(http.StatusOK)
	}
	return w
}

func TestRequireRoles(t *testing.T) {
	t.Run("rôle autorisé", func(t *testing.T) {
		w := performWithRole(t, "admin", RequireRoles(RoleAdmin))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rôle non listé", func(t *testing.T) {
		w := performWithRole(t, "user", RequireRoles(RoleAdmin))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("rôle hors de l'ensemble fermé", func(t *testing.T) {
		w := performWithRole(t, "superadmin", RequireRoles(RoleAdmin, RoleUser))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("claim absente", func(t *testing.T) {
		w := performWithRole(t, nil, RequireRoles(RoleAdmin))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("plusieurs rôles autorisés", func(t *testing.T) {
		w := performWithRole(t, "partner", RequireRoles(RoleUser, RolePartner))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
