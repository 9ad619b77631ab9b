package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"meds4you_back_end/internal/utils"
)

func performWithAuthHeader(t *testing.T, header string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		c.Request.Header.Set("Authorization", header)
	}

	AuthRequired()(c)
	if !c.IsAborted() {
		w.WriteHeader(http.StatusOK)
	}
	return w, c
}

func TestAuthRequired_ValidToken(t *testing.T) {
	token, err := utils.GenerateJWT("651fa2b3c4d5e6f7a8b9c0d1", "test@meds4you.in", "user")
	assert.NoError(t, err)

	w, c := performWithAuthHeader(t, "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "651fa2b3c4d5e6f7a8b9c0d1", c.GetString("user_id"))
	assert.Equal(t, "user", c.GetString("role"))
}

func TestAuthRequired_MissingHeader(t *testing.T) {
	w, _ := performWithAuthHeader(t, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired_BadFormat(t *testing.T) {
	w, _ := performWithAuthHeader(t, "Basic abc123")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired_GarbageToken(t *testing.T) {
	w, _ := performWithAuthHeader(t, "Bearer pas.un.token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired_ExpiredToken(t *testing.T) {
	claims := jwt.MapClaims{
		"user_id": "651fa2b3c4d5e6f7a8b9c0d1",
		"email":   "test@meds4you.in",
		"role":    "user",
		"exp":     time.Now().Add(-1 * time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret())
	assert.NoError(t, err)

	w, _ := performWithAuthHeader(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired_MissingUserID(t *testing.T) {
	claims := jwt.MapClaims{
		"email": "test@meds4you.in",
		"role":  "user",
		"exp":   time.Now().Add(1 * time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret())
	assert.NoError(t, err)

	w, _ := performWithAuthHeader(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
