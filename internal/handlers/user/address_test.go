package user

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func performAddAddress(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/users/address", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("user_id", "651fa2b3c4d5e6f7a8b9c0d1")

	AddAddress(c)
	return w
}

// Tous les champs d'adresse sont requis sauf isPrimary
func TestAddAddress_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "zipCode absent",
			body: `{"street":"12 rue des Lilas","city":"Pune","state":"Maharashtra","country":"India"}`,
		},
		{
			name: "state absent",
			body: `{"street":"12 rue des Lilas","city":"Pune","zipCode":"411001","country":"India"}`,
		},
		{
			name: "country absent",
			body: `{"street":"12 rue des Lilas","city":"Pune","state":"Maharashtra","zipCode":"411001"}`,
		},
		{
			name: "street absent",
			body: `{"city":"Pune","state":"Maharashtra","zipCode":"411001","country":"India"}`,
		},
		{
			name: "body vide",
			body: `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performAddAddress(t, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
