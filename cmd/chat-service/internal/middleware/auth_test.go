package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kozeke/marketplace-chatwidget/cmd/chat-service/internal/security"
)

func newAuthTestRouter(jwtService *security.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JwtAuth(jwtService), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"agentId": c.GetString("agent_id")})
	})
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJwtAuthAcceptsValidToken(t *testing.T) {
	svc := security.NewJWTService("test-secret", 24)
	token, _, err := svc.GenerateToken("a1")
	require.NoError(t, err)

	w := doRequest(newAuthTestRouter(svc), "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"agentId":"a1"`)
}

func TestJwtAuthRejects(t *testing.T) {
	svc := security.NewJWTService("test-secret", 24)
	other, _, err := security.NewJWTService("other-secret", 24).GenerateToken("a1")
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"malformed header", "Token abc"},
		{"garbage token", "Bearer not.a.token"},
		{"wrong secret", "Bearer " + other},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(newAuthTestRouter(svc), tc.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
