package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(manager *JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	protected := r.Group("", AuthRequired(manager))
	protected.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c), "role": GetUserRole(c)})
	})

	admin := r.Group("/admin", AuthRequired(manager), RequireAdmin())
	admin.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return r
}

func doRequest(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)
	router := newTestRouter(manager)

	t.Run("missing header", func(t *testing.T) {
		w := doRequest(router, "/me", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Token abc")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		w := doRequest(router, "/me", "bogus")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token passes claims through", func(t *testing.T) {
		token, err := manager.GenerateAccessToken("user-1", "asha@example.com", RoleUser)
		require.NoError(t, err)

		w := doRequest(router, "/me", token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "user-1")
	})
}

func TestRequireAdmin(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)
	router := newTestRouter(manager)

	t.Run("user role forbidden", func(t *testing.T) {
		token, err := manager.GenerateAccessToken("user-1", "asha@example.com", RoleUser)
		require.NoError(t, err)

		w := doRequest(router, "/admin/ping", token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin role allowed", func(t *testing.T) {
		token, err := manager.GenerateAccessToken("admin-1", "root@example.com", RoleAdmin)
		require.NoError(t, err)

		w := doRequest(router, "/admin/ping", token)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
