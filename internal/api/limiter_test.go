package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newLimitedRouter(rps float64, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(rps, burst))
	r.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func ping(r *gin.Engine, ip string) int {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = ip + ":1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitRejectsBeyondBurst(t *testing.T) {
	router := newLimitedRouter(1, 3)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, ping(router, "10.0.0.1"), "request %d within burst", i)
	}
	assert.Equal(t, http.StatusTooManyRequests, ping(router, "10.0.0.1"))
}

func TestRateLimitIsPerClient(t *testing.T) {
	router := newLimitedRouter(1, 1)

	assert.Equal(t, http.StatusOK, ping(router, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, ping(router, "10.0.0.1"))

	// A different client has its own bucket.
	assert.Equal(t, http.StatusOK, ping(router, "10.0.0.2"))
}

func TestRateLimitDisabled(t *testing.T) {
	router := newLimitedRouter(0, 0)

	for i := 0; i < 50; i++ {
		assert.Equal(t, http.StatusOK, ping(router, "10.0.0.1"))
	}
}
