package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func allowlistRouter(allowed []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(IPAllowlistMiddleware(allowed))
	router.POST("/hook", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func performRequest(router *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/hook", nil)
	req.RemoteAddr = "203.0.113.50:4431"
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIPAllowlistAcceptsListedAddress(t *testing.T) {
	router := allowlistRouter([]string{"203.0.113.50"})
	w := performRequest(router, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIPAllowlistRejectsUnlistedAddress(t *testing.T) {
	router := allowlistRouter([]string{"198.51.100.1"})
	w := performRequest(router, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Unauthorized IP")
}

func TestIPAllowlistEmptyListFailsClosed(t *testing.T) {
	router := allowlistRouter(nil)
	w := performRequest(router, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestIPAllowlistForwardedForTakesPrecedence(t *testing.T) {
	router := allowlistRouter([]string{"198.51.100.7"})
	w := performRequest(router, map[string]string{
		"X-Forwarded-For": "198.51.100.7, 10.0.0.1",
		"X-Real-IP":       "203.0.113.50",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIPAllowlistRealIPFallback(t *testing.T) {
	router := allowlistRouter([]string{"198.51.100.7"})
	w := performRequest(router, map[string]string{
		"X-Real-IP": "198.51.100.7",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestClientIPPrecedence(t *testing.T) {
	gin.SetMode(gin.TestMode)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.50:4431"
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	assert.Equal(t, "203.0.113.50", ClientIP(c))

	req.Header.Set("X-Real-IP", "198.51.100.7")
	assert.Equal(t, "198.51.100.7", ClientIP(c))

	req.Header.Set("X-Forwarded-For", "192.0.2.9, 10.0.0.1")
	assert.Equal(t, "192.0.2.9", ClientIP(c))
}
