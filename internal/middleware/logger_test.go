package middleware

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T, r *gin.Engine, path string) string {
	t.Helper()

	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(orig)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return buf.String()
}

func TestLoggerSkipsHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Logger())
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/watchlist", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Empty(t, captureLog(t, r, "/health"))

	out := captureLog(t, r, "/api/watchlist")
	assert.Contains(t, out, "[HTTP]")
	assert.Contains(t, out, "/api/watchlist")
	assert.NotContains(t, out, "[ERROR]")
}

func TestLoggerMarksServerErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Logger())
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	out := captureLog(t, r, "/boom")
	assert.Contains(t, out, "[HTTP][ERROR]")
	assert.Contains(t, out, "状态:500")
}
