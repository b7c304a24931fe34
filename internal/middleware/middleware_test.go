package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"taskapi/internal/logger"
	"taskapi/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.AccessLog())

	r.GET("/resource", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"from_gin":     middleware.GetRequestID(c),
			"from_context": logger.GetRequestID(c.Request.Context()),
		})
	})
	r.GET("/missing", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{})
	})

	return r
}

func TestRequestID_KeepsInboundHeader(t *testing.T) {
	// Arrange
	router := setupRouter()
	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-42", w.Header().Get(middleware.RequestIDHeader))
	assert.JSONEq(t, `{"from_gin":"req-42","from_context":"req-42"}`, w.Body.String())
}

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	// Arrange
	router := setupRouter()
	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert
	id := w.Header().Get(middleware.RequestIDHeader)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.Contains(t, w.Body.String(), id)
}

func TestAccessLog_WritesRequestLine(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger.SetDefault(logger.New(&buf, "json", "info"))
	router := setupRouter()
	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-7")
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert
	line := strings.TrimSpace(buf.String())
	require.NotEmpty(t, line)
	assert.Contains(t, line, `"level":"WARN"`)
	assert.Contains(t, line, `"status":404`)
	assert.Contains(t, line, `"request_id":"req-7"`)
	assert.Contains(t, line, `"path":"/missing"`)
}
