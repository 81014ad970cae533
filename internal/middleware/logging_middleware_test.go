package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cixi/storefront-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger.Initialize(logger.Config{Level: "info", Format: "json", Output: &buf})
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(LoggingMiddleware())
	router.GET("/ping", func(c *gin.Context) {
		GetLoggerFromContext(c).Info("handling ping")
		c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("Assigns a request id", func(t *testing.T) {
		buf.Reset()
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		id := w.Header().Get(RequestIDHeader)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
		assert.Equal(t, id, w.Body.String())
		assert.Contains(t, buf.String(), `"request_id":"`+id+`"`)
		assert.Contains(t, buf.String(), "handling ping")
		assert.Contains(t, buf.String(), `"status_code":200`)
	})

	t.Run("Reuses a client request id", func(t *testing.T) {
		id := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, id)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, id, w.Header().Get(RequestIDHeader))
	})
}
