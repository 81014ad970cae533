package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cixi/storefront-backend/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cartSessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == CartCookieName {
			return c
		}
	}
	t.Fatalf("response has no %s cookie", CartCookieName)
	return nil
}

func TestCartSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CartSession(72*time.Hour, false))
	router.GET("/cart", func(c *gin.Context) {
		c.String(http.StatusOK, GetCartSessionID(c))
	})

	t.Run("Issues a session when missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cart", nil))

		cookie := cartSessionCookie(t, w)
		assert.True(t, session.ValidID(cookie.Value))
		assert.Equal(t, cookie.Value, w.Body.String())
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, 72*3600, cookie.MaxAge)
	})

	t.Run("Keeps a valid session", func(t *testing.T) {
		id := session.NewID()
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.AddCookie(&http.Cookie{Name: CartCookieName, Value: id})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, id, w.Body.String())
		assert.Equal(t, id, cartSessionCookie(t, w).Value)
	})

	t.Run("Replaces a malformed session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.AddCookie(&http.Cookie{Name: CartCookieName, Value: "../../etc"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.NotEqual(t, "../../etc", w.Body.String())
		assert.True(t, session.ValidID(w.Body.String()))
	})
}
