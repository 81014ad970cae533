package middleware

import (
	"net/http"
	"time"

	"github.com/cixi/storefront-backend/internal/session"
	"github.com/gin-gonic/gin"
)

// CartCookieName carries the opaque cart session id
const CartCookieName = "cart_session"

const cartSessionKey = "cart_session_id"

// CartSession attaches a cart session id to the request, issuing a new one
// when the cookie is missing or malformed. The cookie is refreshed on every
// request so its lifetime slides with the stored cart.
func CartSession(ttl time.Duration, secure bool) gin.HandlerFunc {
	maxAge := int(ttl / time.Second)
	return func(c *gin.Context) {
		id, err := c.Cookie(CartCookieName)
		if err != nil || !session.ValidID(id) {
			id = session.NewID()
			GetLoggerFromContext(c).Debug("Issued cart session", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
		}

		c.Set(cartSessionKey, id)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(CartCookieName, id, maxAge, "/", "", secure, true)
		c.Next()
	}
}

// GetCartSessionID returns the id set by CartSession
func GetCartSessionID(c *gin.Context) string {
	return c.GetString(cartSessionKey)
}
