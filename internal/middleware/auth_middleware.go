package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/cixi/storefront-backend/internal/app/model"
	apperrors "github.com/cixi/storefront-backend/internal/errors"
	"github.com/cixi/storefront-backend/pkg/redis"
	"github.com/cixi/storefront-backend/pkg/util"
	"github.com/gin-gonic/gin"
)

// SessionCookieName carries the session token for browser clients
const SessionCookieName = "session_token"

// Context keys for the resolved caller
const (
	identityKey = "identity"
	claimsKey   = "claims"
)

var (
	errMissingToken   = errors.New("missing session token")
	errMalformedToken = errors.New("malformed authorization header")
	errRevokedToken   = errors.New("session token revoked")
)

type AuthMiddleware struct {
	jwtSecret string
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
	}
}

// extractToken prefers the Authorization header over the session cookie
func extractToken(c *gin.Context) (string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", errMalformedToken
		}
		return parts[1], nil
	}
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie, nil
	}
	return "", errMissingToken
}

func (m *AuthMiddleware) resolve(c *gin.Context) (*util.Claims, error) {
	token, err := extractToken(c)
	if err != nil {
		return nil, err
	}
	claims, err := util.ValidateToken(token, m.jwtSecret)
	if err != nil {
		return nil, err
	}
	revoked, err := redis.IsTokenBlacklisted(c.Request.Context(), claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, errRevokedToken
	}
	return claims, nil
}

func setIdentity(c *gin.Context, claims *util.Claims) {
	c.Set(claimsKey, claims)
	c.Set(identityKey, &model.Identity{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   model.UserRole(claims.Role),
	})
}

// Authenticate rejects the request unless it carries a valid session token
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		claims, err := m.resolve(c)
		if err != nil {
			log.Warn("Authentication failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			switch {
			case errors.Is(err, errMissingToken):
				apperrors.Unauthorized(c, "")
			case errors.Is(err, util.ErrExpiredToken):
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenExpired, "Tu sesión expiró")
			case errors.Is(err, errRevokedToken):
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenRevoked, "La sesión fue cerrada")
			default:
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Sesión inválida")
			}
			return
		}

		setIdentity(c, claims)
		log.Debug("User authenticated", map[string]interface{}{
			"user_id": claims.UserID,
			"role":    claims.Role,
		})
		c.Next()
	}
}

// OptionalAuthenticate resolves the caller when possible and lets guests through
func (m *AuthMiddleware) OptionalAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := m.resolve(c)
		if err != nil {
			if !errors.Is(err, errMissingToken) {
				GetLoggerFromContext(c).Debug("Ignoring session token", map[string]interface{}{
					"path":  c.Request.URL.Path,
					"error": err.Error(),
				})
			}
			c.Next()
			return
		}
		setIdentity(c, claims)
		c.Next()
	}
}

// RequireRole must run after Authenticate
func (m *AuthMiddleware) RequireRole(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		identity := GetIdentity(c)
		if identity == nil {
			apperrors.Unauthorized(c, "")
			return
		}
		for _, r := range roles {
			if identity.Role == r {
				c.Next()
				return
			}
		}

		log.Warn("Insufficient permissions", map[string]interface{}{
			"user_id":        identity.UserID,
			"user_role":      identity.Role,
			"required_roles": roles,
			"path":           c.Request.URL.Path,
		})
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzAdminOnly, "No tienes permisos para esta acción")
	}
}

// GetIdentity returns the authenticated caller or nil for guests
func GetIdentity(c *gin.Context) *model.Identity {
	v, exists := c.Get(identityKey)
	if !exists {
		return nil
	}
	identity, _ := v.(*model.Identity)
	return identity
}

// GetClaims returns the validated token claims, used on logout
func GetClaims(c *gin.Context) *util.Claims {
	v, exists := c.Get(claimsKey)
	if !exists {
		return nil
	}
	claims, _ := v.(*util.Claims)
	return claims
}
