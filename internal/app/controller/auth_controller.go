package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/cixi/storefront-backend/internal/app/service"
	apperrors "github.com/cixi/storefront-backend/internal/errors"
	"github.com/cixi/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	authService  service.AuthService
	cookieSecure bool
}

func NewAuthController(authService service.AuthService, cookieSecure bool) *AuthController {
	return &AuthController{
		authService:  authService,
		cookieSecure: cookieSecure,
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (ctrl *AuthController) setSessionCookie(c *gin.Context, session *service.Session) {
	maxAge := int(time.Until(session.ExpiresAt) / time.Second)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, session.Token, maxAge, "/", "", ctrl.cookieSecure, true)
}

func sessionResponse(session *service.Session) gin.H {
	return gin.H{
		"user":      session.User,
		"token":     session.Token,
		"expiresAt": session.ExpiresAt,
	}
}

// Register handles user registration
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Completa usuario, email y contraseña")
		return
	}

	session, err := ctrl.authService.Register(req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailAlreadyExists):
			apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "El email ya está registrado")
		case errors.Is(err, service.ErrInvalidEmail):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Email inválido")
		case errors.Is(err, service.ErrUsernameRequired):
			apperrors.BadRequest(c, apperrors.ValidationRequired, "Nombre de usuario requerido")
		case errors.Is(err, service.ErrWeakPassword):
			apperrors.BadRequest(c, apperrors.AuthWeakPassword, "La contraseña debe tener al menos 6 caracteres")
		default:
			info := apperrors.ParseError(err, "register user")
			if info.Code == apperrors.AuthUsernameExists || info.Code == apperrors.AuthEmailAlreadyExists {
				apperrors.Conflict(c, info.Code, info.Message)
				return
			}
			log.Error("Registration failed", err)
			apperrors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
		}
		return
	}

	log.Info("User registered", map[string]interface{}{
		"user_id": session.User.ID,
	})
	ctrl.setSessionCookie(c, session)
	c.JSON(http.StatusCreated, sessionResponse(session))
}

// Login handles user login
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Completa email y contraseña")
		return
	}

	session, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Email o contraseña incorrectos")
			return
		}
		log.Error("Login failed", err)
		apperrors.InternalError(c, "")
		return
	}

	log.Info("User logged in", map[string]interface{}{
		"user_id": session.User.ID,
	})
	ctrl.setSessionCookie(c, session)
	c.JSON(http.StatusOK, sessionResponse(session))
}

// Logout revokes the current token and clears the cookie
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if err := ctrl.authService.Logout(c.Request.Context(), middleware.GetClaims(c)); err != nil {
		log.Error("Failed to revoke session token", err)
		apperrors.InternalError(c, "No se pudo cerrar la sesión")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", ctrl.cookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"message": "Sesión cerrada"})
}

// GetMe returns the authenticated user
// GET /api/v1/auth/me
func (ctrl *AuthController) GetMe(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		apperrors.Unauthorized(c, "")
		return
	}

	user, err := ctrl.authService.GetUserByID(identity.UserID)
	if errors.Is(err, service.ErrUserNotFound) {
		apperrors.NotFound(c, apperrors.ResourceNotFound, "Usuario no encontrado")
		return
	}
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to load user", err)
		apperrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
