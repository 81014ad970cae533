package errors

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx response.
// Error is the user-facing message, Code is stable for clients.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// RespondWithError aborts the request with the given status, code and message
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Error: message,
		Code:  errorCode,
	})
}

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Debes iniciar sesión"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "No tienes permisos para esta acción"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Error interno del servidor"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// MethodNotAllowed answers 405 and advertises the accepted methods
func MethodNotAllowed(c *gin.Context, allowed ...string) {
	c.Header("Allow", strings.Join(allowed, ", "))
	RespondWithError(c, http.StatusMethodNotAllowed, MethodNotAllowedCode, "Método no permitido")
}

// ValidationError carries per-field messages
type ValidationError struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

func RespondWithValidationError(c *gin.Context, fields map[string]string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ValidationError{
		Error:  "Datos inválidos",
		Code:   ValidationInvalidInput,
		Fields: fields,
	})
}
