package errors

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// ErrorInfo is a code plus a user-facing message
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError maps storage errors to a response code and message.
// context names the operation ("create category", "delete product") and picks the wording.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Error interno del servidor"}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		detail := strings.ToLower(pgErr.ConstraintName + " " + pgErr.ColumnName + " " + pgErr.Message)
		switch pgErr.Code {
		case pgUniqueViolation:
			return duplicateKey(detail)
		case pgForeignKeyViolation:
			return foreignKey(detail, context)
		case pgNotNullViolation:
			return ErrorInfo{Code: ValidationRequired, Message: "Faltan campos obligatorios"}
		case pgCheckViolation:
			return ErrorInfo{Code: ValidationInvalidRange, Message: "Valor fuera de rango"}
		}
	}

	// SQLite reports constraint failures as plain strings
	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "unique constraint failed"):
		return duplicateKey(lower)
	case strings.Contains(lower, "foreign key constraint failed"):
		return foreignKey(lower, context)
	case strings.Contains(lower, "not null constraint failed"):
		return ErrorInfo{Code: ValidationRequired, Message: "Faltan campos obligatorios"}
	case strings.Contains(lower, "connection refused"), strings.Contains(lower, "timeout"):
		return ErrorInfo{Code: InternalDatabaseError, Message: "Base de datos no disponible, intenta más tarde"}
	}

	return ErrorInfo{Code: InternalServerError, Message: defaultMessage(context)}
}

func duplicateKey(detail string) ErrorInfo {
	switch {
	case strings.Contains(detail, "email"):
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "El email ya está registrado"}
	case strings.Contains(detail, "username"):
		return ErrorInfo{Code: AuthUsernameExists, Message: "El nombre de usuario ya existe"}
	case strings.Contains(detail, "categories"):
		return ErrorInfo{Code: CategoryNameExists, Message: "La categoría ya existe"}
	}
	return ErrorInfo{Code: ResourceAlreadyExists, Message: "El registro ya existe"}
}

func foreignKey(detail, context string) ErrorInfo {
	if strings.Contains(strings.ToLower(context), "delete") {
		return ErrorInfo{Code: ResourceConflict, Message: "Hay datos relacionados que impiden eliminarlo"}
	}
	switch {
	case strings.Contains(detail, "category"):
		return ErrorInfo{Code: CategoryNotFound, Message: "Categoría no encontrada"}
	case strings.Contains(detail, "product"):
		return ErrorInfo{Code: ProductNotFound, Message: "Producto no encontrado"}
	}
	return ErrorInfo{Code: ResourceNotFound, Message: "Referencia no encontrada"}
}

func notFoundMessage(context string) string {
	lower := strings.ToLower(context)
	switch {
	case strings.Contains(lower, "product"):
		return "Producto no encontrado"
	case strings.Contains(lower, "categor"):
		return "Categoría no encontrada"
	case strings.Contains(lower, "kit"):
		return "Kit no encontrado"
	case strings.Contains(lower, "comment"):
		return "Comentario no encontrado"
	case strings.Contains(lower, "user"):
		return "Usuario no encontrado"
	}
	return "No encontrado"
}

func defaultMessage(context string) string {
	lower := strings.ToLower(context)
	switch {
	case strings.Contains(lower, "create"):
		return "Error al crear"
	case strings.Contains(lower, "update"):
		return "Error al actualizar"
	case strings.Contains(lower, "delete"):
		return "Error al eliminar"
	}
	return "Error interno del servidor"
}

// ParseAndRespond parses err and writes it with statusCode
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	info := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{Error: info.Message, Code: info.Code})
}
