package errors

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		context  string
		wantCode string
		wantMsg  string
	}{
		{
			name:     "record not found",
			err:      fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound),
			context:  "get product",
			wantCode: ResourceNotFound,
			wantMsg:  "Producto no encontrado",
		},
		{
			name:     "postgres duplicate email",
			err:      &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"},
			context:  "register",
			wantCode: AuthEmailAlreadyExists,
			wantMsg:  "El email ya está registrado",
		},
		{
			name:     "postgres foreign key on delete",
			err:      &pgconn.PgError{Code: "23503", ConstraintName: "fk_kit_items_product"},
			context:  "delete product",
			wantCode: ResourceConflict,
		},
		{
			name:     "postgres foreign key on create",
			err:      &pgconn.PgError{Code: "23503", ConstraintName: "fk_products_category"},
			context:  "create product",
			wantCode: CategoryNotFound,
		},
		{
			name:     "sqlite unique category",
			err:      fmt.Errorf("UNIQUE constraint failed: categories.name"),
			context:  "create category",
			wantCode: CategoryNameExists,
			wantMsg:  "La categoría ya existe",
		},
		{
			name:     "unknown",
			err:      fmt.Errorf("disk on fire"),
			context:  "update kit",
			wantCode: InternalServerError,
			wantMsg:  "Error al actualizar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseError(tt.err, tt.context)
			assert.Equal(t, tt.wantCode, info.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, info.Message)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	MethodNotAllowed(c, http.MethodPost)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "POST", w.Header().Get("Allow"))
	assert.JSONEq(t, `{"error":"Método no permitido","code":"METHOD_NOT_ALLOWED"}`, w.Body.String())
}
