package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/cixi/storefront-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupKitRoutes(f *controllerFixture) {
	ctrl := NewKitController(f.services.kit)
	kits := f.router.Group("/api/v1/kits")
	kits.GET("", ctrl.ListKits)
	kits.GET("/:id", ctrl.GetKit)
	kits.POST("", append(f.adminOnly(), ctrl.CreateKit)...)
	kits.PATCH("/:id", append(f.adminOnly(), ctrl.UpdateKit)...)
	kits.DELETE("/:id", append(f.adminOnly(), ctrl.DeleteKit)...)
	f.router.GET("/api/v1/paper-types", ctrl.ListPaperTypes)
}

func TestKitController(t *testing.T) {
	f := setupControllerTest(t)
	setupKitRoutes(f)
	_, admin := f.user(t, "admin", model.RoleAdmin)
	pen := f.product(t, "Bolígrafo", 2, 50)
	book := f.product(t, "Libreta", 8, 20)

	w := f.do(http.MethodPost, "/api/v1/kits", map[string]interface{}{
		"name":      "Vuelta al cole",
		"paperType": "Bond",
		"items": []map[string]interface{}{
			{"productId": pen.ID, "quantity": 3},
			{"productId": fmt.Sprint(book.ID), "quantity": "2"},
		},
	}, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var kit model.Kit
	decodeJSON(t, w, &kit)
	assert.Len(t, kit.Items, 2)

	t.Run("rejections", func(t *testing.T) {
		tests := []struct {
			name    string
			body    map[string]interface{}
			wantMsg string
		}{
			{"no name", map[string]interface{}{"items": []map[string]interface{}{{"productId": pen.ID}}}, "Nombre requerido"},
			{"no items", map[string]interface{}{"name": "Vacío"}, "Selecciona al menos un producto"},
			{"unknown product", map[string]interface{}{"name": "X", "items": []map[string]interface{}{{"productId": 999}}}, "Producto no encontrado"},
			{"bad paper", map[string]interface{}{"name": "X", "paperType": "Papiro", "items": []map[string]interface{}{{"productId": pen.ID}}}, "Tipo de papel inválido"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				w := f.do(http.MethodPost, "/api/v1/kits", tt.body, admin)
				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.Equal(t, tt.wantMsg, decodeError(t, w).Error)
			})
		}
	})

	path := fmt.Sprintf("/api/v1/kits/%d", kit.ID)
	w = f.do(http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodPatch, path, map[string]interface{}{
		"name":  "Solo libretas",
		"items": []map[string]interface{}{{"productId": book.ID, "quantity": 1}},
	}, admin)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &kit)
	assert.Equal(t, "Solo libretas", kit.Name)
	assert.Len(t, kit.Items, 1)
	assert.Nil(t, kit.PaperType)

	w = f.do(http.MethodDelete, path, nil, admin)
	assert.Equal(t, http.StatusOK, w.Code)
	w = f.do(http.MethodGet, path, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Kit no encontrado", decodeError(t, w).Error)
}

func TestKitController_ListPaperTypes(t *testing.T) {
	f := setupControllerTest(t)
	setupKitRoutes(f)

	w := f.do(http.MethodGet, "/api/v1/paper-types", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var types []PaperTypeResponse
	decodeJSON(t, w, &types)
	require.Len(t, types, 5)
	assert.Equal(t, PaperTypeResponse{Name: "Bond", Fee: 5}, types[0])
}
