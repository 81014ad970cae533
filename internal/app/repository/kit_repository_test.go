package repository

import (
	"testing"

	"github.com/cixi/storefront-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestKitRepository_CreateAndFind(t *testing.T) {
	f := setupCatalogTest(t)
	cuaderno := f.product(t, "Cuaderno", 10, 5, nil)
	lapiz := f.product(t, "Lápiz", 1.5, 50, nil)
	paper := "Bond"

	kit := &model.Kit{Name: "Escolar", PaperType: &paper, Items: []model.KitItem{
		{ProductID: cuaderno.ID, Quantity: 2},
		{ProductID: lapiz.ID, Quantity: 4},
	}}
	require.NoError(t, f.kits.Create(kit))
	assert.NotZero(t, kit.ID)

	found, err := f.kits.FindByID(kit.ID)
	require.NoError(t, err)
	assert.Equal(t, "Escolar", found.Name)
	require.NotNil(t, found.PaperType)
	assert.Equal(t, "Bond", *found.PaperType)
	require.Len(t, found.Items, 2)
	require.NotNil(t, found.Items[0].Product)
	assert.Equal(t, "Cuaderno", found.Items[0].Product.Name)
	assert.Equal(t, 26.0, found.Total)

	all, err := f.kits.FindAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 26.0, all[0].Total)
}

func TestKitRepository_Replace(t *testing.T) {
	f := setupCatalogTest(t)
	cuaderno := f.product(t, "Cuaderno", 10, 5, nil)
	lapiz := f.product(t, "Lápiz", 1.5, 50, nil)

	kit := &model.Kit{Name: "Escolar", Items: []model.KitItem{{ProductID: cuaderno.ID, Quantity: 2}}}
	require.NoError(t, f.kits.Create(kit))

	replacement := &model.Kit{ID: kit.ID, Name: "Oficina", Items: []model.KitItem{{ProductID: lapiz.ID, Quantity: 10}}}
	require.NoError(t, f.kits.Replace(replacement))

	found, err := f.kits.FindByID(kit.ID)
	require.NoError(t, err)
	assert.Equal(t, "Oficina", found.Name)
	assert.Nil(t, found.PaperType)
	require.Len(t, found.Items, 1)
	assert.Equal(t, lapiz.ID, found.Items[0].ProductID)
	assert.Equal(t, 15.0, found.Total)

	missing := &model.Kit{ID: 999, Name: "x"}
	assert.ErrorIs(t, f.kits.Replace(missing), gorm.ErrRecordNotFound)
}

func TestKitRepository_Delete(t *testing.T) {
	f := setupCatalogTest(t)
	cuaderno := f.product(t, "Cuaderno", 10, 5, nil)

	kit := &model.Kit{Name: "Escolar", Items: []model.KitItem{{ProductID: cuaderno.ID, Quantity: 1}}}
	require.NoError(t, f.kits.Create(kit))

	require.NoError(t, f.kits.Delete(kit.ID))
	_, err := f.kits.FindByID(kit.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var items int64
	require.NoError(t, f.db.Model(&model.KitItem{}).Count(&items).Error)
	assert.Zero(t, items)

	assert.ErrorIs(t, f.kits.Delete(kit.ID), gorm.ErrRecordNotFound)
}
