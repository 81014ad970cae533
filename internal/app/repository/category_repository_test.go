package repository

import (
	"testing"

	"github.com/cixi/storefront-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCategoryRepository_FindAllSorted(t *testing.T) {
	f := setupCatalogTest(t)
	f.category(t, "Papelería")
	f.category(t, "Arte")

	categories, err := f.categories.FindAll()
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Arte", categories[0].Name)
}

func TestCategoryRepository_FindOrCreateByName(t *testing.T) {
	f := setupCatalogTest(t)

	first, err := f.categories.FindOrCreateByName("Arte")
	require.NoError(t, err)
	second, err := f.categories.FindOrCreateByName("Arte")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestCategoryRepository_DeleteDetachesProducts(t *testing.T) {
	f := setupCatalogTest(t)
	arte := f.category(t, "Arte")
	p := f.product(t, "Acuarelas", 25, 2, arte)

	require.NoError(t, f.categories.Delete(arte.ID))

	found, err := f.products.FindByID(p.ID)
	require.NoError(t, err)
	assert.Nil(t, found.CategoryID)
	assert.Nil(t, found.Category)

	assert.ErrorIs(t, f.categories.Delete(arte.ID), gorm.ErrRecordNotFound)
}

func TestCategoryRepository_UniqueName(t *testing.T) {
	f := setupCatalogTest(t)
	f.category(t, "Arte")

	err := f.categories.Create(&model.Category{Name: "Arte"})
	assert.Error(t, err)
}
