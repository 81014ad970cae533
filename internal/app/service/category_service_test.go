package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService(t *testing.T) {
	f := setupServiceTest(t)
	categoryService := NewCategoryService(f.categories)

	arte, err := categoryService.CreateCategory(" Arte ")
	require.NoError(t, err)
	assert.Equal(t, "Arte", arte.Name)

	_, err = categoryService.CreateCategory("arte")
	assert.ErrorIs(t, err, ErrCategoryExists)

	_, err = categoryService.CreateCategory("")
	assert.ErrorIs(t, err, ErrCategoryNameRequired)

	papeleria, err := categoryService.CreateCategory("Papelería")
	require.NoError(t, err)

	t.Run("Rename", func(t *testing.T) {
		renamed, err := categoryService.RenameCategory(arte.ID, "Bellas artes")
		require.NoError(t, err)
		assert.Equal(t, "Bellas artes", renamed.Name)

		_, err = categoryService.RenameCategory(arte.ID, "PAPELERÍA")
		assert.ErrorIs(t, err, ErrCategoryExists)

		_, err = categoryService.RenameCategory(9999, "Otra")
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})

	t.Run("Delete detaches products", func(t *testing.T) {
		p := f.product(t, "Resma", 8, 10)
		p.CategoryID = &papeleria.ID
		require.NoError(t, f.products.Update(p))

		require.NoError(t, categoryService.DeleteCategory(papeleria.ID))

		reloaded, err := f.products.FindByID(p.ID)
		require.NoError(t, err)
		assert.Nil(t, reloaded.CategoryID)

		assert.ErrorIs(t, categoryService.DeleteCategory(papeleria.ID), ErrCategoryNotFound)
	})

	categories, err := categoryService.ListCategories()
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Bellas artes", categories[0].Name)
}
