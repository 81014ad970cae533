package main

import (
	"testing"

	"github.com/cixi/storefront-backend/internal/app/model"
	"github.com/cixi/storefront-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFallback(t *testing.T) {
	_, err := buildFallback("  ", "", "")
	assert.Error(t, err)

	_, err = buildFallback("a@example.com", "", "123")
	assert.Error(t, err)

	user, err := buildFallback(" Admin@Example.com ", "", "")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", user.Email)
	assert.Empty(t, user.Username)
	assert.Equal(t, model.RoleAdmin, user.Role)
	assert.False(t, util.VerifyPassword(user.PasswordHash, ""))

	user, err = buildFallback("admin@example.com", " Jefa ", "secreto1")
	require.NoError(t, err)
	assert.Equal(t, "Jefa", user.Username)
	assert.True(t, util.VerifyPassword(user.PasswordHash, "secreto1"))
}
