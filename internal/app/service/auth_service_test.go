package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cixi/storefront-backend/internal/app/model"
	"github.com/cixi/storefront-backend/pkg/redis"
	"github.com/cixi/storefront-backend/pkg/util"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-jwt-secret"

func setupAuthServiceTest(t *testing.T) (AuthService, *serviceFixture) {
	f := setupServiceTest(t)
	return NewAuthService(f.users, testSecret, 15*time.Minute), f
}

func TestAuthService_Register(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	tests := []struct {
		name     string
		username string
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "Valid registration",
			username: "ana",
			email:    "Ana@Example.com ",
			password: "password123",
		},
		{
			name:     "Duplicate email ignores case",
			username: "ana2",
			email:    "ana@example.com",
			password: "password456",
			wantErr:  ErrEmailAlreadyExists,
		},
		{
			name:     "Missing username",
			username: "  ",
			email:    "otro@example.com",
			password: "password123",
			wantErr:  ErrUsernameRequired,
		},
		{
			name:     "Invalid email",
			username: "otro",
			email:    "no-es-email",
			password: "password123",
			wantErr:  ErrInvalidEmail,
		},
		{
			name:     "Short password",
			username: "otro",
			email:    "otro@example.com",
			password: "123",
			wantErr:  ErrWeakPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := authService.Register(tt.username, tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, session)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, session)
			assert.Equal(t, "ana@example.com", session.User.Email)
			assert.Equal(t, model.RoleUser, session.User.Role)
			assert.NotEqual(t, tt.password, session.User.PasswordHash)
			assert.NotEmpty(t, session.Token)
			assert.True(t, session.ExpiresAt.After(time.Now()))

			claims, err := util.ValidateToken(session.Token, testSecret)
			require.NoError(t, err)
			assert.Equal(t, session.User.ID, claims.UserID)
			assert.Equal(t, string(model.RoleUser), claims.Role)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, err := authService.Register("ana", "ana@example.com", "password123")
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "Valid credentials", email: "ana@example.com", password: "password123"},
		{name: "Email is normalized", email: " ANA@example.com", password: "password123"},
		{name: "Wrong password", email: "ana@example.com", password: "wrong-pass", wantErr: ErrInvalidCredentials},
		{name: "Unknown user", email: "nadie@example.com", password: "password123", wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := authService.Login(tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, session)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "ana", session.User.Username)
			assert.NotEmpty(t, session.Token)
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)
	mr := miniredis.RunT(t)
	redis.SetClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = redis.Close() })

	session, err := authService.Register("ana", "ana@example.com", "password123")
	require.NoError(t, err)
	claims, err := util.ValidateToken(session.Token, testSecret)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, authService.Logout(ctx, claims))

	revoked, err := redis.IsTokenBlacklisted(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	assert.NoError(t, authService.Logout(ctx, nil))
}

func TestAuthService_GetUserByID(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	session, err := authService.Register("ana", "ana@example.com", "password123")
	require.NoError(t, err)

	user, err := authService.GetUserByID(session.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)

	_, err = authService.GetUserByID(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
