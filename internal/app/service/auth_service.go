package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/cixi/storefront-backend/internal/app/model"
	"github.com/cixi/storefront-backend/internal/app/repository"
	"github.com/cixi/storefront-backend/pkg/logger"
	"github.com/cixi/storefront-backend/pkg/redis"
	"github.com/cixi/storefront-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrUsernameRequired   = errors.New("username is required")
	ErrWeakPassword       = errors.New("password too short")
)

// Session is a signed-in user with its token
type Session struct {
	User      *model.User
	Token     string
	ExpiresAt time.Time
}

type AuthService interface {
	Register(username, email, password string) (*Session, error)
	Login(email, password string) (*Session, error)
	Logout(ctx context.Context, claims *util.Claims) error
	GetUserByID(id uint) (*model.User, error)
}

type authService struct {
	userRepo    repository.UserRepository
	jwtSecret   string
	tokenExpiry time.Duration
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret string, tokenExpiry time.Duration) AuthService {
	return &authService{
		userRepo:    userRepo,
		jwtSecret:   jwtSecret,
		tokenExpiry: tokenExpiry,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(username, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	username = strings.TrimSpace(username)

	logger.Info("Attempting user registration", map[string]interface{}{
		"email":    email,
		"username": username,
	})

	if username == "" {
		return nil, ErrUsernameRequired
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}

	existing, err := s.userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}
	if existing != nil {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": email,
		})
		return nil, ErrEmailAlreadyExists
	}

	hashed, err := util.HashPassword(password)
	if errors.Is(err, util.ErrPasswordTooShort) {
		return nil, ErrWeakPassword
	}
	if err != nil {
		logger.Error("Failed to hash password", err)
		return nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Role:         model.RoleUser,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	session, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	logger.Info("User registered", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
	})
	return session, nil
}

func (s *authService) Login(email, password string) (*Session, error) {
	email = normalizeEmail(email)
	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Warn("Login failed: user not found", map[string]interface{}{
			"email": email,
		})
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		logger.Error("Failed to find user", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: wrong password", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, ErrInvalidCredentials
	}

	session, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	logger.Info("User logged in", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})
	return session, nil
}

func (s *authService) issue(user *model.User) (*Session, error) {
	token, claims, err := util.GenerateSessionToken(user.ID, user.Email, string(user.Role), s.jwtSecret, s.tokenExpiry)
	if err != nil {
		logger.Error("Failed to generate session token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}
	return &Session{User: user, Token: token, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Logout revokes the token for the rest of its lifetime
func (s *authService) Logout(ctx context.Context, claims *util.Claims) error {
	if claims == nil {
		return nil
	}
	if err := redis.BlacklistToken(ctx, claims.ID, claims.RemainingValidity()); err != nil {
		return err
	}
	logger.Info("User logged out", map[string]interface{}{
		"user_id": claims.UserID,
	})
	return nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
