package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cixi/storefront-backend/internal/app/model"
	"github.com/cixi/storefront-backend/internal/app/repository"
	"github.com/cixi/storefront-backend/internal/app/service"
	"github.com/cixi/storefront-backend/internal/cart"
	"github.com/cixi/storefront-backend/internal/db"
	apperrors "github.com/cixi/storefront-backend/internal/errors"
	"github.com/cixi/storefront-backend/internal/middleware"
	"github.com/cixi/storefront-backend/internal/session"
	"github.com/cixi/storefront-backend/pkg/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "controller-test-secret"

type controllerFixture struct {
	db         *gorm.DB
	router     *gin.Engine
	auth       *middleware.AuthMiddleware
	users      repository.UserRepository
	categories repository.CategoryRepository
	products   repository.ProductRepository
	kits       repository.KitRepository
	services   struct {
		auth     service.AuthService
		product  service.ProductService
		category service.CategoryService
		kit      service.KitService
		rating   service.RatingService
		comment  service.CommentService
		cart     service.CartService
		export   service.ExportService
	}
}

// setupControllerTest wires real services over an in-memory database and
// mounts the routes under test on a bare engine.
func setupControllerTest(t *testing.T) *controllerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	f := &controllerFixture{
		db:         testDB,
		router:     gin.New(),
		auth:       middleware.NewAuthMiddleware(testJWTSecret),
		users:      repository.NewUserRepository(testDB),
		categories: repository.NewCategoryRepository(testDB),
		products:   repository.NewProductRepository(testDB),
		kits:       repository.NewKitRepository(testDB),
	}
	ratings := repository.NewRatingRepository(testDB)
	comments := repository.NewCommentRepository(testDB)

	f.services.auth = service.NewAuthService(f.users, testJWTSecret, time.Hour)
	f.services.product = service.NewProductService(f.products, f.categories, nil)
	f.services.category = service.NewCategoryService(f.categories)
	f.services.kit = service.NewKitService(f.kits, f.products, cart.DefaultPaperSurcharges, nil)
	f.services.rating = service.NewRatingService(ratings, f.products, nil)
	f.services.comment = service.NewCommentService(comments, f.products)
	f.services.cart = service.NewCartService(session.NewMemoryStore(time.Hour), session.NewLocker(), f.products, f.kits, cart.DefaultPaperSurcharges)
	f.services.export = service.NewExportService(f.products)

	f.router.Use(middleware.LoggingMiddleware())
	return f
}

func (f *controllerFixture) adminOnly() []gin.HandlerFunc {
	return []gin.HandlerFunc{f.auth.Authenticate(), f.auth.RequireRole(model.RoleAdmin)}
}

func (f *controllerFixture) user(t *testing.T, username string, role model.UserRole) (*model.User, string) {
	t.Helper()
	u := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		Role:         role,
	}
	require.NoError(t, f.users.Create(u))
	token, _, err := util.GenerateSessionToken(u.ID, u.Email, string(role), testJWTSecret, time.Hour)
	require.NoError(t, err)
	return u, token
}

func (f *controllerFixture) category(t *testing.T, name string) *model.Category {
	t.Helper()
	c := &model.Category{Name: name}
	require.NoError(t, f.categories.Create(c))
	return c
}

func (f *controllerFixture) product(t *testing.T, name string, price float64, stock int) *model.Product {
	t.Helper()
	p := &model.Product{Name: name, Price: price, Stock: stock}
	require.NoError(t, f.products.Create(p))
	return p
}

func (f *controllerFixture) do(method, path string, body interface{}, token string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apperrors.ErrorResponse {
	t.Helper()
	var body apperrors.ErrorResponse
	decodeJSON(t, w, &body)
	return body
}
