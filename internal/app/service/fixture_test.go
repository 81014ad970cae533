package service

import (
	"sync"
	"testing"

	"github.com/cixi/storefront-backend/internal/app/model"
	"github.com/cixi/storefront-backend/internal/app/repository"
	"github.com/cixi/storefront-backend/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type published struct {
	eventType string
	data      interface{}
}

// recordingNotifier captures published catalog events
type recordingNotifier struct {
	mu     sync.Mutex
	events []published
}

func (n *recordingNotifier) Publish(eventType string, data interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, published{eventType: eventType, data: data})
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.eventType)
	}
	return out
}

func (n *recordingNotifier) last() published {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.events[len(n.events)-1]
}

type serviceFixture struct {
	db         *gorm.DB
	users      repository.UserRepository
	categories repository.CategoryRepository
	products   repository.ProductRepository
	ratings    repository.RatingRepository
	comments   repository.CommentRepository
	kits       repository.KitRepository
	notifier   *recordingNotifier
}

func setupServiceTest(t *testing.T) *serviceFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return &serviceFixture{
		db:         testDB,
		users:      repository.NewUserRepository(testDB),
		categories: repository.NewCategoryRepository(testDB),
		products:   repository.NewProductRepository(testDB),
		ratings:    repository.NewRatingRepository(testDB),
		comments:   repository.NewCommentRepository(testDB),
		kits:       repository.NewKitRepository(testDB),
		notifier:   &recordingNotifier{},
	}
}

func (f *serviceFixture) category(t *testing.T, name string) *model.Category {
	t.Helper()
	c := &model.Category{Name: name}
	require.NoError(t, f.categories.Create(c))
	return c
}

func (f *serviceFixture) product(t *testing.T, name string, price float64, stock int) *model.Product {
	t.Helper()
	p := &model.Product{Name: name, Price: price, Stock: stock}
	require.NoError(t, f.products.Create(p))
	return p
}

func (f *serviceFixture) user(t *testing.T, username string, role model.UserRole) *model.Identity {
	t.Helper()
	u := &model.User{Username: username, Email: username + "@example.com", PasswordHash: "x", Role: role}
	require.NoError(t, f.users.Create(u))
	return &model.Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
}

func strPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int { return &i }
func uintPtr(u uint) *uint { return &u }
