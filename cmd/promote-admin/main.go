package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/cixi/storefront-backend/config"
	"github.com/cixi/storefront-backend/internal/app/model"
	"github.com/cixi/storefront-backend/internal/app/repository"
	"github.com/cixi/storefront-backend/internal/db"
	"github.com/cixi/storefront-backend/pkg/util"
)

func main() {
	email := flag.String("email", "", "email of the user to promote (required)")
	username := flag.String("username", "", "username to set; a created user defaults to the email local part")
	password := flag.String("password", "", "password used only when the user does not exist yet")
	flag.Parse()

	fallback, err := buildFallback(*email, *username, *password)
	if err != nil {
		flag.Usage()
		log.Fatal(err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	conn, err := db.Initialize(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(conn); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	userRepo := repository.NewUserRepository(conn)
	user, created, err := userRepo.PromoteAdmin(fallback.Email, fallback)
	if err != nil {
		log.Fatal("Failed to promote user:", err)
	}

	if created {
		fmt.Printf("Created admin %s (id %d)\n", user.Email, user.ID)
		return
	}
	fmt.Printf("Promoted %s (id %d) to admin\n", user.Email, user.ID)
	fmt.Println("Existing sessions keep their old role; log in again to use admin routes.")
}

// buildFallback prepares the user inserted when email is unknown. Without a
// password the created account gets an unusable hash.
func buildFallback(email, username, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("-email is required")
	}

	hash := "!"
	if password != "" {
		var err error
		hash, err = util.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("invalid password: %w", err)
		}
	}

	return &model.User{
		Username:     strings.TrimSpace(username),
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}, nil
}
