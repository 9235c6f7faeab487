// seed creates the first admin account so someone can log in. It is a no-op
// when the email is already registered.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"sgspadmin/internal/config"
	"sgspadmin/internal/models"
	"sgspadmin/internal/repositories"
	"sgspadmin/internal/services"
	"sgspadmin/pkg/database"
)

func main() {
	name := flag.String("name", "Administrator", "Display name")
	email := flag.String("email", os.Getenv("SEED_ADMIN_EMAIL"), "Login email (or SEED_ADMIN_EMAIL)")
	password := flag.String("password", os.Getenv("SEED_ADMIN_PASSWORD"), "Password (or SEED_ADMIN_PASSWORD)")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("email and password are required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer database.ClosePool(pool)

	admins := services.NewAdminService(repositories.NewAdminRepo(pool), services.NewBcryptHasher(cfg.BcryptCost))
	admin, err := admins.Create(ctx, &models.CreateAdminRequest{Name: *name, Email: *email, Password: *password})
	if errors.Is(err, services.ErrAdminExists) {
		log.Printf("admin %s already exists; nothing to do", *email)
		return
	}
	if err != nil {
		log.Fatalf("create admin: %v", err)
	}
	log.Printf("created admin %s (%s)", admin.Email, admin.ID)
}
