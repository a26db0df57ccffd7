// cmd/seed/main.go
//
// Seeds the database with an admin user, a couple of customers and sample
// orders for local development.
package main

import (
	"go-shop-api/config"
	"go-shop-api/db"
	"go-shop-api/logger"
	"go-shop-api/model"
	"go-shop-api/repository"
	"go-shop-api/service"
)

func main() {
	config.LoadConfig(".")
	logger.Init()

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.Migrate("file://db/migrations"); err != nil {
		logger.Log.Fatalf("Error running migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(database)
	orderRepo := repository.NewOrderRepository(database)
	authService := service.NewAuthService(userRepo, nil, nil)

	users := []struct {
		username string
		email    string
		password string
		role     model.Role
	}{
		{"admin", "admin@example.com", "admin12345", model.RoleAdmin},
		{"alice", "alice@example.com", "alice12345", model.RoleCustomer},
		{"bob", "bob@example.com", "bob1234567", model.RoleCustomer},
	}

	seeded := make(map[string]int)
	for _, u := range users {
		hashed, err := authService.HashPassword(u.password)
		if err != nil {
			logger.Log.Fatalf("Error hashing seed password: %v", err)
		}
		user := &model.User{
			Username: u.username,
			Email:    u.email,
			Password: hashed,
			Role:     u.role,
		}
		if err := userRepo.CreateUser(user); err != nil {
			if err == repository.ErrDuplicateUsername || err == repository.ErrDuplicateEmail {
				logger.Log.WithField("username", u.username).Info("Seed user already exists, skipping")
				existing, err := userRepo.GetUserByUsername(u.username)
				if err != nil {
					logger.Log.Fatalf("Error loading existing seed user: %v", err)
				}
				seeded[u.username] = existing.ID
				continue
			}
			logger.Log.Fatalf("Error creating seed user: %v", err)
		}
		seeded[u.username] = user.ID
		logger.Log.WithField("username", u.username).Info("Seed user created")
	}

	orders := []struct {
		username  string
		productID int
		quantity  int
	}{
		{"alice", 1, 2},
		{"alice", 3, 1},
		{"bob", 2, 5},
	}

	for _, o := range orders {
		order := &model.Order{
			UserID:    seeded[o.username],
			ProductID: o.productID,
			Quantity:  o.quantity,
		}
		if err := orderRepo.CreateOrder(order); err != nil {
			logger.Log.Fatalf("Error creating seed order: %v", err)
		}
	}

	logger.Log.Info("Seeding completed")
}
