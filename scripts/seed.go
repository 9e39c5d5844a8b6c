//go:build ignore

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/hugh/linkstash/internal/auth"
	"github.com/hugh/linkstash/internal/database"
	"github.com/hugh/linkstash/internal/database/models"
	"github.com/hugh/linkstash/pkg/config"
	"github.com/hugh/linkstash/pkg/util"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Server.Env)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	authService := auth.NewService(db, jwtService, cfg.Guest.EmailDomain)

	email := os.Getenv("DEMO_EMAIL")
	password := os.Getenv("DEMO_PASSWORD")
	name := os.Getenv("DEMO_NAME")

	if email == "" {
		email = "demo@example.com"
	}
	if password == "" {
		password = "demo123!"
	}
	if name == "" {
		name = "Demo"
	}

	resp, err := authService.Register(context.Background(), auth.RegisterInput{
		Email:    email,
		Password: password,
		Name:     name,
	})
	if err != nil {
		if err == auth.ErrUserExists {
			fmt.Printf("Demo user already exists: %s\n", email)
			return
		}
		log.Fatalf("failed to create demo user: %v", err)
	}

	user := resp.User

	reading := models.Group{Name: "Reading", OwnerID: user.ID}
	work := models.Group{Name: "Work", OwnerID: user.ID}
	if err := db.Create(&reading).Error; err != nil {
		log.Fatalf("failed to seed groups: %v", err)
	}
	if err := db.Create(&work).Error; err != nil {
		log.Fatalf("failed to seed groups: %v", err)
	}
	later := models.Group{Name: "Later", ParentID: &reading.ID, OwnerID: user.ID}
	if err := db.Create(&later).Error; err != nil {
		log.Fatalf("failed to seed groups: %v", err)
	}

	golang := models.Tag{Name: "go", Color: "#00add8", OwnerID: user.ID}
	docs := models.Tag{Name: "docs", Color: models.DefaultTagColor, OwnerID: user.ID}
	if err := db.Create(&golang).Error; err != nil {
		log.Fatalf("failed to seed tags: %v", err)
	}
	if err := db.Create(&docs).Error; err != nil {
		log.Fatalf("failed to seed tags: %v", err)
	}

	bookmarks := []models.Bookmark{
		{Title: "Go documentation", URL: "https://go.dev/doc/", IsPublic: true, GroupID: &work.ID, OwnerID: user.ID},
		{Title: "Effective Go", URL: "https://go.dev/doc/effective_go", IsPublic: false, GroupID: &reading.ID, OwnerID: user.ID},
		{Title: "Go blog", URL: "https://go.dev/blog/", IsPublic: false, GroupID: &later.ID, OwnerID: user.ID},
	}
	for i := range bookmarks {
		if err := db.Create(&bookmarks[i]).Error; err != nil {
			log.Fatalf("failed to seed bookmarks: %v", err)
		}
	}
	for _, b := range bookmarks {
		if err := db.Create(&models.BookmarkTag{BookmarkID: b.ID, TagID: golang.ID}).Error; err != nil {
			log.Fatalf("failed to seed bookmark tags: %v", err)
		}
	}

	fmt.Printf("Demo user created successfully!\n")
	fmt.Printf("Email: %s\n", user.Email)
	fmt.Printf("Token: %s\n", resp.Token)
}
