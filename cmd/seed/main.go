package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/atlastours/atlas-backend/config"
	"github.com/atlastours/atlas-backend/internal/app/model"
	"github.com/atlastours/atlas-backend/internal/app/repository"
	"github.com/atlastours/atlas-backend/internal/db"
	"github.com/atlastours/atlas-backend/pkg/util"
)

type tourSeed struct {
	Name          string      `json:"name"`
	Duration      int         `json:"duration"`
	MaxGroupSize  int         `json:"max_group_size"`
	Difficulty    string      `json:"difficulty"`
	Price         float64     `json:"price"`
	PriceDiscount float64     `json:"price_discount"`
	Summary       string      `json:"summary"`
	Description   string      `json:"description"`
	ImageCover    string      `json:"image_cover"`
	StartDates    []time.Time `json:"start_dates"`
}

type userSeed struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func main() {
	toursFile := flag.String("tours", "", "path to a JSON file of tours to import")
	usersFile := flag.String("users", "", "path to a JSON file of users to import")
	wipe := flag.Bool("delete", false, "delete all tours and reviews before importing")
	flag.Parse()

	if *toursFile == "" && *usersFile == "" && !*wipe {
		log.Fatal("Usage: go run cmd/seed/main.go [--delete] [--tours tours.json] [--users users.json]")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	if *wipe {
		fmt.Print("This will delete all tours, reviews and bookings. Proceed? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Aborted.")
			return
		}
		for _, table := range []string{"bookings", "reviews", "tour_start_dates", "tours"} {
			if err := db.GetDB().Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
				log.Fatal("Failed to wipe table:", err)
			}
		}
		fmt.Println("Existing tour data deleted.")
	}

	if *toursFile != "" {
		count, err := importTours(*toursFile)
		if err != nil {
			log.Fatal("Failed to import tours:", err)
		}
		fmt.Printf("Imported %d tours\n", count)
	}

	if *usersFile != "" {
		count, err := importUsers(*usersFile)
		if err != nil {
			log.Fatal("Failed to import users:", err)
		}
		fmt.Printf("Imported %d users\n", count)
	}
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	return strings.Join(strings.Fields(slug), "-")
}

func importTours(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read file: %w", err)
	}

	var seeds []tourSeed
	if err := json.Unmarshal(data, &seeds); err != nil {
		return 0, fmt.Errorf("failed to parse JSON: %w", err)
	}

	tourRepo := repository.NewTourRepository(db.GetDB())

	imported := 0
	for _, s := range seeds {
		tour := &model.Tour{
			Name:          s.Name,
			Slug:          slugify(s.Name),
			Duration:      s.Duration,
			MaxGroupSize:  s.MaxGroupSize,
			Difficulty:    model.TourDifficulty(s.Difficulty),
			Price:         s.Price,
			PriceDiscount: s.PriceDiscount,
			Summary:       s.Summary,
			Description:   s.Description,
			ImageCover:    s.ImageCover,
		}
		for _, d := range s.StartDates {
			tour.StartDates = append(tour.StartDates, model.TourStartDate{StartsAt: d})
		}
		if err := tourRepo.Create(tour); err != nil {
			return imported, fmt.Errorf("failed to create tour %q: %w", s.Name, err)
		}
		imported++
	}
	return imported, nil
}

func importUsers(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read file: %w", err)
	}

	var seeds []userSeed
	if err := json.Unmarshal(data, &seeds); err != nil {
		return 0, fmt.Errorf("failed to parse JSON: %w", err)
	}

	userRepo := repository.NewUserRepository(db.GetDB())

	imported := 0
	for _, s := range seeds {
		hash, err := util.HashPassword(s.Password)
		if err != nil {
			return imported, fmt.Errorf("failed to hash password for %q: %w", s.Email, err)
		}
		role := model.UserRole(s.Role)
		if role == "" {
			role = model.RoleUser
		}
		user := &model.User{
			Name:         s.Name,
			Email:        s.Email,
			PasswordHash: hash,
			Role:         role,
		}
		if err := userRepo.Create(user); err != nil {
			return imported, fmt.Errorf("failed to create user %q: %w", s.Email, err)
		}
		imported++
	}
	return imported, nil
}
