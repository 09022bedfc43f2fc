package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"spacebook/internal/database"
	"spacebook/internal/domain"
	"spacebook/internal/repository"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "spacebook.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	spaces := repository.NewSpaceRepository(db)

	owner := seedOwner(ctx, users)
	seedSpaces(ctx, spaces, owner)

	log.Println("Seed complete")
}

func seedOwner(ctx context.Context, users *repository.UserRepository) *domain.User {
	if existing, err := users.GetByEmail(ctx, "owner@spacebook.local"); err == nil {
		log.Println("Demo owner already present, skipping")
		return existing
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("owner-demo-password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}

	now := time.Now().UTC()
	owner := &domain.User{
		ID:           uuid.NewString(),
		Name:         "Demo Owner",
		Email:        "owner@spacebook.local",
		PasswordHash: string(hash),
		Role:         domain.RoleSpaceOwner,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, owner); err != nil {
		log.Fatal("seed owner failed:", err)
	}
	return owner
}

func seedSpaces(ctx context.Context, spaces *repository.SpaceRepository, owner *domain.User) {
	existing, err := spaces.GetAll(ctx)
	if err != nil {
		log.Fatal(err)
	}
	if len(existing) > 0 {
		log.Printf("Spaces already present (%d), skipping", len(existing))
		return
	}

	now := time.Now().UTC()
	demo := []domain.Space{
		{
			ID:          uuid.NewString(),
			Title:       "Creative Studio",
			Description: "A bright and inspiring creative studio perfect for meetings and workshops",
			Location:    "Downtown",
			HourlyRate:  50,
			Capacity:    10,
			Category:    domain.CategoryCreativeStudio,
			Amenities:   []string{"WiFi", "Projector", "Whiteboard"},
			Images:      []string{"/placeholder.svg"},
			OwnerID:     owner.ID,
			OwnerName:   owner.Name,
			Rating:      4.5,
			Reviews:     12,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          uuid.NewString(),
			Title:       "Event Hall",
			Description: "Large event hall suitable for conferences and presentations",
			Location:    "Business District",
			HourlyRate:  100,
			Capacity:    50,
			Category:    domain.CategoryEventHall,
			Amenities:   []string{"Sound System", "Stage", "Parking"},
			Images:      []string{"/placeholder.svg"},
			OwnerID:     owner.ID,
			OwnerName:   owner.Name,
			Rating:      4.8,
			Reviews:     25,
			CreatedAt:   now.Add(time.Second),
			UpdatedAt:   now.Add(time.Second),
		},
	}

	for i := range demo {
		if err := spaces.Create(ctx, &demo[i]); err != nil {
			log.Fatal("seed space failed:", err)
		}
	}
	log.Printf("Seeded %d spaces", len(demo))
}
