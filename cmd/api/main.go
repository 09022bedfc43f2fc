package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"spacebook/internal/database"
	"spacebook/internal/middleware"
	"spacebook/internal/modules/auth"
	"spacebook/internal/modules/booking"
	"spacebook/internal/modules/catalog"
	"spacebook/internal/modules/realtime"
	jwtsvc "spacebook/internal/pkg/jwt"
	"spacebook/internal/repository"
)

const spacesChannel = "spaces:changes"

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "spacebook.db"
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is empty")
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	spaceRepo := repository.NewSpaceRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	j := jwtsvc.New(secret, 24*time.Hour)

	hub := realtime.NewHub()
	defer hub.Close()

	store := catalog.NewStore()

	var feedPublisher catalog.Publisher
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatal(err)
		}
		rdb := redis.NewClient(opts)

		feedPublisher = catalog.NewRedisPublisher(rdb, spacesChannel)

		source := catalog.NewRedisSource(rdb, spacesChannel)
		listener := catalog.NewListener(store, source, hub)
		sub, err := listener.Subscribe(context.Background())
		if err != nil {
			// The mirror still serves bulk-loaded data without the feed.
			log.Printf("change feed unavailable, serving without live updates: %v", err)
		} else {
			defer sub.Cancel()
		}
	} else {
		log.Println("REDIS_URL is empty, change feed disabled")
	}

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(store, spaceRepo, feedPublisher)
	catalogHandler := catalog.NewHandler(catalogService)

	bookingService := booking.NewService(bookingRepo, store, hub)
	bookingHandler := booking.NewHandler(bookingService)

	realtimeHandler := realtime.NewHandler(hub, j)

	if err := catalogService.LoadAll(context.Background()); err != nil {
		// Not fatal: the list endpoint retries on first use.
		log.Printf("initial space load failed: %v", err)
	}

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	realtimeHandler.RegisterRoutes(r)

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)
		catalogHandler.RegisterRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			catalogHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
