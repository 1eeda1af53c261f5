package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/trailbook/trailbook-backend/internal/config"
	"github.com/trailbook/trailbook-backend/internal/database"
	"github.com/trailbook/trailbook-backend/internal/handlers"
	"github.com/trailbook/trailbook-backend/internal/middleware"
	"github.com/trailbook/trailbook-backend/internal/models"
	"github.com/trailbook/trailbook-backend/internal/routes"
	"github.com/trailbook/trailbook-backend/internal/services"
	"github.com/trailbook/trailbook-backend/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	// Tokens cannot be issued or verified without a secret.
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	log.Println("Connecting to MongoDB...")
	if err := database.Connect(cfg.MongoURI); err != nil {
		log.Fatal("Failed to connect to MongoDB: ", err)
	}
	defer database.Disconnect()

	if err := database.EnsureIndexes(context.Background()); err != nil {
		log.Printf("WARNING: failed to ensure MongoDB indexes: %v", err)
	}

	// Redis backs rate limiting only; run without it if unreachable.
	if cfg.RedisURI != "" {
		log.Println("Connecting to Redis...")
		if err := database.ConnectRedis(cfg.RedisURI); err != nil {
			log.Printf("WARNING: failed to connect to Redis, rate limiting disabled: %v", err)
		} else {
			defer database.DisconnectRedis()
		}
	}

	var files services.FileStorage
	if cfg.UseCloudinary() {
		cloudinary, err := services.NewCloudinaryStorage(
			cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, "trailbook")
		if err != nil {
			log.Fatal("Failed to initialize Cloudinary: ", err)
		}
		files = cloudinary
		log.Println("Using Cloudinary file storage")
	} else {
		local, err := services.NewLocalStorage(cfg.UploadDir)
		if err != nil {
			log.Fatal("Failed to initialize upload directory: ", err)
		}
		files = local
		log.Printf("Using local file storage in %s", cfg.UploadDir)
	}

	userColl := store.NewMongo[models.User](database.DB, "users")
	trekColl := store.NewMongo[models.Trek](database.DB, "treks")
	journalColl := store.NewMongo[models.JournalEntry](database.DB, "journalentries")

	userService := services.NewUserService(userColl)
	tokenService := services.NewTokenService(cfg.JWTSecret)
	relationService := services.NewRelationService(userColl, journalColl, trekColl)
	trekService := services.NewTrekService(trekColl)
	journalService := services.NewJournalService(journalColl, userColl, trekColl)

	userHandler := handlers.NewUserHandler(userService, tokenService, relationService, files)
	trekHandler := handlers.NewTrekHandler(trekService, relationService, files)
	journalHandler := handlers.NewJournalHandler(journalService, files)

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RateLimit(database.RedisClient))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	routes.SetupRoutes(r, userHandler, trekHandler, journalHandler, tokenService)
	if !cfg.UseCloudinary() {
		routes.ServeUploads(r, cfg.UploadDir)
	}

	log.Printf("Trailbook backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
