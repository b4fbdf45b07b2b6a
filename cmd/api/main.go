package main

import (
	"context"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/artfit-app/backend/internal/cache"
	"github.com/artfit-app/backend/internal/config"
	"github.com/artfit-app/backend/internal/db"
	"github.com/artfit-app/backend/internal/handlers"
	"github.com/artfit-app/backend/internal/services/googleauth"
	"github.com/artfit-app/backend/internal/services/token"
	"github.com/artfit-app/backend/internal/storage"
)

func main() {
	_ = godotenv.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Load()

	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	rdb := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
	if rdb != nil {
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, caching disabled")
			rdb = nil
		}
	}
	skillCache := cache.New(rdb, 10*time.Minute)

	var store storage.Storage
	switch cfg.StorageBackend {
	case "s3":
		store, err = storage.NewS3(context.Background(), storage.S3Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.PublicBaseURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("s3 storage init failed")
		}
		log.Info().Str("bucket", cfg.S3Bucket).Msg("using s3 storage")
	default:
		store = storage.NewLocal(cfg.UploadDir, cfg.PublicBaseURL)
		log.Info().Str("dir", cfg.UploadDir).Msg("using local storage")
	}

	tokens := token.NewService(gdb, cfg.JWTSecret, cfg.AccessTokenMin,
		time.Duration(cfg.RefreshTokenDay)*24*time.Hour)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Length",
		AllowCredentials: true,
	}))

	if cfg.StorageBackend != "s3" {
		app.Static("/uploads", cfg.UploadDir)
	}

	set := &handlers.Set{
		Auth: &handlers.AuthHandler{DB: gdb, Tokens: tokens},
		Google: &handlers.GoogleAuthHandler{
			DB:              gdb,
			Tokens:          tokens,
			Verifier:        googleauth.New(cfg.GoogleClientID),
			GoogleSecret:    cfg.GoogleSecret,
			GoogleRedirect:  cfg.GoogleRedirect,
			FrontendBaseURL: cfg.FrontendBaseURL,
		},
		Me:        handlers.NewMeHandler(gdb, store),
		Works:     handlers.NewWorkHandler(gdb, store),
		Skills:    handlers.NewSkillHandler(gdb, skillCache),
		Projects:  handlers.NewProjectHandler(gdb),
		Proposals: handlers.NewProposalHandler(gdb),
		JWTSecret: cfg.JWTSecret,
	}
	set.Register(app)

	log.Info().Str("port", cfg.AppPort).Msg("listening")
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
