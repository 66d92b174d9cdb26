package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/safarnama/tourism-booking/internal/config"
	"github.com/safarnama/tourism-booking/internal/database"
	"github.com/safarnama/tourism-booking/internal/handler"
	"github.com/safarnama/tourism-booking/internal/middleware"
	"github.com/safarnama/tourism-booking/internal/queue"
	"github.com/safarnama/tourism-booking/internal/repository"
	"github.com/safarnama/tourism-booking/internal/router"
	"github.com/safarnama/tourism-booking/internal/service"
)

func main() {
	_ = godotenv.Load() // optional .env for local development
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatalf("migrate: %v", err)
	}
	cancel()

	rdb := config.NewRedisClient() // nil when Redis is unreachable; limiter/cache fail open

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	if n, err := tokens.PurgeExpired(ctx, 7*24*time.Hour); err != nil {
		log.Printf("token purge: %v", err)
	} else if n > 0 {
		log.Printf("purged %d dead refresh tokens", n)
	}
	cancel()
	destinations := repository.NewDestinationRepo(db)
	bookings := repository.NewBookingRepo(db)
	bookingSvc := service.NewBookingService(bookings)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.ClientURL},
		AllowCredentials: true,
	}))
	// Payment evidence arrives as inline base64, so the body cap is generous.
	e.Use(echomw.BodyLimit(cfg.BodyLimit))

	router.Register(e, router.Deps{
		JWTSecret:    cfg.JWTSecret,
		Auth:         handler.NewAuthHandler(cfg, users, tokens),
		Bookings:     handler.NewBookingHandler(bookingSvc),
		AdminBooking: handler.NewAdminBookingHandler(bookingSvc),
		Destinations: handler.NewDestinationHandler(destinations),
		AdminUsers:   handler.NewAdminUserHandler(users),
		Health:       handler.Health(db),
		RateLimit:    middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		Cache:        middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	})

	// Audit-log consumer; reconnects with backoff on broker failures.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
