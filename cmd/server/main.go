package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/matchpoint/court-reservation/internal/availability" // Availability resolver
	"github.com/matchpoint/court-reservation/internal/config"       // Internal config loader
	"github.com/matchpoint/court-reservation/internal/database"     // MySQL connection helper
	"github.com/matchpoint/court-reservation/internal/handler"      // HTTP handlers
	"github.com/matchpoint/court-reservation/internal/middleware"   // Rate limiting and caching
	"github.com/matchpoint/court-reservation/internal/queue"        // Notification consumer
	"github.com/matchpoint/court-reservation/internal/repository"   // Data access layer
	"github.com/matchpoint/court-reservation/internal/router"       // Route registration
	notifier "github.com/matchpoint/court-reservation/internal/service"
)

func main() {
	// .env is a developer convenience; production sets real env vars.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs rate limiting and the public response cache.  A nil
	// client disables both instead of failing startup.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable: rate limiting and response cache disabled")
	}
	cacheCfg := config.LoadCacheConfig()
	rateCfg := config.LoadRateLimitConfig()

	// Repositories.
	courts := repository.NewCourtRepo(db)
	slots := repository.NewSlotRepo(db)
	maint := repository.NewMaintenanceRepo(db)
	comments := repository.NewCommentRepo(db)
	bookings := repository.NewBookingRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	// The resolver composes catalog, maintenance registry and ledger;
	// every availability read and booking write goes through it.
	resolver := availability.NewResolver(courts, slots, maint, bookings)

	n := notifier.New(cfg.AMQPURL)

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, tokens)
	publicH := handler.NewPublicCourtHandler(courts, slots, maint, resolver)
	bookingH := handler.NewBookingHandler(resolver, bookings, courts, users, n, rdb, cacheCfg)
	adminCourtH := handler.NewAdminCourtHandler(courts, slots, maint, comments, bookings, n, rdb, cacheCfg)
	adminBookingH := handler.NewAdminBookingHandler(bookings, courts, users, n, rdb, cacheCfg)
	adminUserH := handler.NewAdminUserHandler(users)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(rateCfg, rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, middleware.NewRedisCache(cacheCfg, rdb))
	router.RegisterMember(e, bookingH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminCourtH, adminBookingH, adminUserH, cfg.JWTSecret)

	// Background worker delivering booking and court notifications.  It
	// reconnects on broker failure and never takes the server down.
	go func() {
		if err := queue.StartNotificationConsumer(cfg.AMQPURL); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
