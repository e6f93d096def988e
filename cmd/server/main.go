package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/duskbar/table-reservation/internal/availability"
	"github.com/duskbar/table-reservation/internal/booking"
	"github.com/duskbar/table-reservation/internal/catalog"
	"github.com/duskbar/table-reservation/internal/config"
	"github.com/duskbar/table-reservation/internal/database"
	"github.com/duskbar/table-reservation/internal/handler"
	"github.com/duskbar/table-reservation/internal/middleware"
	"github.com/duskbar/table-reservation/internal/notify"
	"github.com/duskbar/table-reservation/internal/queue"
	"github.com/duskbar/table-reservation/internal/reporting"
	"github.com/duskbar/table-reservation/internal/repository"
	"github.com/duskbar/table-reservation/internal/router"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	bk := config.LoadBookingConfig()

	if cfg.Env == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logrus.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		logrus.WithError(err).Fatal("migration failed")
	}
	cancel()

	cat, err := catalog.New(catalog.Options{
		Open:        bk.SlotOpen,
		Close:       bk.SlotClose,
		Interval:    bk.SlotInterval,
		TableCounts: bk.TableCounts,
	})
	if err != nil {
		logrus.WithError(err).Fatal("invalid slot catalog configuration")
	}

	repo := repository.NewReservationRepo(db)
	engine := availability.NewEngine(cat, repo, availability.Thresholds{
		Available: bk.AvailableThreshold,
		Limited:   bk.LimitedThreshold,
	})
	publisher := notify.NewPublisher()
	svc := booking.NewService(cat, repo, publisher, booking.Config{MaxPartySize: bk.MaxPartySize})
	reports := reporting.NewAggregator(repo)

	// The notify consumer runs in-process; it reconnects on its own when
	// the broker drops.
	go queue.StartNotifyConsumer()

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover())

	rdb := config.NewRedisClient()
	var cacheMW, limiterMW echo.MiddlewareFunc
	if rdb != nil {
		cacheMW = middleware.NewResponseCache(config.LoadCacheConfig(), rdb)
		limiterMW = middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	}

	router.RegisterRoutes(e)
	router.RegisterAPI(e, router.Handlers{
		Catalog:      handler.NewCatalogHandler(cat),
		Availability: handler.NewAvailabilityHandler(engine),
		Reservation:  handler.NewReservationHandler(svc, repo),
		Admin:        handler.NewAdminHandler(svc, repo, reports),
	}, cfg.JWTSecret, cacheMW, limiterMW)

	addr := ":" + cfg.Port
	logrus.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("server starting")
	if err := e.Start(addr); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
