package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/salonmost/booking-api/api/swagger"
	"github.com/salonmost/booking-api/internal/calendar"
	"github.com/salonmost/booking-api/internal/handler"
	"github.com/salonmost/booking-api/internal/middleware"
	"github.com/salonmost/booking-api/internal/repository"
	"github.com/salonmost/booking-api/internal/service"
	"github.com/salonmost/booking-api/internal/slotengine"
	"github.com/salonmost/booking-api/pkg/cache"
	"github.com/salonmost/booking-api/pkg/config"
	"github.com/salonmost/booking-api/pkg/database"
	"github.com/salonmost/booking-api/pkg/jobs"
	"github.com/salonmost/booking-api/pkg/logger"
	corsmiddleware "github.com/salonmost/booking-api/pkg/middleware/cors"
	reqidmiddleware "github.com/salonmost/booking-api/pkg/middleware/requestid"
)

// @title Salon Most Booking API
// @version 1.0.0
// @description Availability, booking and schedule management for SALON MOST
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	// the cache is an optimization; a missing redis degrades to uncached reads
	var redisClient *redis.Client
	if cfg.Availability.CacheEnabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, availability cache disabled", "error", err)
			redisClient = nil
		}
	}

	stylistRepo := repository.NewStylistRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	blockedRepo := repository.NewBlockedRangeRepository(db)

	metrics := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if redisClient != nil {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Availability.CacheTTL, logr, true)
	}

	engine := slotengine.New(slotengine.Config{
		SlotInterval:     time.Duration(cfg.Availability.SlotIntervalMin) * time.Minute,
		StrictWindowScan: cfg.Availability.StrictWindowScan,
	})

	availabilitySvc := service.NewAvailabilityService(service.AvailabilityServiceParams{
		Stylists: stylistRepo,
		Catalog:  catalogRepo,
		Bookings: bookingRepo,
		Blocks:   blockedRepo,
		Engine:   engine,
		Cache:    cacheSvc,
		Metrics:  metrics,
		Logger:   logr,
		CacheTTL: cfg.Availability.CacheTTL,
	})
	notificationSvc := service.NewNotificationService(bookingRepo, catalogRepo, stylistRepo, cfg.WhatsApp, logr)
	bookingSvc := service.NewBookingService(bookingRepo, catalogRepo, stylistRepo, cacheSvc, notificationSvc, logr)
	stylistSvc := service.NewStylistService(stylistRepo, cacheSvc, logr)
	catalogSvc := service.NewCatalogService(catalogRepo, cacheSvc, logr)
	exportSvc := service.NewScheduleExportService(bookingRepo, stylistRepo, catalogRepo, logr)

	var syncSvc *service.CalendarSyncService
	if cfg.Calendar.Enabled {
		client := calendar.NewClient(cfg.Calendar)
		syncSvc = service.NewCalendarSyncService(client, blockedRepo, stylistRepo, cacheSvc, logr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notificationSvc.Queue().Start(ctx)
	defer notificationSvc.Queue().Stop()

	if syncSvc != nil {
		go jobs.RunPeriodic(ctx, "calendar-sync", cfg.Calendar.SyncInterval, logr, func(ctx context.Context) error {
			_, err := syncSvc.Sync(ctx)
			return err
		})
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	healthHandler := handler.NewHealthHandler(db, redisClient, metrics)
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", healthHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc)
	bookingHandler := handler.NewBookingHandler(bookingSvc)
	stylistHandler := handler.NewStylistHandler(stylistSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)
	exportHandler := handler.NewExportHandler(exportSvc)

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/availability", availabilityHandler.Get)

		api.GET("/bookings", bookingHandler.List)
		api.POST("/bookings", bookingHandler.Create)
		api.GET("/bookings/:id", bookingHandler.Get)
		api.PATCH("/bookings/:id/status", bookingHandler.UpdateStatus)
		api.PATCH("/bookings/:id/reschedule", bookingHandler.Reschedule)

		api.GET("/stylists", stylistHandler.List)
		api.POST("/stylists", stylistHandler.Create)
		api.GET("/stylists/:id", stylistHandler.Get)
		api.PATCH("/stylists/:id", stylistHandler.Update)
		api.DELETE("/stylists/:id", stylistHandler.Deactivate)

		api.GET("/services", catalogHandler.List)
		api.POST("/services", catalogHandler.Create)
		api.GET("/services/:id", catalogHandler.Get)
		api.PATCH("/services/:id", catalogHandler.Update)

		api.POST("/notifications/whatsapp", notificationHandler.WhatsApp)

		if cfg.Export.Enabled {
			api.GET("/schedule/export", exportHandler.DailySchedule)
		}

		if syncSvc != nil {
			calendarHandler := handler.NewCalendarHandler(syncSvc, cfg.Calendar.CronSecret)
			api.POST("/calendar/sync", calendarHandler.Sync)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
