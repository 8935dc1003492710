package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"complaintdesk/backend/internal/analysis"
	"complaintdesk/backend/internal/api/handler"
	"complaintdesk/backend/internal/api/middleware"
	"complaintdesk/backend/internal/complaint"
	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/livefeed"
	"complaintdesk/backend/internal/localization"
	"complaintdesk/backend/internal/logging"
	"complaintdesk/backend/internal/metrics"
	"complaintdesk/backend/internal/reference"
	"complaintdesk/backend/internal/storage"
	"complaintdesk/backend/internal/suggestion"
	"complaintdesk/backend/internal/telegram"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const serviceName = "complaintdesk"

func setupRedis(ctx context.Context, cfg config.Config, log *logrus.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		log.Warn("REDIS_ADDR not set, suggestions disabled and live feed limited to this instance")
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.WithError(err).Fatal("failed to connect redis")
	}
	return rdb
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logging.New(serviceName, cfg.LogLevel)
	log.WithField("env", cfg.Env).Info("starting complaint desk backend")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := storage.Open(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect database")
	}
	if cfg.AutoMigrate {
		if err := storage.Migrate(db); err != nil {
			log.WithError(err).Fatal("failed to run migrations")
		}
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.WithError(err).Fatal("database handle")
	}
	defer sqlDB.Close()

	rdb := setupRedis(ctx, cfg, log)
	if rdb != nil {
		defer rdb.Close()
	}
	store := storage.NewStorageService(db, rdb)
	m := metrics.NewMetrics()

	// Without redis the hub is its own event channel.
	var sub livefeed.EventSubscriber
	if rdb != nil {
		sub = store
	}
	hub := livefeed.NewManagerService(sub, log)
	go hub.Run(ctx)

	complaints := complaint.NewService(store, log)
	complaints.Metrics = m
	complaints.Suggestions = suggestion.NewService(store, log)
	if rdb != nil {
		complaints.Events = store
	} else {
		complaints.Events = hub
	}

	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBotAPI(cfg.TelegramToken, log)
		if err != nil {
			log.WithError(err).Fatal("failed to start telegram bot")
		}
		loc, err := localization.Default()
		if err != nil {
			log.WithError(err).Fatal("failed to load translations")
		}
		notifier := telegram.NewNotifier(bot, loc, cfg.TelegramFacilitiesChat, cfg.TelegramITChat, log)
		go notifier.Run(ctx)
		complaints.Notifier = notifier
	} else {
		log.Info("TELEGRAM_BOT_TOKEN not set, notifications disabled")
	}

	h := &handler.Handler{
		Complaints:  complaints,
		Reference:   reference.NewService(store, log),
		Users:       reference.NewUserService(store, log),
		Suggestions: suggestion.NewService(store, log),
		Reports:     analysis.NewAggregator(storage.NewReportRepository(sqlDB)),
		Hub:         hub,
		Tokens:      middleware.NewTokens(cfg.JWTSecret, cfg.TokenTTL),
		Log:         log,
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log), m.Middleware())
	r.GET("/metrics", gin.WrapH(m.Handler()))
	h.Register(r)

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        r,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
