package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/talent-hub/internal/config"     // Internal config loader
	"github.com/iliyamo/talent-hub/internal/database"   // MySQL pool and schema
	"github.com/iliyamo/talent-hub/internal/handler"    // HTTP handlers
	"github.com/iliyamo/talent-hub/internal/logger"     // logrus setup
	"github.com/iliyamo/talent-hub/internal/middleware" // rate limit, cache, metrics
	"github.com/iliyamo/talent-hub/internal/queue"      // event.created consumer
	"github.com/iliyamo/talent-hub/internal/repository" // SQL repositories
	"github.com/iliyamo/talent-hub/internal/router"     // Internal router setup
	"github.com/iliyamo/talent-hub/internal/service"    // squads and notifications
)

func main() {
	_ = godotenv.Load() // .env is optional

	cfg := config.Load() // Load environment config
	log := logger.New(cfg.Env, cfg.LogLevel)

	db, err := database.Open(database.Options{
		User:         cfg.DBUser,
		Pass:         cfg.DBPass,
		Host:         cfg.DBHost,
		Port:         cfg.DBPort,
		Name:         cfg.DBName,
		MaxOpenConns: cfg.DBMaxOpenConns,
	})
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	if cfg.DBAutoMigrate {
		mctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := database.EnsureSchema(mctx, db)
		cancel()
		if err != nil {
			log.WithError(err).Fatal("schema migration failed")
		}
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable: rate limiting and response cache disabled")
	} else {
		defer rdb.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- Repositories ----
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	athletes := repository.NewAthleteRepo(db)
	coaches := repository.NewCoachRepo(db)
	squads := repository.NewSquadRepo(db)
	notifications := repository.NewNotificationRepo(db)
	events := repository.NewEventRepo(db)

	// ---- Notifications ----
	direct := &service.DirectNotifier{Candidates: athletes, Writer: notifications, Log: log}
	var notifier service.EventNotifier = direct
	if cfg.NotifyMode == "amqp" {
		notifier = &service.BrokerNotifier{
			Publisher: &service.AMQPPublisher{URL: cfg.AMQPURL, Log: log},
			Direct:    direct,
			Log:       log,
		}
		go func() {
			if err := queue.StartEventConsumer(ctx, cfg.AMQPURL, direct.Notify, log); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Error("event consumer stopped")
			}
		}()
	}

	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb, log)

	h := router.Handlers{
		Health: &handler.Health{DB: db, Redis: rdb},
		Auth:   handler.NewAuthHandler(cfg, users, tokens, log),
		Athlete: &handler.AthleteHandler{
			Athletes:     athletes,
			Achievements: repository.NewAchievementRepo(db),
			Performances: repository.NewPerformanceRepo(db),
			Squads:       squads,
			Log:          log,
		},
		Coach: &handler.CoachHandler{
			Coaches:   coaches,
			Squads:    service.NewSquadService(squads, athletes, cfg.SquadUniqueNames),
			Favorites: repository.NewFavoriteRepo(db),
			Notes:     repository.NewCoachNoteRepo(db),
			Log:       log,
		},
		Event:        &handler.EventHandler{Events: events, Notifier: notifier, Cache: cache, Log: log},
		Notification: &handler.NotificationHandler{Notifications: notifications, Log: log},
		Admin: &handler.AdminHandler{
			Athletes:      athletes,
			Coaches:       coaches,
			Notifications: notifications,
			Notes:         repository.NewAdminNoteRepo(db),
			Log:           log,
		},
		Upload: &handler.UploadHandler{Dir: cfg.UploadDir, MaxBytes: cfg.UploadMaxBytes, Log: log},
	}

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			entry := log.WithFields(logrus.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency_ms": v.Latency.Milliseconds(),
			})
			if v.Error != nil {
				entry.WithError(v.Error).Warn("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))
	e.Use(middleware.Metrics())

	router.Register(e, h, router.Options{
		JWTSecret: cfg.JWTSecret,
		RateLimit: middleware.RateLimit(config.LoadRateLimitConfig(), rdb, log),
		Cache:     cache,
		UploadDir: cfg.UploadDir,
		StaticDir: cfg.StaticDir,
	})

	addr := ":" + cfg.Port // Address string with port
	go func() {
		log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env, "notify_mode": cfg.NotifyMode}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		log.WithError(err).Error("forced shutdown")
	}
}
