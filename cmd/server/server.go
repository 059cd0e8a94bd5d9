package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/dinner-invite/internal/config"
	"github.com/iliyamo/dinner-invite/internal/database"
	"github.com/iliyamo/dinner-invite/internal/handler"
	"github.com/iliyamo/dinner-invite/internal/middleware"
	"github.com/iliyamo/dinner-invite/internal/pkg/logger"
	"github.com/iliyamo/dinner-invite/internal/pkg/metrics"
	"github.com/iliyamo/dinner-invite/internal/queue"
	"github.com/iliyamo/dinner-invite/internal/repository"
	"github.com/iliyamo/dinner-invite/internal/reservation"
	"github.com/iliyamo/dinner-invite/internal/router"
	"github.com/iliyamo/dinner-invite/internal/service"
	"github.com/iliyamo/dinner-invite/internal/session"
	"github.com/iliyamo/dinner-invite/web"
)

const contentSecurityPolicy = "default-src 'self'; img-src 'self' data:; style-src 'self'; form-action 'self'; frame-ancestors 'none'"

// deps is everything newEcho wires into routes.
type deps struct {
	cfg      config.Config
	store    reservation.GuestStore
	sessions session.Store
	rdb      *redis.Client
	notifier reservation.Notifier
	metrics  *metrics.Metrics
}

// newEcho assembles the HTTP server.
func newEcho(d deps) (*echo.Echo, error) {
	tpl, err := handler.NewTemplates(web.FS)
	if err != nil {
		return nil, err
	}
	qr, err := handler.InviteQR(d.cfg.PublicURL)
	if err != nil {
		return nil, err
	}

	var opts []reservation.Option
	if d.notifier != nil {
		opts = append(opts, reservation.WithNotifier(d.notifier))
	}
	engine := reservation.NewEngine(d.store, opts...)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = tpl
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.ErrorHandler

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.BodyLimit("16K"))
	e.Use(echomw.SecureWithConfig(echomw.SecureConfig{
		XSSProtection:         "0",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "same-origin",
		ContentSecurityPolicy: contentSecurityPolicy,
	}))
	e.Use(middleware.Prometheus(d.metrics))
	e.Use(middleware.RequestLogger())

	router.RegisterRoutes(e, releaseVersion)
	router.RegisterAssets(e, echo.MustSubFS(web.FS, "static"), qr)
	router.RegisterPublic(e, &handler.GuestsHandler{Store: d.store, Metrics: d.metrics}, config.LoadCacheConfig(), d.rdb)
	router.RegisterPage(e, &handler.PageHandler{
		Engine:   engine,
		Sessions: d.sessions,
		Metrics:  d.metrics,
		Seats:    d.cfg.TableSeats,
	}, d.cfg, config.LoadRateLimitConfig(), d.rdb)

	return e, nil
}

// serve runs the site until SIGINT or SIGTERM.
func serve(ctx context.Context, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(storeOptions(cfg))
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	d := deps{
		cfg:      cfg,
		store:    repository.NewGuestRepo(db),
		sessions: session.NewMemoryStore(cfg.SessionTTL),
		metrics:  metrics.New(),
	}

	if rdb := config.NewRedisClient(); rdb != nil {
		defer rdb.Close()
		d.rdb = rdb
		d.sessions = session.NewRedisStore(rdb, "session", cfg.SessionTTL)
	} else {
		logger.Warn("redis unavailable; sessions kept in memory, cache and rate limit off")
	}

	if cfg.QueueEnabled {
		d.notifier = service.NewPublisher(cfg.AMQPURL)
		consumer := queue.NewConsumer(cfg.AMQPURL, "logs")
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("guest consumer stopped", zap.Error(err))
			}
		}()
	}

	e, err := newEcho(d)
	if err != nil {
		return err
	}

	addr := ":" + cfg.Port
	errc := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("addr", addr),
			zap.String("env", cfg.Env),
			zap.String("store", cfg.StoreDriver),
			zap.Int("seats", cfg.TableSeats),
		)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
