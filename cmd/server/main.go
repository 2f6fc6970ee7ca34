package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/charlelisefouasse/concert-tickets/internal/concert"
	"github.com/charlelisefouasse/concert-tickets/internal/config"
	"github.com/charlelisefouasse/concert-tickets/internal/export"
	"github.com/charlelisefouasse/concert-tickets/internal/handler"
	"github.com/charlelisefouasse/concert-tickets/internal/middleware"
	"github.com/charlelisefouasse/concert-tickets/internal/queue"
	"github.com/charlelisefouasse/concert-tickets/internal/render"
	"github.com/charlelisefouasse/concert-tickets/internal/router"
	"github.com/charlelisefouasse/concert-tickets/internal/service"
	"github.com/charlelisefouasse/concert-tickets/internal/ticket"
)

func main() {
	cfg := config.Load()
	log := cfg.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := config.NewRedisClient(ctx)
	if rdb == nil {
		log.Warn("redis unavailable; rate limiting disabled")
	} else {
		defer func() { _ = rdb.Close() }()
	}

	concerts := concert.New(cfg.Setlist, log)
	store := ticket.NewStore(concerts, log)

	renderer, err := render.NewRenderer()
	if err != nil {
		log.WithError(err).Fatal("load fonts")
	}
	var pub export.Publisher
	if cfg.Events.Enabled {
		pub = service.NewPublisher(cfg.Events.URL, log)
	}
	pipeline := export.NewPipeline(renderer, cfg.Export, pub, log)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(log))

	router.RegisterRoutes(e)
	router.RegisterConcerts(e, handler.NewConcertHandler(concerts))
	router.RegisterTicket(e,
		handler.NewTicketHandler(store, renderer, pipeline, log),
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log),
	)

	g, ctx := errgroup.WithContext(ctx)
	addr := ":" + cfg.Port
	g.Go(func() error {
		log.Infof("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})
	if cfg.Events.Enabled {
		consumer := &queue.Consumer{URL: cfg.Events.URL, Dir: "logs", Log: log}
		g.Go(func() error {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
	log.Info("server stopped")
}
