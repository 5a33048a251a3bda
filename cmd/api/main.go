package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	amqpnotifier "github.com/nomadnova/nomadnova-api/internal/adapters/amqp"
	"github.com/nomadnova/nomadnova-api/internal/adapters/httpapi"
	memchatrepo "github.com/nomadnova/nomadnova-api/internal/adapters/memory/chatrepo"
	memmemoryrepo "github.com/nomadnova/nomadnova-api/internal/adapters/memory/memoryrepo"
	memnotificationrepo "github.com/nomadnova/nomadnova-api/internal/adapters/memory/notificationrepo"
	memtriprepo "github.com/nomadnova/nomadnova-api/internal/adapters/memory/triprepo"
	memuserrepo "github.com/nomadnova/nomadnova-api/internal/adapters/memory/userrepo"
	postgres "github.com/nomadnova/nomadnova-api/internal/adapters/postgres"
	pgchatrepo "github.com/nomadnova/nomadnova-api/internal/adapters/postgres/chatrepo"
	pgmemoryrepo "github.com/nomadnova/nomadnova-api/internal/adapters/postgres/memoryrepo"
	pgnotificationrepo "github.com/nomadnova/nomadnova-api/internal/adapters/postgres/notificationrepo"
	pgtriprepo "github.com/nomadnova/nomadnova-api/internal/adapters/postgres/triprepo"
	pguserrepo "github.com/nomadnova/nomadnova-api/internal/adapters/postgres/userrepo"
	"github.com/nomadnova/nomadnova-api/internal/adapters/ws"
	"github.com/nomadnova/nomadnova-api/internal/app/analytics"
	"github.com/nomadnova/nomadnova-api/internal/app/chat"
	"github.com/nomadnova/nomadnova-api/internal/app/memories"
	"github.com/nomadnova/nomadnova-api/internal/app/notifications"
	"github.com/nomadnova/nomadnova-api/internal/app/trips"
	"github.com/nomadnova/nomadnova-api/internal/app/users"
	"github.com/nomadnova/nomadnova-api/internal/platform/auth"
	platformclock "github.com/nomadnova/nomadnova-api/internal/platform/clock"
	"github.com/nomadnova/nomadnova-api/internal/platform/config"
	"github.com/nomadnova/nomadnova-api/internal/platform/logging"
	chatrepoport "github.com/nomadnova/nomadnova-api/internal/ports/out/chatrepo"
	memoryrepoport "github.com/nomadnova/nomadnova-api/internal/ports/out/memoryrepo"
	notificationrepoport "github.com/nomadnova/nomadnova-api/internal/ports/out/notificationrepo"
	"github.com/nomadnova/nomadnova-api/internal/ports/out/notifier"
	triprepoport "github.com/nomadnova/nomadnova-api/internal/ports/out/triprepo"
	userrepoport "github.com/nomadnova/nomadnova-api/internal/ports/out/userrepo"
)

func main() {
	logging.Setup()
	logger := slog.Default()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	var authMW func(http.Handler) http.Handler
	switch cfg.AuthMode {
	case "dev":
		authMW = httpapi.NewDevAuthMiddleware(cfg.DevSubject)
	default:
		authMW = httpapi.NewAuthMiddleware(tokens)
	}

	clk := platformclock.NewSystemClock()

	var (
		tripRepo         triprepoport.Repository
		userRepo         userrepoport.Repository
		notificationRepo notificationrepoport.Repository
		chatRepo         chatrepoport.Repository
		memoryRepo       memoryrepoport.Repository
		cleanup          func()
	)
	switch cfg.StorageBackend {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{})
		if err != nil {
			logger.Error("postgres unavailable", "error", err)
			os.Exit(1)
		}
		cleanup = pool.Close

		tripRepo = pgtriprepo.NewRepo(pool)
		userRepo = pguserrepo.NewRepo(pool)
		notificationRepo = pgnotificationrepo.NewRepo(pool)
		chatRepo = pgchatrepo.NewRepo(pool)
		memoryRepo = pgmemoryrepo.NewRepo(pool)
	default:
		tripRepo = memtriprepo.NewRepo()
		userRepo = memuserrepo.NewRepo()
		notificationRepo = memnotificationrepo.NewRepo()
		chatRepo = memchatrepo.NewRepo()
		memoryRepo = memmemoryrepo.NewRepo()
	}
	if cleanup != nil {
		defer cleanup()
	}

	// Notifications always land in the stored feed; an AMQP publisher joins
	// the fanout when configured.
	sink := notifier.Fanout{notificationRepo}
	if cfg.AMQPURL != "" {
		pub, err := amqpnotifier.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			logger.Error("amqp unavailable", "error", err)
			os.Exit(1)
		}
		defer pub.Close()
		sink = append(sink, pub)
	}

	userSvc := users.NewService(userRepo, tokens, clk)
	tripSvc := trips.NewService(tripRepo, userRepo, sink, clk)
	chatSvc := chat.NewService(chatRepo, tripRepo, clk)
	memorySvc := memories.NewService(memoryRepo, tripRepo, clk)
	notificationSvc := notifications.NewService(notificationRepo)
	analyticsSvc := analytics.NewService(tripRepo, userRepo)

	hub := ws.NewHub(logger)

	api := httpapi.NewServer(userSvc, tripSvc, chatSvc, memorySvc, notificationSvc, analyticsSvc, hub, logger, cfg.LeaderboardLimit)
	handler := httpapi.NewRouter(api, authMW, cfg.CORSOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Periodic sweep marks overdue trips completed and awards titles/coins.
	sweeper := cron.New()
	if _, err := sweeper.AddFunc(cfg.CompletionSchedule, func() {
		n, err := tripSvc.CompleteDueTrips(context.Background(), clk.Now())
		if err != nil {
			logger.Error("completion sweep failed", "error", err)
			return
		}
		if n > 0 {
			logger.Info("completion sweep", "completed", n)
		}
	}); err != nil {
		logger.Error("invalid completion schedule", "schedule", cfg.CompletionSchedule, "error", err)
		os.Exit(1)
	}
	sweeper.Start()
	defer sweeper.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		logger.Info("api listening", "port", cfg.Port, "storage", cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}
