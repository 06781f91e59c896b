package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/beloteio/belote-backend/internal/auth"
	"github.com/beloteio/belote-backend/internal/config"
	"github.com/beloteio/belote-backend/internal/httpapi"
	"github.com/beloteio/belote-backend/internal/hub"
	"github.com/beloteio/belote-backend/internal/matchmaking"
	"github.com/beloteio/belote-backend/internal/store"
	"github.com/beloteio/belote-backend/internal/ws"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(log); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	db, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	users := store.NewUsers(db)

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return err
	}
	rdb := redis.NewClient(redisOpts)
	defer func() { _ = rdb.Close() }()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return err
	}

	tokens := auth.NewService(cfg.JWTSecret, cfg.TokenExpire)
	h := hub.NewHub(ctx, cfg.BotDelay, log)
	queue := matchmaking.NewQueue(rdb, log)
	wsServer := ws.NewServer(h, queue, tokens, log)
	matchmaker := matchmaking.NewMatchmaker(
		queue, h, wsServer,
		cfg.MatchmakingInterval, cfg.MatchmakingBotWait, cfg.WinningScore, log)

	api := httpapi.NewAPI(users, tokens, log)
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httpapi.SetupRoutes(api, wsServer, log),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return matchmaker.Run(ctx)
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		h.Inbox() <- hub.ShutdownHub{}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
