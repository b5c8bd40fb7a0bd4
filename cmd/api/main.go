package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"adminconsole/internal/auth"
	"adminconsole/internal/config"
	"adminconsole/internal/httpapi"
	"adminconsole/internal/mockdata"
	"adminconsole/internal/obs"
	"adminconsole/internal/store/kv"
	"adminconsole/internal/store/pg"
	"adminconsole/internal/stream"
	"adminconsole/internal/token"
)

var version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := obs.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	obs.SetLogger(logger)
	obs.Init()
	obs.InitBuildInfo(version, os.Getenv("BUILD_COMMIT"))

	// Postgres: identity, roles, grants. Every protected endpoint needs it;
	// /readyz pings it.
	if cfg.PostgresDSN == "" {
		logger.Fatal("CONSOLE_PG_DSN is required")
	}
	store, err := pg.Open(cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("open postgres", zap.Error(err))
	}
	defer store.Close()

	// Redis is optional: without it, refresh sessions and console data
	// live in process memory.
	var (
		registry token.Registry
		blobs    kv.Store
	)
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer client.Close()
		registry = token.NewRedisRegistry(client)
		blobs = kv.NewRedis(client)
		logger.Info("redis connected", zap.String("addr", cfg.RedisAddr))
	} else {
		registry = token.NewMemoryRegistry()
		blobs = kv.NewMemory()
		logger.Info("redis not configured, using in-memory stores")
	}

	access, err := token.NewAccess(cfg.JWTSecret, cfg.JWTIssuer,
		token.WithAccessTTL(cfg.AccessTTL))
	if err != nil {
		logger.Fatal("access token signer", zap.Error(err))
	}
	refresh := token.NewRefresh(registry, token.WithRefreshTTL(cfg.RefreshTTL))

	var idp auth.IdentityProvider
	if p := auth.NewEmulatorIdentityProvider(cfg.IDPEmulatorSecret); p != nil {
		idp = p
	}
	pipeline := auth.NewPipeline(
		auth.NewResolver(httpapi.AccessVerifierFor(access), idp, logger),
		auth.NewRoleResolver(store),
		auth.NewAggregator(store),
		logger,
	)

	data := mockdata.NewRepository(blobs)
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
	if err := data.Seed(seedCtx); err != nil {
		logger.Fatal("seed console data", zap.Error(err))
	}
	cancelSeed()

	feed := stream.NewFeed()
	stopDemo := feed.StartDemo(3*time.Second, func(ctx context.Context, txn mockdata.LiveTxn) error {
		_, err := data.AppendLiveTxn(ctx, txn)
		return err
	})
	defer stopDemo()

	api := httpapi.New(httpapi.Deps{
		Pipeline:  pipeline,
		Identity:  store,
		Directory: store,
		Roles:     store,
		Perms:     auth.NewAggregator(store),
		Access:    access,
		Refresh:   refresh,
		Data:      data,
		Feed:      feed,
		Ready:     httpapi.ReadyProbe{DB: store.DB()},
		Version:   version,
		Log:       logger,
	})

	handler := httpapi.SecurityHeaders(httpapi.CORS(
		httpapi.MaxBodyBytes(
			httpapi.RateLimit(api.Handler(), cfg.RateLimitBurst, cfg.RateLimitPerSecond),
			1<<20,
		),
	))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		// No WriteTimeout: the dashboard event stream holds its
		// connection open indefinitely.
		IdleTimeout: 60 * time.Second,
	}

	logger.Info("starting admin-console-api",
		zap.String("version", version),
		zap.String("addr", srv.Addr))

	// graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info("stopped")
}
