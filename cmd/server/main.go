package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/aimerkz/yatube/internal/auth"
	"github.com/aimerkz/yatube/internal/cache"
	"github.com/aimerkz/yatube/internal/config"
	"github.com/aimerkz/yatube/internal/events"
	"github.com/aimerkz/yatube/internal/media"
	"github.com/aimerkz/yatube/internal/metrics"
	"github.com/aimerkz/yatube/internal/service"
	"github.com/aimerkz/yatube/internal/storage/sqlite"
	"github.com/aimerkz/yatube/internal/tracing"
	"github.com/aimerkz/yatube/internal/web"
	"github.com/aimerkz/yatube/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	logging.Setup(cfg.Env)

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Tracing is optional; without a collector only propagation is set up.
	traced := cfg.OtelEndpoint != ""
	if traced {
		tp, err := tracing.Init(ctx, cfg.OtelEndpoint, cfg.Env)
		if err != nil {
			slog.Error("Failed to init tracer", "error", err)
			traced = false
			tracing.SetPropagator()
		} else {
			defer func() { _ = tp.Shutdown(context.Background()) }()
			slog.Info("Tracing enabled", "endpoint", cfg.OtelEndpoint)
		}
	} else {
		tracing.SetPropagator()
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	mediaStore, err := media.NewStore(cfg.MediaRoot)
	if err != nil {
		slog.Error("Failed to initialize media store", "error", err)
		os.Exit(1)
	}

	m := metrics.New()

	backend, closeCache, err := newCache(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize cache", "backend", cfg.CacheBackend, "error", err)
		os.Exit(1)
	}
	defer closeCache()
	responseCache := cache.NewInstrumented(backend, m.CacheHits, m.CacheMisses)

	var publisher events.Publisher = events.Nop{}
	if cfg.NatsURL != "" {
		nc, err := nats.Connect(cfg.NatsURL, nats.Name("yatube"))
		if err != nil {
			slog.Error("Unable to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer nc.Drain()
		publisher = events.NewNatsPublisher(nc, m.Events)
		slog.Info("Connected to NATS", "url", cfg.NatsURL)
	}

	logger := slog.Default()
	authenticator := auth.NewPasswordAuthenticator(store)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	srv, err := web.NewServer(web.Deps{
		Posts:         service.NewPostService(store, publisher, logger),
		Follows:       service.NewFollowService(store, publisher, logger),
		Feeds:         service.NewFeedService(store),
		Groups:        service.NewGroupService(store, logger),
		Auth:          service.NewAuthService(authenticator, jwtManager, store, logger),
		Cache:         responseCache,
		Media:         mediaStore,
		Metrics:       m,
		Logger:        logger,
		SessionSecret: cfg.SessionSecret,
		SecureCookies: !cfg.IsLocal(),
	})
	if err != nil {
		slog.Error("Failed to build web server", "error", err)
		os.Exit(1)
	}

	var handler http.Handler = srv.Routes()
	if traced {
		handler = otelhttp.NewHandler(handler, "yatube")
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server starting", "address", cfg.Addr, "env", cfg.Env, "cache", cfg.CacheBackend)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
	slog.Info("Server exited")
}

// newCache builds the configured cache backend and a function releasing it.
func newCache(ctx context.Context, cfg config.Config) (cache.Cache, func(), error) {
	switch cfg.CacheBackend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisotel.InstrumentTracing(rdb); err != nil {
			return nil, nil, err
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, err
		}
		slog.Info("Connected to Redis", "addr", cfg.RedisAddr)
		return cache.NewRedis(rdb, cache.RedisKeyPrefix, cfg.CacheTTL), func() { _ = rdb.Close() }, nil
	case "memory", "":
		return cache.NewMemory(cfg.CacheSize, cfg.CacheTTL), func() {}, nil
	default:
		return nil, nil, errors.New("unknown cache backend " + cfg.CacheBackend)
	}
}
