package main

import (
	"context"
	"net"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/example/comment-board/internal/platform/analytics"
	"github.com/example/comment-board/internal/platform/auth"
	"github.com/example/comment-board/internal/platform/config"
	"github.com/example/comment-board/internal/platform/db"
	"github.com/example/comment-board/internal/platform/httpserver"
	"github.com/example/comment-board/internal/platform/logging"
	"github.com/example/comment-board/internal/platform/metrics"
	"github.com/example/comment-board/internal/platform/natsconn"
	"github.com/example/comment-board/internal/platform/run"
	"github.com/example/comment-board/services/board/internal/cache"
	"github.com/example/comment-board/services/board/internal/grpcapi"
	"github.com/example/comment-board/services/board/internal/handlers"
	"github.com/example/comment-board/services/board/internal/identity"
	"github.com/example/comment-board/services/board/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logging.New(cfg.LogLevel, cfg.ServiceName)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	st := initStore(cfg, log)
	defer st.Close()

	// NATS is optional: without it analytics are dropped and the cache only
	// expires by TTL.
	var events *analytics.Publisher
	nc, err := natsconn.Connect(natsconn.Options{URL: cfg.NATSURL, Name: cfg.ServiceName})
	if err != nil {
		log.Warn("nats unavailable, analytics and cache invalidation disabled", zap.Error(err))
	} else {
		defer nc.Close()
		events = initAnalytics(nc, log)
	}

	postCache := initCache(cfg, log)
	if nc != nil {
		if _, err := cache.Subscribe(nc, postCache, log); err != nil {
			log.Warn("cache invalidation subscribe", zap.Error(err))
		}
	}
	posts := cache.NewCachedPosts(st, postCache, log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := chi.NewRouter()
	httpserver.SetupRouter(r, httpserver.RouterConfig{
		CORSOrigins: cfg.ClientURL,
		Logger:      log,
		Metrics:     metrics.NewHTTP(cfg.ServiceName, reg),
		ReadyFunc: func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return st.Ping(ctx)
		},
	})
	standIn := identity.NewStandIn(st, cfg.StandInUser)
	r.Group(func(r chi.Router) {
		r.Use(auth.StandIn(auth.StandInOptions{
			Signer:   auth.CookieSigner{Secret: []byte(cfg.CookieSecret)},
			Resolver: standIn,
			Logger:   log,
			Secure:   cfg.IsProduction(),
		}))
		handlers.Mount(r, handlers.Deps{Posts: posts, Comments: st, Events: events})
	})

	srv := httpserver.New(httpserver.Options{Addr: cfg.HTTP.Addr, ServiceName: cfg.ServiceName, Logger: log, Router: r})

	lis, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		log.Error("grpc listen", zap.Error(err))
		run.Exit(1)
	}
	grpcSrv := grpc.NewServer(grpc.UnaryInterceptor(grpcapi.StandInInterceptor(standIn, log)))
	grpcapi.RegisterBoardServer(grpcSrv, &grpcapi.BoardService{Posts: posts, Comments: st, Events: events})
	go func() {
		log.Info("grpc server starting", zap.String("addr", cfg.GRPC.Addr))
		if err := grpcSrv.Serve(lis); err != nil {
			log.Error("grpc serve", zap.Error(err))
		}
	}()

	runner := run.New(log)
	code := runner.WithSignals(
		func(context.Context) error { return srv.Start() },
		func(ctx context.Context) error {
			stopped := make(chan struct{})
			go func() {
				grpcSrv.GracefulStop()
				close(stopped)
			}()
			select {
			case <-stopped:
			case <-ctx.Done():
				grpcSrv.Stop()
			}
			return srv.Shutdown(ctx)
		},
	)

	log.Info("exit", zap.Int("code", code))
	_ = log.Sync()
	run.Exit(code)
}

// initStore selects the store backend. In production a working Postgres is
// required; elsewhere the in-memory store is seeded with the stand-in user so
// the board is usable out of the box.
func initStore(cfg config.AppConfig, log *zap.Logger) store.Store {
	fallback := func(reason string, err error) store.Store {
		if cfg.IsProduction() {
			log.Error(reason, zap.Error(err))
			_ = log.Sync()
			run.Exit(1)
		}
		log.Warn(reason+", using in-memory store (development only)", zap.Error(err))
		mem := store.NewMemoryStore()
		if _, err := mem.CreateUser(context.Background(), cfg.StandInUser); err != nil {
			log.Warn("seed stand-in user", zap.Error(err))
		}
		return mem
	}

	if cfg.DatabaseURL == "" {
		return fallback("DATABASE_URL not set", nil)
	}
	if err := store.Migrate(cfg.DatabaseURL, log); err != nil {
		return fallback("postgres migrations failed", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return fallback("postgres unavailable", err)
	}
	log.Info("board store: postgres")
	return store.NewPostgresStore(pool)
}

func initAnalytics(nc *nats.Conn, log *zap.Logger) *analytics.Publisher {
	js, err := nc.JetStream()
	if err != nil {
		log.Warn("jetstream unavailable, analytics disabled", zap.Error(err))
		return nil
	}
	if err := natsconn.EnsureStream(js, analytics.StreamName, []string{analytics.StreamSubject}, 7*24*time.Hour); err != nil {
		log.Warn("analytics stream", zap.Error(err))
		return nil
	}
	return analytics.New(js, log)
}

func initCache(cfg config.AppConfig, log *zap.Logger) cache.Cache {
	if cfg.RedisURL == "" {
		log.Info("post cache: in-memory", zap.Duration("ttl", cfg.CacheTTL))
		return cache.NewTTLCache(cfg.CacheTTL)
	}
	rc, err := cache.NewRedisCache(cfg.RedisURL, cfg.CacheTTL)
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err = rc.Ping(ctx)
		cancel()
	}
	if err != nil {
		if rc != nil {
			_ = rc.Close()
		}
		log.Warn("redis unavailable, using in-memory post cache", zap.Error(err))
		return cache.NewTTLCache(cfg.CacheTTL)
	}
	log.Info("post cache: redis", zap.Duration("ttl", cfg.CacheTTL))
	return rc
}
