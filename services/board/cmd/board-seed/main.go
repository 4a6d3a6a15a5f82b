package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/comment-board/internal/platform/db"
	"github.com/example/comment-board/internal/platform/logging"
	"github.com/example/comment-board/internal/platform/natsconn"
	"github.com/example/comment-board/services/board/internal/cache"
	"github.com/example/comment-board/services/board/internal/seed"
	"github.com/example/comment-board/services/board/internal/store"
)

type options struct {
	databaseURL string
	natsURL     string
	users       []string
	posts       int
	seed        int64
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:          "board-seed",
		Short:        "Migrate the board database and insert users and posts",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.databaseURL, "database-url", strings.TrimSpace(os.Getenv("DATABASE_URL")), "Postgres DSN (env DATABASE_URL)")
	cmd.Flags().StringVar(&opts.natsURL, "nats-url", strings.TrimSpace(os.Getenv("NATS_URL")), "NATS URL for cache invalidation (env NATS_URL)")
	cmd.Flags().StringSliceVar(&opts.users, "users", []string{"Kyle", "Sally"}, "user names to create")
	cmd.Flags().IntVar(&opts.posts, "posts", 2, "number of posts to create")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "faker seed; 0 picks one from the clock")
	return cmd
}

func runSeed(ctx context.Context, opts *options) error {
	log, err := logging.New(os.Getenv("LOG_LEVEL"), "board-seed")
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if opts.databaseURL == "" {
		return fmt.Errorf("--database-url or DATABASE_URL is required")
	}
	if err := store.Migrate(opts.databaseURL, log); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	pool, err := db.Open(ctx, opts.databaseURL)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	st := store.NewPostgresStore(pool)
	defer st.Close()

	if opts.seed == 0 {
		opts.seed = time.Now().UnixNano()
	}
	res, err := seed.Run(ctx, st, seed.Options{
		Users: opts.users,
		Posts: opts.posts,
		Faker: gofakeit.New(opts.seed),
	})
	if err != nil {
		return err
	}
	log.Info("seeded board", zap.Int("users", len(res.Users)), zap.Int("posts", len(res.Posts)), zap.Int64("seed", opts.seed))

	nc, err := natsconn.Connect(natsconn.Options{URL: opts.natsURL, Name: "board-seed"})
	if err != nil {
		log.Warn("nats unavailable, caches will expire by TTL", zap.Error(err))
		return nil
	}
	defer nc.Close()
	if err := cache.PublishInvalidate(nc, cache.All); err != nil {
		log.Warn("cache invalidation", zap.Error(err))
	}
	return nil
}
