package cache

import (
	"context"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// InvalidateSubject carries a cache key, or All, as its payload.
const InvalidateSubject = "board.cache.invalidate"

// Subscribe drops keys from c as invalidations arrive on nc.
func Subscribe(nc *nats.Conn, c Cache, log *zap.Logger) (*nats.Subscription, error) {
	if log == nil {
		log = zap.NewNop()
	}
	return nc.Subscribe(InvalidateSubject, func(msg *nats.Msg) {
		key := strings.TrimSpace(string(msg.Data))
		if key == "" {
			key = All
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Invalidate(ctx, key); err != nil {
			log.Warn("cache invalidation failed", zap.String("key", key), zap.Error(err))
			return
		}
		log.Debug("cache invalidated", zap.String("key", key))
	})
}

// PublishInvalidate asks every subscribed instance to drop key.
func PublishInvalidate(nc *nats.Conn, key string) error {
	if err := nc.Publish(InvalidateSubject, []byte(key)); err != nil {
		return err
	}
	return nc.Flush()
}
