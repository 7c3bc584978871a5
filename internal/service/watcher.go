package service

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Invalidator drops cached corpus state.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// CorpusWatcher invalidates the served corpus whenever a message arrives on
// the invalidation channel.
type CorpusWatcher struct {
	client  *redis.Client
	channel string
	target  Invalidator
	logger  *zap.Logger
}

// NewCorpusWatcher creates a new CorpusWatcher instance
func NewCorpusWatcher(client *redis.Client, channel string, target Invalidator, logger *zap.Logger) *CorpusWatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CorpusWatcher{
		client:  client,
		channel: channel,
		target:  target,
		logger:  logger,
	}
}

// Run blocks until ctx is done. ready, if non-nil, is closed once the
// subscription is active.
func (w *CorpusWatcher) Run(ctx context.Context, ready chan<- struct{}) error {
	pubsub := w.client.Subscribe(ctx, w.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", w.channel, err)
	}
	if ready != nil {
		close(ready)
	}
	w.logger.Info("watching corpus invalidations", zap.String("channel", w.channel))

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			w.logger.Info("corpus invalidation received", zap.String("reason", msg.Payload))
			if err := w.target.Invalidate(ctx); err != nil {
				w.logger.Error("failed to invalidate corpus", zap.Error(err))
			}
		}
	}
}

// PublishInvalidation tells every watcher on channel to drop its corpus.
func PublishInvalidation(ctx context.Context, client *redis.Client, channel, reason string) error {
	if err := client.Publish(ctx, channel, reason).Err(); err != nil {
		return fmt.Errorf("failed to publish corpus invalidation: %w", err)
	}
	return nil
}
