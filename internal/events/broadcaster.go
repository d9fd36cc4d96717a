// Package events publishes progress events to Redis Pub/Sub so
// builder-mode clients can watch a playthrough live over SSE.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/adventure-engine/pkg/state"
)

// Channel returns the pub/sub channel for one player's progress in
// one game.
func Channel(gameID, userID string) string {
	return fmt.Sprintf("progress:%s:%s", gameID, userID)
}

// Broadcaster publishes progress events to Redis Pub/Sub for SSE
// distribution. Publishing is best-effort: a failed broadcast never
// fails the action that produced the events.
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
	}
}

// PublishProgress publishes each event to the player's progress channel.
func (b *Broadcaster) PublishProgress(ctx context.Context, gameID, userID string, progress []state.ProgressEvent) {
	channel := Channel(gameID, userID)
	for _, ev := range progress {
		data, err := json.Marshal(ev)
		if err != nil {
			b.logger.Error("Failed to marshal progress event", "event_id", ev.ID, "error", err)
			continue
		}
		if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
			b.logger.Warn("Failed to publish progress event",
				"channel", channel, "event_id", ev.ID, "error", err)
		}
	}
}
