package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	userChannelPrefix = "user:"
	userChannelSuffix = ":events"

	defaultDedupTTL = 6 * time.Hour
)

// RedisAdapter provides the duplicate-transition guard and the
// realtime push channel. Pushes go to per-user channels the websocket
// tier subscribes to; delivery is best effort.
type RedisAdapter struct {
	client   *redis.Client
	dedupTTL time.Duration
}

func NewRedisAdapter(client *redis.Client, dedupTTL time.Duration) *RedisAdapter {
	if dedupTTL <= 0 {
		dedupTTL = defaultDedupTTL
	}
	return &RedisAdapter{client: client, dedupTTL: dedupTTL}
}

func (r *RedisAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, 1, r.dedupTTL).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

type pushEnvelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func (r *RedisAdapter) Publish(ctx context.Context, userID, event string, payload any) error {
	body, err := json.Marshal(pushEnvelope{Event: event, Data: payload})
	if err != nil {
		return fmt.Errorf("encode push payload: %w", err)
	}

	channel := userChannelPrefix + userID + userChannelSuffix
	if err := r.client.Publish(ctx, channel, body).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", channel, err)
	}
	return nil
}
