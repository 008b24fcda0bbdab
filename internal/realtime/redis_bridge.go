package realtime

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// RedisBridge carries relationship events across instances over a redis
// pub/sub channel. Single-instance deployments run without it; the hub
// alone is then the whole registry.
type RedisBridge struct {
	client  *redis.Client
	channel string
	log     *slog.Logger
}

func NewRedisBridge(client *redis.Client, channel string, log *slog.Logger) *RedisBridge {
	return &RedisBridge{client: client, channel: channel, log: log}
}

func (b *RedisBridge) Publish(ev RelationshipEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.client.Publish(context.Background(), b.channel, data).Err()
}

// Run consumes the channel and hands each event to deliver. Blocks until
// ctx is done; malformed messages are dropped.
func (b *RedisBridge) Run(ctx context.Context, deliver func(RelationshipEvent)) {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ev RelationshipEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.log.Warn("dropping malformed event", "channel", b.channel)
				continue
			}
			deliver(ev)
		}
	}
}
