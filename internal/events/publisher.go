package events

import (
	"context"
	"encoding/json"
	"fmt"
)

// Publisher delivers envelopes to subscribers.
type Publisher interface {
	Publish(ctx context.Context, env Envelope) error
}

// RawPublisher sends an encoded payload to a single channel.
type RawPublisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// RedisPublisher fans an envelope out over Redis pub/sub.
type RedisPublisher struct {
	raw      RawPublisher
	resolver ChannelResolver
}

func NewRedisPublisher(raw RawPublisher, resolver ChannelResolver) *RedisPublisher {
	if resolver == nil {
		resolver = NewMessageChannelResolver()
	}
	return &RedisPublisher{raw: raw, resolver: resolver}
}

func (p *RedisPublisher) Publish(ctx context.Context, env Envelope) error {
	channels := p.resolver.ResolveChannels(env)
	if len(channels) == 0 {
		return nil
	}

	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	for _, channel := range channels {
		if err := p.raw.Publish(ctx, channel, data); err != nil {
			return fmt.Errorf("failed to publish to %s: %w", channel, err)
		}
	}
	return nil
}
