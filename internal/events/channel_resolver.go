package events

import (
	"fmt"
)

// ChannelResolver determines which Redis channels to publish to
type ChannelResolver interface {
	ResolveChannels(env Envelope) []string
}

// MessageChannelResolver routes message events to the message channel and,
// when known, the conversation channel.
type MessageChannelResolver struct{}

func NewMessageChannelResolver() *MessageChannelResolver {
	return &MessageChannelResolver{}
}

func (r *MessageChannelResolver) ResolveChannels(env Envelope) []string {
	var channels []string
	if env.AggregateID != "" {
		channels = append(channels, fmt.Sprintf("channel:%s:%s", env.AggregateType, env.AggregateID))
	}
	if env.Conversation != "" {
		channels = append(channels, fmt.Sprintf("channel:conversation:%s", env.Conversation))
	}
	return channels
}
