package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

type captureRaw struct {
	channels []string
	payloads [][]byte
	err      error
}

func (c *captureRaw) Publish(ctx context.Context, channel string, payload []byte) error {
	if c.err != nil {
		return c.err
	}
	c.channels = append(c.channels, channel)
	c.payloads = append(c.payloads, payload)
	return nil
}

func TestMessageChannelResolver(t *testing.T) {
	r := NewMessageChannelResolver()

	env := Envelope{AggregateType: AggregateMessage, AggregateID: "m1", Conversation: "direct:ECHOECHO"}
	got := r.ResolveChannels(env)
	if len(got) != 2 || got[0] != "channel:message:m1" || got[1] != "channel:conversation:direct:ECHOECHO" {
		t.Fatalf("unexpected channels %v", got)
	}

	env.Conversation = ""
	if got := r.ResolveChannels(env); len(got) != 1 {
		t.Fatalf("expected only the message channel, got %v", got)
	}
}

func TestRedisPublisherFansOut(t *testing.T) {
	raw := &captureRaw{}
	p := NewRedisPublisher(raw, nil)

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	env, err := NewEnvelope(EventTypeMessageStateChanged, "m1", "group:g1", at, StateChangedPayload{MessageID: "m1", To: "DELIVERED", Source: SourceReceipt})
	if err != nil {
		t.Fatalf("NewEnvelope failed: %v", err)
	}
	if err := p.Publish(context.Background(), env); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if len(raw.channels) != 2 {
		t.Fatalf("expected two channels, got %v", raw.channels)
	}

	var decoded Envelope
	if err := json.Unmarshal(raw.payloads[0], &decoded); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if decoded.EventType != EventTypeMessageStateChanged || !decoded.OccurredAt.Equal(at) {
		t.Fatalf("unexpected envelope %+v", decoded)
	}
	var payload StateChangedPayload
	if err := json.Unmarshal(decoded.Payload, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.From != nil || payload.To != "DELIVERED" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestRedisPublisherPropagatesErrors(t *testing.T) {
	p := NewRedisPublisher(&captureRaw{err: errors.New("down")}, nil)
	env, _ := NewEnvelope(EventTypeMessageRead, "m1", "", time.Now(), MessageReadPayload{MessageID: "m1"})
	if err := p.Publish(context.Background(), env); err == nil {
		t.Fatal("expected publish error")
	}
}
