package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"sentinal-delivery/config"
	"sentinal-delivery/internal/events"
	"sentinal-delivery/internal/redis"
	"sentinal-delivery/pkg/logger"
)

// events-tail prints message delivery events published by the API.
func main() {
	pattern := flag.String("pattern", "channel:message:*", "Redis channel pattern to follow")
	flag.Parse()

	cfg := config.LoadConfig()
	l := logger.New(cfg.LogMode)
	defer l.Sync()

	client := redis.NewClient(redis.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	l.Infof("following %s", *pattern)
	err := redis.NewSubscriber(client).Subscribe(ctx, []string{*pattern}, func(channel string, payload []byte) {
		var env events.Envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			l.Warnf("undecodable payload on %s: %s", channel, err)
			return
		}
		l.Infof("%s %s %s conversation=%s payload=%s", env.OccurredAt.Format("15:04:05.000"), env.EventType, env.AggregateID, env.Conversation, string(env.Payload))
	})
	if err != nil {
		l.Errorf("subscription ended: %v", err)
		os.Exit(1)
	}
}
