package notifier

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// Publisher is the slice of the Redis client the sender needs.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisSender publishes notifications as JSON for a downstream mailer to consume.
type RedisSender struct {
	client  Publisher
	channel string
}

func NewRedisSender(client Publisher, channel string) *RedisSender {
	return &RedisSender{client: client, channel: channel}
}

func (s *RedisSender) Name() string { return "redis" }

func (s *RedisSender) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(struct {
		Message
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}{Message: msg, Subject: msg.Subject(), Body: msg.Body()})
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, s.channel, payload).Err()
}
