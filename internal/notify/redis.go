package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher is satisfied by *redis.Client.
type RedisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Message is the JSON payload sent on the Redis channel.
type Message struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// RedisNotifier publishes to a Redis pub/sub channel; topic is the channel name.
type RedisNotifier struct {
	client RedisPublisher
}

func NewRedisNotifier(client RedisPublisher) *RedisNotifier {
	return &RedisNotifier{client: client}
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisClient(cfg RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func (n *RedisNotifier) Publish(ctx context.Context, topic, subject, body string) error {
	payload, err := json.Marshal(Message{Subject: subject, Body: body})
	if err != nil {
		return err
	}
	if err := n.client.Publish(ctx, topic, payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", topic, err)
	}
	return nil
}
