package notifier

import (
	"context"
	"encoding/base64"

	"github.com/redis/go-redis/v9"
)

// RedisNotifier implements Notifier using a Redis stream
type RedisNotifier struct {
	client    *redis.Client
	ctx       context.Context
	stream    string
	maxLength int
}

// NewRedisNotifier creates a new Redis notifier
func NewRedisNotifier(ctx context.Context, addr string, db int, stream string, maxLength int) *RedisNotifier {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisNotifier{
		client:    client,
		ctx:       ctx,
		stream:    stream,
		maxLength: maxLength,
	}
}

// Announce publishes an accepted code to the Redis stream.
// The message is base64 encoded before publishing.
func (n *RedisNotifier) Announce(code string, message []byte) error {
	encodedMessage := base64.StdEncoding.EncodeToString(message)

	return n.client.XAdd(n.ctx, &redis.XAddArgs{
		Stream: n.stream,
		Values: map[string]interface{}{
			code: encodedMessage,
		},
	}).Err()
}

// Trim caps the stream to the configured maximum length
func (n *RedisNotifier) Trim() error {
	return n.client.XTrimMaxLen(n.ctx, n.stream, int64(n.maxLength)).Err()
}

// Close closes the Redis connection
func (n *RedisNotifier) Close() error {
	return n.client.Close()
}
