package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const topicTTL = time.Hour

// TopicCache stores extracted conversation topic labels in Redis so repeated
// turns of the same conversation skip the extra model call. Keys are supplied
// by the caller (a conversation hash); values expire after topicTTL.
type TopicCache struct {
	client *redis.Client
}

// NewTopicCache creates a TopicCache wrapping the given Redis client.
func NewTopicCache(client *redis.Client) *TopicCache {
	return &TopicCache{client: client}
}

// Get returns the cached topic, or "" when the key is absent.
func (c *TopicCache) Get(ctx context.Context, key string) (string, error) {
	topic, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("topic cache get: %w", err)
	}
	return topic, nil
}

// Set stores the topic (expires after topicTTL).
func (c *TopicCache) Set(ctx context.Context, key, topic string) error {
	return c.client.Set(ctx, key, topic, topicTTL).Err()
}
