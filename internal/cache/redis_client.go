package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces every key written by codeinsight
const KeyPrefix = "codeinsight"

// Client wraps a Redis client with JSON get/set helpers
type Client struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration // Default TTL for stored values, 0 = no expiry
}

// Options configures NewClient
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewClient connects to Redis and verifies connectivity
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("redis address missing")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password, // Empty string if no password
		DB:       opts.DB,
	})

	// fail fast on startup
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}

	logger := slog.Default().With("component", "redis")
	logger.Info("redis client connected", "addr", opts.Addr, "db", opts.DB)

	return &Client{
		client: client,
		logger: logger,
		ttl:    opts.TTL,
	}, nil
}

// Close closes the Redis client connection
func (c *Client) Close() error {
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}
	c.logger.Info("redis client closed")
	return nil
}

// Get retrieves a value by key and unmarshals into target.
// Returns false on a miss (not an error).
func (c *Client) Get(ctx context.Context, key string, target interface{}) (bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		c.logger.Debug("key miss", "key", key)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get failed for key %s: %w", key, err)
	}

	if err := json.Unmarshal(val, target); err != nil {
		return false, fmt.Errorf("failed to unmarshal value for key %s: %w", key, err)
	}

	c.logger.Debug("key hit", "key", key)
	return true, nil
}

// Set stores a value with the default TTL
func (c *Client) Set(ctx context.Context, key string, value interface{}) error {
	return c.SetWithTTL(ctx, key, value, c.ttl)
}

// SetWithTTL stores a value as JSON with a custom TTL
func (c *Client) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for key %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed for key %s: %w", key, err)
	}

	c.logger.Debug("key set", "key", key, "ttl", ttl)
	return nil
}

// Key generates a namespaced key
// Format: "codeinsight:kind:id", e.g. "codeinsight:job:job_1f0c..."
func Key(kind, id string) string {
	return fmt.Sprintf("%s:%s:%s", KeyPrefix, kind, id)
}
