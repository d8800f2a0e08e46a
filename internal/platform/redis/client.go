// Package redis owns the shared connection to the platform Redis, which
// backs the token balance oracle and the governed parameter store.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/realassetcoin-RAC/ignite-rewards/internal/platform/config"
)

// connectTimeout bounds the startup ping. A Redis that cannot answer
// within this window should fail the boot, not hang it.
const connectTimeout = 5 * time.Second

// Client hands out a verified connection. Callers reach the underlying
// *redis.Client directly for commands; Health is for readiness probes.
type Client struct {
	*redis.Client
}

// New parses the URL, applies the pool tuning from cfg, and verifies
// the connection with a bounded ping before handing the client out.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("redis URL is empty")
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Client{Client: client}, nil
}

// Health reports whether Redis still answers.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.Client.Close()
}
