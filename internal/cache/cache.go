// Package cache holds short-lived copies of leaderboard reads.
package cache

import (
	"context"
	"time"
)

type Cache interface {
	// Get decodes the value stored under key into dst and reports whether it was found.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	// DeletePrefix drops every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
	Close() error
}

// Noop is used when no redis address is configured; every read misses.
type Noop struct{}

func (Noop) Get(context.Context, string, any) (bool, error) { return false, nil }
func (Noop) Set(context.Context, string, any) error { return nil }
func (Noop) DeletePrefix(context.Context, string) error { return nil }
func (Noop) Close() error { return nil }

type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// New returns a redis cache when opts.Addr is set and Noop otherwise.
func New(ctx context.Context, opts Options) (Cache, error) {
	if opts.Addr == "" {
		return Noop{}, nil
	}
	return NewRedis(ctx, opts)
}
