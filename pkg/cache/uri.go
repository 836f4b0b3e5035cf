package cache

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Open builds a Store from a cache URI and returns the TTL the URI asks for.
// A returned TTL of zero means the URI did not set one.
//
// Supported forms:
//
//	none://
//	memory:///?ttl=3600
//	sqlite:///path/to/cache.db?ttl=3600
//	redis://localhost:6379/0?ttl=3600
//
// ttl is given in whole seconds.
func Open(ctx context.Context, uri string, opts ...Option) (Store, time.Duration, error) {
	if uri == "" {
		return NoCache{}, 0, nil
	}

	u, err := url.Parse(uri)
	if err != nil {
		return nil, 0, fmt.Errorf("parse cache uri: %w", err)
	}

	query := u.Query()
	ttl, err := parseTTL(query.Get("ttl"))
	if err != nil {
		return nil, 0, err
	}

	switch u.Scheme {
	case "none":
		return NoCache{}, ttl, nil

	case "memory":
		return NewMemory(opts...), ttl, nil

	case "sqlite":
		path := u.Host + u.Path
		if path == "" {
			return nil, 0, fmt.Errorf("sqlite cache uri %q has no path", uri)
		}
		store, err := NewDurable(ctx, path, opts...)
		if err != nil {
			return nil, 0, err
		}
		return store, ttl, nil

	case "redis", "rediss":
		query.Del("ttl")
		u.RawQuery = query.Encode()
		redisOpts, err := redis.ParseURL(u.String())
		if err != nil {
			return nil, 0, fmt.Errorf("parse redis cache uri: %w", err)
		}
		client := redis.NewClient(redisOpts)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, 0, fmt.Errorf("connect redis cache: %w", err)
		}
		store := NewRedis(client, opts...)
		store.ownsClient = true
		return store, ttl, nil

	default:
		return nil, 0, fmt.Errorf("unsupported cache scheme %q", u.Scheme)
	}
}

func parseTTL(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return 0, fmt.Errorf("invalid cache ttl %q: must be a positive number of seconds", raw)
	}
	return time.Duration(seconds) * time.Second, nil
}
