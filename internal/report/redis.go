package report

import (
	"context"
	"crypto/tls"
	"fmt"

	"dexspread/internal/model"

	"github.com/redis/go-redis/v9"
)

// RedisOptions holds connection parameters for the publisher.
type RedisOptions struct {
	Addr       string
	Password   string
	DB         int
	TLSEnabled bool
	Channel    string
}

// RedisPublisher publishes every tick event to a Redis Pub/Sub channel.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
}

// NewRedisPublisher connects to Redis and verifies the connection with a ping.
func NewRedisPublisher(ctx context.Context, opts RedisOptions) (*RedisPublisher, error) {
	ropts := &redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}
	if opts.TLSEnabled {
		ropts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	rdb := redis.NewClient(ropts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return &RedisPublisher{rdb: rdb, channel: opts.Channel}, nil
}

func (p *RedisPublisher) ReportTick(ctx context.Context, report model.TickReport) error {
	payload, err := encodeTick(report)
	if err != nil {
		return fmt.Errorf("redis: encode tick: %w", err)
	}
	return p.publish(ctx, payload)
}

func (p *RedisPublisher) ReportFailure(ctx context.Context, failure model.TickFailure) error {
	payload, err := encodeFailure(failure)
	if err != nil {
		return fmt.Errorf("redis: encode failure: %w", err)
	}
	return p.publish(ctx, payload)
}

func (p *RedisPublisher) publish(ctx context.Context, payload []byte) error {
	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis: publish %s: %w", p.channel, err)
	}
	return nil
}

// Close closes the Redis connection.
func (p *RedisPublisher) Close() error {
	return p.rdb.Close()
}
