// Package redis appends vault events to a Redis stream.
package redis

import (
	"context"
	"strconv"

	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/events"
	"github.com/redis/go-redis/v9"
)

// Config holds the connection parameters.
type Config struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Stream   string `yaml:"stream"`
	// MaxLen caps the stream length approximately. Zero keeps everything.
	MaxLen int64 `yaml:"max_len"`
}

// DefaultStream is used when the configuration leaves it empty.
const DefaultStream = "vault:events"

// Publisher is an events.Sink writing to a Redis stream.
type Publisher struct {
	client *redis.Client
	stream string
	maxLen int64
}

var _ events.Sink = (*Publisher)(nil)

// Connect creates the client and checks that the server answers.
func Connect(ctx context.Context, cfg Config) (*Publisher, error) {
	if cfg.Address == "" {
		return nil, errors.Field("Address", errors.ErrEmpty, "redis address required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrapf(errors.ErrDatabase, "redis ping: %s", err)
	}
	return NewPublisher(client, cfg), nil
}

// NewPublisher wraps an existing client.
func NewPublisher(client *redis.Client, cfg Config) *Publisher {
	stream := cfg.Stream
	if stream == "" {
		stream = DefaultStream
	}
	return &Publisher{client: client, stream: stream, maxLen: cfg.MaxLen}
}

// Publish appends the event to the stream.
func (p *Publisher) Publish(ctx context.Context, e events.Event) error {
	args, err := p.xaddArgs(e)
	if err != nil {
		return err
	}
	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "redis xadd: %s", err)
	}
	return nil
}

// Close releases the client.
func (p *Publisher) Close() error {
	return p.client.Close()
}

func (p *Publisher) xaddArgs(e events.Event) (*redis.XAddArgs, error) {
	body, err := e.Encode()
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidModel, err.Error())
	}
	values := map[string]interface{}{
		"id":      e.ID.String(),
		"kind":    string(e.Kind),
		"balance": strconv.FormatUint(e.Balance, 10),
		"event":   string(body),
	}
	if e.Index != nil {
		values["index"] = strconv.FormatUint(*e.Index, 10)
	}
	return &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: p.maxLen > 0,
		Values: values,
	}, nil
}
