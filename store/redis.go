package store

import (
	"context"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Redis stores each document under a prefixed key.  When a channel is set,
// every save publishes the document name on it.
type Redis struct {
	client  *redis.Client
	prefix  string
	channel string
	logger  *slog.Logger
}

type RedisOption func(*Redis)

func RedisPrefix(prefix string) RedisOption {
	return func(r *Redis) { r.prefix = prefix }
}

func RedisChannel(channel string) RedisOption {
	return func(r *Redis) { r.channel = channel }
}

func RedisLogger(logger *slog.Logger) RedisOption {
	return func(r *Redis) { r.logger = logger }
}

func NewRedis(client *redis.Client, opts ...RedisOption) *Redis {
	r := &Redis{client: client, prefix: "confdoc:"}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// DialRedis connects to addr and checks the connection.
func DialRedis(ctx context.Context, addr string, opts ...RedisOption) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return NewRedis(client, opts...), nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) key(name string) string {
	return r.prefix + name
}

func (r *Redis) Save(ctx context.Context, name string, data []byte) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(name), data, 0).Err(); err != nil {
		return err
	}
	if r.channel == "" {
		return nil
	}
	if err := r.client.Publish(ctx, r.channel, name).Err(); err != nil {
		// the document is saved, only the notification is lost
		r.logger.Warn("publishing save", "name", name, "channel", r.channel, "error", err)
	}
	return nil
}

func (r *Redis) Load(ctx context.Context, name string) ([]byte, error) {
	d, err := r.client.Get(ctx, r.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Watch returns the names of documents saved on the channel until ctx is
// done.
func (r *Redis) Watch(ctx context.Context) (<-chan string, error) {
	if r.channel == "" {
		return nil, errors.New("redis store has no channel")
	}
	sub := r.client.Subscribe(ctx, r.channel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, err
	}
	res := make(chan string)
	go func() {
		defer close(res)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case res <- msg.Payload:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return res, nil
}
