package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"shop-backoffice/internal/config"
)

// LogTransport records the wa.me link for the operator to open. It is the
// default when no broker is configured.
type LogTransport struct {
	logger logrus.FieldLogger
}

func NewLogTransport(logger logrus.FieldLogger) *LogTransport {
	return &LogTransport{logger: logger}
}

func (t *LogTransport) Name() string { return "log" }

func (t *LogTransport) Send(_ context.Context, job Job) error {
	if job.Phone == "" {
		return fmt.Errorf("invoice %s: no phone number", job.InvoiceNo)
	}
	t.logger.WithFields(logrus.Fields{
		"invoice_no": job.InvoiceNo,
		"phone":      job.Phone,
		"link":       job.Link,
	}).Info("whatsapp invoice ready")
	return nil
}

// Publisher is the slice of *redis.Client the redis transport needs.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisTransport publishes each job as JSON for an external sender to pick up.
type RedisTransport struct {
	pub     Publisher
	channel string
}

func NewRedisTransport(pub Publisher, channel string) *RedisTransport {
	return &RedisTransport{pub: pub, channel: channel}
}

func (t *RedisTransport) Name() string { return "redis" }

func (t *RedisTransport) Send(ctx context.Context, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode notification %s: %w", job.InvoiceNo, err)
	}
	if err := t.pub.Publish(ctx, t.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish notification %s: %w", job.InvoiceNo, err)
	}
	return nil
}

// NewTransport builds the configured transport. The returned close func
// releases any connection it opened and is never nil.
func NewTransport(ctx context.Context, cfg config.NotifyConfig, logger logrus.FieldLogger) (Transport, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Transport {
	case "", "log":
		return NewLogTransport(logger), noop, nil
	case "redis":
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, noop, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, noop, fmt.Errorf("failed to connect redis at %s: %w", opts.Addr, err)
		}
		logger.WithField("addr", opts.Addr).Info("connected to redis")
		return NewRedisTransport(rdb, cfg.Channel), rdb.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown notify transport %q", cfg.Transport)
	}
}
