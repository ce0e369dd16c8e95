package notifier

import (
	"context"
	"io"
	"time"

	"claims-management-api/config"

	"github.com/redis/go-redis/v9"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewSender builds the Sender selected by NOTIFIER. The returned closer releases any
// connection the sender holds.
func NewSender(ctx context.Context, cfg config.NotifyConfig) (Sender, io.Closer, error) {
	switch cfg.Mode {
	case config.NotifierSMTP:
		return NewSMTPSender(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		}), nopCloser{}, nil
	case config.NotifierRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return NewRedisSender(client, cfg.RedisChannel), client, nil
	default:
		return NewLogSender(), nopCloser{}, nil
	}
}
