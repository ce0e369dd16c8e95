package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	NotifierLog   = "log"
	NotifierSMTP  = "smtp"
	NotifierRedis = "redis"
)

// Config is built once at start-up and handed to every component that needs it.
type Config struct {
	Port       string
	GinMode    string
	Env        string
	CORSOrigin string

	LogLevel  string
	LogFormat string

	DBDriver    string
	DatabaseDSN string

	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration

	Notify NotifyConfig
}

type NotifyConfig struct {
	Mode      string
	QueueSize int
	Timeout   time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	RedisAddr     string
	RedisPassword string
	RedisChannel  string
}

var defaults = map[string]any{
	"PORT":              "5000",
	"GIN_MODE":          "debug",
	"APP_ENV":           "development",
	"CORS_ORIGIN":       "http://localhost:3000",
	"LOG_LEVEL":         "info",
	"LOG_FORMAT":        "text",
	"DB_DRIVER":         DriverSQLite,
	"DATABASE_DSN":      "claims.db",
	"JWT_ISSUER":        "claims-management-api",
	"TOKEN_TTL":         24 * time.Hour,
	"NOTIFIER":          NotifierLog,
	"NOTIFY_QUEUE_SIZE": 100,
	"NOTIFY_TIMEOUT":    10 * time.Second,
	"SMTP_PORT":         587,
	"REDIS_CHANNEL":     "claims.status",
}

// Load reads configuration from the environment. Callers that want a .env file
// loaded should do so before calling Load.
func Load() (Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	cfg := Config{
		Port:        v.GetString("PORT"),
		GinMode:     v.GetString("GIN_MODE"),
		Env:         v.GetString("APP_ENV"),
		CORSOrigin:  v.GetString("CORS_ORIGIN"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		LogFormat:   v.GetString("LOG_FORMAT"),
		DBDriver:    strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseDSN: v.GetString("DATABASE_DSN"),
		JWTSecret:   v.GetString("JWT_SECRET"),
		JWTIssuer:   v.GetString("JWT_ISSUER"),
		TokenTTL:    v.GetDuration("TOKEN_TTL"),
		Notify: NotifyConfig{
			Mode:          strings.ToLower(v.GetString("NOTIFIER")),
			QueueSize:     v.GetInt("NOTIFY_QUEUE_SIZE"),
			Timeout:       v.GetDuration("NOTIFY_TIMEOUT"),
			SMTPHost:      v.GetString("SMTP_HOST"),
			SMTPPort:      v.GetInt("SMTP_PORT"),
			SMTPUsername:  v.GetString("SMTP_USERNAME"),
			SMTPPassword:  v.GetString("SMTP_PASSWORD"),
			MailFrom:      v.GetString("MAIL_FROM"),
			RedisAddr:     v.GetString("REDIS_ADDR"),
			RedisPassword: v.GetString("REDIS_PASSWORD"),
			RedisChannel:  v.GetString("REDIS_CHANNEL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DatabaseDSN == "" {
		return errors.New("DATABASE_DSN is required")
	}

	switch c.Notify.Mode {
	case NotifierLog:
	case NotifierSMTP:
		if c.Notify.SMTPHost == "" || c.Notify.MailFrom == "" {
			return errors.New("NOTIFIER=smtp requires SMTP_HOST and MAIL_FROM")
		}
	case NotifierRedis:
		if c.Notify.RedisAddr == "" {
			return errors.New("NOTIFIER=redis requires REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unsupported NOTIFIER %q", c.Notify.Mode)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}
