package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StateStoreMemory   = "memory"
	StateStorePostgres = "postgres"
)

type Config struct {
	Server     ServerConfig
	Logger     LoggerConfig
	Twilio     TwilioConfig
	R2         R2Config
	StateStore string
	Database   DatabaseConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	Workers         int
	ShutdownTimeout time.Duration
	// PortFromEnv is false when PORT fell back to the default
	PortFromEnv bool
}

// Addr is the listen address. The hosting platform injects PORT.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LoggerConfig struct {
	Level  string
	Format string
}

type TwilioConfig struct {
	AccountSID        string
	AuthToken         string
	ValidateSignature bool
	PublicBaseURL     string
	MediaTimeout      time.Duration
	MediaMaxBytes     int64
}

func (t TwilioConfig) Enabled() bool {
	return t.AccountSID != "" && t.AuthToken != ""
}

type R2Config struct {
	AccessKeyID     string
	SecretAccessKey string
	AccountID       string
	Bucket          string
	PublicURL       string
}

func (r R2Config) Enabled() bool {
	return r.AccessKeyID != "" && r.SecretAccessKey != "" && r.AccountID != "" && r.Bucket != ""
}

func (r R2Config) Endpoint() string {
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r.AccountID)
}

// PublicBase returns the prefix for public object URLs, without a trailing slash.
func (r R2Config) PublicBase() string {
	if r.PublicURL != "" {
		return strings.TrimRight(r.PublicURL, "/")
	}
	return fmt.Sprintf("https://pub-%s.r2.dev/%s", r.AccountID, r.Bucket)
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("PORT", 8080)
	v.SetDefault("WORKERS", 4)
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")
	v.SetDefault("TWILIO_ACCOUNT_SID", "")
	v.SetDefault("TWILIO_AUTH_TOKEN", "")
	v.SetDefault("TWILIO_VALIDATE_SIGNATURE", false)
	v.SetDefault("PUBLIC_BASE_URL", "")
	v.SetDefault("MEDIA_TIMEOUT", "30s")
	v.SetDefault("MEDIA_MAX_BYTES", 16<<20)
	v.SetDefault("R2_ACCESS_KEY_ID", "")
	v.SetDefault("R2_SECRET_ACCESS_KEY", "")
	v.SetDefault("R2_ACCOUNT_ID", "")
	v.SetDefault("R2_BUCKET_NAME", "")
	v.SetDefault("R2_PUBLIC_URL", "")
	v.SetDefault("STATE_STORE", StateStoreMemory)
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "")
	v.SetDefault("DATABASE_NAME", "curumim")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)
	v.SetDefault("DATABASE_MAX_IDLE_CONNS", 2)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", "30m")

	// Optional .env file, real env vars still win
	if err := readEnvFile(v, os.Getenv("ENV_FILE")); err != nil {
		return nil, err
	}

	// Env
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host:            v.GetString("SERVER_HOST"),
			Port:            v.GetInt("PORT"),
			Workers:         v.GetInt("WORKERS"),
			ShutdownTimeout: parseDuration(v.GetString("SHUTDOWN_TIMEOUT"), 10*time.Second),
			PortFromEnv:     os.Getenv("PORT") != "" || v.InConfig("PORT"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
		Twilio: TwilioConfig{
			AccountSID:        v.GetString("TWILIO_ACCOUNT_SID"),
			AuthToken:         v.GetString("TWILIO_AUTH_TOKEN"),
			ValidateSignature: v.GetBool("TWILIO_VALIDATE_SIGNATURE"),
			PublicBaseURL:     strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/"),
			MediaTimeout:      parseDuration(v.GetString("MEDIA_TIMEOUT"), 30*time.Second),
			MediaMaxBytes:     v.GetInt64("MEDIA_MAX_BYTES"),
		},
		R2: R2Config{
			AccessKeyID:     v.GetString("R2_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("R2_SECRET_ACCESS_KEY"),
			AccountID:       v.GetString("R2_ACCOUNT_ID"),
			Bucket:          v.GetString("R2_BUCKET_NAME"),
			PublicURL:       v.GetString("R2_PUBLIC_URL"),
		},
		StateStore: strings.ToLower(v.GetString("STATE_STORE")),
		Database: DatabaseConfig{
			Host:            v.GetString("DATABASE_HOST"),
			Port:            v.GetInt("DATABASE_PORT"),
			User:            v.GetString("DATABASE_USER"),
			Password:        v.GetString("DATABASE_PASSWORD"),
			Name:            v.GetString("DATABASE_NAME"),
			SSLMode:         v.GetString("DATABASE_SSLMODE"),
			MaxOpenConns:    v.GetInt("DATABASE_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DATABASE_MAX_IDLE_CONNS"),
			ConnMaxLifetime: parseDuration(v.GetString("DATABASE_CONN_MAX_LIFETIME"), 30*time.Minute),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Server.Port)
	}
	if c.Server.Workers < 1 {
		return fmt.Errorf("invalid WORKERS %d: must be at least 1", c.Server.Workers)
	}
	if c.Twilio.MediaMaxBytes <= 0 {
		return fmt.Errorf("invalid MEDIA_MAX_BYTES %d", c.Twilio.MediaMaxBytes)
	}
	switch c.StateStore {
	case StateStoreMemory, StateStorePostgres:
	default:
		return fmt.Errorf("unknown STATE_STORE %q", c.StateStore)
	}
	return nil
}

// readEnvFile merges KEY=VALUE pairs from a dotenv file. A missing default
// .env is not an error; a missing explicit ENV_FILE is.
func readEnvFile(v *viper.Viper, path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("stat env file %s: %w", path, err)
	}

	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read env file %s: %w", path, err)
	}
	return nil
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
