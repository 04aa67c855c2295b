package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Email     EmailConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name            string
	Port            string
	Debug           bool
	LogPath         string
	BaseURL         string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type JWTConfig struct {
	Secret               string
	Algorithm            string
	AccessTTL            time.Duration
	RefreshTTL           time.Duration
	VerifyTTL            time.Duration
	PasswordResetTimeout time.Duration
}

// EmailConfig holds the Courier API settings. An empty Token switches the
// service to the logging dispatcher.
type EmailConfig struct {
	Token          string
	BaseURL        string
	VerifyTemplate string
	ResetTemplate  string
	Timeout        time.Duration
}

type RedisConfig struct {
	URL string
}

type RateLimitConfig struct {
	LoginPerMinute int
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "user-accounts")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("APP_BASE_URL", "")
	v.SetDefault("SHUTDOWN_TIMEOUT", "15s")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("JWT_ALGORITHM", "HS256")
	v.SetDefault("JWT_ACCESS_TTL", "5m")
	v.SetDefault("JWT_REFRESH_TTL", "24h")
	v.SetDefault("JWT_VERIFY_TTL", "24h")
	v.SetDefault("PASSWORD_RESET_TIMEOUT", "72h")
	v.SetDefault("COURIER_BASE_URL", "https://api.courier.com")
	v.SetDefault("COURIER_VERIFY_TEMPLATE", "HQRFKDHDK84B16GJAQ7PWPFATXS8")
	v.SetDefault("COURIER_RESET_TEMPLATE", "WF7909Y7ZWMNWNNTNNQRHDTBKDF4")
	v.SetDefault("COURIER_TIMEOUT", "10s")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("LOGIN_MAX_PER_MINUTE", 5)

	// .env is optional, the environment always wins
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:            v.GetString("APP_NAME"),
			Port:            v.GetString("PORT"),
			Debug:           v.GetBool("DEBUG"),
			LogPath:         v.GetString("LOG_PATH"),
			BaseURL:         v.GetString("APP_BASE_URL"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		JWT: JWTConfig{
			Secret:               v.GetString("JWT_SECRET"),
			Algorithm:            v.GetString("JWT_ALGORITHM"),
			AccessTTL:            v.GetDuration("JWT_ACCESS_TTL"),
			RefreshTTL:           v.GetDuration("JWT_REFRESH_TTL"),
			VerifyTTL:            v.GetDuration("JWT_VERIFY_TTL"),
			PasswordResetTimeout: v.GetDuration("PASSWORD_RESET_TIMEOUT"),
		},
		Email: EmailConfig{
			Token:          v.GetString("COURIER_TOKEN"),
			BaseURL:        v.GetString("COURIER_BASE_URL"),
			VerifyTemplate: v.GetString("COURIER_VERIFY_TEMPLATE"),
			ResetTemplate:  v.GetString("COURIER_RESET_TEMPLATE"),
			Timeout:        v.GetDuration("COURIER_TIMEOUT"),
		},
		Redis: RedisConfig{
			URL: v.GetString("REDIS_URL"),
		},
		RateLimit: RateLimitConfig{
			LoginPerMinute: v.GetInt("LOGIN_MAX_PER_MINUTE"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks settings the service cannot start without.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET must be set")
	}

	switch c.JWT.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("unsupported JWT_ALGORITHM %q", c.JWT.Algorithm)
	}

	return nil
}
