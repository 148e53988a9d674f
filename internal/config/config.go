// Package config loads runtime settings from the environment (and an
// optional .env file) into an explicit Config value.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"storefront/internal/models"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every setting the server needs. Components receive the
// sub-struct they use instead of reading the environment themselves.
type Config struct {
	AppPort     string
	LogLevel    string
	FrontendURL string
	RabbitMQURL string

	Database DatabaseConfig
	Auth     AuthConfig
	Payment  PaymentConfig
	Checkout CheckoutConfig
}

type DatabaseConfig struct {
	Driver string // postgres or sqlite
	DSN    string
}

type AuthConfig struct {
	JWTSecret          string
	TokenTTL           time.Duration
	CookieSecure       bool
	ResetTokenTTL      time.Duration
	DefaultPermissions []models.Permission
	// RatePerMinute limits signin, signup and reset calls per client IP.
	RatePerMinute int
}

type PaymentConfig struct {
	APIURL    string
	SecretKey string
	Currency  string
	Timeout   time.Duration
}

type CheckoutConfig struct {
	LockTTL        time.Duration
	AllowEmptyCart bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("FRONTEND_URL", "http://localhost:7777")
	v.SetDefault("RABBITMQ_URL", "")

	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "file:storefront.db")

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("TOKEN_TTL", "8760h")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("RESET_TOKEN_TTL", "1h")
	v.SetDefault("DEFAULT_PERMISSIONS", "USER,ITEMCREATE,ITEMUPDATE,ITEMDELETE")
	v.SetDefault("AUTH_RATE_PER_MINUTE", 20)

	v.SetDefault("PAYMENT_API_URL", "https://api.stripe.com")
	v.SetDefault("PAYMENT_SECRET_KEY", "")
	v.SetDefault("PAYMENT_CURRENCY", "USD")
	v.SetDefault("PAYMENT_TIMEOUT", "10s")

	v.SetDefault("CHECKOUT_LOCK_TTL", "2m")
	v.SetDefault("CHECKOUT_ALLOW_EMPTY_CART", true)
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	perms, err := models.ParsePermissions(v.GetString("DEFAULT_PERMISSIONS"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_PERMISSIONS: %w", err)
	}

	cfg := &Config{
		AppPort:     v.GetString("APP_PORT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		FrontendURL: strings.TrimRight(v.GetString("FRONTEND_URL"), "/"),
		RabbitMQURL: v.GetString("RABBITMQ_URL"),
		Database: DatabaseConfig{
			Driver: strings.ToLower(v.GetString("DATABASE_DRIVER")),
			DSN:    v.GetString("DATABASE_DSN"),
		},
		Auth: AuthConfig{
			JWTSecret:          v.GetString("JWT_SECRET"),
			TokenTTL:           v.GetDuration("TOKEN_TTL"),
			CookieSecure:       v.GetBool("COOKIE_SECURE"),
			ResetTokenTTL:      v.GetDuration("RESET_TOKEN_TTL"),
			DefaultPermissions: perms,
			RatePerMinute:      v.GetInt("AUTH_RATE_PER_MINUTE"),
		},
		Payment: PaymentConfig{
			APIURL:    strings.TrimRight(v.GetString("PAYMENT_API_URL"), "/"),
			SecretKey: v.GetString("PAYMENT_SECRET_KEY"),
			Currency:  strings.ToUpper(v.GetString("PAYMENT_CURRENCY")),
			Timeout:   v.GetDuration("PAYMENT_TIMEOUT"),
		},
		Checkout: CheckoutConfig{
			LockTTL:        v.GetDuration("CHECKOUT_LOCK_TTL"),
			AllowEmptyCart: v.GetBool("CHECKOUT_ALLOW_EMPTY_CART"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver)
	}
	if c.Payment.Timeout <= 0 {
		return errors.New("PAYMENT_TIMEOUT must be positive")
	}
	if c.Checkout.LockTTL <= c.Payment.Timeout {
		return errors.New("CHECKOUT_LOCK_TTL must exceed PAYMENT_TIMEOUT")
	}
	if c.Auth.RatePerMinute <= 0 {
		return errors.New("AUTH_RATE_PER_MINUTE must be positive")
	}
	return nil
}
