package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the process needs at startup. It is built once in
// main and handed to the components that need it.
type Config struct {
	AppHost     string
	AppPort     string
	FrontendURL string

	DBHost         string
	DBPort         string
	DBDatabase     string
	DBUsername     string
	DBPassword     string
	DBSSLMode      string
	DBMaxOpenConns int

	StripeSecretKey string
	Currency        string
	GatewayTimeout  time.Duration

	JWTSecret string
	LogDir    string
}

// Load reads the optional .env file and then the process environment.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		AppHost:         os.Getenv("APP_HOST"),
		AppPort:         getEnv("APP_PORT", "5000"),
		FrontendURL:     getEnv("FRONTEND_URL", "*"),
		DBHost:          os.Getenv("DB_HOST"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBDatabase:      os.Getenv("DB_DATABASE"),
		DBUsername:      os.Getenv("DB_USERNAME"),
		DBPassword:      os.Getenv("DB_PASSWORD"),
		DBSSLMode:       getEnv("DB_SSLMODE", "disable"),
		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),
		Currency:        strings.ToLower(getEnv("PAYMENT_CURRENCY", "bdt")),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		LogDir:          getEnv("LOG_DIR", "log/app"),
	}

	maxConns, err := strconv.Atoi(getEnv("DB_MAX_OPEN_CONNS", "10"))
	if err != nil || maxConns <= 0 {
		return nil, fmt.Errorf("DB_MAX_OPEN_CONNS must be a positive integer")
	}
	cfg.DBMaxOpenConns = maxConns

	timeout, err := time.ParseDuration(getEnv("GATEWAY_TIMEOUT", "15s"))
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("GATEWAY_TIMEOUT must be a positive duration")
	}
	cfg.GatewayTimeout = timeout

	if cfg.DBHost == "" {
		return nil, fmt.Errorf("DB_HOST is not set")
	}
	if cfg.StripeSecretKey == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY is not set")
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUsername, c.DBPassword, c.DBDatabase, c.DBSSLMode)
}

// ListenAddr is the address passed to fiber's Listen.
func (c *Config) ListenAddr() string {
	return c.AppHost + ":" + c.AppPort
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
