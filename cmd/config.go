package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

const (
	defaultHTTPPort           = "8080"
	defaultSessionIdleTimeout = 30 * time.Minute
	defaultTimezone           = "Asia/Kolkata"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// NATSURL is optional; without it domain events are dropped.
	NATSURL string

	RazorpayWebhookSecret string
	RazorpayKeySecret     string

	SessionIdleTimeout time.Duration
	// Timezone decides when a journey date has passed.
	Timezone string

	TuningFile string
	LogLevel   string
}

// LoadConfig reads .env when present, then the process environment.
// A missing .env file is not an error.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}
	return configFromEnv(os.Getenv)
}

func configFromEnv(getenv func(string) string) (Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := Config{
		HTTPPort:              get("HTTP_PORT", defaultHTTPPort),
		DBHost:                get("DB_HOST", "localhost"),
		DBPort:                get("DB_PORT", "5432"),
		DBUser:                get("DB_USER", ""),
		DBPassword:            getenv("DB_PASSWORD"),
		DBName:                get("DB_NAME", ""),
		DBSslMode:             get("DB_SSLMODE", "disable"),
		NATSURL:               get("NATS_URL", ""),
		RazorpayWebhookSecret: getenv("RAZORPAY_WEBHOOK_SECRET"),
		RazorpayKeySecret:     getenv("RAZORPAY_KEY_SECRET"),
		SessionIdleTimeout:    defaultSessionIdleTimeout,
		Timezone:              get("TIMEZONE", defaultTimezone),
		TuningFile:            get("TUNING_FILE", ""),
		LogLevel:              strings.ToLower(get("LOG_LEVEL", "info")),
	}

	var problems []error
	if raw := get("SESSION_IDLE_TIMEOUT_MINUTES", ""); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			problems = append(problems, fmt.Errorf("SESSION_IDLE_TIMEOUT_MINUTES must be a positive integer, got %q", raw))
		} else {
			cfg.SessionIdleTimeout = time.Duration(minutes) * time.Minute
		}
	}
	if cfg.DBUser == "" {
		problems = append(problems, errors.New("DB_USER is required"))
	}
	if cfg.DBName == "" {
		problems = append(problems, errors.New("DB_NAME is required"))
	}
	if _, err := ParseLogLevel(cfg.LogLevel); err != nil {
		problems = append(problems, err)
	}

	return cfg, errors.Join(problems...)
}

// DSN is the postgres connection string for gorm.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// ServeReady reports what `serve` needs beyond the database settings.
func (c Config) ServeReady() error {
	if c.RazorpayWebhookSecret == "" {
		return errors.New("RAZORPAY_WEBHOOK_SECRET is required")
	}
	return nil
}

func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL %q is not one of debug, info, warn, error", s)
	}
}

// EchoLogLevel maps a slog level onto echo's gommon logger.
func EchoLogLevel(level slog.Level) log.Lvl {
	switch {
	case level <= slog.LevelDebug:
		return log.DEBUG
	case level <= slog.LevelInfo:
		return log.INFO
	case level <= slog.LevelWarn:
		return log.WARN
	default:
		return log.ERROR
	}
}

// Location loads Timezone, falling back to a fixed IST offset when the zone
// database is unavailable.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.FixedZone("IST", 5*60*60+30*60)
	}
	return loc
}
