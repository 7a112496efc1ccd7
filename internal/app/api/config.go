package api

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
)

// Event backends selectable through EVENTS_BACKEND.
const (
	EventsBackendLog      = "log"
	EventsBackendKafka    = "kafka"
	EventsBackendRabbitMQ = "rabbitmq"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port                   string
	PostgresDSN            string
	TemporalAddress        string
	TemporalNamespace      string
	TemporalDisabled       bool
	CORSAllowedOrigins     []string
	ConsoleRefreshInterval time.Duration

	EventsBackend    string
	KafkaBrokers     []string
	KafkaTopic       string
	RabbitMQURL      string
	RabbitMQExchange string

	DeliveryPartnerURL string

	StaffUsername    string
	StaffPassword    string
	StaffTokenSecret string
	StaffTokenTTL    time.Duration

	CartTTL           time.Duration
	CartPurgeInterval time.Duration
}

// StaffAuthEnabled reports whether console routes require a staff token.
func (c Config) StaffAuthEnabled() bool {
	return c.StaffTokenSecret != ""
}

// LoadConfig loads an optional .env file, reads environment variables,
// applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg := Config{
		Port:               envDefault("PORT", "8080"),
		PostgresDSN:        strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		TemporalAddress:    envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace:  envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:   isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		CORSAllowedOrigins: splitList(envDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		EventsBackend:      strings.ToLower(envDefault("EVENTS_BACKEND", EventsBackendLog)),
		KafkaBrokers:       splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:         envDefault("KAFKA_TOPIC", "orders.events"),
		RabbitMQURL:        strings.TrimSpace(os.Getenv("RABBITMQ_URL")),
		RabbitMQExchange:   envDefault("RABBITMQ_EXCHANGE", "orders"),
		DeliveryPartnerURL: strings.TrimSpace(os.Getenv("DELIVERY_PARTNER_URL")),
		StaffUsername:      strings.TrimSpace(os.Getenv("STAFF_USERNAME")),
		StaffPassword:      os.Getenv("STAFF_PASSWORD"),
		StaffTokenSecret:   strings.TrimSpace(os.Getenv("STAFF_TOKEN_SECRET")),
	}

	var err error
	if cfg.ConsoleRefreshInterval, err = durationEnv("CONSOLE_REFRESH_INTERVAL", time.Second); err != nil {
		return Config{}, err
	}
	if cfg.StaffTokenTTL, err = positiveIntEnv("STAFF_TOKEN_TTL_MINUTES", 720, time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.CartTTL, err = positiveIntEnv("CART_TTL_HOURS", 24, time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.CartPurgeInterval, err = positiveIntEnv("CART_PURGE_INTERVAL_MINUTES", 60, time.Minute); err != nil {
		return Config{}, err
	}

	switch cfg.EventsBackend {
	case EventsBackendLog:
	case EventsBackendKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return Config{}, errors.New("KAFKA_BROKERS is required when EVENTS_BACKEND=kafka")
		}
	case EventsBackendRabbitMQ:
		if cfg.RabbitMQURL == "" {
			return Config{}, errors.New("RABBITMQ_URL is required when EVENTS_BACKEND=rabbitmq")
		}
	default:
		return Config{}, fmt.Errorf("EVENTS_BACKEND must be one of log, kafka, rabbitmq (got %q)", cfg.EventsBackend)
	}
	if cfg.StaffAuthEnabled() && (cfg.StaffUsername == "" || cfg.StaffPassword == "") {
		return Config{}, errors.New("STAFF_USERNAME and STAFF_PASSWORD are required when STAFF_TOKEN_SECRET is set")
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration such as 1s", key)
	}
	return d, nil
}

func positiveIntEnv(key string, fallback int, unit time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return time.Duration(fallback) * unit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return time.Duration(n) * unit, nil
}
