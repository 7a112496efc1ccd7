package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "POSTGRES_DSN", "TEMPORAL_ADDRESS", "TEMPORAL_NAMESPACE", "TEMPORAL_DISABLED",
		"CORS_ALLOWED_ORIGINS", "CONSOLE_REFRESH_INTERVAL", "EVENTS_BACKEND", "KAFKA_BROKERS", "KAFKA_TOPIC",
		"RABBITMQ_URL", "RABBITMQ_EXCHANGE", "DELIVERY_PARTNER_URL", "STAFF_USERNAME", "STAFF_PASSWORD",
		"STAFF_TOKEN_SECRET", "STAFF_TOKEN_TTL_MINUTES", "CART_TTL_HOURS", "CART_PURGE_INTERVAL_MINUTES",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, EventsBackendLog, cfg.EventsBackend)
	require.Equal(t, time.Second, cfg.ConsoleRefreshInterval)
	require.Equal(t, 24*time.Hour, cfg.CartTTL)
	require.Equal(t, 12*time.Hour, cfg.StaffTokenTTL)
	require.Equal(t, []string{"http://localhost:5173"}, cfg.CORSAllowedOrigins)
	require.False(t, cfg.StaffAuthEnabled())
	require.False(t, cfg.TemporalDisabled)
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("TEMPORAL_DISABLED", "true")
	t.Setenv("EVENTS_BACKEND", "Kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("CONSOLE_REFRESH_INTERVAL", "250ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("STAFF_TOKEN_SECRET", "secret")
	t.Setenv("STAFF_USERNAME", "kitchen")
	t.Setenv("STAFF_PASSWORD", "correct-horse")
	t.Setenv("CART_TTL_HOURS", "6")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.True(t, cfg.TemporalDisabled)
	require.Equal(t, EventsBackendKafka, cfg.EventsBackend)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	require.Equal(t, 250*time.Millisecond, cfg.ConsoleRefreshInterval)
	require.Len(t, cfg.CORSAllowedOrigins, 2)
	require.True(t, cfg.StaffAuthEnabled())
	require.Equal(t, 6*time.Hour, cfg.CartTTL)
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown backend":         {"EVENTS_BACKEND": "nats"},
		"kafka without brokers":   {"EVENTS_BACKEND": "kafka"},
		"rabbitmq without url":    {"EVENTS_BACKEND": "rabbitmq"},
		"bad refresh interval":    {"CONSOLE_REFRESH_INTERVAL": "soon"},
		"negative cart ttl":       {"CART_TTL_HOURS": "-1"},
		"secret without accounts": {"STAFF_TOKEN_SECRET": "secret"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			require.Error(t, err)
		})
	}
}
