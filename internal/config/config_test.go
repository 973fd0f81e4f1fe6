package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"minidxo/internal/agent"
)

var serverVars = []string{
	"PORT", "RELAY_TOKEN", "GATEWAY_URL", "GATEWAY_API_KEY", "LOVABLE_API_KEY",
	"GATEWAY_MODEL", "DATABASE_URL", "MIGRATIONS_DIR", "TELEGRAM_BOT_TOKEN",
	"DOCTOR_CHAT_ID", "REPORT_FONT", "LOG_LEVEL", "LOG_FORMAT", "RELAY_URL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range serverVars {
		t.Setenv(k, "")
	}
}

func TestLoadServerDefaults(t *testing.T) {
	clearEnv(t)

	cfg := LoadServer()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, agent.DefaultGatewayURL, cfg.Gateway.URL)
	assert.Equal(t, agent.DefaultModel, cfg.Gateway.Model)
	assert.Empty(t, cfg.Gateway.APIKey)
	assert.Equal(t, "migrations", cfg.MigrationsDir)
	assert.Zero(t, cfg.Telegram.DoctorChatID)
	assert.Equal(t, Log{Level: "info", Format: "text"}, cfg.Log)
}

func TestLoadServerFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LOVABLE_API_KEY", "fallback-key")
	t.Setenv("DOCTOR_CHAT_ID", " -100123 ")
	t.Setenv("DATABASE_URL", "postgres://localhost/minidxo")
	t.Setenv("LOG_FORMAT", "json")

	cfg := LoadServer()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "fallback-key", cfg.Gateway.APIKey)
	assert.Equal(t, int64(-100123), cfg.Telegram.DoctorChatID)
	assert.Equal(t, "postgres://localhost/minidxo", cfg.DatabaseURL)
	assert.Equal(t, "json", cfg.Log.Format)

	t.Setenv("GATEWAY_API_KEY", "primary-key")
	assert.Equal(t, "primary-key", LoadServer().Gateway.APIKey)
}

func TestLoadClient(t *testing.T) {
	clearEnv(t)
	assert.Equal(t, "http://localhost:8080", LoadClient().RelayURL)

	t.Setenv("RELAY_URL", "https://relay.example.com")
	t.Setenv("RELAY_TOKEN", "secret")
	cfg := LoadClient()
	assert.Equal(t, "https://relay.example.com", cfg.RelayURL)
	assert.Equal(t, "secret", cfg.RelayToken)
}
