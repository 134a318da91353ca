package config

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"DATABASE_URL", "HTTP_LISTEN", "TELEGRAM_BOT_TOKEN", "PRACTITIONER_CHAT_ID",
		"DEFAULT_TIMEZONE", "CONFLICT_HORIZON_DAYS", "AUTO_COPY_WEEK_CRON", "LOG_LEVEL",
		"CORS_ALLOWED_ORIGINS", "HTTP_RATE_LIMIT", "HOLIDAYS_FILE",
	} {
		t.Setenv(key, "")
	}
	// пустые значения считаются заданными, поэтому выставляем обязательные явно
	t.Setenv("DATABASE_URL", "test.db")
	t.Setenv("HTTP_LISTEN", ":0")
	t.Setenv("DEFAULT_TIMEZONE", "Europe/Berlin")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "test.db", cfg.DatabaseURL)
	assert.Equal(t, 90, cfg.ConflictHorizonDays)
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Zero(t, cfg.HTTPRateLimit)
	assert.Empty(t, cfg.HolidaysFile)
	assert.False(t, cfg.BotEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "prod.db")
	t.Setenv("HTTP_LISTEN", ":9090")
	t.Setenv("DEFAULT_TIMEZONE", "UTC")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("PRACTITIONER_CHAT_ID", "424242")
	t.Setenv("CONFLICT_HORIZON_DAYS", "30")
	t.Setenv("AUTO_COPY_WEEK_CRON", "0 18 * * FRI")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com,")
	t.Setenv("HTTP_RATE_LIMIT", "20")
	t.Setenv("HOLIDAYS_FILE", "calendar.json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.BotEnabled())
	assert.Equal(t, int64(424242), cfg.PractitionerChatID)
	assert.Equal(t, 30, cfg.ConflictHorizonDays)
	assert.Equal(t, "0 18 * * FRI", cfg.AutoCopyWeekCron)
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, 20, cfg.HTTPRateLimit)
	assert.Equal(t, "calendar.json", cfg.HolidaysFile)
}

func TestValidate(t *testing.T) {
	base := Config{
		DatabaseURL:         "db",
		HTTPListen:          ":8080",
		DefaultTimezone:     "UTC",
		ConflictHorizonDays: 7,
	}
	require.NoError(t, base.Validate())

	noChat := base
	noChat.TelegramToken = "token"
	assert.Error(t, noChat.Validate())

	badCron := base
	badCron.AutoCopyWeekCron = "every friday"
	assert.Error(t, badCron.Validate())

	badHorizon := base
	badHorizon.ConflictHorizonDays = 0
	assert.Error(t, badHorizon.Validate())

	badRate := base
	badRate.HTTPRateLimit = -1
	assert.Error(t, badRate.Validate())
}

func TestLoadRejectsUnknownLogLevel(t *testing.T) {
	t.Setenv("DATABASE_URL", "db")
	t.Setenv("HTTP_LISTEN", ":8080")
	t.Setenv("DEFAULT_TIMEZONE", "UTC")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("CONFLICT_HORIZON_DAYS", "")
	t.Setenv("AUTO_COPY_WEEK_CRON", "")
	t.Setenv("LOG_LEVEL", "loud")

	_, err := Load()
	assert.Error(t, err)
}
