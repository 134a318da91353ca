package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type Config struct {
	DatabaseURL string
	HTTPListen  string
	// CORS_ALLOWED_ORIGINS через запятую
	AllowedOrigins []string
	// HTTP_RATE_LIMIT - запросов в секунду с одного IP, 0 отключает
	HTTPRateLimit int

	// Telegram-бот необязателен: без токена запускается только HTTP API
	TelegramToken      string
	PractitionerChatID int64

	DefaultTimezone     string
	ConflictHorizonDays int
	AutoCopyWeekCron    string
	// HOLIDAYS_FILE - производственный календарь, импортируется при старте
	HolidaysFile string
	LogLevel     logrus.Level
}

var instance *Config
var once sync.Once

// GetConfig загружает конфиг один раз; при ошибке завершает процесс
func GetConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			logrus.Infof("no .env file loaded: %s", err.Error())
		}

		cfg, err := Load()
		if err != nil {
			logrus.Fatalf("invalid configuration: %s", err.Error())
		}
		instance = cfg
	})

	return instance
}

// Load читает конфиг из переменных окружения
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:         getEnv("DATABASE_URL", "schedule.db"),
		HTTPListen:          getEnv("HTTP_LISTEN", "127.0.0.1:8080"),
		AllowedOrigins:      getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		HTTPRateLimit:       int(getEnvAsInt("HTTP_RATE_LIMIT", 0)),
		TelegramToken:       getEnv("TELEGRAM_BOT_TOKEN", ""),
		PractitionerChatID:  getEnvAsInt("PRACTITIONER_CHAT_ID", 0),
		DefaultTimezone:     getEnv("DEFAULT_TIMEZONE", "UTC"),
		ConflictHorizonDays: int(getEnvAsInt("CONFLICT_HORIZON_DAYS", 90)),
		AutoCopyWeekCron:    getEnv("AUTO_COPY_WEEK_CRON", ""),
		HolidaysFile:        getEnv("HOLIDAYS_FILE", ""),
		LogLevel:            logrus.InfoLevel,
	}

	if raw := getEnv("LOG_LEVEL", ""); raw != "" {
		level, err := logrus.ParseLevel(raw)
		if err != nil {
			return nil, fmt.Errorf("LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = level
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is empty")
	}
	if c.HTTPListen == "" {
		return errors.New("HTTP_LISTEN is empty")
	}
	if c.DefaultTimezone == "" {
		return errors.New("DEFAULT_TIMEZONE is empty")
	}
	if c.ConflictHorizonDays <= 0 {
		return fmt.Errorf("CONFLICT_HORIZON_DAYS must be positive, got %d", c.ConflictHorizonDays)
	}
	if c.HTTPRateLimit < 0 {
		return fmt.Errorf("HTTP_RATE_LIMIT must not be negative, got %d", c.HTTPRateLimit)
	}
	if c.TelegramToken != "" && c.PractitionerChatID == 0 {
		return errors.New("PRACTITIONER_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
	}
	if c.AutoCopyWeekCron != "" {
		if _, err := cron.ParseStandard(c.AutoCopyWeekCron); err != nil {
			return fmt.Errorf("AUTO_COPY_WEEK_CRON: %w", err)
		}
	}
	return nil
}

// BotEnabled - задан ли токен Telegram
func (c *Config) BotEnabled() bool {
	return c.TelegramToken != ""
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}

func getEnvAsInt(name string, defaultVal int64) int64 {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseInt(valStr, 10, 64); err == nil {
		return val
	}

	return defaultVal
}

func getEnvAsList(name string, defaultVal []string) []string {
	valStr := getEnv(name, "")
	if valStr == "" {
		return defaultVal
	}

	var out []string
	for _, item := range strings.Split(valStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
