package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"practice-schedule/internal/api"
	"practice-schedule/internal/config"
	"practice-schedule/internal/handler"
	"practice-schedule/internal/repository"
	"practice-schedule/internal/service"
	"practice-schedule/pkg/telegram"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logrus.Info("Initializing config...")
	cfg := config.GetConfig()
	logrus.SetLevel(cfg.LogLevel)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.Info("Config initialized...")

	log := logrus.StandardLogger()

	// Инициализируем SQLite базу данных
	db, err := repository.Open(cfg.DatabaseURL, log)
	if err != nil {
		logrus.Fatal("Failed to connect to database:", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logrus.Fatal("Failed to get database instance:", err)
	}

	repos, err := repository.NewRepositories(db, log)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create repositories")
	}

	schedule := service.NewScheduleService(repos, service.Options{
		DefaultTimezone:     cfg.DefaultTimezone,
		ConflictHorizonDays: cfg.ConflictHorizonDays,
	}, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := schedule.Load(ctx); err != nil {
		logrus.WithError(err).Fatal("Failed to load schedule")
	}

	// Праздники из производственного календаря, повторный импорт ничего не меняет
	if cfg.HolidaysFile != "" {
		importHolidays(ctx, schedule, cfg.HolidaysFile)
	}

	autoCopier := service.NewAutoCopier(schedule, cfg.AutoCopyWeekCron, log)
	if err := autoCopier.Start(ctx); err != nil {
		logrus.WithError(err).Fatal("Failed to schedule auto copy-week")
	}

	server := &http.Server{
		Addr: cfg.HTTPListen,
		Handler: api.NewRouter(schedule, api.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			RateLimit:      cfg.HTTPRateLimit,
		}, log),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logrus.Infof("HTTP API listening on %s", cfg.HTTPListen)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("HTTP server failed")
		}
	}()

	var client *telegram.Client
	if cfg.BotEnabled() {
		// Создаем клиент Telegram
		client, err = telegram.NewClient(cfg.TelegramToken, cfg.LogLevel >= logrus.DebugLevel)
		if err != nil {
			logrus.Fatal("Failed to create Telegram client:", err)
		}
		logrus.Infof("Authorized on account %s", client.Bot.Self.UserName)

		botHandler := handler.NewHandler(client.Bot, schedule, cfg.PractitionerChatID, log)
		go botHandler.HandleUpdates(ctx, client.Updates())
		logrus.Info("Bot started")
	} else {
		logrus.Info("TELEGRAM_BOT_TOKEN is not set, bot disabled")
	}

	logrus.Info("Schedule service started. Press Ctrl+C to stop.")
	<-ctx.Done()

	if client != nil {
		client.Stop()
	}
	autoCopier.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("HTTP server shutdown failed")
	}

	// Закрываем соединение с БД
	if err := sqlDB.Close(); err != nil {
		logrus.Infof("Error closing database: %v", err)
	}

	logrus.Info("Schedule service stopped gracefully")
}

func importHolidays(ctx context.Context, schedule *service.ScheduleService, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.WithError(err).WithField("path", path).Warn("Failed to read holidays file")
		return
	}
	result, err := schedule.ImportHolidays(ctx, data)
	if err != nil {
		logrus.WithError(err).WithField("path", path).Warn("Failed to import holidays")
		return
	}
	logrus.WithFields(logrus.Fields{
		"path":     path,
		"imported": len(result.Value),
		"affected": len(result.Affected),
	}).Info("Holidays imported")
}
