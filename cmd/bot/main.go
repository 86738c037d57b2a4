package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"graphics_monitor_bot/internal/app"
	"graphics_monitor_bot/internal/infra/config"
	idb "graphics_monitor_bot/internal/infra/database"
	"graphics_monitor_bot/internal/infra/logger"
	"graphics_monitor_bot/internal/infra/metrics"
	"graphics_monitor_bot/internal/infra/scheduler"
	"graphics_monitor_bot/internal/infra/telegram"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	mainLogger := logger.Get().WithField("component", "main")
	mainLogger.WithFields(logrus.Fields{
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
		"admin_id":    cfg.AdminTelegramID,
	}).Info("Configuration loaded")

	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		mainLogger.Fatalf("Could not connect to database: %v", err)
	}
	defer db.Close()
	mainLogger.Info("Database connection established")

	graphicRepo := idb.NewPostgresGraphicRepository(db)
	channelRepo := idb.NewPostgresChannelRepository(db)
	attachRepo := idb.NewPostgresAttachmentOnlyRepository(db)

	metrics.MustRegister()

	// The duplicate index is acceleration only; the store stays the source
	// of truth and reseeds it on every start.
	duplicateIndex := app.NewDuplicateIndex()
	rebuildCtx, cancelRebuild := context.WithTimeout(context.Background(), 30*time.Second)
	if err := duplicateIndex.Rebuild(rebuildCtx, graphicRepo); err != nil {
		cancelRebuild()
		mainLogger.Fatalf("Could not rebuild duplicate index: %v", err)
	}
	cancelRebuild()
	mainLogger.Info("Duplicate index rebuilt from store")

	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) {
			entry := logger.Get().WithField("component", "telebot")
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				entry = entry.WithFields(logrus.Fields{
					"sender_id": c.Sender().ID,
					"chat_id":   c.Chat().ID,
				})
			}
			entry.WithError(err).Error("Unhandled bot error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		mainLogger.Fatalf("Could not create Telegram bot: %v", err)
	}

	tgClient := telegram.NewTelebotAdapter(bot)

	monitorService := app.NewMonitorService(
		graphicRepo,
		channelRepo,
		attachRepo,
		tgClient,
		duplicateIndex,
		logger.Get().WithField("component", "monitor_service"),
		cfg.ModeratorTelegramID,
		app.ReminderSettings{
			Enabled:  cfg.ReminderEnabled,
			Location: cfg.ReminderLocation,
			Hour:     cfg.ReminderHour,
			Minute:   cfg.ReminderMinute,
			Text:     cfg.ReminderText,
		},
	)
	adminService := app.NewAdminService(
		channelRepo,
		attachRepo,
		graphicRepo,
		duplicateIndex,
		logger.Get().WithField("component", "admin_service"),
		cfg.AdminTelegramID,
	)

	evalScheduler := scheduler.NewEvaluatorScheduler(
		monitorService,
		logger.Get().WithField("component", "scheduler"),
		cfg.CronSpecReminderCheck,
		cfg.CronSpecExpiryCheck,
	)
	evalScheduler.Start()

	handlerCtx := context.Background()
	handlerLogger := logger.Get().WithField("component", "handlers")
	telegram.RegisterBotCommands(bot, cfg, handlerLogger)
	telegram.RegisterAdminHandlers(handlerCtx, bot, adminService, monitorService, cfg.AdminTelegramID, handlerLogger)
	telegram.RegisterEventHandlers(handlerCtx, bot, monitorService, cfg.ModeratorTelegramID, handlerLogger)
	mainLogger.Info("Bot handlers registered")

	metricsServer := &http.Server{Addr: cfg.MetricsAddr, Handler: promhttp.Handler()}
	go func() {
		mainLogger.WithField("addr", cfg.MetricsAddr).Info("Metrics endpoint listening")
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			mainLogger.WithError(err).Error("Metrics endpoint failed")
		}
	}()

	mainLogger.Info("Application setup complete. Bot and scheduler are starting...")
	go bot.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	mainLogger.Info("Shutting down application...")
	evalScheduler.Stop()
	bot.Stop()
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		mainLogger.WithError(err).Warn("Metrics endpoint shutdown failed")
	}
	mainLogger.Info("Application shut down gracefully")
}
