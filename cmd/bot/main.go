package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"boss_respawn_bot/internal/app"
	"boss_respawn_bot/internal/domain/catalog"
	"boss_respawn_bot/internal/infra/config"
	"boss_respawn_bot/internal/infra/logger"
	"boss_respawn_bot/internal/infra/scheduler"
	"boss_respawn_bot/internal/infra/storage"
	"boss_respawn_bot/internal/infra/telegram"

	"github.com/benbjohnson/clock"
	"gopkg.in/telebot.v3"
)

func main() {
	fmt.Println("Boss Respawn Bot starting...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg)
	log := logger.Get().WithField("component", "main")
	log.Infof("Configuration loaded. LogLevel: %s, Environment: %s, StateFile: %s", cfg.LogLevel, cfg.Environment, cfg.StateFile)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.WithError(err).Fatalf("Invalid TIMEZONE %q", cfg.Timezone)
	}

	// Entity catalog: static file if configured, built-in roster otherwise.
	entities := catalog.Default()
	if cfg.CatalogFile != "" {
		entities, err = catalog.LoadFile(cfg.CatalogFile)
		if err != nil {
			log.WithError(err).Fatal("Could not load entity catalog file")
		}
	}
	cat, err := catalog.New(entities)
	if err != nil {
		log.WithError(err).Fatal("Invalid entity catalog")
	}
	log.Infof("Entity catalog initialized with %d entities.", len(cat.All()))

	// State store, shared by the command path and the scheduler.
	store := storage.NewFileStore(cfg.StateFile, logger.Get().WithField("component", "storage"))

	clk := clock.New()
	svc := app.NewTimerService(store, cat, clk, loc, app.Options{
		DeathFutureThreshold: cfg.DeathFutureThreshold,
		ConfirmTTL:           cfg.ConfirmTTL,
		ReplyOnUnrecognized:  cfg.ReplyOnUnrecognized,
	}, logger.Get().WithField("component", "service"))
	log.Info("Timer service initialized.")

	// Telegram bot: inbound commands and outbound reminders.
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) {
			entry := logger.Get().WithField("component", "telebot").WithError(err)
			if c != nil && c.Chat() != nil {
				entry = entry.WithField("chat", c.Chat().ID)
			}
			entry.Error("Telegram handler error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		log.WithError(err).Fatal("Could not create Telegram bot")
	}

	telegram.RegisterHandlers(bot, svc, logger.Get().WithField("component", "telegram"))
	log.Info("Command handlers registered.")

	// Reminder scheduler, started explicitly once everything it needs exists.
	dispatcher := telegram.NewTelebotAdapter(bot)
	remScheduler := scheduler.New(store, dispatcher, clk, scheduler.Options{
		PollInterval: cfg.PollInterval,
		LeadTime:     cfg.RemindLead,
		GracePeriod:  cfg.ExpiryGrace,
	}, logger.Get().WithField("component", "scheduler"))
	if err := remScheduler.Start(); err != nil {
		log.WithError(err).Fatal("Could not start reminder scheduler")
	}

	log.Info("Application setup complete. Bot and scheduler are running.")

	go bot.Start()

	// Graceful shutdown: the scheduler drains its in-flight scan, the poller
	// stops on its own.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down application...")
	remScheduler.Stop()
	bot.Stop()
	log.Info("Application shut down gracefully.")
}
