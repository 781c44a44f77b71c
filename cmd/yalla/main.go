package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yallatask/yalla/internal/advisor"
	"github.com/yallatask/yalla/internal/applog"
	"github.com/yallatask/yalla/internal/assets"
	"github.com/yallatask/yalla/internal/audio"
	"github.com/yallatask/yalla/internal/config"
	"github.com/yallatask/yalla/internal/gemini"
	"github.com/yallatask/yalla/internal/install"
	"github.com/yallatask/yalla/internal/notify"
	"github.com/yallatask/yalla/internal/scheduler"
	"github.com/yallatask/yalla/internal/storage"
	"github.com/yallatask/yalla/internal/tasks"
	"github.com/yallatask/yalla/internal/tools"
	"github.com/yallatask/yalla/internal/update"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "path to the TOML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "yalla failed: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = config.FromEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, logCloser, err := applog.New(applog.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return err
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, err := storage.Open(ctx, storage.Options{
		Backend:  cfg.Storage.Backend,
		Path:     cfg.Storage.Path,
		RedisURL: cfg.Storage.RedisURL,
		Prefix:   cfg.Storage.Prefix,
	})
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer kv.Close()

	store := tasks.NewStore(kv, logger)
	loaded := store.Load(ctx)
	updates, unsubscribe := store.Subscribe()
	defer unsubscribe()
	logger.Info("tasks loaded", "count", len(loaded), "backend", cfg.Storage.Backend)

	cache := assets.NewCache(kv, assets.Options{
		Dir:    cfg.Assets.CacheDir,
		URLs:   []string{cfg.Assets.IconURL},
		Logger: logger,
	})
	go func() {
		if err := cache.Precache(ctx); err != nil {
			logger.Warn("asset precache incomplete", "err", err)
		}
	}()

	notifier := notify.NewExecNotifier(cfg.Reminders.DesktopNotifications)
	poller := scheduler.NewPoller(store, notifier, scheduler.Options{
		Interval: cfg.Reminders.Interval.Duration,
		Buffer:   cfg.Reminders.Buffer,
		Icon:     cache.IconFunc(cfg.Assets.IconURL),
		Logger:   logger,
	})
	poller.Start()
	defer poller.Stop()

	var adv update.Advisor
	var docTools update.DocumentTools
	if cfg.AI.APIKey != "" {
		client := gemini.NewClient(gemini.Options{
			APIKey:  cfg.AI.APIKey,
			BaseURL: cfg.AI.BaseURL,
			Timeout: cfg.AI.Timeout.Duration,
		})
		adv = advisor.New(client, advisor.Options{
			Model:    cfg.AI.TextModel,
			Language: cfg.AI.Language,
			Logger:   logger,
		})
		docTools = tools.NewRunner(client, tools.Options{
			TextModel:  cfg.AI.TextModel,
			TTSModel:   cfg.AI.TTSModel,
			Voice:      cfg.AI.Voice,
			Language:   cfg.AI.Language,
			SampleRate: cfg.Audio.SampleRate,
			Logger:     logger,
		})
	} else {
		logger.Warn("no AI api key configured; advice and document tools are disabled")
	}

	exe, err := os.Executable()
	if err != nil {
		logger.Warn("cannot resolve executable path", "err", err)
	}
	launcher := install.NewDesktopLauncher(cfg.Install.LauncherDir, exe, cache.IconFunc(cfg.Assets.IconURL))
	prompt := install.NewPrompt(kv, launcher, logger)
	prompt.Capture(ctx)

	m := update.New(update.Deps{
		Context:     ctx,
		Store:       store,
		TaskUpdates: updates,
		Reminders:   poller.C(),
		Advisor:     adv,
		Tools:       docTools,
		Player:      audio.NewExecPlayer(cfg.Audio.Player),
		Notifier:    notifier,
		Install:     prompt,
		Logger:      logger,
		Config: update.RuntimeConfig{
			RevealInterval:  cfg.UI.RevealInterval.Duration,
			MaxFileBytes:    cfg.Tools.MaxFileBytes,
			WelcomeFor:      update.DefaultRuntimeConfig().WelcomeFor,
			DefaultTime:     cfg.UI.DefaultTime,
			DefaultCategory: cfg.UI.DefaultCategory,
		},
	})

	program := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return err
	}
	logger.Info("yalla exiting")
	return nil
}
