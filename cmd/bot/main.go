package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/xaenox/blacksea-bot/internal/activity"
	"github.com/xaenox/blacksea-bot/internal/admin"
	"github.com/xaenox/blacksea-bot/internal/assistant"
	"github.com/xaenox/blacksea-bot/internal/bot"
	"github.com/xaenox/blacksea-bot/internal/excursions"
	"github.com/xaenox/blacksea-bot/internal/menu"
	"github.com/xaenox/blacksea-bot/internal/storage"
	"github.com/xaenox/blacksea-bot/internal/tabular"
	"github.com/xaenox/blacksea-bot/internal/weather"
	"github.com/xaenox/blacksea-bot/pkg/config"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		bootLogger, _ := zap.NewProduction()
		bootLogger.Fatal("Failed to load config", zap.Error(err), zap.String("path", *configPath))
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		bootLogger, _ := zap.NewProduction()
		bootLogger.Fatal("Failed to create logger", zap.Error(err))
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid config", zap.Error(err))
	}
	loc, _ := cfg.Location()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize storage
	store, err := storage.Open(storage.Options{
		Driver:     cfg.Storage.Driver,
		SQLitePath: cfg.Storage.SQLitePath,
		Database: storage.DatabaseConfig{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
		},
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer store.Close()

	if cfg.Storage.ImportDir != "" {
		if _, err := tabular.Seed(ctx, cfg.Storage.ImportDir, store, tabular.NewCodec(loc), logger); err != nil {
			logger.Fatal("Failed to import flat files", zap.Error(err), zap.String("dir", cfg.Storage.ImportDir))
		}
	}

	catalog, err := excursions.Load(cfg.Excursions.Path, logger)
	if err != nil {
		logger.Fatal("Failed to load excursion catalog", zap.Error(err))
	}

	weatherClient := weather.NewClient(weather.Config{
		APIKey:   cfg.Weather.APIKey,
		BaseURL:  cfg.Weather.BaseURL,
		GeoURL:   cfg.Weather.GeoURL,
		Location: loc,
		Timeout:  cfg.Weather.Timeout,
	}, logger.Named("weather"))

	concierge := assistant.NewConcierge(assistant.Config{
		APIKey:      cfg.OpenAI.APIKey,
		BaseURL:     cfg.OpenAI.BaseURL,
		Model:       cfg.OpenAI.Model,
		MaxTokens:   cfg.OpenAI.MaxTokens,
		Temperature: cfg.OpenAI.Temperature,
	}, logger.Named("concierge"))

	api, err := bot.Connect(cfg.Telegram.Token)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}
	logger.Info("Authorized on Telegram", zap.String("username", api.Self.UserName))

	recorder := activity.NewRecorder(store, loc, logger)
	renderer := bot.NewRenderer(api, logger)
	router := menu.NewRouter(menu.Config{
		Links: menu.Links{
			Group:         cfg.Links.Group,
			Stickers:      cfg.Links.Stickers,
			Accommodation: cfg.Links.Accommodation,
			Flights:       cfg.Links.Flights,
		},
		ForecastDays: cfg.Weather.ForecastDays,
	}, weatherClient, catalog, recorder, renderer, menu.NewSessions(), logger.Named("menu"))

	if cfg.Admin.Addr != "" {
		srv := admin.NewServer(cfg.Admin.Addr, store, logger.Named("admin"))
		go func() {
			logger.Info("Admin API listening", zap.String("addr", cfg.Admin.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Admin API stopped", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Failed to shut down admin API", zap.Error(err))
			}
		}()
	}

	// Start the bot
	b := bot.New(api, router, recorder, concierge, renderer, logger)
	if err := b.Start(ctx); err != nil {
		logger.Error("Bot error", zap.Error(err))
	}
	logger.Info("Shutting down")
}
