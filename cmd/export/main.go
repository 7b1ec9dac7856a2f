// Command export dumps the user directory and the activity trail into
// users.csv and actions_log.csv.
package main

import (
	"context"
	"flag"

	"go.uber.org/zap"

	"github.com/xaenox/blacksea-bot/internal/storage"
	"github.com/xaenox/blacksea-bot/internal/tabular"
	"github.com/xaenox/blacksea-bot/pkg/config"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	outDir := flag.String("out", "export", "directory to write the CSV files to")
	flag.Parse()

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

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("Invalid timezone", zap.Error(err), zap.String("timezone", cfg.Weather.Timezone))
	}

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

	res, err := tabular.Export(context.Background(), *outDir, store, tabular.NewCodec(loc))
	if err != nil {
		logger.Fatal("Export failed", zap.Error(err))
	}
	logger.Info("Export finished",
		zap.String("dir", *outDir),
		zap.Int("users", res.Users),
		zap.Int("activities", res.Activities))
}
