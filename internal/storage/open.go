package storage

import (
	"fmt"

	"go.uber.org/zap"
)

type Options struct {
	Driver     string
	SQLitePath string
	Database   DatabaseConfig
}

// Open returns the store selected by opts.Driver: sqlite, postgres or memory.
func Open(opts Options, logger *zap.Logger) (Storage, error) {
	switch opts.Driver {
	case "memory":
		logger.Info("Using in-memory storage")
		return NewMemoryStorage(), nil
	case "sqlite", "":
		logger.Info("Using SQLite storage", zap.String("path", opts.SQLitePath))
		s, err := NewSQLiteStorage(opts.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "postgres":
		logger.Info("Using PostgreSQL storage",
			zap.String("host", opts.Database.Host),
			zap.String("dbname", opts.Database.DBName))
		s, err := NewPostgresStorage(opts.Database, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}
