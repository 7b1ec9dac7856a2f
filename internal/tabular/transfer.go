package tabular

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xaenox/blacksea-bot/internal/models"
)

// Store is what the flat-file import and export need from storage.
type Store interface {
	UpsertUser(ctx context.Context, profile models.UserProfile) error
	ListUsers(ctx context.Context) ([]models.UserProfile, error)
	AppendActivity(ctx context.Context, record models.ActivityRecord) error
	ListActivities(ctx context.Context) ([]models.ActivityRecord, error)
}

type Result struct {
	Users      int
	Activities int
}

// Export writes users.csv and actions_log.csv into dir. Each file is written
// to a temporary name and renamed, so readers never see a partial file.
func Export(ctx context.Context, dir string, store Store, codec Codec) (Result, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("failed to create export directory: %w", err)
	}

	users, err := store.ListUsers(ctx)
	if err != nil {
		return Result{}, err
	}
	if err := writeAtomic(filepath.Join(dir, UsersFile), func(w io.Writer) error {
		return codec.WriteUsers(w, users)
	}); err != nil {
		return Result{}, fmt.Errorf("failed to export users: %w", err)
	}

	records, err := store.ListActivities(ctx)
	if err != nil {
		return Result{}, err
	}
	if err := writeAtomic(filepath.Join(dir, ActivitiesFile), func(w io.Writer) error {
		return codec.WriteActivities(w, records)
	}); err != nil {
		return Result{}, fmt.Errorf("failed to export activities: %w", err)
	}

	return Result{Users: len(users), Activities: len(records)}, nil
}

// Seed loads flat files from dir into the store. Each table is imported
// only while it is empty, so a run interrupted after the users step picks up
// the activities on the next start. Both files are parsed before anything is
// written. Missing files are skipped.
func Seed(ctx context.Context, dir string, store Store, codec Codec, logger *zap.Logger) (Result, error) {
	users, err := readFile(filepath.Join(dir, UsersFile), codec.ReadUsers)
	if err != nil {
		return Result{}, fmt.Errorf("failed to import users: %w", err)
	}
	records, err := readFile(filepath.Join(dir, ActivitiesFile), codec.ReadActivities)
	if err != nil {
		return Result{}, fmt.Errorf("failed to import activities: %w", err)
	}

	existingUsers, err := store.ListUsers(ctx)
	if err != nil {
		return Result{}, err
	}
	existingRecords, err := store.ListActivities(ctx)
	if err != nil {
		return Result{}, err
	}

	var res Result

	if len(existingUsers) > 0 {
		logger.Debug("Users already present, skipping users import", zap.Int("users", len(existingUsers)))
	} else {
		for _, u := range users {
			if err := store.UpsertUser(ctx, u); err != nil {
				return res, err
			}
			res.Users++
		}
	}

	if len(existingRecords) > 0 {
		logger.Debug("Activities already present, skipping activities import", zap.Int("activities", len(existingRecords)))
	} else {
		for _, r := range records {
			if r.ID == "" {
				r.ID = uuid.NewString()
			}
			if err := store.AppendActivity(ctx, r); err != nil {
				return res, err
			}
			res.Activities++
		}
	}

	if res.Users > 0 || res.Activities > 0 {
		logger.Info("Imported flat files",
			zap.String("dir", dir),
			zap.Int("users", res.Users),
			zap.Int("activities", res.Activities))
	}
	return res, nil
}

func readFile[T any](path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return read(f)
}

func writeAtomic(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
