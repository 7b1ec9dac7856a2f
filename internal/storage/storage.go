package storage

import (
	"context"
	"errors"

	"github.com/xaenox/blacksea-bot/internal/models"
)

var ErrNotFound = errors.New("not found")

// Storage keeps the user directory and the activity trail.
type Storage interface {
	UserDirectory
	ActivityLog
	Close() error
}

// UserDirectory is keyed by user id. UpsertUser never clears a stored phone
// number and never moves the registration date.
type UserDirectory interface {
	UpsertUser(ctx context.Context, profile models.UserProfile) error
	GetUser(ctx context.Context, userID int64) (*models.UserProfile, error)
	ListUsers(ctx context.Context) ([]models.UserProfile, error)
}

// ActivityLog only ever appends.
type ActivityLog interface {
	AppendActivity(ctx context.Context, record models.ActivityRecord) error
	UserActivities(ctx context.Context, userID int64) ([]models.ActivityRecord, error)
	ListActivities(ctx context.Context) ([]models.ActivityRecord, error)
}
