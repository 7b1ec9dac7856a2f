package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xaenox/blacksea-bot/internal/models"
)

// Store is the subset of storage the recorder writes to.
type Store interface {
	UpsertUser(ctx context.Context, profile models.UserProfile) error
	AppendActivity(ctx context.Context, record models.ActivityRecord) error
}

// Action describes one user-visible action. Name is either a key of the
// description table or free text.
type Action struct {
	Name   string
	Type   models.ActionType
	Data   string
	Status models.Status
}

// Recorder writes the activity trail and keeps the user directory current.
type Recorder struct {
	store  Store
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

func NewRecorder(store Store, loc *time.Location, logger *zap.Logger) *Recorder {
	if loc == nil {
		loc = time.UTC
	}
	return &Recorder{
		store:  store,
		loc:    loc,
		now:    time.Now,
		logger: logger,
	}
}

// Track appends the action and upserts the profile with it as last command.
func (r *Recorder) Track(ctx context.Context, u models.User, a Action) error {
	at := r.now().In(r.loc)
	if err := r.append(ctx, u, a, at); err != nil {
		return err
	}
	if err := r.store.UpsertUser(ctx, models.ProfileFromUser(u, a.Name, at)); err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	return nil
}

// Log appends the action without touching the profile.
func (r *Recorder) Log(ctx context.Context, u models.User, a Action) error {
	return r.append(ctx, u, a, r.now().In(r.loc))
}

// SharePhone stores a phone number the user shared about themselves.
func (r *Recorder) SharePhone(ctx context.Context, u models.User, phone string) error {
	at := r.now().In(r.loc)
	profile := models.ProfileFromUser(u, "phone_shared", at)
	profile.PhoneNumber = phone
	if err := r.store.UpsertUser(ctx, profile); err != nil {
		return fmt.Errorf("failed to store phone number: %w", err)
	}

	return r.append(ctx, u, Action{
		Name: "phone_shared",
		Type: models.ActionUserData,
		Data: "phone: " + phone,
	}, at)
}

func (r *Recorder) append(ctx context.Context, u models.User, a Action, at time.Time) error {
	status := a.Status
	if status == "" {
		status = models.StatusSuccess
	}

	rec := models.ActivityRecord{
		ID:          uuid.NewString(),
		Timestamp:   at,
		UserID:      u.ID,
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Description: Describe(a.Name, a.Type),
		ActionType:  a.Type,
		ActionData:  a.Data,
		Status:      status,
	}
	if err := r.store.AppendActivity(ctx, rec); err != nil {
		return fmt.Errorf("failed to append activity: %w", err)
	}

	r.logger.Debug("Recorded activity",
		zap.String("interaction_id", InteractionID(ctx)),
		zap.Int64("user_id", u.ID),
		zap.String("action", a.Name),
		zap.String("action_type", string(a.Type)),
		zap.String("status", string(status)))
	return nil
}
