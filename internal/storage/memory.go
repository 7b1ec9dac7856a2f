package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/xaenox/blacksea-bot/internal/models"
)

type MemoryStorage struct {
	mu         sync.RWMutex
	users      map[int64]*models.UserProfile
	activities []models.ActivityRecord
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		users: make(map[int64]*models.UserProfile),
	}
}

func (s *MemoryStorage) UpsertUser(ctx context.Context, profile models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := models.MergeProfile(s.users[profile.UserID], profile)
	s.users[profile.UserID] = &merged
	return nil
}

func (s *MemoryStorage) GetUser(ctx context.Context, userID int64) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if user, exists := s.users[userID]; exists {
		out := *user
		return &out, nil
	}
	return nil, ErrNotFound
}

func (s *MemoryStorage) ListUsers(ctx context.Context) ([]models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.UserProfile, 0, len(s.users))
	for _, user := range s.users {
		out = append(out, *user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (s *MemoryStorage) AppendActivity(ctx context.Context, record models.ActivityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.activities = append(s.activities, record)
	return nil
}

func (s *MemoryStorage) UserActivities(ctx context.Context, userID int64) ([]models.ActivityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.ActivityRecord{}
	for _, rec := range s.activities {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *MemoryStorage) ListActivities(ctx context.Context) ([]models.ActivityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ActivityRecord, len(s.activities))
	copy(out, s.activities)
	return out, nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
