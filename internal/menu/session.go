package menu

import "sync"

// Sessions remembers the last city each user looked at.
type Sessions struct {
	mu     sync.RWMutex
	cities map[int64]string
}

func NewSessions() *Sessions {
	return &Sessions{cities: make(map[int64]string)}
}

func (s *Sessions) SetCity(userID int64, city string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cities[userID] = city
}

func (s *Sessions) City(userID int64) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	city, ok := s.cities[userID]
	return city, ok
}
