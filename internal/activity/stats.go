package activity

import "github.com/xaenox/blacksea-bot/internal/models"

type Stats struct {
	Total       int            `json:"total"`
	UniqueUsers int            `json:"unique_users"`
	ByType      map[string]int `json:"by_type"`
	Errors      int            `json:"errors"`
	SuccessRate float64        `json:"success_rate"`
}

// Summarize aggregates records, optionally only those of one action type.
// Anything not marked success counts as an error.
func Summarize(records []models.ActivityRecord, actionType models.ActionType) Stats {
	stats := Stats{ByType: make(map[string]int)}
	users := make(map[int64]struct{})

	for _, rec := range records {
		if actionType != "" && rec.ActionType != actionType {
			continue
		}
		stats.Total++
		users[rec.UserID] = struct{}{}

		key := string(rec.ActionType)
		if key == "" {
			key = "unknown"
		}
		stats.ByType[key]++

		if rec.Status != models.StatusSuccess {
			stats.Errors++
		}
	}

	stats.UniqueUsers = len(users)
	if stats.Total > 0 {
		stats.SuccessRate = float64(stats.Total-stats.Errors) / float64(stats.Total) * 100
	}
	return stats
}
