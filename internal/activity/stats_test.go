package activity

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xaenox/blacksea-bot/internal/models"
)

func TestSummarize(t *testing.T) {
	records := []models.ActivityRecord{
		{UserID: 1, ActionType: models.ActionButtonClick, Status: models.StatusSuccess},
		{UserID: 1, ActionType: models.ActionAPIRequest, Status: models.StatusError},
		{UserID: 2, ActionType: models.ActionAPIRequest, Status: models.StatusSuccess},
		{UserID: 3, Status: models.StatusSuccess},
	}

	all := Summarize(records, "")
	require.Equal(t, 4, all.Total)
	require.Equal(t, 3, all.UniqueUsers)
	require.Equal(t, 1, all.Errors)
	require.InDelta(t, 75.0, all.SuccessRate, 0.001)
	require.Equal(t, map[string]int{"button_click": 1, "api_request": 2, "unknown": 1}, all.ByType)

	api := Summarize(records, models.ActionAPIRequest)
	require.Equal(t, 2, api.Total)
	require.Equal(t, 2, api.UniqueUsers)
	require.InDelta(t, 50.0, api.SuccessRate, 0.001)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, "")
	require.Zero(t, s.Total)
	require.Zero(t, s.SuccessRate)
	require.NotNil(t, s.ByType)
}
