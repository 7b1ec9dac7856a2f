package models

import "time"

// ActivityRecord is one entry of the append-only audit trail. User fields are
// a snapshot taken when the action happened.
type ActivityRecord struct {
	ID          string     `json:"id"`
	Timestamp   time.Time  `json:"timestamp"`
	UserID      int64      `json:"user_id"`
	Username    string     `json:"username"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Description string     `json:"action_description"`
	ActionType  ActionType `json:"action_type"`
	ActionData  string     `json:"action_data"`
	Status      Status     `json:"status"`
}
