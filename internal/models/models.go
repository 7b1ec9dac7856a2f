package models

// User is the identity snapshot the chat platform asserts for an interaction.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	LanguageCode string `json:"language_code"`
}

// FullName joins first and last name the way Telegram clients display them.
func (u User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	if u.FirstName == "" {
		return u.LastName
	}
	return u.FirstName + " " + u.LastName
}

type ActionType string

const (
	ActionCommand     ActionType = "command"
	ActionButtonClick ActionType = "button_click"
	ActionAPIRequest  ActionType = "api_request"
	ActionMenuView    ActionType = "menu_view"
	ActionUserData    ActionType = "user_data"
	ActionMessage     ActionType = "message"
)

type Status string

const (
	StatusSuccess   Status = "success"
	StatusError     Status = "error"
	StatusPending   Status = "pending"
	StatusCancelled Status = "cancelled"
)
