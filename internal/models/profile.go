package models

import "time"

// UserProfile is the per-user directory entry.
type UserProfile struct {
	UserID           int64     `json:"user_id"`
	Username         string    `json:"username"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	PhoneNumber      string    `json:"phone_number"`
	LanguageCode     string    `json:"language_code"`
	LastActivity     time.Time `json:"last_activity"`
	LastCommand      string    `json:"last_command"`
	RegistrationDate time.Time `json:"registration_date"`
}

// ProfileFromUser builds the snapshot written on every interaction.
func ProfileFromUser(u User, command string, at time.Time) UserProfile {
	return UserProfile{
		UserID:       u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		LanguageCode: u.LanguageCode,
		LastActivity: at,
		LastCommand:  command,
	}
}

// MergeProfile applies an incoming snapshot on top of the stored profile.
// Registration date is kept once set; the phone number is only replaced by a
// non-empty one. A nil existing profile means first contact.
func MergeProfile(existing *UserProfile, incoming UserProfile) UserProfile {
	merged := incoming
	if existing == nil {
		if merged.RegistrationDate.IsZero() {
			merged.RegistrationDate = merged.LastActivity
		}
		return merged
	}

	merged.RegistrationDate = existing.RegistrationDate
	if merged.PhoneNumber == "" {
		merged.PhoneNumber = existing.PhoneNumber
	}
	return merged
}
