package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xaenox/blacksea-bot/internal/activity"
	"github.com/xaenox/blacksea-bot/internal/models"
)

const (
	UsersFile      = "users.csv"
	ActivitiesFile = "actions_log.csv"

	userTimeLayout     = "2006-01-02 15:04:05"
	activityTimeLayout = "02.01.2006 15:04:05"
)

var UserColumns = []string{
	"user_id", "username", "first_name", "last_name", "phone_number",
	"language_code", "last_activity", "last_command", "registration_date",
}

var ActivityColumns = []string{
	"timestamp", "user_id", "username", "first_name", "last_name",
	"action_description", "action_type", "action_data", "status",
}

// Activity files written before the column rename carry Russian headers.
var legacyActivityHeaders = map[string]string{
	"Дата и время":          "timestamp",
	"ID пользователя":       "user_id",
	"Имя пользователя":      "username",
	"Имя":                   "first_name",
	"Фамилия":               "last_name",
	"Действие":              "action_description",
	"Тип действия":          "action_type",
	"Дополнительные данные": "action_data",
	"Статус":                "status",
}

var knownStatuses = []models.Status{
	models.StatusSuccess, models.StatusError, models.StatusPending, models.StatusCancelled,
}

// Codec converts between the stores and the flat-file layout. Timestamps are
// written as wall-clock time in loc.
type Codec struct {
	loc *time.Location
}

func NewCodec(loc *time.Location) Codec {
	if loc == nil {
		loc = time.UTC
	}
	return Codec{loc: loc}
}

func (c Codec) WriteUsers(w io.Writer, users []models.UserProfile) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(UserColumns); err != nil {
		return err
	}
	for _, u := range users {
		row := []string{
			strconv.FormatInt(u.UserID, 10),
			u.Username,
			u.FirstName,
			u.LastName,
			u.PhoneNumber,
			u.LanguageCode,
			c.format(u.LastActivity, userTimeLayout),
			u.LastCommand,
			c.format(u.RegistrationDate, userTimeLayout),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (c Codec) WriteActivities(w io.Writer, records []models.ActivityRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ActivityColumns); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			c.format(r.Timestamp, activityTimeLayout),
			strconv.FormatInt(r.UserID, 10),
			r.Username,
			r.FirstName,
			r.LastName,
			r.Description,
			string(r.ActionType),
			r.ActionData,
			string(r.Status),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (c Codec) ReadUsers(r io.Reader) ([]models.UserProfile, error) {
	var users []models.UserProfile
	err := readRows(r, nil, func(line int, row map[string]string) error {
		id, err := strconv.ParseInt(strings.TrimSpace(row["user_id"]), 10, 64)
		if err != nil {
			return fmt.Errorf("line %d: invalid user_id %q", line, row["user_id"])
		}
		lastActivity, err := c.parse(row["last_activity"], userTimeLayout)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		registered, err := c.parse(row["registration_date"], userTimeLayout)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		users = append(users, models.UserProfile{
			UserID:           id,
			Username:         row["username"],
			FirstName:        row["first_name"],
			LastName:         row["last_name"],
			PhoneNumber:      row["phone_number"],
			LanguageCode:     row["language_code"],
			LastActivity:     lastActivity,
			LastCommand:      row["last_command"],
			RegistrationDate: registered,
		})
		return nil
	})
	return users, err
}

func (c Codec) ReadActivities(r io.Reader) ([]models.ActivityRecord, error) {
	var records []models.ActivityRecord
	err := readRows(r, legacyActivityHeaders, func(line int, row map[string]string) error {
		id, err := strconv.ParseInt(strings.TrimSpace(row["user_id"]), 10, 64)
		if err != nil {
			return fmt.Errorf("line %d: invalid user_id %q", line, row["user_id"])
		}
		ts, err := c.parse(row["timestamp"], activityTimeLayout)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		records = append(records, models.ActivityRecord{
			Timestamp:   ts,
			UserID:      id,
			Username:    row["username"],
			FirstName:   row["first_name"],
			LastName:    row["last_name"],
			Description: row["action_description"],
			ActionType:  models.ActionType(row["action_type"]),
			ActionData:  row["action_data"],
			Status:      parseStatus(row["status"]),
		})
		return nil
	})
	return records, err
}

func (c Codec) format(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.In(c.loc).Format(layout)
}

func (c Codec) parse(v, layout string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(layout, v, c.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", v)
	}
	return t, nil
}

// parseStatus accepts both codes and the translated labels of older files.
func parseStatus(v string) models.Status {
	v = strings.TrimSpace(v)
	for _, s := range knownStatuses {
		if v == string(s) || v == activity.DescribeStatus(s) {
			return s
		}
	}
	return models.Status(v)
}

func readRows(r io.Reader, aliases map[string]string, fn func(line int, row map[string]string) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if canonical, ok := aliases[name]; ok {
			name = canonical
		}
		header[i] = name
	}

	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		line++
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(rec) {
				row[name] = rec[i]
			}
		}
		if err := fn(line, row); err != nil {
			return err
		}
	}
}
