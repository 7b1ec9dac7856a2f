package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xaenox/blacksea-bot/internal/models"
)

const (
	dialectPostgres = "postgres"
	dialectSQLite   = "sqlite"
)

// sqlStore holds the queries shared by the sqlite and postgres drivers.
// Queries are written with '?' placeholders and rebound per dialect.
type sqlStore struct {
	db      *sql.DB
	dialect string
}

const upsertUserQuery = `
	INSERT INTO users (user_id, username, first_name, last_name, phone_number,
		language_code, last_activity, last_command, registration_date)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (user_id) DO UPDATE SET
		username = excluded.username,
		first_name = excluded.first_name,
		last_name = excluded.last_name,
		phone_number = CASE WHEN excluded.phone_number <> '' THEN excluded.phone_number ELSE users.phone_number END,
		language_code = excluded.language_code,
		last_activity = excluded.last_activity,
		last_command = excluded.last_command`

const selectUserColumns = `
	SELECT user_id, username, first_name, last_name, phone_number,
		language_code, last_activity, last_command, registration_date
	FROM users`

const insertActivityQuery = `
	INSERT INTO actions_log (id, ts, user_id, username, first_name, last_name,
		action_description, action_type, action_data, status)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectActivityColumns = `
	SELECT id, ts, user_id, username, first_name, last_name,
		action_description, action_type, action_data, status
	FROM actions_log`

func (s *sqlStore) rebind(query string) string {
	if s.dialect != dialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *sqlStore) UpsertUser(ctx context.Context, p models.UserProfile) error {
	registered := p.RegistrationDate
	if registered.IsZero() {
		registered = p.LastActivity
	}

	_, err := s.db.ExecContext(ctx, s.rebind(upsertUserQuery),
		p.UserID, p.Username, p.FirstName, p.LastName, p.PhoneNumber,
		p.LanguageCode, p.LastActivity, p.LastCommand, registered)
	if err != nil {
		return fmt.Errorf("error upserting user %d: %w", p.UserID, err)
	}
	return nil
}

func (s *sqlStore) GetUser(ctx context.Context, userID int64) (*models.UserProfile, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(selectUserColumns+" WHERE user_id = ?"), userID)

	p, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying user %d: %w", userID, err)
	}
	return &p, nil
}

func (s *sqlStore) ListUsers(ctx context.Context) ([]models.UserProfile, error) {
	rows, err := s.db.QueryContext(ctx, selectUserColumns+" ORDER BY user_id")
	if err != nil {
		return nil, fmt.Errorf("error querying users: %w", err)
	}
	defer rows.Close()

	var users []models.UserProfile
	for rows.Next() {
		p, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		users = append(users, p)
	}
	return users, rows.Err()
}

func (s *sqlStore) AppendActivity(ctx context.Context, r models.ActivityRecord) error {
	_, err := s.db.ExecContext(ctx, s.rebind(insertActivityQuery),
		r.ID, r.Timestamp, r.UserID, r.Username, r.FirstName, r.LastName,
		r.Description, string(r.ActionType), r.ActionData, string(r.Status))
	if err != nil {
		return fmt.Errorf("error appending activity: %w", err)
	}
	return nil
}

func (s *sqlStore) UserActivities(ctx context.Context, userID int64) ([]models.ActivityRecord, error) {
	return s.queryActivities(ctx, selectActivityColumns+" WHERE user_id = ? ORDER BY seq", userID)
}

func (s *sqlStore) ListActivities(ctx context.Context) ([]models.ActivityRecord, error) {
	return s.queryActivities(ctx, selectActivityColumns+" ORDER BY seq")
}

func (s *sqlStore) queryActivities(ctx context.Context, query string, args ...any) ([]models.ActivityRecord, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("error querying activities: %w", err)
	}
	defer rows.Close()

	records := []models.ActivityRecord{}
	for rows.Next() {
		var (
			r          models.ActivityRecord
			actionType string
			status     string
		)
		err := rows.Scan(&r.ID, &r.Timestamp, &r.UserID, &r.Username, &r.FirstName,
			&r.LastName, &r.Description, &actionType, &r.ActionData, &status)
		if err != nil {
			return nil, fmt.Errorf("error scanning activity: %w", err)
		}
		r.ActionType = models.ActionType(actionType)
		r.Status = models.Status(status)
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.UserProfile, error) {
	var p models.UserProfile
	err := row.Scan(&p.UserID, &p.Username, &p.FirstName, &p.LastName, &p.PhoneNumber,
		&p.LanguageCode, &p.LastActivity, &p.LastCommand, &p.RegistrationDate)
	return p, err
}
