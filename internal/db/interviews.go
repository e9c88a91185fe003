package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrUserNotFound is returned when no user row matches the candidate.
var ErrUserNotFound = errors.New("user not found")

// FindUser loads a candidate's profile, including the parsed resume fields
// used as technical-round context.
func (db *DB) FindUser(ctx context.Context, candidateID string) (*User, error) {
	var u User
	err := db.pool.QueryRow(ctx,
		`SELECT id, email, COALESCE(name, ''), COALESCE(phone, ''),
		        COALESCE(skills, '{}'), COALESCE(projects, '{}'), COALESCE(experience, '{}')
		 FROM users
		 WHERE email = $1`,
		candidateID,
	).Scan(&u.ID, &u.Email, &u.Name, &u.Phone, &u.Skills, &u.Projects, &u.Experience)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &u, nil
}

// SaveCompletedInterview inserts one completed-interview record and fills
// in the record's generated ID.
func (db *DB) SaveCompletedInterview(ctx context.Context, rec *CompletedInterview) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	_, err := db.pool.Exec(ctx,
		`INSERT INTO interviews (id, candidate_id, role, mode, date, transcript, feedback,
		                         average_confidence, average_focus)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.ID, rec.CandidateID, rec.Role, rec.Mode, rec.Date, rec.Transcript,
		rec.Feedback, rec.AverageConfidence, rec.AverageFocus,
	)
	if err != nil {
		return fmt.Errorf("failed to save interview: %w", err)
	}
	return nil
}

// ListInterviews returns a candidate's persisted interviews, newest first.
func (db *DB) ListInterviews(ctx context.Context, candidateID string) ([]CompletedInterview, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, candidate_id, role, mode, date, transcript, feedback,
		        average_confidence, average_focus
		 FROM interviews
		 WHERE candidate_id = $1
		 ORDER BY date DESC`,
		candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	defer rows.Close()

	var interviews []CompletedInterview
	for rows.Next() {
		var rec CompletedInterview
		if err := rows.Scan(&rec.ID, &rec.CandidateID, &rec.Role, &rec.Mode, &rec.Date,
			&rec.Transcript, &rec.Feedback, &rec.AverageConfidence, &rec.AverageFocus); err != nil {
			return nil, fmt.Errorf("failed to scan interview: %w", err)
		}
		interviews = append(interviews, rec)
	}
	return interviews, rows.Err()
}
