package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/fitflow-web/internal/lib/dates"
	"github.com/magabrotheeeer/fitflow-web/internal/models"
)

// Submission одна принятая отправка дневника.
type Submission struct {
	ID         uuid.UUID             `json:"id"`
	UserID     int                   `json:"user_id"`
	PlanID     *int                  `json:"plan_id,omitempty"`
	LogDate    string                `json:"log_date"`
	Entries    []models.FoodLogEntry `json:"entries"`
	Consistent bool                  `json:"consistent"`
	Attempts   int                   `json:"attempts"`
	CreatedAt  time.Time             `json:"created_at"`
}

// SaveSubmission записывает отправку. Пустой ID заполняется новым UUID.
func (s *Storage) SaveSubmission(ctx context.Context, sub *Submission) error {
	const op = "storage.SaveSubmission"

	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	if sub.Entries == nil {
		sub.Entries = []models.FoodLogEntry{}
	}
	entries, err := json.Marshal(sub.Entries)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var planID sql.NullInt64
	if sub.PlanID != nil {
		planID = sql.NullInt64{Int64: int64(*sub.PlanID), Valid: true}
	}

	query := `INSERT INTO food_log_submissions
			      (id, user_id, plan_id, log_date, entries, consistent, attempts)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING created_at`
	err = s.DB.QueryRowContext(ctx, query,
		sub.ID, sub.UserID, planID, sub.LogDate, string(entries), sub.Consistent, sub.Attempts,
	).Scan(&sub.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListSubmissions отправки пользователя, новые первыми.
func (s *Storage) ListSubmissions(ctx context.Context, userID, limit, offset int) ([]Submission, error) {
	const op = "storage.ListSubmissions"

	query := `SELECT id, user_id, plan_id, log_date, entries, consistent, attempts, created_at
			  FROM food_log_submissions
			  WHERE user_id = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := make([]Submission, 0, limit)
	for rows.Next() {
		var (
			sub     Submission
			planID  sql.NullInt64
			logDate time.Time
			entries []byte
		)
		if err := rows.Scan(&sub.ID, &sub.UserID, &planID, &logDate, &entries,
			&sub.Consistent, &sub.Attempts, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if planID.Valid {
			id := int(planID.Int64)
			sub.PlanID = &id
		}
		sub.LogDate = dates.Format(logDate)
		if err := json.Unmarshal(entries, &sub.Entries); err != nil {
			return nil, fmt.Errorf("%s: decode entries: %w", op, err)
		}
		result = append(result, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
