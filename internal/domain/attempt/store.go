package attempt

import (
	"context"

	"trainhub/internal/domain/apperr"
	"trainhub/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

// Insert is a single conditional statement: the HAVING clause yields no row
// once the limit is reached, and UNIQUE(employee_id, training_id, attempt_no)
// turns a concurrent claim of the same number into ErrSlotTaken.
func (s *Store) Insert(ctx context.Context, a Attempt, max int) (Attempt, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO training_attempts (training_id, employee_id, attempt_no, score_achieved, required_score, status)
    SELECT $1, $2, COALESCE(MAX(attempt_no), 0) + 1, $3, $4, $5
    FROM training_attempts
    WHERE training_id = $1 AND employee_id = $2
    HAVING COALESCE(MAX(attempt_no), 0) < $6
    RETURNING id, attempt_no, created_at
  `, a.TrainingID, a.EmployeeID, a.ScoreAchieved, a.RequiredScore, a.Status, max).Scan(&a.ID, &a.AttemptNo, &a.CreatedAt)
	switch {
	case querier.IsNoRows(err):
		return Attempt{}, apperr.ErrAttemptLimitExceeded
	case querier.IsUniqueViolation(err):
		return Attempt{}, ErrSlotTaken
	case querier.IsCheckViolation(err):
		return Attempt{}, apperr.ErrAttemptLimitExceeded
	case err != nil:
		return Attempt{}, err
	}
	return a, nil
}

func (s *Store) List(ctx context.Context, trainingID, employeeID string) ([]Attempt, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, training_id, employee_id, attempt_no, score_achieved, required_score, status, created_at
    FROM training_attempts
    WHERE training_id = $1 AND ($2 = '' OR employee_id::text = $2)
    ORDER BY employee_id, attempt_no
  `, trainingID, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var a Attempt
		if err := rows.Scan(&a.ID, &a.TrainingID, &a.EmployeeID, &a.AttemptNo, &a.ScoreAchieved, &a.RequiredScore, &a.Status, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
