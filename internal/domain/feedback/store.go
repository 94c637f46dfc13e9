package feedback

import (
	"context"

	"trainhub/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

// Insert relies on UNIQUE(schedule_id, employee_id) to reject a second submission.
func (s *Store) Insert(ctx context.Context, f Feedback) (Feedback, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO training_feedback (schedule_id, employee_id, rating, comments, submitted_at)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, f.ScheduleID, f.EmployeeID, f.Rating, f.Comments, f.SubmittedAt).Scan(&f.ID)
	if querier.IsUniqueViolation(err) {
		return Feedback{}, ErrDuplicate
	}
	return f, err
}

func (s *Store) Exists(ctx context.Context, scheduleID, employeeID string) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx, `
    SELECT EXISTS (SELECT 1 FROM training_feedback WHERE schedule_id = $1 AND employee_id = $2)
  `, scheduleID, employeeID).Scan(&exists)
	return exists, err
}

func (s *Store) List(ctx context.Context, scheduleID string) ([]Feedback, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT f.id, f.schedule_id, f.employee_id, COALESCE(e.full_name, ''), f.rating, f.comments, f.submitted_at
    FROM training_feedback f
    LEFT JOIN employees e ON e.id = f.employee_id
    WHERE f.schedule_id = $1
    ORDER BY f.submitted_at
  `, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Feedback
	for rows.Next() {
		var f Feedback
		if err := rows.Scan(&f.ID, &f.ScheduleID, &f.EmployeeID, &f.EmployeeName, &f.Rating, &f.Comments, &f.SubmittedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
