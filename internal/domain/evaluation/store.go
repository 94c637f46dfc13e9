package evaluation

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

const selectScore = `
    SELECT es.id, es.employee_id, es.training_schedule_id, s.training_name, s.training_date,
           es.capability_id, COALESCE(c.name, ''), es.score_obtained, es.max_score,
           es.percentage, es.status, es.evaluated_by, es.evaluated_at
    FROM employee_scores es
    JOIN training_schedules s ON s.id = es.training_schedule_id
    LEFT JOIN capabilities c ON c.id = es.capability_id`

func scan(row interface{ Scan(...any) error }) (Score, error) {
	var s Score
	err := row.Scan(&s.ID, &s.EmployeeID, &s.ScheduleID, &s.TrainingName, &s.TrainingDate,
		&s.CapabilityID, &s.CapabilityName, &s.ScoreObtained, &s.MaxScore,
		&s.Percentage, &s.Status, &s.EvaluatedBy, &s.EvaluatedAt)
	return s, err
}

func (s *Store) Insert(ctx context.Context, sc Score) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employee_scores (
      employee_id, training_schedule_id, capability_id, score_obtained, max_score, percentage, status, evaluated_by
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id
  `, sc.EmployeeID, sc.ScheduleID, sc.CapabilityID, sc.ScoreObtained, sc.MaxScore,
		sc.Percentage, sc.Status, sc.EvaluatedBy).Scan(&id)
	if querier.IsCheckViolation(err) {
		return "", ErrScoreOutOfRange
	}
	return id, err
}

func (s *Store) Get(ctx context.Context, id string) (Score, error) {
	sc, err := scan(s.DB.QueryRow(ctx, selectScore+" WHERE es.id = $1", id))
	if querier.IsMissing(err) {
		return Score{}, ErrNotFound
	}
	return sc, err
}

// ListByEmployee returns the newest evaluations first.
func (s *Store) ListByEmployee(ctx context.Context, employeeID string) ([]Score, error) {
	rows, err := s.DB.Query(ctx, selectScore+`
    WHERE es.employee_id = $1
    ORDER BY es.evaluated_at DESC`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Score
	for rows.Next() {
		sc, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}
