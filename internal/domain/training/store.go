package training

import (
	"context"

	"trainhub/internal/domain/workflow"
	"trainhub/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const selectTraining = `
    SELECT id, training_code, phase1, phase2, scheduled_date, quarter, financial_year,
           approval_status, approval_remarks, approved_by, approved_at,
           workflow_status, archived_at, created_by, created_at, updated_at
    FROM trainings`

func scan(row interface{ Scan(...any) error }) (Training, error) {
	var t Training
	var status string
	err := row.Scan(&t.ID, &t.TrainingCode, &t.Phase1, &t.Phase2, &t.ScheduledDate, &t.Quarter, &t.FinancialYear,
		&t.Approval.Status, &t.Approval.Remarks, &t.Approval.ApprovedBy, &t.Approval.ApprovedAt,
		&status, &t.ArchivedAt, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	t.WorkflowStatus = workflow.State(status)
	return t, err
}

func (s *Store) List(ctx context.Context, status string, limit, offset int) ([]Training, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM trainings WHERE ($1 = '' OR workflow_status = $1)
  `, status).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.Query(ctx, selectTraining+`
    WHERE ($1 = '' OR workflow_status = $1)
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3`, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Training
	for rows.Next() {
		t, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Training, error) {
	t, err := scan(s.DB.QueryRow(ctx, selectTraining+" WHERE id = $1", id))
	if querier.IsMissing(err) {
		return Training{}, ErrNotFound
	}
	return t, err
}

// Create relies on the column default for training_code.
func (s *Store) Create(ctx context.Context, t Training) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO trainings (phase1, quarter, financial_year, approval_status, workflow_status, created_by)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, t.Phase1, t.Quarter, t.FinancialYear, t.Approval.Status, string(t.WorkflowStatus), t.CreatedBy).Scan(&id)
	return id, err
}

func (s *Store) UpdatePhase1(ctx context.Context, t Training, expected workflow.State) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE trainings SET phase1 = $3, updated_at = now()
    WHERE id = $1 AND workflow_status = $2
  `, t.ID, string(expected), t.Phase1)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) UpdatePhase2(ctx context.Context, id string, p Phase2, expected workflow.State) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE trainings SET phase2 = $3, updated_at = now()
    WHERE id = $1 AND workflow_status = $2
  `, id, string(expected), p)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Transition is a compare-and-swap on the previous workflow status.
func (s *Store) Transition(ctx context.Context, id string, tr workflow.Transition, fields TransitionFields) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE trainings
    SET workflow_status = $3,
        approval_status = CASE $4 WHEN 'approve' THEN 'Approved' WHEN 'reject' THEN 'Rejected' ELSE approval_status END,
        approval_remarks = CASE WHEN $4 IN ('approve', 'reject') THEN $5 ELSE approval_remarks END,
        approved_by = CASE WHEN $4 IN ('approve', 'reject') THEN NULLIF($6, '')::uuid ELSE approved_by END,
        approved_at = CASE WHEN $4 IN ('approve', 'reject') THEN $7 ELSE approved_at END,
        archived_at = CASE WHEN $4 = 'archive' THEN $7 ELSE archived_at END,
        scheduled_date = COALESCE($8, scheduled_date),
        quarter = CASE WHEN $9 <> '' THEN $9 ELSE quarter END,
        financial_year = CASE WHEN $10 <> '' THEN $10 ELSE financial_year END,
        updated_at = now()
    WHERE id = $1 AND workflow_status = $2
  `, id, string(tr.From), string(tr.To), string(tr.Action), tr.Remarks, tr.Actor, tr.At,
		fields.ScheduledDate, fields.Quarter, fields.FinancialYear)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM trainings WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) AddFeedback(ctx context.Context, entry FeedbackEntry) (FeedbackEntry, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO training_feedback_entries (training_id, participant, rating, comments)
    VALUES ($1,$2,$3,$4)
    RETURNING id, created_at
  `, entry.TrainingID, entry.Participant, entry.Rating, entry.Comments).Scan(&entry.ID, &entry.CreatedAt)
	if querier.IsForeignKeyViolation(err) {
		return FeedbackEntry{}, ErrNotFound
	}
	return entry, err
}

func (s *Store) ListFeedback(ctx context.Context, trainingID string) ([]FeedbackEntry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, training_id, participant, rating, comments, created_at
    FROM training_feedback_entries
    WHERE training_id = $1
    ORDER BY created_at
  `, trainingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FeedbackEntry
	for rows.Next() {
		var e FeedbackEntry
		if err := rows.Scan(&e.ID, &e.TrainingID, &e.Participant, &e.Rating, &e.Comments, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
