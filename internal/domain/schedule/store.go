package schedule

import (
	"context"
	"time"

	"trainhub/internal/domain/workflow"
	"trainhub/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const selectSchedule = `
    SELECT id, training_id, training_name, capability_area, capability_skill, trainer_name, type,
           training_date, start_time, end_time, venue, online_link, target_audience,
           attendance_required, max_attempts, feedback_window_hours, status, remarks,
           reminder_sent_at, created_by, created_at, updated_at
    FROM training_schedules`

func scan(row interface{ Scan(...any) error }) (Schedule, error) {
	var s Schedule
	var status string
	err := row.Scan(&s.ID, &s.TrainingID, &s.TrainingName, &s.CapabilityArea, &s.CapabilitySkill, &s.TrainerName, &s.Type,
		&s.TrainingDate, &s.StartTime, &s.EndTime, &s.Venue, &s.OnlineLink, &s.TargetAudience,
		&s.AttendanceRequired, &s.MaxAttempts, &s.FeedbackWindowHours, &status, &s.Remarks,
		&s.ReminderSentAt, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt)
	s.Status = workflow.State(status)
	return s, err
}

func (s *Store) collect(ctx context.Context, query string, args ...any) ([]Schedule, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Schedule
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (s *Store) List(ctx context.Context, filter Filter) ([]Schedule, error) {
	return s.collect(ctx, selectSchedule+`
    WHERE ($1 = '' OR trainer_name ILIKE '%' || $1 || '%')
      AND ($2 = '' OR status = $2)
    ORDER BY training_date DESC, start_time`, filter.Trainer, filter.Status)
}

func (s *Store) Get(ctx context.Context, id string) (Schedule, error) {
	item, err := scan(s.DB.QueryRow(ctx, selectSchedule+" WHERE id = $1", id))
	if querier.IsMissing(err) {
		return Schedule{}, ErrNotFound
	}
	return item, err
}

func (s *Store) Create(ctx context.Context, item Schedule) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO training_schedules (
      training_id, training_name, capability_area, capability_skill, trainer_name, type,
      training_date, start_time, end_time, venue, online_link, target_audience,
      attendance_required, max_attempts, feedback_window_hours, status, created_by
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
    RETURNING id
  `, item.TrainingID, item.TrainingName, item.CapabilityArea, item.CapabilitySkill, item.TrainerName, item.Type,
		item.TrainingDate, item.StartTime, item.EndTime, item.Venue, item.OnlineLink, item.TargetAudience,
		item.AttendanceRequired, item.MaxAttempts, item.FeedbackWindowHours, string(item.Status), item.CreatedBy).Scan(&id)
	if querier.IsForeignKeyViolation(err) {
		return "", errTrainingMissing
	}
	return id, err
}

// Update writes every editable column. A moved training date clears the
// reminder stamp so the new date gets its own reminder.
func (s *Store) Update(ctx context.Context, item Schedule, expected workflow.State) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE training_schedules
    SET training_name = $3, capability_area = $4, capability_skill = $5, trainer_name = $6, type = $7,
        reminder_sent_at = CASE WHEN training_date <> $8 THEN NULL ELSE reminder_sent_at END,
        training_date = $8, start_time = $9, end_time = $10, venue = $11, online_link = $12,
        target_audience = $13, attendance_required = $14, max_attempts = $15, feedback_window_hours = $16,
        status = $17, updated_at = now()
    WHERE id = $1 AND status = $2
  `, item.ID, string(expected), item.TrainingName, item.CapabilityArea, item.CapabilitySkill, item.TrainerName, item.Type,
		item.TrainingDate, item.StartTime, item.EndTime, item.Venue, item.OnlineLink,
		item.TargetAudience, item.AttendanceRequired, item.MaxAttempts, item.FeedbackWindowHours, string(item.Status))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) Transition(ctx context.Context, id string, tr workflow.Transition, trainingDate *time.Time) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE training_schedules
    SET status = $3,
        remarks = CASE WHEN $4 <> '' THEN $4 ELSE remarks END,
        reminder_sent_at = CASE WHEN $5::date IS NOT NULL AND $5::date <> training_date THEN NULL ELSE reminder_sent_at END,
        training_date = COALESCE($5::date, training_date),
        updated_at = now()
    WHERE id = $1 AND status = $2
  `, id, string(tr.From), string(tr.To), tr.Remarks, trainingDate)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM training_schedules WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Pending(ctx context.Context, today time.Time) ([]Schedule, error) {
	return s.collect(ctx, selectSchedule+`
    WHERE status IN ('Scheduled', 'Rescheduled') AND training_date >= $1::date
    ORDER BY training_date, start_time`, today)
}

// DueReminders finds open schedules in [from, until] that were never reminded.
func (s *Store) DueReminders(ctx context.Context, from, until time.Time) ([]Schedule, error) {
	return s.collect(ctx, selectSchedule+`
    WHERE status IN ('Scheduled', 'Rescheduled')
      AND reminder_sent_at IS NULL
      AND training_date BETWEEN $1::date AND $2::date
    ORDER BY training_date`, from, until)
}

func (s *Store) MarkReminderSent(ctx context.Context, id string, at time.Time) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE training_schedules SET reminder_sent_at = $2 WHERE id = $1 AND reminder_sent_at IS NULL
  `, id, at)
	return err
}
