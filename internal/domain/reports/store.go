package reports

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"trainhub/internal/domain/apperr"
	"trainhub/internal/domain/scoring"
	"trainhub/internal/domain/workflow"
	"trainhub/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) TopicStatusCounts(ctx context.Context) (map[string]int, error) {
	return s.statusCounts(ctx, "SELECT status, COUNT(1) FROM training_topics GROUP BY status")
}

func (s *Store) TrainingStatusCounts(ctx context.Context) (map[string]int, error) {
	return s.statusCounts(ctx, "SELECT workflow_status, COUNT(1) FROM trainings GROUP BY workflow_status")
}

func (s *Store) ScheduleStatusCounts(ctx context.Context) (map[string]int, error) {
	return s.statusCounts(ctx, "SELECT status, COUNT(1) FROM training_schedules GROUP BY status")
}

func (s *Store) statusCounts(ctx context.Context, query string) (map[string]int, error) {
	rows, err := s.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		out[status] = count
	}
	return out, rows.Err()
}

func (s *Store) UpcomingSchedules(ctx context.Context, from, until time.Time) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM training_schedules
    WHERE status IN ($1, $2) AND training_date BETWEEN $3 AND $4
  `, workflow.ScheduleScheduled, workflow.ScheduleRescheduled, from, until).Scan(&count)
	return count, err
}

func (s *Store) AttemptOutcomes(ctx context.Context) (Outcomes, error) {
	var out Outcomes
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1), COUNT(1) FILTER (WHERE status = $1)
    FROM training_attempts
  `, scoring.StatusPass).Scan(&out.Total, &out.Passed)
	return out, err
}

func (s *Store) FeedbackRatings(ctx context.Context) (Ratings, error) {
	var out Ratings
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1), AVG(rating)::float8 FROM training_feedback").Scan(&out.Count, &out.Average)
	return out, err
}

const jobRunColumns = "id, job_type, status, COALESCE(details_json, '{}'::jsonb), started_at, completed_at"

func scanJobRun(row interface{ Scan(...any) error }) (JobRun, error) {
	var run JobRun
	var detailsRaw []byte
	if err := row.Scan(&run.ID, &run.JobType, &run.Status, &detailsRaw, &run.StartedAt, &run.CompletedAt); err != nil {
		return JobRun{}, err
	}
	run.Details = decodeDetails(detailsRaw)
	return run, nil
}

func (s *Store) ListJobRuns(ctx context.Context, filter JobRunFilter, limit, offset int) ([]JobRun, error) {
	query, args := buildJobRunsBaseQuery(filter)
	query += " ORDER BY started_at DESC LIMIT $" + strconv.Itoa(len(args)+1) + " OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []JobRun{}
	for rows.Next() {
		run, err := scanJobRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *Store) CountJobRuns(ctx context.Context, filter JobRunFilter) (int, error) {
	query, args := buildJobRunsBaseQuery(filter)
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM ("+query+") job_runs", args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) JobRunByID(ctx context.Context, id string) (JobRun, error) {
	run, err := scanJobRun(s.DB.QueryRow(ctx, "SELECT "+jobRunColumns+" FROM job_runs WHERE id = $1", id))
	if querier.IsMissing(err) {
		return JobRun{}, apperr.NotFound("job run")
	}
	return run, err
}

func buildJobRunsBaseQuery(filter JobRunFilter) (string, []any) {
	query := "SELECT " + jobRunColumns + " FROM job_runs WHERE 1 = 1"
	var args []any

	if value := strings.TrimSpace(filter.JobType); value != "" {
		args = append(args, value)
		query += " AND job_type = $" + strconv.Itoa(len(args))
	}
	if value := strings.TrimSpace(filter.Status); value != "" {
		args = append(args, value)
		query += " AND status = $" + strconv.Itoa(len(args))
	}
	if filter.StartedFrom != nil && !filter.StartedFrom.IsZero() {
		args = append(args, *filter.StartedFrom)
		query += " AND started_at >= $" + strconv.Itoa(len(args))
	}
	if filter.StartedTo != nil && !filter.StartedTo.IsZero() {
		args = append(args, *filter.StartedTo)
		query += " AND started_at <= $" + strconv.Itoa(len(args))
	}
	return query, args
}

func decodeDetails(raw []byte) map[string]any {
	if len(raw) == 0 {
		return map[string]any{}
	}
	details := map[string]any{}
	if err := json.Unmarshal(raw, &details); err != nil {
		return map[string]any{"raw": string(raw)}
	}
	return details
}
