package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"trainhub/internal/platform/config"
	"trainhub/internal/platform/metrics"
	"trainhub/internal/platform/querier"
)

const (
	JobTrainingReminders = "training_reminders"
	JobFeedbackOpen      = "feedback_open"
)

type Service struct {
	DB        querier.Querier
	Cfg       config.Config
	Metrics   *metrics.Collector
	Schedules Schedules
	Notify    Notifier
	queue     chan job
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

func New(db querier.Querier, cfg config.Config, schedules Schedules, notify Notifier, collector *metrics.Collector) *Service {
	return &Service{
		DB:        db,
		Cfg:       cfg,
		Metrics:   collector,
		Schedules: schedules,
		Notify:    notify,
		queue:     make(chan job, 128),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Cfg.ReminderInterval > 0 {
		go s.scheduleReminders(ctx, s.Cfg.ReminderInterval)
	}
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

// RunReminders sends due training reminders immediately.
func (s *Service) RunReminders(ctx context.Context) (ReminderResult, error) {
	details, err := s.RunNow(ctx, JobTrainingReminders, s.remindersJob)
	result, _ := details.(ReminderResult)
	return result, err
}

// EnqueueFeedbackOpen tells a completed schedule's audience that feedback is open.
func (s *Service) EnqueueFeedbackOpen(scheduleID string) {
	s.Enqueue(JobFeedbackOpen, func(ctx context.Context) (any, error) {
		return NotifyFeedbackOpen(ctx, s.Schedules, s.Notify, scheduleID)
	})
}

func (s *Service) remindersJob(ctx context.Context) (any, error) {
	return SendReminders(ctx, s.Schedules, s.Notify, s.Cfg.ReminderLeadTime)
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if s.DB != nil {
		if err := s.DB.QueryRow(ctx, `
      INSERT INTO job_runs (job_type, status)
      VALUES ($1,$2)
      RETURNING id
    `, j.Type, "running").Scan(&runID); err != nil {
			slog.Warn("job run insert failed", "err", err)
		}
	}

	details, err := j.Run(ctx)
	if s.Metrics != nil {
		s.Metrics.RecordJob(j.Type, err)
	}
	status := "completed"
	if err != nil {
		status = "failed"
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}

func (s *Service) scheduleReminders(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(JobTrainingReminders, s.remindersJob)
		}
	}
}
