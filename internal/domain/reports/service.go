package reports

import (
	"context"
	"math"
	"time"

	"trainhub/internal/domain/workflow"
)

const DefaultUpcomingDays = 30

type Service struct {
	store StoreAPI
	now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	clone := *s
	clone.now = now
	return &clone
}

// Dashboard counts work in every stage. Upcoming covers open schedules in the
// next days days, today included.
func (s *Service) Dashboard(ctx context.Context, days int) (Dashboard, error) {
	if days <= 0 {
		days = DefaultUpcomingDays
	}
	out := Dashboard{UpcomingDays: days}
	var err error
	if out.Topics, err = s.store.TopicStatusCounts(ctx); err != nil {
		return Dashboard{}, err
	}
	if out.Trainings, err = s.store.TrainingStatusCounts(ctx); err != nil {
		return Dashboard{}, err
	}
	if out.Schedules, err = s.store.ScheduleStatusCounts(ctx); err != nil {
		return Dashboard{}, err
	}
	out.PendingApprovals = out.Topics[string(workflow.TopicPendingApproval)] + out.Trainings[string(workflow.TrainingProposed)]

	today := s.now().UTC().Truncate(24 * time.Hour)
	if out.UpcomingSchedules, err = s.store.UpcomingSchedules(ctx, today, today.AddDate(0, 0, days)); err != nil {
		return Dashboard{}, err
	}

	outcomes, err := s.store.AttemptOutcomes(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	out.Attempts = outcomes.Total
	if outcomes.Total > 0 {
		rate := round2(float64(outcomes.Passed) * 100 / float64(outcomes.Total))
		out.PassRate = &rate
	}

	ratings, err := s.store.FeedbackRatings(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	out.FeedbackCount = ratings.Count
	if ratings.Average != nil {
		avg := round2(*ratings.Average)
		out.AverageRating = &avg
	}
	return out, nil
}

func (s *Service) JobRuns(ctx context.Context, filter JobRunFilter, limit, offset int) ([]JobRun, int, error) {
	runs, err := s.store.ListJobRuns(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.store.CountJobRuns(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return runs, total, nil
}

func (s *Service) JobRun(ctx context.Context, id string) (JobRun, error) {
	return s.store.JobRunByID(ctx, id)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
