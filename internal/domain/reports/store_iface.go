package reports

import (
	"context"
	"time"
)

type StoreAPI interface {
	TopicStatusCounts(ctx context.Context) (map[string]int, error)
	TrainingStatusCounts(ctx context.Context) (map[string]int, error)
	ScheduleStatusCounts(ctx context.Context) (map[string]int, error)
	UpcomingSchedules(ctx context.Context, from, until time.Time) (int, error)
	AttemptOutcomes(ctx context.Context) (Outcomes, error)
	FeedbackRatings(ctx context.Context) (Ratings, error)
	ListJobRuns(ctx context.Context, filter JobRunFilter, limit, offset int) ([]JobRun, error)
	CountJobRuns(ctx context.Context, filter JobRunFilter) (int, error)
	JobRunByID(ctx context.Context, id string) (JobRun, error)
}
