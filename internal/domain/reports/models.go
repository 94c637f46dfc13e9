package reports

import "time"

// Dashboard summarises the training pipeline for HR and management.
type Dashboard struct {
	Topics            map[string]int `json:"topics"`
	Trainings         map[string]int `json:"trainings"`
	Schedules         map[string]int `json:"schedules"`
	PendingApprovals  int            `json:"pendingApprovals"`
	UpcomingSchedules int            `json:"upcomingSchedules"`
	UpcomingDays      int            `json:"upcomingDays"`
	Attempts          int            `json:"attempts"`
	PassRate          *float64       `json:"passRate"`
	FeedbackCount     int            `json:"feedbackCount"`
	AverageRating     *float64       `json:"averageRating"`
}

type JobRun struct {
	ID          string         `json:"id"`
	JobType     string         `json:"jobType"`
	Status      string         `json:"status"`
	Details     map[string]any `json:"details"`
	StartedAt   time.Time      `json:"startedAt"`
	CompletedAt *time.Time     `json:"completedAt"`
}

type JobRunFilter struct {
	JobType     string
	Status      string
	StartedFrom *time.Time
	StartedTo   *time.Time
}

// Outcomes counts scored attempts and how many passed.
type Outcomes struct {
	Total  int
	Passed int
}

// Ratings aggregates schedule feedback.
type Ratings struct {
	Count   int
	Average *float64
}
