package feedback

import (
	"context"
	"fmt"
	"strings"
	"time"

	"trainhub/internal/domain/apperr"
	"trainhub/internal/domain/directory"
	"trainhub/internal/domain/schedule"
)

type Schedules interface {
	Get(ctx context.Context, id string) (schedule.Schedule, error)
	Location() *time.Location
}

type Directory interface {
	Employee(ctx context.Context, id string) (directory.Employee, error)
}

type Service struct {
	store     StoreAPI
	schedules Schedules
	directory Directory
	now       func() time.Time
}

func NewService(store StoreAPI, schedules Schedules, dir Directory) *Service {
	return &Service{store: store, schedules: schedules, directory: dir, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	clone := *s
	clone.now = now
	return &clone
}

// CanSubmit explains whether an employee may still leave feedback on a schedule.
func (s *Service) CanSubmit(ctx context.Context, scheduleID, employeeID string) (Eligibility, error) {
	item, err := s.schedules.Get(ctx, scheduleID)
	if err != nil {
		return Eligibility{}, err
	}
	open, reason, deadline, err := WindowOpen(item, s.now(), s.schedules.Location())
	if err != nil {
		return Eligibility{}, err
	}
	out := Eligibility{CanSubmit: open, Reason: reason, Deadline: &deadline}

	if employeeID = strings.TrimSpace(employeeID); employeeID != "" {
		exists, err := s.store.Exists(ctx, scheduleID, employeeID)
		if err != nil {
			return Eligibility{}, err
		}
		out.AlreadySubmitted = exists
		if exists {
			out.CanSubmit = false
			if out.Reason == "" {
				out.Reason = ReasonAlreadySubmitted
			}
		}
	}
	return out, nil
}

// Submit records one rating per employee while the window is open.
func (s *Service) Submit(ctx context.Context, scheduleID, employeeID string, rating int, comments string) (Feedback, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return Feedback{}, apperr.Validation("employeeId", "is required")
	}
	if rating < MinRating || rating > MaxRating {
		return Feedback{}, apperr.Validation("rating", "must be between 1 and 5")
	}
	item, err := s.schedules.Get(ctx, scheduleID)
	if err != nil {
		return Feedback{}, err
	}
	emp, err := s.directory.Employee(ctx, employeeID)
	if err != nil {
		return Feedback{}, err
	}
	now := s.now()
	open, reason, deadline, err := WindowOpen(item, now, s.schedules.Location())
	if err != nil {
		return Feedback{}, err
	}
	if !open {
		return Feedback{}, fmt.Errorf("%w: %s (deadline %s)", ErrClosed, reason, deadline.Format(time.RFC3339))
	}
	saved, err := s.store.Insert(ctx, Feedback{
		ScheduleID:  scheduleID,
		EmployeeID:  emp.ID,
		Rating:      rating,
		Comments:    strings.TrimSpace(comments),
		SubmittedAt: now.UTC(),
	})
	if err != nil {
		return Feedback{}, err
	}
	saved.EmployeeName = emp.FullName
	return saved, nil
}

func (s *Service) List(ctx context.Context, scheduleID string) (Summary, error) {
	if _, err := s.schedules.Get(ctx, scheduleID); err != nil {
		return Summary{}, err
	}
	items, err := s.store.List(ctx, scheduleID)
	if err != nil {
		return Summary{}, err
	}
	out := Summary{Items: items, Count: len(items)}
	if len(items) > 0 {
		total := 0
		for _, f := range items {
			total += f.Rating
		}
		avg := float64(total) / float64(len(items))
		out.AverageRating = &avg
	}
	return out, nil
}
