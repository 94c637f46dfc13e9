package feedback

import (
	"time"

	"trainhub/internal/domain/schedule"
	"trainhub/internal/domain/workflow"
)

const (
	ReasonNotCompleted     = "training has not been completed"
	ReasonWindowClosed     = "feedback window has closed"
	ReasonAlreadySubmitted = "feedback already submitted"
)

// Deadline is the end of the session in loc plus the schedule's window.
func Deadline(s schedule.Schedule, loc *time.Location) (time.Time, error) {
	end, err := s.EndsAt(loc)
	if err != nil {
		return time.Time{}, err
	}
	return end.Add(time.Duration(s.FeedbackWindowHours) * time.Hour), nil
}

// WindowOpen reports whether feedback is accepted at now. The deadline itself is inclusive.
func WindowOpen(s schedule.Schedule, now time.Time, loc *time.Location) (bool, string, time.Time, error) {
	deadline, err := Deadline(s, loc)
	if err != nil {
		return false, "", time.Time{}, err
	}
	if s.Status != workflow.ScheduleCompleted {
		return false, ReasonNotCompleted, deadline, nil
	}
	if now.After(deadline) {
		return false, ReasonWindowClosed, deadline, nil
	}
	return true, "", deadline, nil
}
