package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"trainhub/internal/domain/notifications"
	"trainhub/internal/domain/schedule"
)

type Schedules interface {
	DueReminders(ctx context.Context, lead time.Duration) ([]schedule.Reminder, error)
	MarkReminderSent(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (schedule.Schedule, error)
	RecipientUserIDs(ctx context.Context, id string) ([]string, error)
}

type Notifier interface {
	Email(ctx context.Context, to, subject, body string) bool
	Broadcast(ctx context.Context, userIDs []string, ntype, title, body string) int
}

type ReminderResult struct {
	Schedules int `json:"schedules"`
	Emailed   int `json:"emailed"`
	Skipped   int `json:"skipped"`
}

// SendReminders emails the audience of every due schedule and marks it
// reminded. Delivery failures do not stop the run; a schedule whose marker
// could not be written is picked up again next time.
func SendReminders(ctx context.Context, schedules Schedules, notify Notifier, lead time.Duration) (ReminderResult, error) {
	var result ReminderResult
	due, err := schedules.DueReminders(ctx, lead)
	if err != nil {
		return result, err
	}
	for _, r := range due {
		subject, body := reminderMessage(r)
		for _, member := range r.Audience {
			if notify.Email(ctx, member.OfficialEmail, subject, body) {
				result.Emailed++
			} else {
				result.Skipped++
			}
		}
		if err := schedules.MarkReminderSent(ctx, r.Schedule.ID); err != nil {
			slog.Warn("reminder mark failed", "scheduleId", r.Schedule.ID, "err", err)
			continue
		}
		result.Schedules++
	}
	return result, nil
}

type FeedbackOpenResult struct {
	ScheduleID string `json:"scheduleId"`
	Notified   int    `json:"notified"`
}

func NotifyFeedbackOpen(ctx context.Context, schedules Schedules, notify Notifier, scheduleID string) (FeedbackOpenResult, error) {
	result := FeedbackOpenResult{ScheduleID: scheduleID}
	item, err := schedules.Get(ctx, scheduleID)
	if err != nil {
		return result, err
	}
	userIDs, err := schedules.RecipientUserIDs(ctx, scheduleID)
	if err != nil {
		return result, err
	}
	title := fmt.Sprintf("Feedback open: %s", item.TrainingName)
	body := fmt.Sprintf("%s is complete. Share your feedback within %d hours of the session end.", item.TrainingName, item.FeedbackWindowHours)
	result.Notified = notify.Broadcast(ctx, userIDs, notifications.TypeFeedbackOpen, title, body)
	return result, nil
}

func reminderMessage(r schedule.Reminder) (string, string) {
	s := r.Schedule
	subject := fmt.Sprintf("Reminder: %s on %s", s.TrainingName, r.StartsAt.Format("02 Jan 2006"))

	var b strings.Builder
	fmt.Fprintf(&b, "%s starts %s, %s to %s.\n", s.TrainingName, r.StartsAt.Format("Mon 02 Jan 2006"), s.StartTime, s.EndTime)
	if s.TrainerName != "" {
		fmt.Fprintf(&b, "Trainer: %s\n", s.TrainerName)
	}
	if s.Venue != "" {
		fmt.Fprintf(&b, "Venue: %s\n", s.Venue)
	}
	if s.OnlineLink != "" {
		fmt.Fprintf(&b, "Join online: %s\n", s.OnlineLink)
	}
	if s.AttendanceRequired {
		b.WriteString("Attendance is required.\n")
	}
	return subject, b.String()
}
