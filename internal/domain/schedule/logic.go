package schedule

import (
	"fmt"
	"strings"
	"time"

	"trainhub/internal/domain/apperr"
)

const clockLayout = "15:04"

func normalizeType(raw string) (string, error) {
	switch strings.ToLower(strings.Join(strings.Fields(raw), " ")) {
	case "", "generic":
		return TypeGeneric, nil
	case "dept specific":
		return TypeDeptSpecific, nil
	case "level specific":
		return TypeLevelSpecific, nil
	case "role specific":
		return TypeRoleSpecific, nil
	}
	return "", apperr.Validation("type", "must be Generic, Dept Specific, Level Specific or Role Specific")
}

func parseClock(field, value string) (time.Time, error) {
	t, err := time.Parse(clockLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, apperr.Validation(field, "must be HH:MM")
	}
	return t, nil
}

// EndsAt combines the training date and end time in loc.
func (s Schedule) EndsAt(loc *time.Location) (time.Time, error) {
	return s.at(s.EndTime, loc)
}

// StartsAt combines the training date and start time in loc.
func (s Schedule) StartsAt(loc *time.Location) (time.Time, error) {
	return s.at(s.StartTime, loc)
}

func (s Schedule) at(clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	c, err := parseClock("time", clock)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := s.TrainingDate.Date()
	return time.Date(y, m, d, c.Hour(), c.Minute(), 0, 0, loc), nil
}

// DateOnly truncates t to its calendar date in loc, expressed at UTC midnight.
func DateOnly(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func normalize(s Schedule) Schedule {
	s.TrainingName = strings.TrimSpace(s.TrainingName)
	s.CapabilityArea = strings.TrimSpace(s.CapabilityArea)
	s.CapabilitySkill = strings.TrimSpace(s.CapabilitySkill)
	s.TrainerName = strings.TrimSpace(s.TrainerName)
	s.StartTime = strings.TrimSpace(s.StartTime)
	s.EndTime = strings.TrimSpace(s.EndTime)
	s.Venue = strings.TrimSpace(s.Venue)
	s.OnlineLink = strings.TrimSpace(s.OnlineLink)
	if !s.TrainingDate.IsZero() {
		y, m, d := s.TrainingDate.Date()
		s.TrainingDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	return s
}

func validate(s Schedule) (Schedule, error) {
	var err error
	if s.TrainingName == "" {
		return Schedule{}, apperr.Validation("trainingName", "is required")
	}
	if s.TrainingDate.IsZero() {
		return Schedule{}, apperr.Validation("trainingDate", "is required")
	}
	start, err := parseClock("startTime", s.StartTime)
	if err != nil {
		return Schedule{}, err
	}
	end, err := parseClock("endTime", s.EndTime)
	if err != nil {
		return Schedule{}, err
	}
	if !start.Before(end) {
		return Schedule{}, apperr.Validation("endTime", "must be after startTime")
	}
	s.StartTime = start.Format(clockLayout)
	s.EndTime = end.Format(clockLayout)
	if s.Venue == "" && s.OnlineLink == "" {
		return Schedule{}, apperr.Validation("venue", "or onlineLink is required")
	}
	if s.Type, err = normalizeType(s.Type); err != nil {
		return Schedule{}, err
	}
	if s.TargetAudience, err = NormalizeAudience(s.TargetAudience); err != nil {
		return Schedule{}, err
	}
	if s.MaxAttempts != DefaultMaxAttempts {
		return Schedule{}, apperr.Validation("maxAttempts", fmt.Sprintf("must be %d; attempts are capped per training", DefaultMaxAttempts))
	}
	if s.FeedbackWindowHours < 1 {
		return Schedule{}, apperr.Validation("feedbackWindowHours", "must be at least 1")
	}
	return s, nil
}
