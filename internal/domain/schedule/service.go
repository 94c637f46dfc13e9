package schedule

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"trainhub/internal/domain/apperr"
	"trainhub/internal/domain/directory"
	"trainhub/internal/domain/training"
	"trainhub/internal/domain/workflow"
)

// Trainings drives the training workflow when a schedule is attached to one.
type Trainings interface {
	Get(ctx context.Context, id string) (training.Training, error)
	Schedule(ctx context.Context, id, actor string, date time.Time) (training.Training, workflow.Transition, error)
	Table() *workflow.Table
}

type Directory interface {
	Employee(ctx context.Context, id string) (directory.Employee, error)
	AllEmployees(ctx context.Context) ([]directory.Employee, error)
	LinkedUserIDs(ctx context.Context, employeeIDs []string) ([]string, error)
}

type Options struct {
	Location                   *time.Location
	DefaultFeedbackWindowHours int
}

type Service struct {
	store     StoreAPI
	trainings Trainings
	directory Directory
	table     *workflow.Table
	opts      Options
	now       func() time.Time
}

func NewService(store StoreAPI, trainings Trainings, dir Directory, opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.DefaultFeedbackWindowHours <= 0 {
		opts.DefaultFeedbackWindowHours = DefaultFeedbackWindowHours
	}
	return &Service{
		store:     store,
		trainings: trainings,
		directory: dir,
		table:     workflow.ScheduleTable(),
		opts:      opts,
		now:       time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	clone := *s
	clone.now = now
	clone.table = s.table.WithClock(now)
	return &clone
}

// Location is the zone schedule dates and times are interpreted in.
func (s *Service) Location() *time.Location {
	return s.opts.Location
}

func (s *Service) List(ctx context.Context, filter Filter) ([]Schedule, error) {
	filter.Trainer = strings.TrimSpace(filter.Trainer)
	filter.Status = strings.TrimSpace(filter.Status)
	items, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if employeeID := strings.TrimSpace(filter.EmployeeID); employeeID != "" {
		emp, err := s.directory.Employee(ctx, employeeID)
		if err != nil {
			return nil, err
		}
		items = slices.DeleteFunc(items, func(item Schedule) bool {
			return !item.TargetAudience.Includes(emp)
		})
	}
	return s.decorate(items), nil
}

// Pending lists open schedules from today onwards.
func (s *Service) Pending(ctx context.Context) ([]Schedule, error) {
	items, err := s.store.Pending(ctx, DateOnly(s.now(), s.opts.Location))
	if err != nil {
		return nil, err
	}
	return s.decorate(items), nil
}

func (s *Service) Get(ctx context.Context, id string) (Schedule, error) {
	item, err := s.store.Get(ctx, id)
	if err != nil {
		return Schedule{}, err
	}
	item.AvailableActions = s.table.Actions(item.Status)
	return item, nil
}

// Create books a session. A linked training must be Approved, in which case it
// is moved to Scheduled, or already Scheduled.
func (s *Service) Create(ctx context.Context, in Input, actor string) (Schedule, error) {
	item := Schedule{
		TrainingName:        in.TrainingName,
		CapabilityArea:      in.CapabilityArea,
		CapabilitySkill:     in.CapabilitySkill,
		TrainerName:         in.TrainerName,
		Type:                in.Type,
		TrainingDate:        in.TrainingDate,
		StartTime:           in.StartTime,
		EndTime:             in.EndTime,
		Venue:               in.Venue,
		OnlineLink:          in.OnlineLink,
		TargetAudience:      in.TargetAudience,
		AttendanceRequired:  true,
		MaxAttempts:         DefaultMaxAttempts,
		FeedbackWindowHours: s.opts.DefaultFeedbackWindowHours,
		Status:              workflow.ScheduleScheduled,
	}
	if in.AttendanceRequired != nil {
		item.AttendanceRequired = *in.AttendanceRequired
	}
	if in.MaxAttempts != nil {
		item.MaxAttempts = *in.MaxAttempts
	}
	if in.FeedbackWindowHours != nil {
		item.FeedbackWindowHours = *in.FeedbackWindowHours
	}
	if actor != "" {
		item.CreatedBy = &actor
	}

	var linked *training.Training
	if trainingID := strings.TrimSpace(in.TrainingID); trainingID != "" {
		t, err := s.trainings.Get(ctx, trainingID)
		if err != nil {
			return Schedule{}, err
		}
		table := s.trainings.Table()
		if t.WorkflowStatus != workflow.TrainingScheduled && !table.Can(t.WorkflowStatus, workflow.ActionSchedule) {
			_, err := table.Apply(t.WorkflowStatus, workflow.ActionSchedule, workflow.Input{})
			return Schedule{}, err
		}
		item.TrainingID = &t.ID
		fillFromTraining(&item, t)
		linked = &t
	}

	item = normalize(item)
	item, err := validate(item)
	if err != nil {
		return Schedule{}, err
	}

	id, err := s.store.Create(ctx, item)
	if err != nil {
		return Schedule{}, err
	}
	if linked != nil && linked.WorkflowStatus == workflow.TrainingApproved {
		if _, _, err := s.trainings.Schedule(ctx, linked.ID, actor, item.TrainingDate); err != nil && !scheduledMeanwhile(err) {
			if delErr := s.store.Delete(ctx, id); delErr != nil {
				slog.Warn("schedule rollback failed", "scheduleId", id, "err", delErr)
			}
			return Schedule{}, err
		}
	}
	return s.Get(ctx, id)
}

// Update edits an open schedule. Moving the date counts as a reschedule.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (Schedule, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return Schedule{}, err
	}
	if !slices.Contains(openStates, current.Status) {
		return Schedule{}, s.blocked(current.Status, actionEdit)
	}
	expected := current.Status
	previousDate := current.TrainingDate
	applyPatch(&current, patch)
	current = normalize(current)
	if !current.TrainingDate.Equal(previousDate) {
		tr, err := s.table.Apply(expected, workflow.ActionReschedule, workflow.Input{
			Fields: map[workflow.Field]string{workflow.FieldTrainingDate: current.TrainingDate.Format("2006-01-02")},
		})
		if err != nil {
			return Schedule{}, err
		}
		current.Status = tr.To
	}
	current, err = validate(current)
	if err != nil {
		return Schedule{}, err
	}
	ok, err := s.store.Update(ctx, current, expected)
	if err != nil {
		return Schedule{}, err
	}
	if !ok {
		fresh, err := s.store.Get(ctx, id)
		if err != nil {
			return Schedule{}, err
		}
		return Schedule{}, s.blocked(fresh.Status, actionEdit)
	}
	return s.Get(ctx, id)
}

// SetStatus moves a schedule to Rescheduled, Completed or Cancelled.
func (s *Service) SetStatus(ctx context.Context, id, target string, trainingDate *time.Time, remarks, actor string) (Schedule, workflow.Transition, error) {
	action, ok := workflow.ScheduleActionFor(matchState(target))
	if !ok {
		return Schedule{}, workflow.Transition{}, apperr.Validation("status", "must be Rescheduled, Completed or Cancelled")
	}
	in := workflow.Input{Actor: actor, Fields: map[workflow.Field]string{workflow.FieldRemarks: remarks}}
	var date *time.Time
	if trainingDate != nil && !trainingDate.IsZero() {
		d := DateOnly(*trainingDate, time.UTC)
		date = &d
		in.Fields[workflow.FieldTrainingDate] = d.Format("2006-01-02")
	}
	if action != workflow.ActionReschedule {
		date = nil
	}
	load := func(ctx context.Context) (workflow.State, error) {
		item, err := s.store.Get(ctx, id)
		if err != nil {
			return "", err
		}
		return item.Status, nil
	}
	swap := func(ctx context.Context, tr workflow.Transition) (bool, error) {
		return s.store.Transition(ctx, id, tr, date)
	}
	tr, err := s.table.Persist(ctx, load, action, in, swap)
	if err != nil {
		return Schedule{}, workflow.Transition{}, err
	}
	item, err := s.Get(ctx, id)
	return item, tr, err
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Audience lists the employees a schedule targets.
func (s *Service) Audience(ctx context.Context, id string) ([]directory.Employee, error) {
	item, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.audienceOf(ctx, item)
}

// RecipientUserIDs maps a schedule's audience onto active user accounts.
func (s *Service) RecipientUserIDs(ctx context.Context, id string) ([]string, error) {
	members, err := s.Audience(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, nil
	}
	ids := make([]string, len(members))
	for i, e := range members {
		ids[i] = e.ID
	}
	return s.directory.LinkedUserIDs(ctx, ids)
}

// Reminder pairs a due schedule with the employees to remind.
type Reminder struct {
	Schedule Schedule
	Audience []directory.Employee
	StartsAt time.Time
}

// DueReminders returns open schedules starting within lead that were never reminded.
func (s *Service) DueReminders(ctx context.Context, lead time.Duration) ([]Reminder, error) {
	now := s.now()
	from := DateOnly(now, s.opts.Location)
	until := DateOnly(now.Add(lead), s.opts.Location)
	items, err := s.store.DueReminders(ctx, from, until)
	if err != nil {
		return nil, err
	}
	out := make([]Reminder, 0, len(items))
	for _, item := range items {
		startsAt, err := item.StartsAt(s.opts.Location)
		if err != nil || startsAt.Before(now) || startsAt.After(now.Add(lead)) {
			continue
		}
		members, err := s.audienceOf(ctx, item)
		if err != nil {
			return nil, err
		}
		out = append(out, Reminder{Schedule: item, Audience: members, StartsAt: startsAt})
	}
	return out, nil
}

func (s *Service) MarkReminderSent(ctx context.Context, id string) error {
	return s.store.MarkReminderSent(ctx, id, s.now().UTC())
}

func (s *Service) audienceOf(ctx context.Context, item Schedule) ([]directory.Employee, error) {
	employees, err := s.directory.AllEmployees(ctx)
	if err != nil {
		return nil, err
	}
	return item.TargetAudience.Resolve(employees), nil
}

func (s *Service) decorate(items []Schedule) []Schedule {
	for i := range items {
		items[i].AvailableActions = s.table.Actions(items[i].Status)
	}
	return items
}

func (s *Service) blocked(current workflow.State, action workflow.Action) error {
	return &workflow.TransitionError{Entity: s.table.Entity(), Current: current, Action: action, Allowed: openStates}
}

// scheduledMeanwhile treats a concurrent schedule of the same training as success.
func scheduledMeanwhile(err error) bool {
	var terr *workflow.TransitionError
	return errors.As(err, &terr) && terr.Current == workflow.TrainingScheduled
}

func matchState(raw string) workflow.State {
	raw = strings.TrimSpace(raw)
	for _, st := range []workflow.State{workflow.ScheduleScheduled, workflow.ScheduleRescheduled, workflow.ScheduleCompleted, workflow.ScheduleCancelled} {
		if strings.EqualFold(raw, string(st)) {
			return st
		}
	}
	return workflow.State(raw)
}

func fillFromTraining(item *Schedule, t training.Training) {
	if strings.TrimSpace(item.TrainingName) != "" {
		return
	}
	if t.Phase2 != nil && t.Phase2.TrainingTopic != "" {
		item.TrainingName = t.Phase2.TrainingTopic
		return
	}
	item.TrainingName = t.Phase1.SelectedTopic
}

func applyPatch(item *Schedule, p Patch) {
	if p.TrainingName != nil {
		item.TrainingName = *p.TrainingName
	}
	if p.CapabilityArea != nil {
		item.CapabilityArea = *p.CapabilityArea
	}
	if p.CapabilitySkill != nil {
		item.CapabilitySkill = *p.CapabilitySkill
	}
	if p.TrainerName != nil {
		item.TrainerName = *p.TrainerName
	}
	if p.Type != nil {
		item.Type = *p.Type
	}
	if p.TrainingDate != nil {
		item.TrainingDate = *p.TrainingDate
	}
	if p.StartTime != nil {
		item.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		item.EndTime = *p.EndTime
	}
	if p.Venue != nil {
		item.Venue = *p.Venue
	}
	if p.OnlineLink != nil {
		item.OnlineLink = *p.OnlineLink
	}
	if p.TargetAudience != nil {
		item.TargetAudience = *p.TargetAudience
	}
	if p.AttendanceRequired != nil {
		item.AttendanceRequired = *p.AttendanceRequired
	}
	if p.MaxAttempts != nil {
		item.MaxAttempts = *p.MaxAttempts
	}
	if p.FeedbackWindowHours != nil {
		item.FeedbackWindowHours = *p.FeedbackWindowHours
	}
}
