package training

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"trainhub/internal/domain/apperr"
	"trainhub/internal/domain/directory"
	"trainhub/internal/domain/scoring"
	"trainhub/internal/domain/workflow"
)

type Directory interface {
	Employee(ctx context.Context, id string) (directory.Employee, error)
}

// Levels provides the stored per-level thresholds.
type Levels interface {
	LevelTable(ctx context.Context) (scoring.LevelTable, error)
}

type Service struct {
	store     StoreAPI
	directory Directory
	levels    Levels
	table     *workflow.Table
	now       func() time.Time
}

func NewService(store StoreAPI, dir Directory, levels Levels) *Service {
	return &Service{store: store, directory: dir, levels: levels, table: workflow.TrainingTable(), now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	clone := *s
	clone.now = now
	clone.table = s.table.WithClock(now)
	return &clone
}

// Table exposes the training workflow so schedules can drive it.
func (s *Service) Table() *workflow.Table {
	return s.table
}

func (s *Service) List(ctx context.Context, status string, limit, offset int) ([]Training, int, error) {
	items, total, err := s.store.List(ctx, strings.TrimSpace(status), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	for i := range items {
		items[i].AvailableActions = s.table.Actions(items[i].WorkflowStatus)
	}
	return items, total, nil
}

func (s *Service) Get(ctx context.Context, id string) (Training, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return Training{}, err
	}
	t.AvailableActions = s.table.Actions(t.WorkflowStatus)
	return t, nil
}

// Create records phase 1 as a proposal awaiting approval.
func (s *Service) Create(ctx context.Context, p Phase1, createdBy string) (Training, error) {
	p, err := normalizePhase1(p)
	if err != nil {
		return Training{}, err
	}
	now := s.now()
	t := Training{
		Phase1:         p,
		Quarter:        Quarter(now),
		FinancialYear:  FinancialYear(now),
		Approval:       Approval{Status: ApprovalPending},
		WorkflowStatus: workflow.TrainingProposed,
	}
	if createdBy != "" {
		t.CreatedBy = &createdBy
	}
	id, err := s.store.Create(ctx, t)
	if err != nil {
		return Training{}, err
	}
	return s.Get(ctx, id)
}

// Patch edits phase-1 fields. A scheduled date runs the schedule transition.
func (s *Service) Patch(ctx context.Context, id string, patch Phase1Patch, actor string) (Training, error) {
	if patch.ScheduledDate != nil {
		current, err := s.store.Get(ctx, id)
		if err != nil {
			return Training{}, err
		}
		// Reject before touching phase 1 so a failed schedule leaves the row as it was.
		if !s.table.Can(current.WorkflowStatus, workflow.ActionSchedule) {
			_, err := s.table.Apply(current.WorkflowStatus, workflow.ActionSchedule, workflow.Input{})
			return Training{}, err
		}
	}
	if patch.hasPhase1Fields() {
		current, err := s.store.Get(ctx, id)
		if err != nil {
			return Training{}, err
		}
		if !slices.Contains(editableStates, current.WorkflowStatus) {
			return Training{}, s.blocked(current.WorkflowStatus, actionEdit, editableStates)
		}
		current.Phase1 = patch.apply(current.Phase1)
		if current.Phase1, err = normalizePhase1(current.Phase1); err != nil {
			return Training{}, err
		}
		ok, err := s.store.UpdatePhase1(ctx, current, current.WorkflowStatus)
		if err != nil {
			return Training{}, err
		}
		if !ok {
			return Training{}, s.staleError(ctx, id, actionEdit, editableStates)
		}
	}
	if patch.ScheduledDate != nil {
		t, _, err := s.Schedule(ctx, id, actor, *patch.ScheduledDate)
		return t, err
	}
	return s.Get(ctx, id)
}

// UpdatePhase2 stores training details, resolving internal trainers from the directory.
func (s *Service) UpdatePhase2(ctx context.Context, id string, p Phase2) (Training, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return Training{}, err
	}
	if !slices.Contains(phase2States, current.WorkflowStatus) {
		return Training{}, s.blocked(current.WorkflowStatus, actionUpdatePhase2, phase2States)
	}
	p, err = s.normalizePhase2(ctx, p)
	if err != nil {
		return Training{}, err
	}
	ok, err := s.store.UpdatePhase2(ctx, id, p, current.WorkflowStatus)
	if err != nil {
		return Training{}, err
	}
	if !ok {
		return Training{}, s.staleError(ctx, id, actionUpdatePhase2, phase2States)
	}
	return s.Get(ctx, id)
}

func (s *Service) Approve(ctx context.Context, id, actor, remarks string) (Training, workflow.Transition, error) {
	return s.act(ctx, id, workflow.ActionApprove, workflow.Input{
		Actor:  actor,
		Fields: map[workflow.Field]string{workflow.FieldRemarks: remarks},
	}, TransitionFields{})
}

func (s *Service) Reject(ctx context.Context, id, actor, remarks string) (Training, workflow.Transition, error) {
	return s.act(ctx, id, workflow.ActionReject, workflow.Input{
		Actor:  actor,
		Fields: map[workflow.Field]string{workflow.FieldRemarks: remarks},
	}, TransitionFields{})
}

// Schedule moves an approved training to Scheduled and re-derives its quarter
// and financial year from the scheduled date.
func (s *Service) Schedule(ctx context.Context, id, actor string, date time.Time) (Training, workflow.Transition, error) {
	in := workflow.Input{Actor: actor}
	fields := TransitionFields{}
	if !date.IsZero() {
		in.Fields = map[workflow.Field]string{workflow.FieldScheduledDate: date.Format("2006-01-02")}
		fields = TransitionFields{ScheduledDate: &date, Quarter: Quarter(date), FinancialYear: FinancialYear(date)}
	}
	return s.act(ctx, id, workflow.ActionSchedule, in, fields)
}

func (s *Service) Archive(ctx context.Context, id, actor string) (Training, workflow.Transition, error) {
	return s.act(ctx, id, workflow.ActionArchive, workflow.Input{Actor: actor}, TransitionFields{})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

func (s *Service) AddFeedback(ctx context.Context, id string, entry FeedbackEntry) (FeedbackEntry, error) {
	entry.Participant = strings.TrimSpace(entry.Participant)
	entry.Comments = strings.TrimSpace(entry.Comments)
	if entry.Participant == "" {
		entry.Participant = "Anonymous"
	}
	if entry.Rating < 1 || entry.Rating > 5 {
		return FeedbackEntry{}, apperr.Validation("rating", "must be between 1 and 5")
	}
	if _, err := s.store.Get(ctx, id); err != nil {
		return FeedbackEntry{}, err
	}
	entry.TrainingID = id
	return s.store.AddFeedback(ctx, entry)
}

func (s *Service) ListFeedback(ctx context.Context, id string) ([]FeedbackEntry, error) {
	if _, err := s.store.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.store.ListFeedback(ctx, id)
}

// RequiredScore resolves the passing threshold of a training for one employee.
func (s *Service) RequiredScore(ctx context.Context, id, employeeID string) (scoring.Resolution, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return scoring.Resolution{}, err
	}
	return s.requiredScoreFor(ctx, t, employeeID)
}

func (s *Service) requiredScoreFor(ctx context.Context, t Training, employeeID string) (scoring.Resolution, error) {
	if strings.TrimSpace(employeeID) == "" {
		return scoring.Resolution{}, apperr.Validation("employeeId", "is required")
	}
	emp, err := s.directory.Employee(ctx, employeeID)
	if err != nil {
		return scoring.Resolution{}, err
	}
	levels, err := s.levels.LevelTable(ctx)
	if err != nil {
		return scoring.Resolution{}, err
	}
	profile := scoring.Profile{Department: emp.Department, Level: emp.Level}
	return scoring.Resolve(profile, t.ScoringConfig(), levels), nil
}

func (s *Service) act(ctx context.Context, id string, action workflow.Action, in workflow.Input, fields TransitionFields) (Training, workflow.Transition, error) {
	load := func(ctx context.Context) (workflow.State, error) {
		t, err := s.store.Get(ctx, id)
		if err != nil {
			return "", err
		}
		return t.WorkflowStatus, nil
	}
	swap := func(ctx context.Context, tr workflow.Transition) (bool, error) {
		return s.store.Transition(ctx, id, tr, fields)
	}
	tr, err := s.table.Persist(ctx, load, action, in, swap)
	if err != nil {
		return Training{}, workflow.Transition{}, err
	}
	t, err := s.Get(ctx, id)
	return t, tr, err
}

func (s *Service) normalizePhase2(ctx context.Context, p Phase2) (Phase2, error) {
	var err error
	p.TrainingTopic = strings.TrimSpace(p.TrainingTopic)
	p.Type = NormalizeType(p.Type)
	p.CapabilitiesCovered = cleanList(p.CapabilitiesCovered)
	p.Description = strings.TrimSpace(p.Description)
	p.Status = strings.TrimSpace(p.Status)
	if p.Status == "" {
		p.Status = "Draft"
	}
	p.ContentPDFLink = strings.TrimSpace(p.ContentPDFLink)
	p.VideoLink = strings.TrimSpace(p.VideoLink)
	p.AssessmentLink = strings.TrimSpace(p.AssessmentLink)
	if p.Priority, err = normalizePriority(p.Priority); err != nil {
		return Phase2{}, err
	}
	if p.TrainerType, err = normalizeTrainerType(p.TrainerType); err != nil {
		return Phase2{}, err
	}
	if err := validateScores(p); err != nil {
		return Phase2{}, err
	}

	switch p.TrainerType {
	case TrainerInternal:
		p.ExternalTrainer = nil
		if p.InternalTrainer == nil {
			p.InternalTrainer = &InternalTrainer{}
		}
		employeeID := strings.TrimSpace(p.InternalTrainer.EmployeeID)
		if employeeID != "" {
			emp, err := s.directory.Employee(ctx, employeeID)
			if errors.Is(err, apperr.ErrNotFound) {
				return Phase2{}, apperr.Validation("internalTrainer.employeeId", "must reference an existing employee")
			}
			if err != nil {
				return Phase2{}, err
			}
			p.InternalTrainer = &InternalTrainer{
				EmployeeID:  emp.ID,
				Name:        emp.FullName,
				Department:  emp.Department,
				Designation: emp.Designation,
			}
		}
	case TrainerExternal:
		p.InternalTrainer = nil
		if p.ExternalTrainer == nil {
			p.ExternalTrainer = &ExternalTrainer{}
		}
		e := p.ExternalTrainer
		e.Source = strings.TrimSpace(e.Source)
		e.TrainerName = strings.TrimSpace(e.TrainerName)
		e.Organisation = strings.TrimSpace(e.Organisation)
		e.Mobile = strings.TrimSpace(e.Mobile)
		e.Email = strings.ToLower(strings.TrimSpace(e.Email))
	}
	return p, nil
}

func (s *Service) blocked(current workflow.State, action workflow.Action, allowed []workflow.State) error {
	return &workflow.TransitionError{Entity: s.table.Entity(), Current: current, Action: action, Allowed: allowed}
}

func (s *Service) staleError(ctx context.Context, id string, action workflow.Action, allowed []workflow.State) error {
	fresh, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.blocked(fresh.WorkflowStatus, action, allowed)
}

func (p Phase1Patch) hasPhase1Fields() bool {
	return p.Departments != nil || p.Designation != nil || p.Category != nil || p.TrainingType != nil ||
		p.Level != nil || p.Capabilities != nil || p.TopicSuggestions != nil || p.SelectedTopic != nil
}

func (p Phase1Patch) apply(cur Phase1) Phase1 {
	if p.Departments != nil {
		cur.Departments = p.Departments
	}
	if p.Designation != nil {
		cur.Designation = *p.Designation
	}
	if p.Category != nil {
		cur.Category = *p.Category
	}
	if p.TrainingType != nil {
		cur.TrainingType = *p.TrainingType
	}
	if p.Level != nil {
		cur.Level = p.Level
	}
	if p.Capabilities != nil {
		cur.Capabilities = p.Capabilities
	}
	if p.TopicSuggestions != nil {
		cur.TopicSuggestions = p.TopicSuggestions
	}
	if p.SelectedTopic != nil {
		cur.SelectedTopic = *p.SelectedTopic
	}
	return cur
}
