package topic

import (
	"context"
	"slices"
	"strings"
	"time"

	"trainhub/internal/domain/apperr"
	"trainhub/internal/domain/workflow"
)

type Service struct {
	store StoreAPI
	table *workflow.Table
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store, table: workflow.TopicTable()}
}

// WithClock swaps the clock used to stamp transitions.
func (s *Service) WithClock(now func() time.Time) *Service {
	clone := *s
	clone.table = s.table.WithClock(now)
	return &clone
}

func (s *Service) List(ctx context.Context, status string) ([]Topic, error) {
	items, err := s.store.List(ctx, strings.TrimSpace(status))
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].AvailableActions = s.table.Actions(items[i].Status)
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id string) (Topic, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return Topic{}, err
	}
	t.AvailableActions = s.table.Actions(t.Status)
	return t, nil
}

func (s *Service) Create(ctx context.Context, t Topic, createdBy string) (Topic, error) {
	t = normalize(t)
	if err := validate(t); err != nil {
		return Topic{}, err
	}
	t.Status = workflow.TopicDraft
	if createdBy != "" {
		t.CreatedBy = &createdBy
	}
	id, err := s.store.Create(ctx, t)
	if err != nil {
		return Topic{}, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id string, patch Patch) (Topic, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return Topic{}, err
	}
	if !slices.Contains(editableStates, current.Status) {
		return Topic{}, s.blocked(current.Status, actionEdit, editableStates)
	}
	applyPatch(&current, patch)
	current = normalize(current)
	if err := validate(current); err != nil {
		return Topic{}, err
	}
	ok, err := s.store.Update(ctx, current, current.Status)
	if err != nil {
		return Topic{}, err
	}
	if !ok {
		return Topic{}, s.staleError(ctx, id, actionEdit, editableStates)
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !slices.Contains(deletableStates, current.Status) {
		return s.blocked(current.Status, actionDelete, deletableStates)
	}
	ok, err := s.store.Delete(ctx, id, current.Status)
	if err != nil {
		return err
	}
	if !ok {
		return s.staleError(ctx, id, actionDelete, deletableStates)
	}
	return nil
}

// Act runs a workflow action (submit, approve, reject, sendBack) on a topic.
func (s *Service) Act(ctx context.Context, id string, action workflow.Action, actor, remarks string) (Topic, workflow.Transition, error) {
	load := func(ctx context.Context) (workflow.State, error) {
		t, err := s.store.Get(ctx, id)
		if err != nil {
			return "", err
		}
		return t.Status, nil
	}
	swap := func(ctx context.Context, tr workflow.Transition) (bool, error) {
		return s.store.Transition(ctx, id, tr)
	}
	in := workflow.Input{Actor: actor, Fields: map[workflow.Field]string{workflow.FieldRemarks: remarks}}
	tr, err := s.table.Persist(ctx, load, action, in, swap)
	if err != nil {
		return Topic{}, workflow.Transition{}, err
	}
	t, err := s.Get(ctx, id)
	return t, tr, err
}

func (s *Service) blocked(current workflow.State, action workflow.Action, allowed []workflow.State) error {
	return &workflow.TransitionError{Entity: s.table.Entity(), Current: current, Action: action, Allowed: allowed}
}

func (s *Service) staleError(ctx context.Context, id string, action workflow.Action, allowed []workflow.State) error {
	fresh, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.blocked(fresh.Status, action, allowed)
}

func applyPatch(t *Topic, p Patch) {
	if p.TrainingName != nil {
		t.TrainingName = *p.TrainingName
	}
	if p.TrainerName != nil {
		t.TrainerName = *p.TrainerName
	}
	if p.CapabilityArea != nil {
		t.CapabilityArea = *p.CapabilityArea
	}
	if p.CapabilitySkill != nil {
		t.CapabilitySkill = *p.CapabilitySkill
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.ProposedScheduleDate != nil {
		t.ProposedScheduleDate = *p.ProposedScheduleDate
	}
	if p.ContentLink != nil {
		t.ContentLink = *p.ContentLink
	}
	if p.VideoLink != nil {
		t.VideoLink = *p.VideoLink
	}
	if p.AssessmentLink != nil {
		t.AssessmentLink = *p.AssessmentLink
	}
}

func normalize(t Topic) Topic {
	t.TrainingName = strings.TrimSpace(t.TrainingName)
	t.TrainerName = strings.TrimSpace(t.TrainerName)
	t.CapabilityArea = strings.TrimSpace(t.CapabilityArea)
	t.CapabilitySkill = strings.TrimSpace(t.CapabilitySkill)
	t.Type = strings.TrimSpace(t.Type)
	t.ContentLink = strings.TrimSpace(t.ContentLink)
	t.VideoLink = strings.TrimSpace(t.VideoLink)
	t.AssessmentLink = strings.TrimSpace(t.AssessmentLink)
	return t
}

func validate(t Topic) error {
	required := []struct {
		field string
		value string
	}{
		{"trainingName", t.TrainingName},
		{"trainerName", t.TrainerName},
		{"capabilityArea", t.CapabilityArea},
		{"capabilitySkill", t.CapabilitySkill},
		{"type", t.Type},
	}
	for _, r := range required {
		if r.value == "" {
			return apperr.Validation(r.field, "is required")
		}
	}
	if t.ProposedScheduleDate.IsZero() {
		return apperr.Validation("proposedScheduleDate", "is required")
	}
	return nil
}
