package suggestion

import (
	"context"
	"errors"
	"strings"

	"trainhub/internal/domain/apperr"
	"trainhub/internal/domain/assessment"
	"trainhub/internal/domain/capability"
)

type Catalog interface {
	Get(ctx context.Context, id string) (capability.Capability, error)
}

// Assessments supplies the most recent score of an employee for a capability.
type Assessments interface {
	Latest(ctx context.Context, capabilityID, employeeID string) (assessment.Assessment, error)
}

type Service struct {
	store       StoreAPI
	catalog     Catalog
	assessments Assessments
}

func NewService(store StoreAPI, catalog Catalog, assessments Assessments) *Service {
	return &Service{store: store, catalog: catalog, assessments: assessments}
}

func (s *Service) List(ctx context.Context, capabilityID string) ([]Suggestion, error) {
	return s.store.List(ctx, strings.TrimSpace(capabilityID))
}

func (s *Service) Get(ctx context.Context, id string) (Suggestion, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (Suggestion, error) {
	item := Suggestion{
		CapabilityID:     strings.TrimSpace(in.CapabilityID),
		RoleIDs:          CleanList(in.RoleIDs),
		DepartmentIDs:    CleanList(in.DepartmentIDs),
		TrainingType:     NormalizeType(in.TrainingType),
		Level:            MinLevel,
		TopicSuggestions: CleanList(in.TopicSuggestions),
		SelectedTopics:   CleanList(in.SelectedTopics),
	}
	if item.CapabilityID == "" {
		return Suggestion{}, apperr.Validation("capabilityId", "is required")
	}
	if _, err := s.catalog.Get(ctx, item.CapabilityID); err != nil {
		return Suggestion{}, err
	}
	if in.Level != nil {
		item.Level = ClampLevel(*in.Level)
	}
	if err := validateScope(item.TrainingType, item.DepartmentIDs, in.Level); err != nil {
		return Suggestion{}, err
	}
	if by := strings.TrimSpace(in.SuggestedBy); by != "" {
		item.SuggestedBy = &by
	}
	if err := s.attachScore(ctx, &item); err != nil {
		return Suggestion{}, err
	}
	if in.Mandatory != nil {
		item.Mandatory = *in.Mandatory
	} else {
		item.Mandatory = item.Gap != nil && *item.Gap > 0
	}

	id, err := s.store.Create(ctx, item)
	if err != nil {
		return Suggestion{}, err
	}
	return s.store.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id string, patch Patch) (Suggestion, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return Suggestion{}, err
	}
	rescore := false
	if patch.CapabilityID != nil {
		current.CapabilityID = strings.TrimSpace(*patch.CapabilityID)
		if _, err := s.catalog.Get(ctx, current.CapabilityID); err != nil {
			return Suggestion{}, err
		}
		rescore = true
	}
	if patch.RoleIDs != nil {
		current.RoleIDs = CleanList(patch.RoleIDs)
		rescore = true
	}
	if patch.DepartmentIDs != nil {
		current.DepartmentIDs = CleanList(patch.DepartmentIDs)
	}
	if patch.TrainingType != nil {
		current.TrainingType = NormalizeType(*patch.TrainingType)
	}
	if patch.Level != nil {
		current.Level = ClampLevel(*patch.Level)
	}
	level := current.Level
	if err := validateScope(current.TrainingType, current.DepartmentIDs, &level); err != nil {
		return Suggestion{}, err
	}
	if patch.TopicSuggestions != nil {
		current.TopicSuggestions = CleanList(patch.TopicSuggestions)
	}
	if patch.SelectedTopics != nil {
		current.SelectedTopics = CleanList(patch.SelectedTopics)
	}
	if rescore {
		if err := s.attachScore(ctx, &current); err != nil {
			return Suggestion{}, err
		}
	}
	if patch.Mandatory != nil {
		current.Mandatory = *patch.Mandatory
	}
	if err := s.store.Update(ctx, current); err != nil {
		return Suggestion{}, err
	}
	return s.store.Get(ctx, id)
}

// AppendTopics never removes topics; entries already present are ignored.
func (s *Service) AppendTopics(ctx context.Context, id string, topics []string) (Suggestion, error) {
	topics = CleanList(topics)
	if len(topics) == 0 {
		return Suggestion{}, apperr.Validation("topics", "must contain at least one topic")
	}
	if err := s.store.AppendTopics(ctx, id, topics); err != nil {
		return Suggestion{}, err
	}
	return s.store.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

func (s *Service) attachScore(ctx context.Context, item *Suggestion) error {
	item.ScoreAchieved = nil
	item.Gap = nil
	if len(item.RoleIDs) == 0 {
		return nil
	}
	latest, err := s.assessments.Latest(ctx, item.CapabilityID, item.RoleIDs[0])
	if errors.Is(err, apperr.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	item.ScoreAchieved = latest.ScoreAchieved
	item.Gap = latest.Gap
	return nil
}
