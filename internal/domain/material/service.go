package material

import (
	"context"
	"strings"

	"trainhub/internal/domain/assessment"
	"trainhub/internal/domain/schedule"
	"trainhub/internal/domain/workflow"
)

type Schedules interface {
	Get(ctx context.Context, id string) (schedule.Schedule, error)
}

// Assessments resolves the capability assessment a material points learners to.
type Assessments interface {
	Get(ctx context.Context, id string) (assessment.Assessment, error)
}

type Service struct {
	store       StoreAPI
	schedules   Schedules
	assessments Assessments
}

func NewService(store StoreAPI, schedules Schedules, assessments Assessments) *Service {
	return &Service{store: store, schedules: schedules, assessments: assessments}
}

func (s *Service) List(ctx context.Context, filter Filter) ([]Material, error) {
	filter.ScheduleID = strings.TrimSpace(filter.ScheduleID)
	return s.store.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id string) (Material, error) {
	return s.store.Get(ctx, id)
}

// Create attaches a material to a schedule on behalf of uploadedBy.
func (s *Service) Create(ctx context.Context, m Material, uploadedBy string) (Material, error) {
	m.ScheduleID = strings.TrimSpace(m.ScheduleID)
	m.ContentFile = strings.TrimSpace(m.ContentFile)
	m.VideoURL = strings.TrimSpace(m.VideoURL)
	m.AssessmentID = trimmed(m.AssessmentID)
	m.UploadedBy = trimmed(&uploadedBy)
	if m.ScheduleID == "" {
		return Material{}, ErrScheduleRequired
	}
	if err := s.check(ctx, m); err != nil {
		return Material{}, err
	}
	sched, err := s.schedules.Get(ctx, m.ScheduleID)
	if err != nil {
		return Material{}, err
	}
	if sched.Status == workflow.ScheduleCancelled {
		return Material{}, ErrCancelledSchedule
	}
	id, err := s.store.Create(ctx, m)
	if err != nil {
		return Material{}, err
	}
	return s.store.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id string, patch Patch) (Material, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return Material{}, err
	}
	if patch.ContentFile != nil {
		current.ContentFile = strings.TrimSpace(*patch.ContentFile)
	}
	if patch.VideoURL != nil {
		current.VideoURL = strings.TrimSpace(*patch.VideoURL)
	}
	if patch.AssessmentID != nil {
		current.AssessmentID = trimmed(patch.AssessmentID)
	}
	if err := s.check(ctx, current); err != nil {
		return Material{}, err
	}
	if err := s.store.Update(ctx, current); err != nil {
		return Material{}, err
	}
	return s.store.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

func (s *Service) check(ctx context.Context, m Material) error {
	if m.ContentFile == "" && m.VideoURL == "" {
		return ErrContentRequired
	}
	if m.AssessmentID != nil {
		if _, err := s.assessments.Get(ctx, *m.AssessmentID); err != nil {
			return err
		}
	}
	return nil
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	out := strings.TrimSpace(*v)
	if out == "" {
		return nil
	}
	return &out
}
