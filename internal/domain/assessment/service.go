package assessment

import (
	"context"
	"errors"
	"strings"

	"trainhub/internal/domain/apperr"
	"trainhub/internal/domain/capability"
	"trainhub/internal/domain/directory"
	"trainhub/internal/domain/scoring"
)

// Directory resolves the employee behind roleId and the head of a department.
type Directory interface {
	Employee(ctx context.Context, id string) (directory.Employee, error)
	DepartmentHead(ctx context.Context, department string) (string, error)
}

type Catalog interface {
	Get(ctx context.Context, id string) (capability.Capability, error)
}

type Service struct {
	store     StoreAPI
	directory Directory
	catalog   Catalog
}

func NewService(store StoreAPI, dir Directory, catalog Catalog) *Service {
	return &Service{store: store, directory: dir, catalog: catalog}
}

func (s *Service) List(ctx context.Context, filter Filter) ([]Assessment, error) {
	items, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range items {
		withGap(&items[i])
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id string) (Assessment, error) {
	a, err := s.store.Get(ctx, id)
	if err != nil {
		return Assessment{}, err
	}
	withGap(&a)
	return a, nil
}

// Latest returns the most recent assessment of an employee for a capability.
func (s *Service) Latest(ctx context.Context, capabilityID, employeeID string) (Assessment, error) {
	a, err := s.store.Latest(ctx, capabilityID, employeeID)
	if err != nil {
		return Assessment{}, err
	}
	withGap(&a)
	return a, nil
}

func (s *Service) Create(ctx context.Context, in Input) (Assessment, error) {
	a := Assessment{
		CapabilityID:               strings.TrimSpace(in.CapabilityID),
		RoleID:                     strings.TrimSpace(in.RoleID),
		DepartmentID:               strings.TrimSpace(in.DepartmentID),
		DepartmentHead:             strings.TrimSpace(in.DepartmentHead),
		ManagementLevel:            in.ManagementLevel,
		ScoreAchieved:              in.ScoreAchieved,
		Mandatory:                  in.Mandatory,
		AssessmentLink:             strings.TrimSpace(in.AssessmentLink),
		TrainingMandatoryAfterTest: in.TrainingMandatoryAfterTest,
	}
	if in.RequiredScore == nil {
		return Assessment{}, apperr.Validation("requiredScore", "is required")
	}
	if in.MaximumScore == nil {
		return Assessment{}, apperr.Validation("maximumScore", "is required")
	}
	a.RequiredScore = *in.RequiredScore
	a.MaximumScore = *in.MaximumScore

	if err := s.checkCapability(ctx, a.CapabilityID); err != nil {
		return Assessment{}, err
	}
	if err := s.deriveDepartment(ctx, &a); err != nil {
		return Assessment{}, err
	}
	if err := validate(a); err != nil {
		return Assessment{}, err
	}

	id, err := s.store.Create(ctx, a)
	if err != nil {
		return Assessment{}, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id string, patch Patch) (Assessment, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return Assessment{}, err
	}

	if patch.CapabilityID != nil {
		current.CapabilityID = strings.TrimSpace(*patch.CapabilityID)
		if err := s.checkCapability(ctx, current.CapabilityID); err != nil {
			return Assessment{}, err
		}
	}
	roleChanged := patch.RoleID != nil && strings.TrimSpace(*patch.RoleID) != current.RoleID
	if roleChanged {
		current.RoleID = strings.TrimSpace(*patch.RoleID)
		current.DepartmentID = ""
		current.DepartmentHead = ""
	}
	if patch.DepartmentID != nil {
		current.DepartmentID = strings.TrimSpace(*patch.DepartmentID)
		if !roleChanged && patch.DepartmentHead == nil {
			current.DepartmentHead = ""
		}
	}
	if patch.DepartmentHead != nil {
		current.DepartmentHead = strings.TrimSpace(*patch.DepartmentHead)
	}
	if roleChanged || patch.DepartmentID != nil {
		if err := s.deriveDepartment(ctx, &current); err != nil {
			return Assessment{}, err
		}
	}
	if patch.ManagementLevel != nil {
		current.ManagementLevel = patch.ManagementLevel
	}
	if patch.RequiredScore != nil {
		current.RequiredScore = *patch.RequiredScore
	}
	if patch.MaximumScore != nil {
		current.MaximumScore = *patch.MaximumScore
	}
	switch {
	case patch.ClearScore && patch.ScoreAchieved != nil:
		return Assessment{}, apperr.Validation("clearScore", "cannot be combined with scoreAchieved")
	case patch.ClearScore:
		current.ScoreAchieved = nil
	case patch.ScoreAchieved != nil:
		current.ScoreAchieved = patch.ScoreAchieved
	}
	if patch.Mandatory != nil {
		current.Mandatory = *patch.Mandatory
	}
	if patch.AssessmentLink != nil {
		current.AssessmentLink = strings.TrimSpace(*patch.AssessmentLink)
	}
	if patch.TrainingMandatoryAfterTest != nil {
		current.TrainingMandatoryAfterTest = *patch.TrainingMandatoryAfterTest
	}
	if err := validate(current); err != nil {
		return Assessment{}, err
	}
	if err := s.store.Update(ctx, current); err != nil {
		return Assessment{}, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

func (s *Service) checkCapability(ctx context.Context, id string) error {
	if id == "" {
		return apperr.Validation("capabilityId", "is required")
	}
	_, err := s.catalog.Get(ctx, id)
	return err
}

// deriveDepartment fills the department and its head from the employee
// behind roleId when the caller did not supply them.
func (s *Service) deriveDepartment(ctx context.Context, a *Assessment) error {
	if a.RoleID == "" {
		return apperr.Validation("roleId", "is required")
	}
	emp, err := s.directory.Employee(ctx, a.RoleID)
	if errors.Is(err, apperr.ErrNotFound) {
		return ErrInvalidEmployee
	}
	if err != nil {
		return err
	}
	if a.DepartmentID == "" {
		a.DepartmentID = emp.Department
	}
	if a.DepartmentID == "" {
		return apperr.Validation("departmentId", "is required")
	}
	if a.DepartmentHead == "" {
		head, err := s.directory.DepartmentHead(ctx, a.DepartmentID)
		if err != nil {
			return err
		}
		a.DepartmentHead = head
	}
	return nil
}

func validate(a Assessment) error {
	if a.RequiredScore < 0 {
		return apperr.Validation("requiredScore", "must be >= 0")
	}
	if a.MaximumScore < 0 {
		return apperr.Validation("maximumScore", "must be >= 0")
	}
	if a.RequiredScore > a.MaximumScore {
		return apperr.Validation("requiredScore", "must not exceed maximumScore")
	}
	if a.ScoreAchieved != nil && (*a.ScoreAchieved < 0 || *a.ScoreAchieved > a.MaximumScore) {
		return apperr.Validation("scoreAchieved", "must be between 0 and maximumScore")
	}
	if a.ManagementLevel != nil && (*a.ManagementLevel < MinManagementLevel || *a.ManagementLevel > MaxManagementLevel) {
		return apperr.Validation("managementLevel", "must be between 1 and 4")
	}
	return nil
}

func withGap(a *Assessment) {
	a.Gap = scoring.Gap(a.RequiredScore, a.ScoreAchieved)
}
