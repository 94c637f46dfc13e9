package directory

import (
	"context"
	"errors"
	"strings"

	"trainhub/internal/domain/apperr"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) ListEmployees(ctx context.Context, filter EmployeeFilter) ([]Employee, int, error) {
	return s.store.ListEmployees(ctx, filter)
}

func (s *Service) AllEmployees(ctx context.Context) ([]Employee, error) {
	return s.store.AllEmployees(ctx)
}

func (s *Service) Employee(ctx context.Context, id string) (Employee, error) {
	return s.store.GetEmployee(ctx, strings.TrimSpace(id))
}

func (s *Service) CreateEmployee(ctx context.Context, e Employee) (Employee, error) {
	e = normalizeEmployee(e)
	if err := validateEmployee(e); err != nil {
		return Employee{}, err
	}
	return s.store.CreateEmployee(ctx, e)
}

func (s *Service) UpdateEmployee(ctx context.Context, id string, patch EmployeePatch) (Employee, error) {
	current, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		return Employee{}, err
	}
	if patch.EmployeeCode != nil {
		current.EmployeeCode = *patch.EmployeeCode
	}
	if patch.FullName != nil {
		current.FullName = *patch.FullName
	}
	if patch.OfficialEmail != nil {
		current.OfficialEmail = *patch.OfficialEmail
	}
	if patch.Department != nil {
		current.Department = *patch.Department
	}
	if patch.Designation != nil {
		current.Designation = *patch.Designation
	}
	if patch.Level != nil {
		current.Level = *patch.Level
	}
	current = normalizeEmployee(current)
	if err := validateEmployee(current); err != nil {
		return Employee{}, err
	}
	return s.store.UpdateEmployee(ctx, current)
}

func (s *Service) LinkedUserIDs(ctx context.Context, employeeIDs []string) ([]string, error) {
	return s.store.LinkedUserIDs(ctx, employeeIDs)
}

func (s *Service) ListDepartments(ctx context.Context) ([]Department, error) {
	return s.store.ListDepartments(ctx)
}

func (s *Service) Department(ctx context.Context, id string) (Department, error) {
	return s.store.GetDepartment(ctx, id)
}

func (s *Service) DepartmentByName(ctx context.Context, name string) (Department, error) {
	return s.store.DepartmentByName(ctx, strings.TrimSpace(name))
}

// DepartmentHead returns the head contact for a department, or "" when unknown.
func (s *Service) DepartmentHead(ctx context.Context, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", nil
	}
	d, err := s.DepartmentByName(ctx, name)
	if errors.Is(err, ErrDepartmentNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return d.HeadEmail, nil
}

func (s *Service) CreateDepartment(ctx context.Context, d Department) (Department, error) {
	d = normalizeDepartment(d)
	if d.Name == "" {
		return Department{}, apperr.Validation("name", "is required")
	}
	return s.store.CreateDepartment(ctx, d)
}

func (s *Service) UpdateDepartment(ctx context.Context, id string, patch DepartmentPatch) (Department, error) {
	current, err := s.store.GetDepartment(ctx, id)
	if err != nil {
		return Department{}, err
	}
	if patch.Name != nil {
		current.Name = *patch.Name
	}
	if patch.HeadEmail != nil {
		current.HeadEmail = *patch.HeadEmail
	}
	if patch.GroupEmail != nil {
		current.GroupEmail = *patch.GroupEmail
	}
	if patch.ParentName != nil {
		current.ParentName = *patch.ParentName
	}
	current = normalizeDepartment(current)
	if current.Name == "" {
		return Department{}, apperr.Validation("name", "is required")
	}
	return s.store.UpdateDepartment(ctx, current)
}

func normalizeEmployee(e Employee) Employee {
	e.EmployeeCode = strings.TrimSpace(e.EmployeeCode)
	e.FullName = strings.TrimSpace(e.FullName)
	e.OfficialEmail = strings.ToLower(strings.TrimSpace(e.OfficialEmail))
	e.Department = strings.TrimSpace(e.Department)
	e.Designation = strings.TrimSpace(e.Designation)
	if e.Level == 0 {
		e.Level = MinLevel
	}
	return e
}

func validateEmployee(e Employee) error {
	switch {
	case e.EmployeeCode == "":
		return apperr.Validation("employeeCode", "is required")
	case e.FullName == "":
		return apperr.Validation("fullName", "is required")
	case e.Department == "":
		return apperr.Validation("department", "is required")
	case e.Level < MinLevel || e.Level > MaxLevel:
		return apperr.Validation("level", "must be between 1 and 4")
	}
	return nil
}

func normalizeDepartment(d Department) Department {
	d.Name = strings.TrimSpace(d.Name)
	d.HeadEmail = strings.ToLower(strings.TrimSpace(d.HeadEmail))
	d.GroupEmail = strings.ToLower(strings.TrimSpace(d.GroupEmail))
	d.ParentName = strings.TrimSpace(d.ParentName)
	return d
}
