package schedule

import (
	"slices"
	"strings"

	"trainhub/internal/domain/apperr"
	"trainhub/internal/domain/directory"
)

const (
	AudienceAll         = "all"
	AudienceDepartments = "departments"
	AudienceLevels      = "levels"
	AudienceRoles       = "roles"
)

// Audience selects the employees a schedule targets. Roles holds employee ids.
type Audience struct {
	Type        string   `json:"type"`
	Departments []string `json:"departments"`
	Levels      []int    `json:"levels"`
	Roles       []string `json:"roles"`
}

func NormalizeAudience(a Audience) (Audience, error) {
	out := Audience{
		Type:        strings.ToLower(strings.TrimSpace(a.Type)),
		Departments: []string{},
		Levels:      []int{},
		Roles:       []string{},
	}
	for _, d := range a.Departments {
		if d = strings.TrimSpace(d); d != "" {
			out.Departments = append(out.Departments, d)
		}
	}
	for _, l := range a.Levels {
		if l < directory.MinLevel || l > directory.MaxLevel {
			return Audience{}, apperr.Validation("targetAudience.levels", "must be between 1 and 4")
		}
		out.Levels = append(out.Levels, l)
	}
	for _, r := range a.Roles {
		if r = strings.TrimSpace(r); r != "" {
			out.Roles = append(out.Roles, r)
		}
	}

	switch out.Type {
	case AudienceAll:
	case AudienceDepartments:
		if len(out.Departments) == 0 {
			return Audience{}, apperr.Validation("targetAudience.departments", "must not be empty")
		}
	case AudienceLevels:
		if len(out.Levels) == 0 {
			return Audience{}, apperr.Validation("targetAudience.levels", "must not be empty")
		}
	case AudienceRoles:
		if len(out.Roles) == 0 {
			return Audience{}, apperr.Validation("targetAudience.roles", "must not be empty")
		}
	case "":
		return Audience{}, apperr.Validation("targetAudience.type", "is required")
	default:
		return Audience{}, apperr.Validation("targetAudience.type", "must be all, departments, levels or roles")
	}
	return out, nil
}

// Includes reports whether e falls within the audience.
func (a Audience) Includes(e directory.Employee) bool {
	switch a.Type {
	case AudienceAll:
		return true
	case AudienceDepartments:
		return slices.ContainsFunc(a.Departments, func(d string) bool {
			return strings.EqualFold(d, strings.TrimSpace(e.Department))
		})
	case AudienceLevels:
		return slices.Contains(a.Levels, e.Level)
	case AudienceRoles:
		return slices.Contains(a.Roles, e.ID)
	}
	return false
}

// Resolve filters employees down to the audience, preserving order.
func (a Audience) Resolve(employees []directory.Employee) []directory.Employee {
	out := make([]directory.Employee, 0, len(employees))
	for _, e := range employees {
		if a.Includes(e) {
			out = append(out, e)
		}
	}
	return out
}
