package suggestion

import (
	"strings"

	"trainhub/internal/domain/apperr"
)

// NormalizeType matches case-insensitively and falls back to Department.
func NormalizeType(raw string) string {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(raw), " ", ""))
	switch key {
	case "generic":
		return TypeGeneric
	case "level":
		return TypeLevel
	case "multidept":
		return TypeMultiDept
	default:
		return TypeDepartment
	}
}

func ClampLevel(level int) int {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// CleanList trims entries and drops blanks and repeats.
func CleanList(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

func validateScope(trainingType string, departments []string, level *int) error {
	switch trainingType {
	case TypeDepartment:
		if len(departments) != 1 {
			return apperr.Validation("departmentIds", "must contain exactly one department for Department training")
		}
	case TypeMultiDept:
		if len(departments) < 2 {
			return apperr.Validation("departmentIds", "must contain at least two departments for MultiDept training")
		}
	case TypeLevel:
		if level == nil {
			return apperr.Validation("level", "is required for Level training")
		}
	}
	return nil
}
