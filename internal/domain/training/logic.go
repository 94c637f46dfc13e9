package training

import (
	"fmt"
	"strings"
	"time"

	"trainhub/internal/domain/apperr"
	"trainhub/internal/domain/scoring"
)

// Quarter is the calendar quarter of t.
func Quarter(t time.Time) string {
	return fmt.Sprintf("Q%d", (int(t.Month())-1)/3+1)
}

// FinancialYear formats the April-to-March year containing t, e.g. FY2025-26.
func FinancialYear(t time.Time) string {
	start := t.Year()
	if t.Month() < time.April {
		start--
	}
	return fmt.Sprintf("FY%d-%02d", start, (start+1)%100)
}

// NormalizeType accepts any casing and spacing and defaults to Dept Specific.
func NormalizeType(raw string) string {
	key := strings.ToLower(strings.Join(strings.Fields(raw), ""))
	switch key {
	case "generic":
		return TypeGeneric
	case "levelspecific", "level":
		return TypeLevelSpecific
	case "multidept", "multidepartment":
		return TypeMultiDept
	default:
		return TypeDeptSpecific
	}
}

func normalizePriority(raw string) (string, error) {
	p := strings.ToUpper(strings.TrimSpace(raw))
	switch p {
	case "":
		return PriorityP3, nil
	case PriorityP1, PriorityP2, PriorityP3:
		return p, nil
	}
	return "", apperr.Validation("priority", "must be P1, P2 or P3")
}

func normalizeTrainerType(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "internal", "internal trainer":
		return TrainerInternal, nil
	case "external", "external consultant":
		return TrainerExternal, nil
	}
	return "", apperr.Validation("trainerType", "must be Internal Trainer or External Consultant")
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func normalizePhase1(p Phase1) (Phase1, error) {
	p.Departments = cleanList(p.Departments)
	p.Designation = strings.TrimSpace(p.Designation)
	p.Category = strings.TrimSpace(p.Category)
	p.TrainingType = NormalizeType(p.TrainingType)
	p.Capabilities = cleanList(p.Capabilities)
	p.TopicSuggestions = cleanList(p.TopicSuggestions)
	p.SelectedTopic = strings.TrimSpace(p.SelectedTopic)

	if p.Level != nil && !scoring.IsConfigurableLevel(*p.Level) {
		return Phase1{}, apperr.Validation("level", "must be 1, 2 or 3")
	}
	switch p.TrainingType {
	case TypeLevelSpecific:
		if p.Level == nil {
			return Phase1{}, apperr.Validation("level", "is required for Level Specific training")
		}
	case TypeMultiDept:
		if len(p.Departments) < 2 {
			return Phase1{}, apperr.Validation("departments", "must list at least two departments for Multi Dept training")
		}
	case TypeGeneric:
		p.Departments = []string{}
	}
	return p, nil
}

func validateScores(p Phase2) error {
	if p.RequiredScore != nil && !inScoreRange(*p.RequiredScore) {
		return apperr.Validation("requiredScore", "must be between 0 and 100")
	}
	for i, entry := range p.RequiredScoreMatrix {
		field := fmt.Sprintf("requiredScoreMatrix[%d]", i)
		if strings.TrimSpace(entry.Department) == "" {
			return apperr.Validation(field+".department", "is required")
		}
		if !scoring.IsConfigurableLevel(entry.Level) {
			return apperr.Validation(field+".level", "must be 1, 2 or 3")
		}
		if !inScoreRange(entry.RequiredScore) {
			return apperr.Validation(field+".requiredScore", "must be between 0 and 100")
		}
	}
	return nil
}

func inScoreRange(v float64) bool {
	return v >= scoring.MinScore && v <= scoring.MaxScore
}
