package evaluation

import (
	"context"
	"math"
	"strings"

	"trainhub/internal/domain/capability"
	"trainhub/internal/domain/directory"
	"trainhub/internal/domain/schedule"
	"trainhub/internal/domain/scoring"
	"trainhub/internal/domain/workflow"
)

// PassMark is the percentage at or above which an evaluation passes.
const PassMark = scoring.DefaultRequiredScore

type Schedules interface {
	Get(ctx context.Context, id string) (schedule.Schedule, error)
}

type Directory interface {
	Employee(ctx context.Context, id string) (directory.Employee, error)
}

type Catalog interface {
	Get(ctx context.Context, id string) (capability.Capability, error)
}

type Service struct {
	store     StoreAPI
	schedules Schedules
	directory Directory
	catalog   Catalog
}

func NewService(store StoreAPI, schedules Schedules, dir Directory, catalog Catalog) *Service {
	return &Service{store: store, schedules: schedules, directory: dir, catalog: catalog}
}

// Record stores one evaluation. Percentage and status are always derived
// from the scores; callers cannot override them.
func (s *Service) Record(ctx context.Context, in Input, evaluatedBy string) (Score, error) {
	sc := Score{
		EmployeeID: strings.TrimSpace(in.EmployeeID),
		ScheduleID: strings.TrimSpace(in.ScheduleID),
	}
	if sc.EmployeeID == "" {
		return Score{}, ErrEmployeeRequired
	}
	if sc.ScheduleID == "" {
		return Score{}, ErrScheduleRequired
	}
	if in.ScoreObtained == nil {
		return Score{}, ErrScoreRequired
	}
	if in.MaxScore == nil || *in.MaxScore <= 0 {
		return Score{}, ErrMaxScoreRequired
	}
	if *in.ScoreObtained < 0 || *in.ScoreObtained > *in.MaxScore {
		return Score{}, ErrScoreOutOfRange
	}
	sc.ScoreObtained = *in.ScoreObtained
	sc.MaxScore = *in.MaxScore
	sc.Percentage = Percentage(sc.ScoreObtained, sc.MaxScore)
	sc.Status = StatusFail
	if float64(sc.Percentage) >= PassMark {
		sc.Status = StatusPass
	}
	if by := strings.TrimSpace(evaluatedBy); by != "" {
		sc.EvaluatedBy = &by
	}

	if _, err := s.directory.Employee(ctx, sc.EmployeeID); err != nil {
		return Score{}, err
	}
	sched, err := s.schedules.Get(ctx, sc.ScheduleID)
	if err != nil {
		return Score{}, err
	}
	if sched.Status == workflow.ScheduleCancelled {
		return Score{}, ErrCancelledSchedule
	}
	if in.CapabilityID != nil {
		if id := strings.TrimSpace(*in.CapabilityID); id != "" {
			if _, err := s.catalog.Get(ctx, id); err != nil {
				return Score{}, err
			}
			sc.CapabilityID = &id
		}
	}

	id, err := s.store.Insert(ctx, sc)
	if err != nil {
		return Score{}, err
	}
	return s.store.Get(ctx, id)
}

// Summary groups an employee's evaluations by schedule, most recently evaluated first.
func (s *Service) Summary(ctx context.Context, employeeID string) (Summary, error) {
	emp, err := s.directory.Employee(ctx, strings.TrimSpace(employeeID))
	if err != nil {
		return Summary{}, err
	}
	scores, err := s.store.ListByEmployee(ctx, emp.ID)
	if err != nil {
		return Summary{}, err
	}

	out := Summary{Employee: emp, Trainings: []ScheduleSummary{}}
	index := map[string]int{}
	sums := map[string][2]float64{}
	var total, totalMax float64
	for _, sc := range scores {
		i, ok := index[sc.ScheduleID]
		if !ok {
			i = len(out.Trainings)
			index[sc.ScheduleID] = i
			out.Trainings = append(out.Trainings, ScheduleSummary{
				ScheduleID:   sc.ScheduleID,
				TrainingName: sc.TrainingName,
				TrainingDate: sc.TrainingDate,
			})
		}
		out.Trainings[i].Scores = append(out.Trainings[i].Scores, sc)
		sum := sums[sc.ScheduleID]
		sums[sc.ScheduleID] = [2]float64{sum[0] + sc.ScoreObtained, sum[1] + sc.MaxScore}
		total += sc.ScoreObtained
		totalMax += sc.MaxScore
	}
	for i := range out.Trainings {
		sum := sums[out.Trainings[i].ScheduleID]
		out.Trainings[i].AverageScore = Percentage(sum[0], sum[1])
	}
	out.AverageScore = Percentage(total, totalMax)
	out.CompletionCount = len(scores)
	return out, nil
}

// Percentage rounds half away from zero and is 0 when maxScore is not positive.
func Percentage(score, maxScore float64) int {
	if maxScore <= 0 {
		return 0
	}
	return int(math.Round(score / maxScore * 100))
}
