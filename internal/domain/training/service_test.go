package training

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"trainhub/internal/domain/apperr"
	"trainhub/internal/domain/directory"
	"trainhub/internal/domain/scoring"
	"trainhub/internal/domain/workflow"
)

type memoryStore struct {
	items    map[string]Training
	feedback map[string][]FeedbackEntry
	seq      int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{items: map[string]Training{}, feedback: map[string][]FeedbackEntry{}}
}

func (m *memoryStore) List(ctx context.Context, status string, limit, offset int) ([]Training, int, error) {
	var out []Training
	for _, t := range m.items {
		if status == "" || string(t.WorkflowStatus) == status {
			out = append(out, t)
		}
	}
	return out, len(out), nil
}

func (m *memoryStore) Get(ctx context.Context, id string) (Training, error) {
	t, ok := m.items[id]
	if !ok {
		return Training{}, ErrNotFound
	}
	return t, nil
}

func (m *memoryStore) Create(ctx context.Context, t Training) (string, error) {
	m.seq++
	t.ID = fmt.Sprintf("trn-%d", m.seq)
	t.TrainingCode = fmt.Sprintf("TRN-%06d", m.seq)
	m.items[t.ID] = t
	return t.ID, nil
}

func (m *memoryStore) UpdatePhase1(ctx context.Context, t Training, expected workflow.State) (bool, error) {
	cur := m.items[t.ID]
	if cur.WorkflowStatus != expected {
		return false, nil
	}
	cur.Phase1 = t.Phase1
	m.items[t.ID] = cur
	return true, nil
}

func (m *memoryStore) UpdatePhase2(ctx context.Context, id string, p Phase2, expected workflow.State) (bool, error) {
	cur := m.items[id]
	if cur.WorkflowStatus != expected {
		return false, nil
	}
	cur.Phase2 = &p
	m.items[id] = cur
	return true, nil
}

func (m *memoryStore) Transition(ctx context.Context, id string, tr workflow.Transition, fields TransitionFields) (bool, error) {
	cur := m.items[id]
	if cur.WorkflowStatus != tr.From {
		return false, nil
	}
	cur.WorkflowStatus = tr.To
	switch tr.Action {
	case workflow.ActionApprove, workflow.ActionReject:
		cur.Approval.Status = ApprovalApproved
		if tr.Action == workflow.ActionReject {
			cur.Approval.Status = ApprovalRejected
		}
		actor, at := tr.Actor, tr.At
		cur.Approval.Remarks = tr.Remarks
		cur.Approval.ApprovedBy = &actor
		cur.Approval.ApprovedAt = &at
	}
	if fields.ScheduledDate != nil {
		cur.ScheduledDate = fields.ScheduledDate
		cur.Quarter = fields.Quarter
		cur.FinancialYear = fields.FinancialYear
	}
	m.items[id] = cur
	return true, nil
}

func (m *memoryStore) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memoryStore) AddFeedback(ctx context.Context, e FeedbackEntry) (FeedbackEntry, error) {
	e.ID = fmt.Sprintf("fb-%d", len(m.feedback[e.TrainingID])+1)
	m.feedback[e.TrainingID] = append(m.feedback[e.TrainingID], e)
	return e, nil
}

func (m *memoryStore) ListFeedback(ctx context.Context, trainingID string) ([]FeedbackEntry, error) {
	return m.feedback[trainingID], nil
}

type fakeDirectory map[string]directory.Employee

func (f fakeDirectory) Employee(ctx context.Context, id string) (directory.Employee, error) {
	e, ok := f[id]
	if !ok {
		return directory.Employee{}, directory.ErrEmployeeNotFound
	}
	return e, nil
}

type fakeLevels scoring.LevelTable

func (f fakeLevels) LevelTable(ctx context.Context) (scoring.LevelTable, error) {
	return scoring.LevelTable(f), nil
}

var fixedNow = time.Date(2025, 2, 10, 8, 0, 0, 0, time.UTC)

func newTestService() (*Service, *memoryStore) {
	store := newMemoryStore()
	dir := fakeDirectory{
		"e1": {ID: "e1", FullName: "Asha Rao", Department: "Engineering", Designation: "Lead", Level: 2},
		"e2": {ID: "e2", FullName: "Ben Ola", Department: "Finance", Level: 3},
	}
	svc := NewService(store, dir, fakeLevels{3: 85}).WithClock(func() time.Time { return fixedNow })
	return svc, store
}

func TestQuarterAndFinancialYear(t *testing.T) {
	tests := []struct {
		date    time.Time
		quarter string
		fy      string
	}{
		{time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), "Q1", "FY2024-25"},
		{time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), "Q1", "FY2024-25"},
		{time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), "Q2", "FY2025-26"},
		{time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), "Q4", "FY2025-26"},
		{time.Date(2099, 6, 1, 0, 0, 0, 0, time.UTC), "Q2", "FY2099-00"},
	}
	for _, tc := range tests {
		if got := Quarter(tc.date); got != tc.quarter {
			t.Fatalf("Quarter(%v) = %s, want %s", tc.date, got, tc.quarter)
		}
		if got := FinancialYear(tc.date); got != tc.fy {
			t.Fatalf("FinancialYear(%v) = %s, want %s", tc.date, got, tc.fy)
		}
	}
}

func TestCreateProposal(t *testing.T) {
	svc, _ := newTestService()
	got, err := svc.Create(context.Background(), Phase1{TrainingType: "dept specific", Departments: []string{" Engineering "}}, "u1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got.WorkflowStatus != workflow.TrainingProposed || got.Approval.Status != ApprovalPending {
		t.Fatalf("unexpected status %s / %s", got.WorkflowStatus, got.Approval.Status)
	}
	if got.Quarter != "Q1" || got.FinancialYear != "FY2024-25" || got.TrainingCode != "TRN-000001" {
		t.Fatalf("unexpected derived fields %+v", got)
	}
	if got.Phase1.TrainingType != TypeDeptSpecific || got.Phase1.Departments[0] != "Engineering" {
		t.Fatalf("unexpected phase1 %+v", got.Phase1)
	}
}

func TestCreateLevelSpecificNeedsLevel(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Create(context.Background(), Phase1{TrainingType: TypeLevelSpecific}, "u1")
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	bad := 4
	_, err = svc.Create(context.Background(), Phase1{TrainingType: TypeLevelSpecific, Level: &bad}, "u1")
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected level range error, got %v", err)
	}
}

func TestScheduleRequiresApproval(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	tr, _ := svc.Create(ctx, Phase1{TrainingType: TypeGeneric}, "u1")

	date := time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)
	_, _, err := svc.Schedule(ctx, tr.ID, "mgr", date)
	if err == nil || err.Error() != "cannot schedule training in state Proposed (requires Approved)" {
		t.Fatalf("unexpected error %v", err)
	}

	if _, _, err := svc.Approve(ctx, tr.ID, "mgr", "looks good"); err != nil {
		t.Fatalf("approve: %v", err)
	}
	scheduled, _, err := svc.Schedule(ctx, tr.ID, "mgr", date)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if scheduled.WorkflowStatus != workflow.TrainingScheduled || scheduled.Quarter != "Q2" || scheduled.FinancialYear != "FY2025-26" {
		t.Fatalf("unexpected scheduled training %+v", scheduled)
	}
}

func TestPatchWithScheduledDateLeavesProposalUntouched(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	tr, _ := svc.Create(ctx, Phase1{TrainingType: TypeGeneric, Category: "Soft skills"}, "u1")

	category := "Leadership"
	date := time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)
	_, err := svc.Patch(ctx, tr.ID, Phase1Patch{Category: &category, ScheduledDate: &date}, "mgr")
	if !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if store.items[tr.ID].Phase1.Category != "Soft skills" {
		t.Fatal("phase 1 must not change when scheduling fails")
	}
}

func TestRejectNeedsRemarksAndArchiveIsIdempotent(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	tr, _ := svc.Create(ctx, Phase1{TrainingType: TypeGeneric}, "u1")

	if _, _, err := svc.Reject(ctx, tr.ID, "mgr", " "); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected remarks validation, got %v", err)
	}
	rejected, _, err := svc.Reject(ctx, tr.ID, "mgr", "budget")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Approval.Status != ApprovalRejected || rejected.Approval.Remarks != "budget" {
		t.Fatalf("unexpected approval %+v", rejected.Approval)
	}
	if _, err := svc.UpdatePhase2(ctx, tr.ID, Phase2{}); !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Fatalf("expected phase 2 to be blocked, got %v", err)
	}
	if _, _, err := svc.Archive(ctx, tr.ID, "mgr"); err != nil {
		t.Fatalf("archive: %v", err)
	}
	again, transition, err := svc.Archive(ctx, tr.ID, "mgr")
	if err != nil {
		t.Fatalf("second archive: %v", err)
	}
	if !transition.Noop || again.WorkflowStatus != workflow.TrainingArchived {
		t.Fatalf("expected noop archive, got %+v", transition)
	}
}

func TestUpdatePhase2ResolvesTrainer(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	tr, _ := svc.Create(ctx, Phase1{TrainingType: TypeGeneric}, "u1")

	got, err := svc.UpdatePhase2(ctx, tr.ID, Phase2{
		TrainingTopic:   "Go",
		TrainerType:     "internal trainer",
		InternalTrainer: &InternalTrainer{EmployeeID: "e1"},
		ExternalTrainer: &ExternalTrainer{TrainerName: "ignored"},
	})
	if err != nil {
		t.Fatalf("phase2: %v", err)
	}
	p := got.Phase2
	if p.Priority != PriorityP3 || p.ExternalTrainer != nil {
		t.Fatalf("unexpected phase2 %+v", p)
	}
	if p.InternalTrainer.Name != "Asha Rao" || p.InternalTrainer.Department != "Engineering" || p.InternalTrainer.Designation != "Lead" {
		t.Fatalf("trainer not resolved: %+v", p.InternalTrainer)
	}

	_, err = svc.UpdatePhase2(ctx, tr.ID, Phase2{TrainerType: TrainerInternal, InternalTrainer: &InternalTrainer{EmployeeID: "ghost"}})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected unknown trainer validation, got %v", err)
	}
	_, err = svc.UpdatePhase2(ctx, tr.ID, Phase2{RequiredScoreMatrix: []scoring.MatrixEntry{{Department: "Eng", Level: 1, RequiredScore: 120}}})
	if err == nil || !strings.Contains(err.Error(), "requiredScoreMatrix[0].requiredScore") {
		t.Fatalf("expected matrix range error, got %v", err)
	}
}

func TestRequiredScoreResolution(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	tr, _ := svc.Create(ctx, Phase1{TrainingType: TypeGeneric}, "u1")

	res, err := svc.RequiredScore(ctx, tr.ID, "e2")
	if err != nil {
		t.Fatalf("required score: %v", err)
	}
	if res.RequiredScore != 85 || res.Source != scoring.SourceLevel {
		t.Fatalf("expected stored level score, got %+v", res)
	}

	flat := 60.0
	if _, err := svc.UpdatePhase2(ctx, tr.ID, Phase2{
		RequiredScore:       &flat,
		RequiredScoreMatrix: []scoring.MatrixEntry{{Department: "engineering", Level: 2, RequiredScore: 90}},
	}); err != nil {
		t.Fatalf("phase2: %v", err)
	}
	res, _ = svc.RequiredScore(ctx, tr.ID, "e1")
	if res.RequiredScore != 90 || res.Source != scoring.SourceMatrix {
		t.Fatalf("expected matrix hit, got %+v", res)
	}
	res, _ = svc.RequiredScore(ctx, tr.ID, "e2")
	if res.RequiredScore != 85 {
		t.Fatalf("matrix miss must fall back to the level score, got %+v", res)
	}
	if _, err := svc.RequiredScore(ctx, tr.ID, "ghost"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found employee, got %v", err)
	}
}

func TestAddFeedbackValidatesRating(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	tr, _ := svc.Create(ctx, Phase1{TrainingType: TypeGeneric}, "u1")

	if _, err := svc.AddFeedback(ctx, tr.ID, FeedbackEntry{Rating: 6}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected rating validation, got %v", err)
	}
	entry, err := svc.AddFeedback(ctx, tr.ID, FeedbackEntry{Rating: 4, Comments: " useful "})
	if err != nil {
		t.Fatalf("feedback: %v", err)
	}
	if entry.Participant != "Anonymous" || entry.Comments != "useful" {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if _, err := svc.AddFeedback(ctx, "missing", FeedbackEntry{Rating: 3}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
