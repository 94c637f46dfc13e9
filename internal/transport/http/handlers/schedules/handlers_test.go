package schedulehandler

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"testing"
	"time"

	"trainhub/internal/domain/apperr"
	"trainhub/internal/domain/auth"
	"trainhub/internal/domain/directory"
	"trainhub/internal/domain/feedback"
	"trainhub/internal/domain/notifications"
	"trainhub/internal/domain/schedule"
	"trainhub/internal/domain/workflow"
	"trainhub/internal/transport/http/handlers/handlertest"
)

const knownID = "99999999-9999-9999-9999-999999999999"

type fakeService struct {
	table   *workflow.Table
	item    schedule.Schedule
	created schedule.Input
	filter  schedule.Filter
}

func newFake(status workflow.State) *fakeService {
	return &fakeService{
		table: workflow.ScheduleTable(),
		item: schedule.Schedule{
			ID:             knownID,
			TrainingName:   "Excel basics",
			TrainingDate:   time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC),
			StartTime:      "10:00",
			EndTime:        "12:00",
			Venue:          "Room 4",
			TargetAudience: schedule.Audience{Type: schedule.AudienceDepartments, Departments: []string{"Finance"}},
			Status:         status,
		},
	}
}

func (f *fakeService) List(ctx context.Context, filter schedule.Filter) ([]schedule.Schedule, error) {
	f.filter = filter
	return []schedule.Schedule{f.item}, nil
}

func (f *fakeService) Pending(ctx context.Context) ([]schedule.Schedule, error) {
	return []schedule.Schedule{f.item}, nil
}

func (f *fakeService) Get(ctx context.Context, id string) (schedule.Schedule, error) {
	if id != knownID {
		return schedule.Schedule{}, apperr.NotFound("training schedule")
	}
	return f.item, nil
}

func (f *fakeService) Create(ctx context.Context, in schedule.Input, actor string) (schedule.Schedule, error) {
	if _, err := schedule.NormalizeAudience(in.TargetAudience); err != nil {
		return schedule.Schedule{}, err
	}
	f.created = in
	f.item.TrainingName = in.TrainingName
	f.item.TrainingDate = in.TrainingDate
	return f.item, nil
}

func (f *fakeService) Update(ctx context.Context, id string, patch schedule.Patch) (schedule.Schedule, error) {
	if patch.TrainingDate != nil {
		f.item.TrainingDate = *patch.TrainingDate
	}
	if patch.Venue != nil {
		f.item.Venue = *patch.Venue
	}
	return f.Get(ctx, id)
}

func (f *fakeService) SetStatus(ctx context.Context, id, target string, trainingDate *time.Time, remarks, actor string) (schedule.Schedule, workflow.Transition, error) {
	action, ok := workflow.ScheduleActionFor(workflow.State(target))
	if !ok {
		return schedule.Schedule{}, workflow.Transition{}, apperr.Validation("status", "must be Rescheduled, Completed or Cancelled")
	}
	in := workflow.Input{Actor: actor, Fields: map[workflow.Field]string{}}
	if trainingDate != nil {
		in.Fields[workflow.FieldTrainingDate] = trainingDate.Format("2006-01-02")
	}
	tr, err := f.table.Apply(f.item.Status, action, in)
	if err != nil {
		return schedule.Schedule{}, workflow.Transition{}, err
	}
	f.item.Status = tr.To
	if trainingDate != nil && action == workflow.ActionReschedule {
		f.item.TrainingDate = *trainingDate
	}
	return f.item, tr, nil
}

func (f *fakeService) Delete(ctx context.Context, id string) error {
	_, err := f.Get(ctx, id)
	return err
}

func (f *fakeService) Audience(ctx context.Context, id string) ([]directory.Employee, error) {
	return []directory.Employee{{ID: "e1", FullName: "Asha", Department: "Finance"}}, nil
}

func (f *fakeService) RecipientUserIDs(ctx context.Context, id string) ([]string, error) {
	return []string{"u1", "u2"}, nil
}

type fakeFeedback struct {
	submitted map[string]bool
	closed    bool
}

func (f *fakeFeedback) CanSubmit(ctx context.Context, scheduleID, employeeID string) (feedback.Eligibility, error) {
	return feedback.Eligibility{CanSubmit: !f.closed && !f.submitted[employeeID], AlreadySubmitted: f.submitted[employeeID]}, nil
}

func (f *fakeFeedback) Submit(ctx context.Context, scheduleID, employeeID string, rating int, comments string) (feedback.Feedback, error) {
	if f.closed {
		return feedback.Feedback{}, feedback.ErrClosed
	}
	if f.submitted[employeeID] {
		return feedback.Feedback{}, apperr.ErrDuplicateFeedback
	}
	f.submitted[employeeID] = true
	return feedback.Feedback{ID: "f1", ScheduleID: scheduleID, EmployeeID: employeeID, Rating: rating}, nil
}

func (f *fakeFeedback) List(ctx context.Context, scheduleID string) (feedback.Summary, error) {
	return feedback.Summary{Count: len(f.submitted)}, nil
}

type broadcaster struct {
	types []string
}

func (b *broadcaster) Broadcast(ctx context.Context, userIDs []string, ntype, title, body string) int {
	b.types = append(b.types, ntype)
	return len(userIDs)
}

type queue struct {
	feedbackOpen []string
}

func (q *queue) EnqueueFeedbackOpen(scheduleID string) {
	q.feedbackOpen = append(q.feedbackOpen, scheduleID)
}

type fixture struct {
	svc      *fakeService
	feedback *fakeFeedback
	notify   *broadcaster
	jobs     *queue
	auditor  *handlertest.Auditor
}

func newFixture(status workflow.State) *fixture {
	return &fixture{
		svc:      newFake(status),
		feedback: &fakeFeedback{submitted: map[string]bool{}},
		notify:   &broadcaster{},
		jobs:     &queue{},
		auditor:  &handlertest.Auditor{},
	}
}

func (f *fixture) router(user *auth.UserContext) http.Handler {
	return handlertest.Router(NewHandler(f.svc, f.feedback, auth.StaticPermissions{}, f.auditor, f.notify, f.jobs), user)
}

func TestCreateSchedule(t *testing.T) {
	f := newFixture(workflow.ScheduleScheduled)
	r := f.router(handlertest.As(auth.RoleHR))

	body := `{"trainingName":"Excel","trainingDate":"2026-11-02","startTime":"10:00","endTime":"12:00","venue":"Room 4","targetAudience":{"type":"departments","departments":[]}}`
	resp := handlertest.Do(t, r, http.MethodPost, "/training-schedules/", body)
	if resp.Status != http.StatusBadRequest || resp.Code != "validation_error" {
		t.Fatalf("expected empty audience rejected, got %d %s", resp.Status, resp.Code)
	}

	body = `{"trainingName":"Excel","trainingDate":"2026-11-02","startTime":"10am","endTime":"12:00","venue":"Room 4","targetAudience":{"type":"all"}}`
	resp = handlertest.Do(t, r, http.MethodPost, "/training-schedules/", body)
	if resp.Status != http.StatusBadRequest || resp.Code != "validation_error" {
		t.Fatalf("expected malformed start time rejected, got %d %s", resp.Status, resp.Code)
	}

	body = `{"trainingName":"Excel","trainingDate":"2026-11-02","startTime":"10:00","endTime":"12:00","venue":"Room 4","targetAudience":{"type":"all"},"maxAttempts":1}`
	resp = handlertest.Do(t, r, http.MethodPost, "/training-schedules/", body)
	if resp.Status != http.StatusBadRequest || resp.Code != "validation_error" || !strings.Contains(string(resp.Details), "maxAttempts") {
		t.Fatalf("expected maxAttempts other than 2 rejected, got %d %s %s", resp.Status, resp.Code, resp.Details)
	}

	body = `{"trainingName":"Excel","trainingDate":"2026-11-02","startTime":"10:00","endTime":"12:00","venue":"Room 4","targetAudience":{"type":"levels","levels":[2,3]}}`
	resp = handlertest.Do(t, r, http.MethodPost, "/training-schedules/", body)
	if resp.Status != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", resp.Status, resp.Error)
	}
	if !slices.Equal(f.svc.created.TargetAudience.Levels, []int{2, 3}) {
		t.Fatalf("unexpected audience %+v", f.svc.created.TargetAudience)
	}
	if !slices.Equal(f.notify.types, []string{notifications.TypeTrainingScheduled}) {
		t.Fatalf("expected scheduled notice, got %v", f.notify.types)
	}
}

func TestListPassesFilter(t *testing.T) {
	f := newFixture(workflow.ScheduleScheduled)
	resp := handlertest.Do(t, f.router(handlertest.As(auth.RoleHR)), http.MethodGet, "/training-schedules/?trainer=Asha&status=Scheduled&employeeId=e1", "")
	if resp.Status != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Status)
	}
	want := schedule.Filter{Trainer: "Asha", Status: "Scheduled", EmployeeID: "e1"}
	if f.svc.filter != want {
		t.Fatalf("expected %+v, got %+v", want, f.svc.filter)
	}
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		name     string
		start    workflow.State
		body     string
		status   int
		code     string
		notified []string
		enqueued int
	}{
		{"reschedule", workflow.ScheduleScheduled, `{"status":"Rescheduled","trainingDate":"2026-11-09"}`, http.StatusOK, "", []string{notifications.TypeScheduleChanged}, 0},
		{"reschedule needs date", workflow.ScheduleScheduled, `{"status":"Rescheduled"}`, http.StatusBadRequest, "validation_error", nil, 0},
		{"complete", workflow.ScheduleRescheduled, `{"status":"Completed"}`, http.StatusOK, "", nil, 1},
		{"cancel", workflow.ScheduleScheduled, `{"status":"Cancelled"}`, http.StatusOK, "", []string{notifications.TypeScheduleChanged}, 0},
		{"complete after cancel", workflow.ScheduleCancelled, `{"status":"Completed"}`, http.StatusBadRequest, "invalid_transition", nil, 0},
		{"unknown target", workflow.ScheduleScheduled, `{"status":"Scheduled"}`, http.StatusBadRequest, "validation_error", nil, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(tc.start)
			resp := handlertest.Do(t, f.router(handlertest.As(auth.RoleHR)), http.MethodPost, "/training-schedules/"+knownID+"/status", tc.body)
			if resp.Status != tc.status {
				t.Fatalf("expected %d, got %d (%s)", tc.status, resp.Status, resp.Error)
			}
			if tc.code != "" && resp.Code != tc.code {
				t.Fatalf("expected code %s, got %s", tc.code, resp.Code)
			}
			if !slices.Equal(f.notify.types, tc.notified) {
				t.Fatalf("expected notices %v, got %v", tc.notified, f.notify.types)
			}
			if len(f.jobs.feedbackOpen) != tc.enqueued {
				t.Fatalf("expected %d feedback jobs, got %v", tc.enqueued, f.jobs.feedbackOpen)
			}
		})
	}
}

func TestUpdateNotifiesOnlyWhenMoved(t *testing.T) {
	f := newFixture(workflow.ScheduleScheduled)
	r := f.router(handlertest.As(auth.RoleHR))

	resp := handlertest.Do(t, r, http.MethodPatch, "/training-schedules/"+knownID, `{"trainingName":"Excel basics"}`)
	if resp.Status != http.StatusOK || len(f.notify.types) != 0 {
		t.Fatalf("expected silent update, got %d %v", resp.Status, f.notify.types)
	}
	resp = handlertest.Do(t, r, http.MethodPatch, "/training-schedules/"+knownID, `{"venue":"Room 9"}`)
	if resp.Status != http.StatusOK || len(f.notify.types) != 1 {
		t.Fatalf("expected change notice, got %d %v", resp.Status, f.notify.types)
	}
}

func TestFeedbackSubmission(t *testing.T) {
	f := newFixture(workflow.ScheduleCompleted)
	employee := handlertest.As(auth.RoleEmployee)
	employee.EmployeeID = "e1"
	r := f.router(employee)
	path := "/training-schedules/" + knownID + "/feedback"

	resp := handlertest.Do(t, r, http.MethodPost, path, `{"employeeId":"e2","rating":4}`)
	if resp.Status != http.StatusForbidden {
		t.Fatalf("expected 403 for another employee, got %d", resp.Status)
	}

	resp = handlertest.Do(t, r, http.MethodPost, path, `{"rating":4,"comments":"good"}`)
	if resp.Status != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", resp.Status, resp.Error)
	}

	resp = handlertest.Do(t, r, http.MethodPost, path, `{"rating":5}`)
	if resp.Status != http.StatusBadRequest || resp.Code != "duplicate_feedback" {
		t.Fatalf("expected duplicate, got %d %s", resp.Status, resp.Code)
	}

	resp = handlertest.Do(t, r, http.MethodGet, path+"/can-submit", "")
	var got feedback.Eligibility
	resp.Decode(t, &got)
	if got.CanSubmit || !got.AlreadySubmitted {
		t.Fatalf("unexpected eligibility %+v", got)
	}
}

func TestFeedbackWindowClosed(t *testing.T) {
	f := newFixture(workflow.ScheduleCompleted)
	f.feedback.closed = true
	resp := handlertest.Do(t, f.router(handlertest.As(auth.RoleHR)), http.MethodPost, "/training-schedules/"+knownID+"/feedback", `{"employeeId":"e1","rating":3}`)
	if resp.Status != http.StatusForbidden || resp.Code != "feedback_window_closed" {
		t.Fatalf("expected window closed, got %d %s", resp.Status, resp.Code)
	}
}

func TestAudienceRoute(t *testing.T) {
	f := newFixture(workflow.ScheduleScheduled)
	resp := handlertest.Do(t, f.router(handlertest.As(auth.RoleHR)), http.MethodGet, "/training-schedules/"+knownID+"/audience", "")
	var members []directory.Employee
	resp.Decode(t, &members)
	if len(members) != 1 || members[0].ID != "e1" {
		t.Fatalf("unexpected audience %+v", members)
	}

	resp = handlertest.Do(t, f.router(handlertest.As(auth.RoleTrainer)), http.MethodGet, "/training-schedules/"+knownID+"/audience", "")
	if resp.Status != http.StatusForbidden {
		t.Fatalf("expected trainer forbidden, got %d", resp.Status)
	}
}
