package evaluationhandler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"trainhub/internal/domain/apperr"
	"trainhub/internal/domain/auth"
	"trainhub/internal/domain/directory"
	"trainhub/internal/domain/evaluation"
	"trainhub/internal/transport/http/handlers/handlertest"
)

const (
	employeeID = "11111111-1111-1111-1111-111111111111"
	scheduleID = "66666666-6666-6666-6666-666666666666"
)

type fakeService struct {
	recorded    []evaluation.Input
	evaluatedBy string
}

func (f *fakeService) Record(ctx context.Context, in evaluation.Input, evaluatedBy string) (evaluation.Score, error) {
	f.recorded = append(f.recorded, in)
	f.evaluatedBy = evaluatedBy
	pct := evaluation.Percentage(*in.ScoreObtained, *in.MaxScore)
	status := evaluation.StatusFail
	if float64(pct) >= evaluation.PassMark {
		status = evaluation.StatusPass
	}
	return evaluation.Score{
		ID:            "99999999-9999-9999-9999-999999999999",
		EmployeeID:    in.EmployeeID,
		ScheduleID:    in.ScheduleID,
		ScoreObtained: *in.ScoreObtained,
		MaxScore:      *in.MaxScore,
		Percentage:    pct,
		Status:        status,
	}, nil
}

func (f *fakeService) Summary(ctx context.Context, id string) (evaluation.Summary, error) {
	if id != employeeID {
		return evaluation.Summary{}, apperr.NotFound("employee")
	}
	return evaluation.Summary{
		Employee:        directory.Employee{ID: employeeID, FullName: "Asha"},
		Trainings:       []evaluation.ScheduleSummary{{ScheduleID: scheduleID, AverageScore: 80}},
		AverageScore:    80,
		CompletionCount: 1,
	}, nil
}

func TestRecordScore(t *testing.T) {
	svc := &fakeService{}
	auditor := &handlertest.Auditor{}
	user := handlertest.As(auth.RoleTrainer)
	router := handlertest.Router(NewHandler(svc, auth.StaticPermissions{}, auditor), user)

	resp := handlertest.Do(t, router, http.MethodPost, "/employee-scores/",
		`{"employeeId":"`+employeeID+`","trainingScheduleId":"`+scheduleID+`","scoreObtained":8,"maxScore":0}`)
	if resp.Status != http.StatusBadRequest || !strings.Contains(string(resp.Details), "maxScore") {
		t.Fatalf("expected maxScore validation, got %d %s", resp.Status, resp.Details)
	}
	resp = handlertest.Do(t, router, http.MethodPost, "/employee-scores/",
		`{"employeeId":"`+employeeID+`","trainingScheduleId":"`+scheduleID+`","maxScore":10}`)
	if resp.Status != http.StatusBadRequest || !strings.Contains(string(resp.Details), "scoreObtained") {
		t.Fatalf("expected scoreObtained validation, got %d %s", resp.Status, resp.Details)
	}
	if len(svc.recorded) != 0 {
		t.Fatalf("invalid payloads must not reach the service")
	}

	resp = handlertest.Do(t, router, http.MethodPost, "/employee-scores/",
		`{"employeeId":"`+employeeID+`","trainingScheduleId":"`+scheduleID+`","scoreObtained":0,"maxScore":10,"status":"Pass"}`)
	if resp.Status != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Status)
	}
	var got evaluation.Score
	resp.Decode(t, &got)
	if got.Status != evaluation.StatusFail || got.Percentage != 0 {
		t.Fatalf("status must be derived from the score, got %+v", got)
	}
	if svc.evaluatedBy != user.UserID {
		t.Fatalf("expected evaluator %s, got %s", user.UserID, svc.evaluatedBy)
	}
	if actions := auditor.Actions(); len(actions) != 1 || actions[0] != "training.employee_score.create" {
		t.Fatalf("unexpected audit %v", actions)
	}
}

func TestScoreRoles(t *testing.T) {
	body := `{"employeeId":"` + employeeID + `","trainingScheduleId":"` + scheduleID + `","scoreObtained":8,"maxScore":10}`
	cases := []struct {
		role       string
		recordCode int
		readCode   int
	}{
		{role: auth.RoleEmployee, recordCode: http.StatusForbidden, readCode: http.StatusForbidden},
		{role: auth.RoleTrainer, recordCode: http.StatusCreated, readCode: http.StatusForbidden},
		{role: auth.RoleHR, recordCode: http.StatusCreated, readCode: http.StatusForbidden},
		{role: auth.RoleHeadOfDepartment, recordCode: http.StatusCreated, readCode: http.StatusForbidden},
		{role: auth.RoleManagement, recordCode: http.StatusForbidden, readCode: http.StatusOK},
		{role: auth.RoleAdmin, recordCode: http.StatusCreated, readCode: http.StatusOK},
	}
	for _, tc := range cases {
		router := handlertest.Router(NewHandler(&fakeService{}, auth.StaticPermissions{}, nil), handlertest.As(tc.role))
		if resp := handlertest.Do(t, router, http.MethodPost, "/employee-scores/", body); resp.Status != tc.recordCode {
			t.Fatalf("%s: expected %d on record, got %d", tc.role, tc.recordCode, resp.Status)
		}
		if resp := handlertest.Do(t, router, http.MethodGet, "/employee-scores/employee/"+employeeID, ""); resp.Status != tc.readCode {
			t.Fatalf("%s: expected %d on summary, got %d", tc.role, tc.readCode, resp.Status)
		}
	}
}

func TestEmployeeSummary(t *testing.T) {
	router := handlertest.Router(NewHandler(&fakeService{}, auth.StaticPermissions{}, nil), handlertest.As(auth.RoleManagement))

	resp := handlertest.Do(t, router, http.MethodGet, "/employee-scores/employee/"+employeeID, "")
	if resp.Status != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Status)
	}
	var got struct {
		Employee        directory.Employee `json:"employee"`
		Rows            []map[string]any   `json:"rows"`
		AverageScore    int                `json:"averageScore"`
		CompletionCount int                `json:"completionCount"`
	}
	resp.Decode(t, &got)
	if got.Employee.FullName != "Asha" || len(got.Rows) != 1 || got.AverageScore != 80 || got.CompletionCount != 1 {
		t.Fatalf("unexpected summary %+v", got)
	}

	resp = handlertest.Do(t, router, http.MethodGet, "/employee-scores/employee/22222222-2222-2222-2222-222222222222", "")
	if resp.Status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Status)
	}
	resp = handlertest.Do(t, router, http.MethodGet, "/employee-scores/employee/not-a-uuid", "")
	if resp.Status != http.StatusNotFound {
		t.Fatalf("expected 404 for malformed id, got %d", resp.Status)
	}
}
