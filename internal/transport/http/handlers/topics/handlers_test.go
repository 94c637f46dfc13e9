package topichandler

import (
	"context"
	"net/http"
	"slices"
	"testing"
	"time"

	"trainhub/internal/domain/apperr"
	"trainhub/internal/domain/auth"
	"trainhub/internal/domain/notifications"
	"trainhub/internal/domain/topic"
	"trainhub/internal/domain/workflow"
	"trainhub/internal/transport/http/handlers/handlertest"
)

const (
	topicID   = "55555555-5555-5555-5555-555555555555"
	creatorID = "00000000-0000-0000-0000-0000000000cc"
)

type fakeService struct {
	table   *workflow.Table
	item    topic.Topic
	created topic.Topic
}

func newFake(status workflow.State) *fakeService {
	creator := creatorID
	return &fakeService{
		table: workflow.TopicTable(),
		item:  topic.Topic{ID: topicID, TrainingName: "Excel basics", Status: status, CreatedBy: &creator},
	}
}

func (f *fakeService) List(ctx context.Context, status string) ([]topic.Topic, error) {
	return []topic.Topic{f.item}, nil
}

func (f *fakeService) Get(ctx context.Context, id string) (topic.Topic, error) {
	if id != topicID {
		return topic.Topic{}, apperr.NotFound("training topic")
	}
	return f.item, nil
}

func (f *fakeService) Create(ctx context.Context, t topic.Topic, createdBy string) (topic.Topic, error) {
	t.ID = topicID
	t.Status = workflow.TopicDraft
	t.CreatedBy = &createdBy
	f.created = t
	return t, nil
}

func (f *fakeService) Update(ctx context.Context, id string, patch topic.Patch) (topic.Topic, error) {
	if patch.ProposedScheduleDate != nil {
		f.item.ProposedScheduleDate = *patch.ProposedScheduleDate
	}
	return f.Get(ctx, id)
}

func (f *fakeService) Delete(ctx context.Context, id string) error {
	_, err := f.Get(ctx, id)
	return err
}

func (f *fakeService) Act(ctx context.Context, id string, action workflow.Action, actor, remarks string) (topic.Topic, workflow.Transition, error) {
	current, err := f.Get(ctx, id)
	if err != nil {
		return topic.Topic{}, workflow.Transition{}, err
	}
	tr, err := f.table.Apply(current.Status, action, workflow.Input{Actor: actor, Fields: map[workflow.Field]string{workflow.FieldRemarks: remarks}})
	if err != nil {
		return topic.Topic{}, workflow.Transition{}, err
	}
	f.item.Status = tr.To
	f.item.ManagementRemark = remarks
	return f.item, tr, nil
}

type approvers []string

func (a approvers) UserIDsWithRole(ctx context.Context, roles ...string) ([]string, error) {
	return a, nil
}

func newRouter(svc *fakeService, role string, notifier *handlertest.Notifier, auditor *handlertest.Auditor) http.Handler {
	h := NewHandler(svc, auth.StaticPermissions{}, auditor, notifier, approvers{"mgr-1", "mgr-2"})
	return handlertest.Router(h, handlertest.As(role))
}

func TestCreateTopicParsesDate(t *testing.T) {
	svc := newFake(workflow.TopicDraft)
	r := newRouter(svc, auth.RoleTrainer, &handlertest.Notifier{}, &handlertest.Auditor{})

	body := `{"trainingName":"Excel","trainerName":"Asha","capabilityArea":"Tools","capabilitySkill":"Excel","type":"Technical","proposedScheduleDate":"2026-13-01"}`
	resp := handlertest.Do(t, r, http.MethodPost, "/training-topics/", body)
	if resp.Status != http.StatusBadRequest || resp.Code != "validation_error" {
		t.Fatalf("expected date validation error, got %d %s", resp.Status, resp.Code)
	}

	body = `{"trainingName":"Excel","trainerName":"Asha","capabilityArea":"Tools","capabilitySkill":"Excel","type":"Technical","proposedScheduleDate":"2026-11-02"}`
	resp = handlertest.Do(t, r, http.MethodPost, "/training-topics/", body)
	if resp.Status != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", resp.Status, resp.Error)
	}
	want := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)
	if !svc.created.ProposedScheduleDate.Equal(want) {
		t.Fatalf("expected %v, got %v", want, svc.created.ProposedScheduleDate)
	}
	if svc.created.CreatedBy == nil || *svc.created.CreatedBy != handlertest.As(auth.RoleTrainer).UserID {
		t.Fatalf("expected creator to be the caller, got %v", svc.created.CreatedBy)
	}
}

func TestSubmitNotifiesApprovers(t *testing.T) {
	svc := newFake(workflow.TopicDraft)
	notifier := &handlertest.Notifier{}
	auditor := &handlertest.Auditor{}
	r := newRouter(svc, auth.RoleTrainer, notifier, auditor)

	resp := handlertest.Do(t, r, http.MethodPost, "/training-topics/"+topicID+"/submit", "")
	if resp.Status != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", resp.Status, resp.Error)
	}
	var got topic.Topic
	resp.Decode(t, &got)
	if got.Status != workflow.TopicPendingApproval {
		t.Fatalf("expected pending approval, got %s", got.Status)
	}
	if len(notifier.Sent) != 2 || notifier.Sent[0].Type != notifications.TypeTopicSubmitted {
		t.Fatalf("expected both approvers notified, got %+v", notifier.Sent)
	}
	if !slices.Contains(auditor.Actions(), "training.topic.submit") {
		t.Fatalf("expected submit audit, got %v", auditor.Actions())
	}
}

func TestDecisionRoutes(t *testing.T) {
	cases := []struct {
		name   string
		role   string
		path   string
		body   string
		start  workflow.State
		status int
		code   string
		want   workflow.State
	}{
		{"approve", auth.RoleManagement, "/approve", "", workflow.TopicPendingApproval, http.StatusOK, "", workflow.TopicApproved},
		{"reject needs remarks", auth.RoleManagement, "/reject", `{}`, workflow.TopicPendingApproval, http.StatusBadRequest, "validation_error", workflow.TopicPendingApproval},
		{"send back", auth.RoleManagement, "/send-back", `{"remarks":"add agenda"}`, workflow.TopicPendingApproval, http.StatusOK, "", workflow.TopicSentBack},
		{"approve twice", auth.RoleManagement, "/approve", "", workflow.TopicApproved, http.StatusBadRequest, "invalid_transition", workflow.TopicApproved},
		{"hr cannot approve", auth.RoleHR, "/approve", "", workflow.TopicPendingApproval, http.StatusForbidden, "forbidden", workflow.TopicPendingApproval},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newFake(tc.start)
			notifier := &handlertest.Notifier{}
			r := newRouter(svc, tc.role, notifier, &handlertest.Auditor{})

			resp := handlertest.Do(t, r, http.MethodPost, "/training-topics/"+topicID+tc.path, tc.body)
			if resp.Status != tc.status {
				t.Fatalf("expected %d, got %d (%s)", tc.status, resp.Status, resp.Error)
			}
			if tc.code != "" && resp.Code != tc.code {
				t.Fatalf("expected code %s, got %s", tc.code, resp.Code)
			}
			if svc.item.Status != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, svc.item.Status)
			}
			if tc.status == http.StatusOK {
				if len(notifier.Sent) != 1 || notifier.Sent[0].UserID != creatorID || notifier.Sent[0].Type != notifications.TypeTopicDecided {
					t.Fatalf("expected creator notified, got %+v", notifier.Sent)
				}
			}
		})
	}
}

func TestTopicNotFound(t *testing.T) {
	r := newRouter(newFake(workflow.TopicDraft), auth.RoleTrainer, &handlertest.Notifier{}, &handlertest.Auditor{})
	for _, path := range []string{"/training-topics/not-a-uuid", "/training-topics/66666666-6666-6666-6666-666666666666"} {
		resp := handlertest.Do(t, r, http.MethodGet, path, "")
		if resp.Status != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, resp.Status)
		}
	}
}
