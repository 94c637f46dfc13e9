package notifications

import (
	"context"
	"errors"
	"testing"
)

type memoryStore struct {
	created []string
	emails  map[string]string
}

func (m *memoryStore) CreateNotification(ctx context.Context, userID, ntype, title, body string) error {
	if userID == "broken" {
		return errors.New("insert failed")
	}
	m.created = append(m.created, userID+":"+ntype)
	return nil
}

func (m *memoryStore) UserEmail(ctx context.Context, userID string) (string, error) {
	return m.emails[userID], nil
}

func (m *memoryStore) ListNotifications(ctx context.Context, userID string, filter Filter, limit, offset int) ([]Notification, error) {
	return nil, nil
}

func (m *memoryStore) CountNotifications(ctx context.Context, userID string, filter Filter) (int, error) {
	return len(m.created), nil
}

func (m *memoryStore) MarkRead(ctx context.Context, userID, notificationID string) error {
	return nil
}

func (m *memoryStore) MarkAllRead(ctx context.Context, userID string) (int, error) {
	return len(m.created), nil
}

type recordingMailer struct {
	to   []string
	from string
	err  error
}

func (r *recordingMailer) Send(ctx context.Context, from, to, subject, body string) error {
	r.from = from
	r.to = append(r.to, to)
	return r.err
}

func TestCreateMirrorsEmailWhenEnabled(t *testing.T) {
	store := &memoryStore{emails: map[string]string{"u1": "u1@example.com"}}
	mailer := &recordingMailer{}
	svc := New(store, mailer, Settings{EmailEnabled: true, From: "training@example.com"})

	if err := svc.Create(context.Background(), "u1", TypeTrainingApproved, "Approved", "body"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(mailer.to) != 1 || mailer.to[0] != "u1@example.com" || mailer.from != "training@example.com" {
		t.Fatalf("unexpected mail %+v", mailer)
	}
}

func TestCreateSkipsEmailWhenDisabled(t *testing.T) {
	store := &memoryStore{emails: map[string]string{"u1": "u1@example.com"}}
	mailer := &recordingMailer{}
	svc := New(store, mailer, Settings{})

	if err := svc.Create(context.Background(), "u1", TypeTrainingApproved, "Approved", "body"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(mailer.to) != 0 {
		t.Fatalf("expected no mail, got %v", mailer.to)
	}
	if len(store.created) != 1 {
		t.Fatalf("expected in-app notification, got %v", store.created)
	}
}

func TestEmailFailureDoesNotFailCreate(t *testing.T) {
	store := &memoryStore{emails: map[string]string{"u1": "u1@example.com"}}
	svc := New(store, &recordingMailer{err: errors.New("smtp down")}, Settings{EmailEnabled: true})

	if err := svc.Create(context.Background(), "u1", TypeTrainingReminder, "Reminder", "body"); err != nil {
		t.Fatalf("expected mail failure to be swallowed, got %v", err)
	}
}

func TestBroadcastCountsDelivered(t *testing.T) {
	store := &memoryStore{emails: map[string]string{}}
	svc := New(store, nil, Settings{})

	sent := svc.Broadcast(context.Background(), []string{"u1", "broken", "u2"}, TypeScheduleChanged, "Changed", "body")
	if sent != 2 {
		t.Fatalf("expected 2 delivered, got %d", sent)
	}
}

func TestFilterClauseNumbersArguments(t *testing.T) {
	where, args := filterClause(Filter{UnreadOnly: true, Type: TypeTrainingReminder}, []any{"u1"})
	if where != " AND read_at IS NULL AND type = $2" || len(args) != 2 || args[1] != TypeTrainingReminder {
		t.Fatalf("unexpected clause %q %v", where, args)
	}
	if where, args := filterClause(Filter{}, []any{"u1"}); where != "" || len(args) != 1 {
		t.Fatalf("expected no clause for zero filter, got %q %v", where, args)
	}
}
