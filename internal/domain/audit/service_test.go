package audit

import (
	"context"
	"strings"
	"testing"
	"time"
)

type recordingStore struct {
	entries []Entry
	before  [][]byte
	after   [][]byte
}

func (r *recordingStore) Insert(ctx context.Context, e Entry, beforeJSON, afterJSON []byte) error {
	r.entries = append(r.entries, e)
	r.before = append(r.before, beforeJSON)
	r.after = append(r.after, afterJSON)
	return nil
}

func (r *recordingStore) Count(ctx context.Context, filter Filter) (int, error) {
	return len(r.entries), nil
}

func (r *recordingStore) List(ctx context.Context, filter Filter, includeDetails bool, limit, offset int) ([]Event, error) {
	return nil, nil
}

func TestRecordMarshalsSnapshots(t *testing.T) {
	store := &recordingStore{}
	svc := New(store)

	err := svc.Record(context.Background(), Entry{
		ActorID:    "u1",
		Action:     "training.training.approve",
		EntityType: "training",
		EntityID:   "t1",
		Before:     map[string]string{"workflowStatus": "Proposed"},
		After:      map[string]string{"workflowStatus": "Approved"},
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(store.entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(store.entries))
	}
	if !strings.Contains(string(store.after[0]), "Approved") {
		t.Fatalf("unexpected after snapshot %s", store.after[0])
	}

	if err := svc.Record(context.Background(), Entry{Action: "training.training.delete", EntityID: "t1"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if store.before[1] != nil || store.after[1] != nil {
		t.Fatal("expected nil snapshots to stay empty")
	}
}

func TestBuildBaseQuery(t *testing.T) {
	query, args := buildBaseQuery("SELECT COUNT(1)", Filter{Action: "a", EntityID: "e1"})
	if !strings.Contains(query, "action = $1") || !strings.Contains(query, "entity_id = $2") {
		t.Fatalf("unexpected query %q", query)
	}
	if len(args) != 2 || args[0] != "a" || args[1] != "e1" {
		t.Fatalf("unexpected args %v", args)
	}

	query, args = buildBaseQuery("SELECT 1", Filter{})
	if strings.Contains(query, "$") || len(args) != 0 {
		t.Fatalf("expected unfiltered query, got %q %v", query, args)
	}
}

func TestBuildBaseQueryPrefixAndWindow(t *testing.T) {
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	query, args := buildBaseQuery("SELECT 1", Filter{Action: "training.attempt_*", From: from})
	if !strings.Contains(query, "action LIKE $1") || !strings.Contains(query, "created_at >= $2") || strings.Contains(query, "created_at <=") {
		t.Fatalf("unexpected query %q", query)
	}
	if args[0] != `training.attempt\_%` || args[1] != from {
		t.Fatalf("unexpected args %v", args)
	}
}
