package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync"
	"testing"
)

func TestAttemptReplayReturnsStoredResult(t *testing.T) {
	j := startJourney(t)
	employeeID := j.employee()
	trainingID := j.training(1)
	path := "/trainings/" + trainingID + "/attempts"
	body := map[string]any{"employeeId": employeeID, "scoreAchieved": 50}
	key := map[string]string{"Idempotency-Key": "attempt-" + j.suffix}

	var first, replay attemptResult
	j.expectWith(key, http.MethodPost, path, body, http.StatusCreated, &first)
	j.expectWith(key, http.MethodPost, path, body, http.StatusCreated, &replay)
	if first.Attempt.AttemptNo != 1 || replay.Attempt.AttemptNo != 1 {
		t.Fatalf("expected the replay to return attempt 1, got %d and %d", first.Attempt.AttemptNo, replay.Attempt.AttemptNo)
	}

	env := j.expectWith(key, http.MethodPost, path, map[string]any{"employeeId": employeeID, "scoreAchieved": 95}, http.StatusConflict, nil)
	if env.Code != "idempotency_conflict" {
		t.Fatalf("expected idempotency_conflict, got %q", env.Code)
	}

	var history struct {
		Attempts []json.RawMessage `json:"attempts"`
	}
	j.expect(http.MethodGet, path+"?employeeId="+employeeID, nil, http.StatusOK, &history)
	if len(history.Attempts) != 1 {
		t.Fatalf("expected a single stored attempt, got %d", len(history.Attempts))
	}
}

func TestConcurrentAttemptsNeverExceedLimit(t *testing.T) {
	j := startJourney(t)
	employeeID := j.employee()
	trainingID := j.training(1)
	url := j.base + "/trainings/" + trainingID + "/attempts"
	raw, err := json.Marshal(map[string]any{"employeeId": employeeID, "scoreAchieved": 40})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	const workers = 6
	statuses := make([]int, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(raw))
			if err != nil {
				errs[i] = err
				return
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+j.token)
			resp, err := j.client.Do(req)
			if err != nil {
				errs[i] = err
				return
			}
			resp.Body.Close()
			statuses[i] = resp.StatusCode
		}(i)
	}
	wg.Wait()

	created := 0
	for i := range workers {
		if errs[i] != nil {
			t.Fatalf("request %d failed: %v", i, errs[i])
		}
		switch statuses[i] {
		case http.StatusCreated:
			created++
		case http.StatusBadRequest:
		default:
			t.Fatalf("request %d: unexpected status %d", i, statuses[i])
		}
	}
	if created != 2 {
		t.Fatalf("expected exactly 2 recorded attempts, got %d", created)
	}
}
