package history

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tinytelemetry/retrylist/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func attemptAt(seq uint64, at time.Time, outcome model.OutcomeKind, items int, superseded bool) model.Attempt {
	return model.Attempt{
		ID:         uuid.New(),
		Seq:        seq,
		Trigger:    model.PullToRefresh,
		Outcome:    outcome,
		ItemCount:  items,
		Superseded: superseded,
		StartedAt:  at.Add(-time.Second),
		FinishedAt: at,
	}
}

func TestRecordAttempt_RoundTrip(t *testing.T) {
	store := newTestStore(t)

	now := time.Now().UTC().Truncate(time.Millisecond)
	want := model.Attempt{
		ID:         uuid.New(),
		Seq:        7,
		Trigger:    model.ManualRetry,
		Initial:    true,
		Outcome:    model.OutcomeFailed,
		Message:    model.MsgNetworkFailure,
		StartedAt:  now.Add(-time.Second),
		FinishedAt: now,
	}
	if err := store.RecordAttempt(want); err != nil {
		t.Fatalf("RecordAttempt: %v", err)
	}

	got, err := store.RecentAttempts(10)
	if err != nil {
		t.Fatalf("RecentAttempts: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("RecentAttempts returned %d rows, want 1", len(got))
	}
	a := got[0]
	if a.ID != want.ID || a.Seq != want.Seq || a.Trigger != want.Trigger || !a.Initial {
		t.Errorf("attempt identity = %+v, want %+v", a, want)
	}
	if a.Outcome != model.OutcomeFailed || a.Message != model.MsgNetworkFailure {
		t.Errorf("attempt outcome = %v %q", a.Outcome, a.Message)
	}
	if a.Duration() != time.Second {
		t.Errorf("duration = %v, want 1s", a.Duration())
	}
}

func TestRecordAttempt_AssignsMissingID(t *testing.T) {
	store := newTestStore(t)

	a := attemptAt(1, time.Now(), model.OutcomeEmpty, 0, false)
	a.ID = uuid.Nil
	if err := store.RecordAttempt(a); err != nil {
		t.Fatalf("RecordAttempt: %v", err)
	}
	got, err := store.RecentAttempts(1)
	if err != nil {
		t.Fatalf("RecentAttempts: %v", err)
	}
	if len(got) != 1 || got[0].ID == uuid.Nil {
		t.Fatalf("attempt stored without an ID: %+v", got)
	}
}

func TestRecentAttempts_NewestFirstAndLimited(t *testing.T) {
	store := newTestStore(t)

	base := time.Now()
	for i := 0; i < 5; i++ {
		a := attemptAt(uint64(i+1), base.Add(time.Duration(i)*time.Second), model.OutcomeReady, 21+i, false)
		if err := store.RecordAttempt(a); err != nil {
			t.Fatalf("RecordAttempt %d: %v", i, err)
		}
	}

	got, err := store.RecentAttempts(3)
	if err != nil {
		t.Fatalf("RecentAttempts: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("RecentAttempts(3) returned %d rows", len(got))
	}
	for i, wantSeq := range []uint64{5, 4, 3} {
		if got[i].Seq != wantSeq {
			t.Errorf("row %d seq = %d, want %d", i, got[i].Seq, wantSeq)
		}
	}
}

func TestRecentAttempts_NonPositiveLimit(t *testing.T) {
	store := newTestStore(t)

	got, err := store.RecentAttempts(0)
	if err != nil {
		t.Fatalf("RecentAttempts: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("RecentAttempts(0) = %#v, want empty slice", got)
	}
}

func TestOutcomeSummary(t *testing.T) {
	store := newTestStore(t)

	now := time.Now()
	attempts := []model.Attempt{
		attemptAt(1, now, model.OutcomeReady, 25, false),
		attemptAt(2, now, model.OutcomeReady, 22, false),
		attemptAt(3, now, model.OutcomeEmpty, 0, false),
		attemptAt(4, now, model.OutcomeFailed, 0, false),
		attemptAt(5, now, model.OutcomeReady, 0, true),
	}
	for _, a := range attempts {
		if err := store.RecordAttempt(a); err != nil {
			t.Fatalf("RecordAttempt: %v", err)
		}
	}

	sum, err := store.OutcomeSummary()
	if err != nil {
		t.Fatalf("OutcomeSummary: %v", err)
	}
	want := model.OutcomeSummary{Total: 5, Ready: 2, Empty: 1, Failed: 1, Superseded: 1}
	if sum != want {
		t.Fatalf("summary = %+v, want %+v", sum, want)
	}
}

func TestOutcomeSummary_EmptyStore(t *testing.T) {
	store := newTestStore(t)

	sum, err := store.OutcomeSummary()
	if err != nil {
		t.Fatalf("OutcomeSummary: %v", err)
	}
	if sum != (model.OutcomeSummary{}) {
		t.Fatalf("summary = %+v, want zero", sum)
	}
}
