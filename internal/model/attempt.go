package model

import (
	"time"

	"github.com/google/uuid"
)

// Attempt records one finished fetch, whether its outcome was applied to
// the screen or discarded because a newer trigger superseded it.
type Attempt struct {
	ID         uuid.UUID
	Seq        uint64
	Trigger    TriggerKind
	Initial    bool // synthetic startup trigger
	Outcome    OutcomeKind
	ItemCount  int
	Message    string
	Superseded bool
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration is how long the attempt was in flight.
func (a Attempt) Duration() time.Duration {
	return a.FinishedAt.Sub(a.StartedAt)
}

// OutcomeSummary aggregates attempt counts by result.
type OutcomeSummary struct {
	Total      int64 `json:"total"`
	Ready      int64 `json:"ready"`
	Empty      int64 `json:"empty"`
	Failed     int64 `json:"failed"`
	Superseded int64 `json:"superseded"`
}
