// Package status keeps a goroutine-safe copy of what the screen shows so
// readers off the UI loop (the HTTP API) never touch the coordinator.
package status

import (
	"sync"
	"time"

	"github.com/tinytelemetry/retrylist/internal/model"
)

// Snapshot is a point-in-time copy of the screen state.
type Snapshot struct {
	Phase       string    `json:"phase"`
	Trigger     string    `json:"trigger,omitempty"`
	Message     string    `json:"message,omitempty"`
	ItemCount   int       `json:"item_count"`
	ManualBusy  bool      `json:"manual_retry_busy"`
	RefreshBusy bool      `json:"pull_to_refresh_busy"`
	Transitions int64     `json:"transitions"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Board holds the latest ScreenState.
type Board struct {
	mu          sync.RWMutex
	state       model.ScreenState
	transitions int64
	updatedAt   time.Time
}

// NewBoard creates a board that reports loading until the first update.
func NewBoard() *Board {
	return &Board{state: model.Loading(model.ManualRetry)}
}

// Observe records a new state. Its signature matches the coordinator's
// state observer.
func (b *Board) Observe(s model.ScreenState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = s
	b.transitions++
	b.updatedAt = time.Now()
}

// Snapshot returns a copy of the latest state.
func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	snap := Snapshot{
		Phase:       b.state.Phase.String(),
		ItemCount:   len(b.state.Items),
		ManualBusy:  b.state.Busy(model.ManualRetry),
		RefreshBusy: b.state.Busy(model.PullToRefresh),
		Transitions: b.transitions,
		UpdatedAt:   b.updatedAt,
	}
	switch b.state.Phase {
	case model.PhaseLoading:
		snap.Trigger = b.state.Trigger.String()
	case model.PhaseShowingError:
		snap.Message = b.state.Message
	}
	return snap
}
