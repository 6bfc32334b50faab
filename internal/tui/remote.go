package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Sender is the part of *tea.Program the remote trigger needs.
type Sender interface {
	Send(msg tea.Msg)
}

// RemoteTrigger forwards gestures from outside the event loop (the HTTP
// API) into the running program. Triggers before Attach are dropped.
type RemoteTrigger struct {
	mu     sync.RWMutex
	sender Sender
}

// Attach sets the program to forward to.
func (r *RemoteTrigger) Attach(s Sender) {
	r.mu.Lock()
	r.sender = s
	r.mu.Unlock()
}

// ManualRetry injects a RetryMsg.
func (r *RemoteTrigger) ManualRetry() {
	r.send(RetryMsg{})
}

// PullToRefresh injects a PullRefreshMsg.
func (r *RemoteTrigger) PullToRefresh() {
	r.send(PullRefreshMsg{})
}

func (r *RemoteTrigger) send(msg tea.Msg) {
	r.mu.RLock()
	s := r.sender
	r.mu.RUnlock()
	if s != nil {
		s.Send(msg)
	}
}
