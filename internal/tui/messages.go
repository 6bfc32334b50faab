package tui

import "github.com/tinytelemetry/retrylist/internal/refresh"

// RetryMsg asks the list page for a manual retry, as if the error
// affordance had been tapped.
type RetryMsg struct{}

// PullRefreshMsg asks the list page for a pull-to-refresh.
type PullRefreshMsg struct{}

// fetchResultMsg carries a finished fetch back onto the event loop.
type fetchResultMsg struct {
	result refresh.Result
}
