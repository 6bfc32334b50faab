package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tinytelemetry/retrylist/internal/model"
	"github.com/tinytelemetry/retrylist/internal/provider"
	"github.com/tinytelemetry/retrylist/internal/refresh"
)

func newTestListPage(t *testing.T, draws []int, policy refresh.EmptyPolicy) (*ListPage, *provider.Provider) {
	t.Helper()
	prov := provider.New(provider.NewScriptedSource(draws...), 0)
	p := NewListPage(ListPageConfig{Loader: prov, EmptyPolicy: policy, HistoryBars: 10})
	p.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return p, prov
}

// runCmd executes cmd and any batched commands it returns, collecting the
// resulting messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func fetchResults(msgs []tea.Msg) []tea.Msg {
	var out []tea.Msg
	for _, m := range msgs {
		if _, ok := m.(fetchResultMsg); ok {
			out = append(out, m)
		}
	}
	return out
}

// settle runs cmd and feeds every fetch result back into the page.
func settle(p *ListPage, cmd tea.Cmd) {
	for _, m := range fetchResults(runCmd(cmd)) {
		p.Update(m)
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestListPage_InitShowsSpinnerThenList(t *testing.T) {
	t.Parallel()

	p, prov := newTestListPage(t, []int{25}, refresh.EmptyAsList)
	cmd := p.Init()
	if cmd == nil {
		t.Fatal("expected a fetch command from Init")
	}
	if !p.busy[model.ManualRetry] {
		t.Fatal("expected manual retry spinner while the initial fetch runs")
	}
	if view := p.View(80, 30); !strings.Contains(view, "Loading...") {
		t.Fatalf("expected loading placeholder, got:\n%s", view)
	}

	settle(p, cmd)

	if p.busy[model.ManualRetry] {
		t.Fatal("expected spinner hidden after delivery")
	}
	if got := len(p.items); got != 26 {
		t.Fatalf("rendered %d items, want 26", got)
	}
	if got := len(prov.CurrentItems()); got != 26 {
		t.Fatalf("provider holds %d items, want 26", got)
	}
	if p.chart.Len() != 1 {
		t.Fatalf("chart has %d bars, want 1", p.chart.Len())
	}
	if view := p.View(80, 30); !strings.Contains(view, "26 items") {
		t.Fatalf("expected item count in header, got:\n%s", view)
	}
}

func TestListPage_FailureThenEnterRetries(t *testing.T) {
	t.Parallel()

	p, _ := newTestListPage(t, []int{15, 22}, refresh.EmptyAsList)
	settle(p, p.Init())

	if p.errMsg != model.MsgNetworkFailure {
		t.Fatalf("errMsg = %q, want %q", p.errMsg, model.MsgNetworkFailure)
	}
	if view := p.View(80, 30); !strings.Contains(view, model.MsgNetworkFailure) {
		t.Fatalf("expected error affordance, got:\n%s", view)
	}

	cmd, _ := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected enter on the error to start a retry")
	}
	if p.errMsg != "" {
		t.Fatal("expected error cleared as soon as the retry starts")
	}
	if !p.busy[model.ManualRetry] {
		t.Fatal("expected manual retry spinner")
	}

	settle(p, cmd)
	if got := len(p.items); got != 23 {
		t.Fatalf("rendered %d items, want 23", got)
	}
}

func TestListPage_EnterWithoutErrorIsIgnored(t *testing.T) {
	t.Parallel()

	p, _ := newTestListPage(t, []int{22}, refresh.EmptyAsList)
	settle(p, p.Init())

	cmd, _ := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("expected no retry when no error is shown")
	}
	if p.anyBusy() {
		t.Fatal("expected no busy indicator")
	}
}

func TestListPage_RefreshKeyShowsRefreshStrip(t *testing.T) {
	t.Parallel()

	p, _ := newTestListPage(t, []int{22, 5}, refresh.EmptyAsList)
	settle(p, p.Init())

	cmd, _ := p.Update(keyRunes("r"))
	if cmd == nil {
		t.Fatal("expected r to start a pull-to-refresh")
	}
	if !p.busy[model.PullToRefresh] || p.busy[model.ManualRetry] {
		t.Fatalf("busy = %v, want only pull-to-refresh", p.busy)
	}
	if view := p.View(80, 30); !strings.Contains(view, "Refreshing...") {
		t.Fatalf("expected refresh strip, got:\n%s", view)
	}

	settle(p, cmd)
	if p.busy[model.PullToRefresh] {
		t.Fatal("expected refresh strip hidden after delivery")
	}
	if len(p.items) != 0 {
		t.Fatalf("expected empty list after empty outcome, got %d items", len(p.items))
	}
	if view := p.View(80, 30); !strings.Contains(view, "No items") {
		t.Fatalf("expected empty placeholder, got:\n%s", view)
	}
}

func TestListPage_EmptyAsErrorShowsNoDataMessage(t *testing.T) {
	t.Parallel()

	p, _ := newTestListPage(t, []int{3}, refresh.EmptyAsError)
	settle(p, p.Init())

	if p.errMsg != model.MsgEmptyResult {
		t.Fatalf("errMsg = %q, want %q", p.errMsg, model.MsgEmptyResult)
	}
}

func TestListPage_WheelUpAtTopPullsToRefresh(t *testing.T) {
	t.Parallel()

	p, _ := newTestListPage(t, []int{22, 23}, refresh.EmptyAsList)
	settle(p, p.Init())

	wheelUp := tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp}
	cmd, _ := p.Update(wheelUp)
	if cmd == nil || !p.busy[model.PullToRefresh] {
		t.Fatal("expected wheel-up at the top to pull to refresh")
	}

	// A second wheel-up while refreshing does not restart the fetch.
	if again, _ := p.Update(wheelUp); again != nil {
		t.Fatal("expected no second trigger while refresh is in flight")
	}

	settle(p, cmd)
	if got := len(p.items); got != 24 {
		t.Fatalf("rendered %d items, want 24", got)
	}
}

func TestListPage_WheelUpBelowTopScrolls(t *testing.T) {
	t.Parallel()

	p, _ := newTestListPage(t, []int{25}, refresh.EmptyAsList)
	settle(p, p.Init())

	p.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	p.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	if p.table.Cursor() != 2 {
		t.Fatalf("cursor = %d, want 2", p.table.Cursor())
	}

	cmd, _ := p.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	if cmd != nil {
		t.Fatal("expected wheel-up below the top to scroll, not refresh")
	}
	if p.table.Cursor() != 1 {
		t.Fatalf("cursor = %d, want 1", p.table.Cursor())
	}
}

func TestListPage_ClickOnErrorRetries(t *testing.T) {
	t.Parallel()

	p, _ := newTestListPage(t, []int{12, 21}, refresh.EmptyAsList)
	settle(p, p.Init())

	cmd, _ := p.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if cmd == nil {
		t.Fatal("expected click on the error to retry")
	}
	settle(p, cmd)
	if p.errMsg != "" || len(p.items) != 22 {
		t.Fatalf("errMsg = %q, items = %d; want list of 22", p.errMsg, len(p.items))
	}
}

func TestListPage_SupersededResultIsDropped(t *testing.T) {
	t.Parallel()

	p, prov := newTestListPage(t, []int{25, 21}, refresh.EmptyAsList)

	// Finish the initial fetch but hold its result back.
	late := fetchResults(runCmd(p.Init()))
	if len(late) != 1 {
		t.Fatalf("expected one initial result, got %d", len(late))
	}

	cmd, _ := p.Update(PullRefreshMsg{})
	if p.busy[model.ManualRetry] || !p.busy[model.PullToRefresh] {
		t.Fatalf("busy = %v, want only pull-to-refresh", p.busy)
	}
	settle(p, cmd)

	p.Update(late[0])

	if got := len(p.items); got != 22 {
		t.Fatalf("rendered %d items, want 22 from the newer fetch", got)
	}
	if got := len(prov.CurrentItems()); got != 22 {
		t.Fatalf("provider holds %d items, want 22", got)
	}
	if p.chart.Len() != 1 {
		t.Fatalf("chart has %d bars, want 1", p.chart.Len())
	}
}

func TestListPage_RetryMsgFromOutside(t *testing.T) {
	t.Parallel()

	p, _ := newTestListPage(t, []int{22, 24}, refresh.EmptyAsList)
	settle(p, p.Init())

	cmd, _ := p.Update(RetryMsg{})
	if cmd == nil || !p.busy[model.ManualRetry] {
		t.Fatal("expected RetryMsg to start a manual retry")
	}
	settle(p, cmd)
	if got := len(p.items); got != 25 {
		t.Fatalf("rendered %d items, want 25", got)
	}
}

func TestListPage_QuitClosesCoordinator(t *testing.T) {
	t.Parallel()

	p, _ := newTestListPage(t, []int{22}, refresh.EmptyAsList)
	pending := fetchResults(runCmd(p.Init()))

	cmd, _ := p.Update(keyRunes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}

	for _, m := range pending {
		p.Update(m)
	}
	if len(p.items) != 0 {
		t.Fatal("expected no rendering after close")
	}
	if again, _ := p.Update(RetryMsg{}); again != nil {
		t.Fatal("expected triggers to be ignored after close")
	}
}

func TestListPage_SpinnerTickStopsWhenIdle(t *testing.T) {
	t.Parallel()

	p, _ := newTestListPage(t, []int{22}, refresh.EmptyAsList)
	settle(p, p.Init())

	if cmd, _ := p.Update(spinner.TickMsg{}); cmd != nil {
		t.Fatal("expected the spinner loop to stop while idle")
	}
}

func TestListPage_HelpToggle(t *testing.T) {
	t.Parallel()

	p, _ := newTestListPage(t, []int{22}, refresh.EmptyAsList)
	settle(p, p.Init())

	p.Update(keyRunes("?"))
	if !p.showHelp || !p.help.ShowAll {
		t.Fatal("expected full help after ?")
	}
	if view := p.View(200, 30); !strings.Contains(view, "go to top") {
		t.Fatalf("expected full help in view, got:\n%s", view)
	}
	p.Update(keyRunes("?"))
	if p.showHelp {
		t.Fatal("expected help hidden after second ?")
	}
}

func TestListPage_SmallTerminalHidesChart(t *testing.T) {
	t.Parallel()

	p, _ := newTestListPage(t, []int{22}, refresh.EmptyAsList)
	settle(p, p.Init())

	if view := p.View(80, 10); strings.Contains(view, "no fetches yet") || strings.Contains(view, "last:") {
		t.Fatalf("expected no history strip on a short terminal, got:\n%s", view)
	}
	if view := p.View(80, 30); !strings.Contains(view, "last: 23 items") {
		t.Fatalf("expected history legend, got:\n%s", view)
	}
}

type failingLoader struct{}

func (failingLoader) Load(context.Context) (model.FetchOutcome, error) {
	return model.FetchOutcome{}, errors.New("connection reset")
}

func (failingLoader) Commit(model.FetchOutcome) {}

func (failingLoader) CurrentItems() []int { return nil }

func TestListPage_LoaderErrorChartsFailure(t *testing.T) {
	t.Parallel()

	p := NewListPage(ListPageConfig{Loader: failingLoader{}, HistoryBars: 10})
	p.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	settle(p, p.Init())

	if p.errMsg != model.MsgNetworkFailure {
		t.Fatalf("errMsg = %q, want %q", p.errMsg, model.MsgNetworkFailure)
	}
	if p.chart.Len() != 1 {
		t.Fatalf("chart has %d bars, want 1", p.chart.Len())
	}
	if got := p.chart.bars[0].kind; got != model.OutcomeFailed {
		t.Fatalf("charted %s, want %s", got, model.OutcomeFailed)
	}
}
