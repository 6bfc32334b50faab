package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/retrylist/internal/model"
	"github.com/tinytelemetry/retrylist/internal/refresh"
	"go.uber.org/zap"
)

// ListPageID identifies the list page for navigation.
const ListPageID = "list"

// minChartHeight is the smallest terminal height that still shows the
// history strip.
const minChartHeight = 16

// ListPageConfig wires the list page to its data source and observers.
type ListPageConfig struct {
	Loader      refresh.Loader
	EmptyPolicy refresh.EmptyPolicy
	Recorders   []model.AttemptRecorder
	Observer    func(model.ScreenState)
	HistoryBars int
	Logger      *zap.Logger
}

// ListPage is the single list screen. It implements refresh.Surface and
// owns the coordinator that drives it.
type ListPage struct {
	coord   *refresh.Coordinator
	keys    KeyMap
	help    help.Model
	spinner spinner.Model
	table   table.Model
	chart   *HistoryChart
	logger  *zap.Logger

	busy     map[model.TriggerKind]bool
	items    []int
	errMsg   string
	showHelp bool
	closed   bool

	width  int
	height int
}

// NewListPage creates the page and its coordinator.
func NewListPage(cfg ListPageConfig) *ListPage {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	t := table.New(
		table.WithColumns(listColumns(80)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorGray).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(ColorWhite).
		Background(ColorNavy)
	t.SetStyles(styles)

	p := &ListPage{
		keys:    DefaultKeyMap(),
		help:    help.New(),
		spinner: newSpinner(),
		table:   t,
		chart:   NewHistoryChart(cfg.HistoryBars),
		logger:  logger.Named("tui"),
		busy:    make(map[model.TriggerKind]bool, len(model.TriggerKinds)),
		items:   []int{},
	}

	opts := []refresh.Option{
		refresh.WithEmptyPolicy(cfg.EmptyPolicy),
		refresh.WithLogger(logger.Named("refresh")),
	}
	for _, r := range cfg.Recorders {
		opts = append(opts, refresh.WithRecorder(r))
	}
	if cfg.Observer != nil {
		opts = append(opts, refresh.WithStateObserver(cfg.Observer))
	}
	p.coord = refresh.New(cfg.Loader, p, opts...)
	return p
}

func listColumns(width int) []table.Column {
	rowWidth := 6
	valueWidth := max(10, width-rowWidth-6)
	return []table.Column{
		{Title: "#", Width: rowWidth},
		{Title: "Value", Width: valueWidth},
	}
}

func (p *ListPage) ID() string { return ListPageID }

// Init fires the synthetic startup fetch.
func (p *ListPage) Init() tea.Cmd {
	req, ok := p.coord.Start()
	if !ok {
		return nil
	}
	return tea.Batch(fetchCmd(req), p.spinner.Tick)
}

func fetchCmd(req refresh.Request) tea.Cmd {
	return func() tea.Msg {
		return fetchResultMsg{result: req.Run()}
	}
}

func (p *ListPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.layout()
		return nil, nil

	case tea.KeyMsg:
		return p.handleKey(msg), nil

	case tea.MouseMsg:
		return p.handleMouse(msg), nil

	case RetryMsg:
		return p.trigger(model.ManualRetry), nil

	case PullRefreshMsg:
		return p.trigger(model.PullToRefresh), nil

	case fetchResultMsg:
		if p.coord.Deliver(msg.result) {
			p.chart.Push(msg.result.Kind(), len(msg.result.Outcome.Items))
		}
		return nil, nil

	case spinner.TickMsg:
		// Let the tick loop die while idle; trigger restarts it.
		if !p.anyBusy() {
			return nil, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return cmd, nil
	}

	return nil, nil
}

func (p *ListPage) trigger(kind model.TriggerKind) tea.Cmd {
	req, ok := p.coord.Trigger(kind)
	if !ok {
		return nil
	}
	return tea.Batch(fetchCmd(req), p.spinner.Tick)
}

func (p *ListPage) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, p.keys.Quit):
		p.Close()
		return tea.Quit
	case key.Matches(msg, p.keys.Help):
		p.showHelp = !p.showHelp
		p.help.ShowAll = p.showHelp
		p.layout()
		return nil
	case key.Matches(msg, p.keys.Refresh):
		return p.trigger(model.PullToRefresh)
	case key.Matches(msg, p.keys.Retry):
		// The retry affordance only exists while an error is shown.
		if p.errMsg == "" {
			return nil
		}
		return p.trigger(model.ManualRetry)
	case key.Matches(msg, p.keys.Home):
		p.table.GotoTop()
		return nil
	case key.Matches(msg, p.keys.End):
		p.table.GotoBottom()
		return nil
	}

	var cmd tea.Cmd
	p.table, cmd = p.table.Update(msg)
	return cmd
}

func (p *ListPage) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress {
		return nil
	}
	switch msg.Button {
	case tea.MouseButtonLeft:
		if p.errMsg != "" {
			return p.trigger(model.ManualRetry)
		}
	case tea.MouseButtonWheelUp:
		// Scrolling up past the first row is the pull gesture.
		if p.table.Cursor() == 0 && !p.busy[model.PullToRefresh] {
			return p.trigger(model.PullToRefresh)
		}
		p.table.MoveUp(1)
	case tea.MouseButtonWheelDown:
		p.table.MoveDown(1)
	}
	return nil
}

// Close tears down the coordinator. Safe to call more than once.
func (p *ListPage) Close() {
	if p.closed {
		return
	}
	p.closed = true
	p.coord.Close()
}

// SetBusy implements refresh.Surface.
func (p *ListPage) SetBusy(trigger model.TriggerKind, busy bool) {
	p.busy[trigger] = busy
	p.layout()
}

// RenderList implements refresh.Surface.
func (p *ListPage) RenderList(items []int) {
	p.items = append([]int{}, items...)
	rows := make([]table.Row, len(p.items))
	for i, v := range p.items {
		rows[i] = table.Row{strconv.Itoa(i + 1), strconv.Itoa(v)}
	}
	p.table.SetRows(rows)
	p.table.GotoTop()
}

// RenderError implements refresh.Surface.
func (p *ListPage) RenderError(message string) {
	p.errMsg = message
	p.logger.Debug("showing error", zap.String("message", message))
}

// ClearError implements refresh.Surface.
func (p *ListPage) ClearError() {
	p.errMsg = ""
}

func (p *ListPage) anyBusy() bool {
	for _, busy := range p.busy {
		if busy {
			return true
		}
	}
	return false
}

func (p *ListPage) showChart() bool {
	return p.height >= minChartHeight
}

// bodyHeight is what remains after the header, refresh strip, history
// strip and status line.
func (p *ListPage) bodyHeight() int {
	h := p.height - 2
	if p.busy[model.PullToRefresh] {
		h--
	}
	if p.showChart() {
		h -= p.chart.Height()
	}
	if p.showHelp {
		h -= 3
	}
	return max(3, h)
}

func (p *ListPage) layout() {
	if p.width <= 0 || p.height <= 0 {
		return
	}
	p.table.SetColumns(listColumns(p.width))
	p.table.SetWidth(p.width)
	p.table.SetHeight(p.bodyHeight())
	p.help.Width = p.width
}

func (p *ListPage) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return "Initializing..."
	}
	if width != p.width || height != p.height {
		p.width, p.height = width, height
		p.layout()
	}

	sections := []string{p.renderHeader()}
	if p.busy[model.PullToRefresh] {
		sections = append(sections, renderRefreshStrip(p.spinner.View(), width))
	}
	sections = append(sections, p.renderBody())
	if p.showChart() {
		sections = append(sections, p.chart.View(width))
	}
	sections = append(sections, p.renderStatusLine())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (p *ListPage) renderHeader() string {
	left := titleStyle.Render("retrylist")
	var right string
	switch {
	case p.anyBusy():
		right = "loading"
	case p.errMsg != "":
		right = "error"
	default:
		right = fmt.Sprintf("%d items", len(p.items))
	}
	right = dimStyle.Render(right)

	gap := max(1, p.width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + lipgloss.NewStyle().Width(gap).Render("") + right
}

func (p *ListPage) renderBody() string {
	h := p.bodyHeight()
	switch {
	case p.busy[model.ManualRetry]:
		return renderLoadingPlaceholder(p.spinner.View(), p.width, h)
	case p.errMsg != "":
		return renderErrorAffordance(p.errMsg, p.width, h)
	case len(p.items) == 0:
		return renderEmptyPlaceholder(p.width, h)
	default:
		return lipgloss.NewStyle().Height(h).Render(p.table.View())
	}
}

func (p *ListPage) renderStatusLine() string {
	return statusLineStyle.Width(p.width).Render(p.help.View(p.keys))
}
