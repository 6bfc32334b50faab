package tui

import (
	"fmt"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/retrylist/internal/model"
)

const historyChartHeight = 5

type historyBar struct {
	kind  model.OutcomeKind
	items int
}

// HistoryChart draws the outcomes of recent applied fetches as bars: ready
// fetches by item count, empty and failed fetches as short stubs.
type HistoryChart struct {
	max  int
	bars []historyBar
}

// NewHistoryChart keeps at most capacity bars.
func NewHistoryChart(capacity int) *HistoryChart {
	if capacity <= 0 {
		capacity = model.DefaultHistoryBars
	}
	return &HistoryChart{max: capacity}
}

// Push appends one outcome, dropping the oldest past capacity.
func (c *HistoryChart) Push(kind model.OutcomeKind, items int) {
	c.bars = append(c.bars, historyBar{kind: kind, items: items})
	if len(c.bars) > c.max {
		c.bars = c.bars[len(c.bars)-c.max:]
	}
}

// Len returns how many bars are kept.
func (c *HistoryChart) Len() int {
	return len(c.bars)
}

// Height is the number of lines View renders.
func (c *HistoryChart) Height() int {
	return historyChartHeight + 1
}

var outcomeStyles = map[model.OutcomeKind]lipgloss.Style{
	model.OutcomeReady:  lipgloss.NewStyle().Foreground(ColorGreen).Background(ColorGreen),
	model.OutcomeEmpty:  lipgloss.NewStyle().Foreground(ColorGray).Background(ColorGray),
	model.OutcomeFailed: lipgloss.NewStyle().Foreground(ColorRed).Background(ColorRed),
}

func barValue(b historyBar) float64 {
	if b.kind == model.OutcomeReady {
		return float64(b.items)
	}
	// Stubs stay visible next to full-height ready bars.
	return float64(model.DefaultOutcomeRange) / 6
}

// View renders the chart and a one-line legend.
func (c *HistoryChart) View(width int) string {
	if width < 10 {
		return ""
	}
	if len(c.bars) == 0 {
		blank := lipgloss.NewStyle().Width(width).Height(historyChartHeight).Render("")
		return lipgloss.JoinVertical(lipgloss.Left, blank, c.legend())
	}

	// Bar width 1 plus gap 1.
	maxBars := width / 2
	shown := c.bars
	if len(shown) > maxBars {
		shown = shown[len(shown)-maxBars:]
	}

	bc := barchart.New(width, historyChartHeight,
		barchart.WithBarGap(1),
		barchart.WithBarWidth(1),
		barchart.WithNoAxis(),
	)

	// Left-pad so new bars always appear at the right edge.
	for i := len(shown); i < maxBars; i++ {
		bc.Push(barchart.BarData{
			Values: []barchart.BarValue{{Name: "pad", Value: 0, Style: outcomeStyles[model.OutcomeEmpty]}},
		})
	}
	for _, b := range shown {
		bc.Push(barchart.BarData{
			Values: []barchart.BarValue{{Name: b.kind.String(), Value: barValue(b), Style: outcomeStyles[b.kind]}},
		})
	}
	bc.Draw()

	return lipgloss.JoinVertical(lipgloss.Left, bc.View(), c.legend())
}

func (c *HistoryChart) legend() string {
	swatch := func(kind model.OutcomeKind) string {
		return lipgloss.NewStyle().Foreground(outcomeStyles[kind].GetForeground()).Render("■") + " " + kind.String()
	}
	last := "no fetches yet"
	if n := len(c.bars); n > 0 {
		b := c.bars[n-1]
		if b.kind == model.OutcomeReady {
			last = fmt.Sprintf("last: %d items", b.items)
		} else {
			last = "last: " + b.kind.String()
		}
	}
	return swatch(model.OutcomeReady) + "  " + swatch(model.OutcomeEmpty) + "  " +
		swatch(model.OutcomeFailed) + "  " + dimStyle.Render(last)
}
