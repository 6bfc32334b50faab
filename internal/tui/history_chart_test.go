package tui

import (
	"strings"
	"testing"

	"github.com/tinytelemetry/retrylist/internal/model"
)

func TestHistoryChart_KeepsCapacity(t *testing.T) {
	t.Parallel()

	c := NewHistoryChart(3)
	for i := range 5 {
		c.Push(model.OutcomeReady, 20+i)
	}
	if c.Len() != 3 {
		t.Fatalf("Len = %d, want 3", c.Len())
	}
	if got := c.bars[0].items; got != 22 {
		t.Fatalf("oldest kept bar = %d items, want 22", got)
	}
}

func TestHistoryChart_DefaultCapacity(t *testing.T) {
	t.Parallel()

	if c := NewHistoryChart(0); c.max != model.DefaultHistoryBars {
		t.Fatalf("max = %d, want %d", c.max, model.DefaultHistoryBars)
	}
}

func TestHistoryChart_ViewLegend(t *testing.T) {
	t.Parallel()

	c := NewHistoryChart(10)
	if view := c.View(60); !strings.Contains(view, "no fetches yet") {
		t.Fatalf("expected placeholder legend, got:\n%s", view)
	}

	c.Push(model.OutcomeReady, 24)
	if view := c.View(60); !strings.Contains(view, "last: 24 items") {
		t.Fatalf("expected ready legend, got:\n%s", view)
	}

	c.Push(model.OutcomeFailed, 0)
	if view := c.View(60); !strings.Contains(view, "last: failed") {
		t.Fatalf("expected failed legend, got:\n%s", view)
	}
}

func TestHistoryChart_TooNarrow(t *testing.T) {
	t.Parallel()

	c := NewHistoryChart(10)
	c.Push(model.OutcomeEmpty, 0)
	if view := c.View(5); view != "" {
		t.Fatalf("expected nothing on a narrow terminal, got %q", view)
	}
}
