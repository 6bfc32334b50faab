// Package provider is the simulated remote data source. It produces one
// outcome per fetch after a fixed delay and keeps the last good item list.
package provider

import (
	"context"
	"sync"
	"time"

	"github.com/tinytelemetry/retrylist/internal/model"
)

// Provider simulates a flaky fetch. It is safe for concurrent use.
type Provider struct {
	source model.OutcomeSource
	delay  time.Duration

	mu    sync.RWMutex
	items []int
}

// New creates a provider drawing outcomes from source. The delay models
// network latency; zero or negative means no wait.
func New(source model.OutcomeSource, delay time.Duration) *Provider {
	return &Provider{
		source: source,
		delay:  delay,
		items:  []int{},
	}
}

// Load waits out the delay and then draws exactly one outcome. If ctx is
// done first, nothing is drawn and ctx.Err() is returned.
func (p *Provider) Load(ctx context.Context) (model.FetchOutcome, error) {
	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return model.FetchOutcome{}, ctx.Err()
		case <-timer.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return model.FetchOutcome{}, err
	}
	return p.source.Next(), nil
}

// Commit stores the items of a non-empty ready outcome. Empty and failed
// outcomes leave the current items untouched.
func (p *Provider) Commit(o model.FetchOutcome) {
	if o.Kind != model.OutcomeReady || len(o.Items) == 0 {
		return
	}
	items := append([]int(nil), o.Items...)
	p.mu.Lock()
	p.items = items
	p.mu.Unlock()
}

// Fetch loads one outcome and commits it.
func (p *Provider) Fetch(ctx context.Context) (model.FetchOutcome, error) {
	o, err := p.Load(ctx)
	if err != nil {
		return o, err
	}
	p.Commit(o)
	return o, nil
}

// CurrentItems returns a copy of the last successfully fetched items.
func (p *Provider) CurrentItems() []int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]int{}, p.items...)
}
