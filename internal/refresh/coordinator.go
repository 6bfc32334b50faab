// Package refresh turns retry and pull-to-refresh gestures into fetches and
// fetch outcomes into surface directives.
//
// The coordinator is not safe for concurrent use. Every method must be
// called from the UI event loop; only Request.Run is meant to execute
// elsewhere. Latest-wins is enforced by sequence numbers checked in Deliver,
// so a superseded result never reaches the surface even if its goroutine
// finishes after the newer trigger fired.
package refresh

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tinytelemetry/retrylist/internal/model"
	"go.uber.org/zap"
)

// Request is one fetch the coordinator wants performed.
type Request struct {
	ID        uuid.UUID
	Seq       uint64
	Trigger   model.TriggerKind
	Initial   bool
	StartedAt time.Time

	ctx    context.Context
	loader Loader
	now    func() time.Time
}

// Run performs the fetch. It blocks for the loader's delay and may be
// called from any goroutine.
func (r Request) Run() Result {
	o, err := r.loader.Load(r.ctx)
	return Result{
		ID:         r.ID,
		Seq:        r.Seq,
		Trigger:    r.Trigger,
		Initial:    r.Initial,
		Outcome:    o,
		Err:        err,
		StartedAt:  r.StartedAt,
		FinishedAt: r.now(),
	}
}

// Result is a finished Request, handed back to Deliver on the UI loop.
type Result struct {
	ID         uuid.UUID
	Seq        uint64
	Trigger    model.TriggerKind
	Initial    bool
	Outcome    model.FetchOutcome
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

type pending struct {
	seq     uint64
	trigger model.TriggerKind
	cancel  context.CancelFunc
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithEmptyPolicy sets how empty outcomes are shown.
func WithEmptyPolicy(p EmptyPolicy) Option {
	return func(c *Coordinator) { c.policy = p }
}

// WithRecorder stores every finished attempt, superseded ones included.
// It may be given more than once.
func WithRecorder(r model.AttemptRecorder) Option {
	return func(c *Coordinator) { c.recorders = append(c.recorders, r) }
}

// WithStateObserver receives every ScreenState the coordinator enters.
func WithStateObserver(fn func(model.ScreenState)) Option {
	return func(c *Coordinator) { c.observers = append(c.observers, fn) }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// Coordinator runs the retry/empty/error state machine for one screen.
type Coordinator struct {
	loader    Loader
	surface   Surface
	policy    EmptyPolicy
	recorders []model.AttemptRecorder
	observers []func(model.ScreenState)
	logger    *zap.Logger
	now       func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	seq     uint64
	pending *pending
	busy    map[model.TriggerKind]bool
	state   model.ScreenState
	err     *model.FetchError
	started bool
	closed  bool
}

// New creates a coordinator. The surface is held as a back-reference and
// released by Close; the coordinator must not outlive it.
func New(loader Loader, surface Surface, opts ...Option) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Coordinator{
		loader:  loader,
		surface: surface,
		logger:  zap.NewNop(),
		now:     time.Now,
		ctx:     ctx,
		cancel:  cancel,
		busy:    make(map[model.TriggerKind]bool, len(model.TriggerKinds)),
		state:   model.ShowingList(nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start fires the synthetic startup trigger. It is of the manual kind but
// flagged Initial. Calling Start twice returns false the second time.
func (c *Coordinator) Start() (Request, bool) {
	if c.started {
		return Request{}, false
	}
	c.started = true
	return c.trigger(model.ManualRetry, true)
}

// ManualRetryTapped handles a tap on the retry affordance.
func (c *Coordinator) ManualRetryTapped() (Request, bool) {
	return c.trigger(model.ManualRetry, false)
}

// PullToRefresh handles the pull-to-refresh gesture.
func (c *Coordinator) PullToRefresh() (Request, bool) {
	return c.trigger(model.PullToRefresh, false)
}

// Trigger dispatches on kind.
func (c *Coordinator) Trigger(kind model.TriggerKind) (Request, bool) {
	return c.trigger(kind, false)
}

func (c *Coordinator) trigger(kind model.TriggerKind, initial bool) (Request, bool) {
	if c.closed {
		return Request{}, false
	}
	c.started = true

	if prev := c.pending; prev != nil {
		prev.cancel()
		c.pending = nil
		c.logger.Debug("superseding in-flight fetch",
			zap.Uint64("seq", prev.seq),
			zap.Stringer("trigger", prev.trigger),
			zap.Stringer("by", kind))
	}

	// Only the new kind may be busy. The superseded kind goes false first.
	for _, k := range model.TriggerKinds {
		if k != kind {
			c.setBusy(k, false)
		}
	}

	c.seq++
	ctx, cancel := context.WithCancel(c.ctx)
	c.pending = &pending{seq: c.seq, trigger: kind, cancel: cancel}

	c.surface.ClearError()
	c.setBusy(kind, true)
	c.enter(model.Loading(kind))

	req := Request{
		ID:        uuid.New(),
		Seq:       c.seq,
		Trigger:   kind,
		Initial:   initial,
		StartedAt: c.now(),
		ctx:       ctx,
		loader:    c.loader,
		now:       c.now,
	}
	c.logger.Debug("fetch started",
		zap.Uint64("seq", req.Seq),
		zap.Stringer("trigger", kind),
		zap.Bool("initial", initial))
	return req, true
}

// Kind is the outcome an attempt counts as. A cancelled load never drew,
// and any other load error is shown and counted as a failure.
func (r Result) Kind() model.OutcomeKind {
	switch {
	case r.Err == nil:
		return r.Outcome.Kind
	case errors.Is(r.Err, context.Canceled):
		return model.OutcomeCancelled
	default:
		return model.OutcomeFailed
	}
}

// Deliver applies a finished request. It returns false when the result was
// discarded because it was superseded or the coordinator is closed.
func (c *Coordinator) Deliver(res Result) bool {
	if c.closed {
		return false
	}
	if c.pending == nil || c.pending.seq != res.Seq {
		c.logger.Debug("discarding superseded result",
			zap.Uint64("seq", res.Seq),
			zap.Stringer("trigger", res.Trigger))
		c.record(res, true)
		return false
	}

	p := c.pending
	c.pending = nil
	p.cancel()

	c.setBusy(p.trigger, false)

	if res.Err != nil {
		c.showError(model.ErrNetworkFailure)
		c.logger.Warn("fetch errored", zap.Uint64("seq", res.Seq), zap.Error(res.Err))
		c.record(res, false)
		return true
	}

	switch o := res.Outcome; o.Kind {
	case model.OutcomeReady:
		c.loader.Commit(o)
		c.surface.ClearError()
		c.surface.RenderList(o.Items)
		c.enter(model.ShowingList(o.Items))
	case model.OutcomeEmpty:
		if c.policy == EmptyAsError {
			c.showError(model.ErrEmptyResult)
		} else {
			c.surface.ClearError()
			c.surface.RenderList([]int{})
			c.enter(model.ShowingList(nil))
		}
	case model.OutcomeFailed:
		reason := o.Reason
		if reason == "" {
			reason = model.MsgNetworkFailure
		}
		c.showError(&model.FetchError{Kind: model.NetworkFailure, Message: reason})
	}

	c.logger.Info("fetch finished",
		zap.Uint64("seq", res.Seq),
		zap.Stringer("trigger", res.Trigger),
		zap.Stringer("outcome", res.Outcome.Kind),
		zap.Int("items", len(res.Outcome.Items)),
		zap.Duration("took", res.FinishedAt.Sub(res.StartedAt)))
	c.record(res, false)
	return true
}

func (c *Coordinator) showError(err *model.FetchError) {
	c.surface.RenderError(err.Message)
	c.enter(model.ShowingError(err.Message))
	c.err = err
}

// Error returns the failure currently on screen, or nil.
func (c *Coordinator) Error() *model.FetchError {
	return c.err
}

// State returns the current screen state.
func (c *Coordinator) State() model.ScreenState {
	return c.state
}

// Busy reports the busy flag for a trigger kind.
func (c *Coordinator) Busy(kind model.TriggerKind) bool {
	return c.busy[kind]
}

// InFlight reports whether a fetch is pending.
func (c *Coordinator) InFlight() bool {
	return c.pending != nil
}

// Close cancels any pending fetch and drops the surface. Later triggers
// and deliveries are no-ops.
func (c *Coordinator) Close() {
	if c.closed {
		return
	}
	c.closed = true
	if c.pending != nil {
		c.pending.cancel()
		c.pending = nil
	}
	c.cancel()
	c.surface = nil
	c.observers = nil
}

func (c *Coordinator) setBusy(kind model.TriggerKind, busy bool) {
	if c.busy[kind] == busy {
		return
	}
	c.busy[kind] = busy
	c.surface.SetBusy(kind, busy)
}

func (c *Coordinator) enter(s model.ScreenState) {
	c.state = s
	c.err = nil
	for _, fn := range c.observers {
		fn(s)
	}
}

func (c *Coordinator) record(res Result, superseded bool) {
	if len(c.recorders) == 0 {
		return
	}
	kind := res.Kind()
	a := model.Attempt{
		ID:         res.ID,
		Seq:        res.Seq,
		Trigger:    res.Trigger,
		Initial:    res.Initial,
		Outcome:    kind,
		ItemCount:  len(res.Outcome.Items),
		Message:    res.Outcome.Reason,
		Superseded: superseded || kind == model.OutcomeCancelled,
		StartedAt:  res.StartedAt,
		FinishedAt: res.FinishedAt,
	}
	switch {
	case a.Superseded:
	case kind == model.OutcomeFailed && res.Err != nil:
		a.Message = model.MsgNetworkFailure
	case kind == model.OutcomeEmpty && c.policy == EmptyAsError:
		a.Message = model.MsgEmptyResult
	}
	for _, r := range c.recorders {
		if err := r.RecordAttempt(a); err != nil {
			c.logger.Warn("recording attempt failed", zap.Uint64("seq", res.Seq), zap.Error(err))
		}
	}
}
