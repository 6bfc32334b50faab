package provider

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/tinytelemetry/retrylist/internal/model"
)

// Draw thresholds: below emptyBelow the fetch comes back empty, below
// failedBelow it fails, anything else is a ready run of items.
const (
	emptyBelow  = 10
	failedBelow = 20
)

// Classify maps one draw to its outcome. A ready outcome holds the
// inclusive run 0..r.
func Classify(r int) model.FetchOutcome {
	switch {
	case r < emptyBelow:
		return model.Empty()
	case r < failedBelow:
		return model.Failed(model.MsgNetworkFailure)
	default:
		items := make([]int, r+1)
		for i := range items {
			items[i] = i
		}
		return model.FetchOutcome{Kind: model.OutcomeReady, Items: items}
	}
}

// RandomSource draws uniformly from [0, n) on every call.
type RandomSource struct {
	mu  sync.Mutex
	rng *rand.Rand
	n   int
}

// NewRandomSource creates a source over [0, model.DefaultOutcomeRange).
// A zero seed picks one from the clock.
func NewRandomSource(seed uint64) *RandomSource {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &RandomSource{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		n:   model.DefaultOutcomeRange,
	}
}

func (s *RandomSource) Next() model.FetchOutcome {
	s.mu.Lock()
	r := s.rng.IntN(s.n)
	s.mu.Unlock()
	return Classify(r)
}

// ScriptedSource replays a fixed list of draws, wrapping around at the end.
// An empty script always yields an empty outcome.
type ScriptedSource struct {
	mu    sync.Mutex
	draws []int
	pos   int
}

// NewScriptedSource creates a source that replays draws in order.
func NewScriptedSource(draws ...int) *ScriptedSource {
	return &ScriptedSource{draws: append([]int(nil), draws...)}
}

func (s *ScriptedSource) Next() model.FetchOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.draws) == 0 {
		return model.Empty()
	}
	r := s.draws[s.pos%len(s.draws)]
	s.pos++
	return Classify(r)
}

// Drawn returns how many outcomes have been produced so far.
func (s *ScriptedSource) Drawn() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}
