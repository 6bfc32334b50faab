package model

// TriggerKind says which gesture asked for a fetch, and therefore which
// busy indicator tracks it.
type TriggerKind int

const (
	ManualRetry TriggerKind = iota
	PullToRefresh
)

// TriggerKinds lists every trigger kind in display order.
var TriggerKinds = []TriggerKind{ManualRetry, PullToRefresh}

func (t TriggerKind) String() string {
	switch t {
	case ManualRetry:
		return "manual_retry"
	case PullToRefresh:
		return "pull_to_refresh"
	default:
		return "unknown"
	}
}

// ParseTriggerKind is the inverse of TriggerKind.String.
func ParseTriggerKind(s string) (TriggerKind, bool) {
	switch s {
	case "manual_retry":
		return ManualRetry, true
	case "pull_to_refresh":
		return PullToRefresh, true
	default:
		return ManualRetry, false
	}
}

// Phase is the coarse screen phase.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseShowingList
	PhaseShowingError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseShowingList:
		return "list"
	case PhaseShowingError:
		return "error"
	default:
		return "unknown"
	}
}

// ScreenState is what the screen currently shows. Trigger is meaningful
// while loading, Items while showing the list, Message while showing an
// error.
type ScreenState struct {
	Phase   Phase
	Trigger TriggerKind
	Items   []int
	Message string
}

// Loading returns the state for a fetch in flight for the given trigger.
func Loading(trigger TriggerKind) ScreenState {
	return ScreenState{Phase: PhaseLoading, Trigger: trigger}
}

// ShowingList returns the state for a rendered list (possibly empty).
func ShowingList(items []int) ScreenState {
	return ScreenState{Phase: PhaseShowingList, Items: append([]int{}, items...)}
}

// ShowingError returns the state for an inline error with a retry affordance.
func ShowingError(message string) ScreenState {
	return ScreenState{Phase: PhaseShowingError, Message: message}
}

// Busy reports whether the given trigger's busy indicator is on.
func (s ScreenState) Busy(trigger TriggerKind) bool {
	return s.Phase == PhaseLoading && s.Trigger == trigger
}
