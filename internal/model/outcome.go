package model

// OutcomeKind identifies which variant a FetchOutcome holds.
type OutcomeKind int

const (
	OutcomeEmpty OutcomeKind = iota
	OutcomeFailed
	OutcomeReady
	// OutcomeCancelled marks an attempt whose load was cancelled before it
	// drew anything. It is never shown on screen.
	OutcomeCancelled
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeEmpty:
		return "empty"
	case OutcomeFailed:
		return "failed"
	case OutcomeReady:
		return "ready"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// FetchOutcome is the result of one simulated fetch attempt.
// Reason is only set for OutcomeFailed, Items only for OutcomeReady.
type FetchOutcome struct {
	Kind   OutcomeKind
	Reason string
	Items  []int
}

// Empty returns an outcome carrying no items and no error.
func Empty() FetchOutcome {
	return FetchOutcome{Kind: OutcomeEmpty}
}

// Failed returns a failed outcome with a human-readable reason.
func Failed(reason string) FetchOutcome {
	return FetchOutcome{Kind: OutcomeFailed, Reason: reason}
}

// Ready returns a successful outcome. The items slice is copied.
func Ready(items []int) FetchOutcome {
	return FetchOutcome{Kind: OutcomeReady, Items: append([]int(nil), items...)}
}

// ParseOutcomeKind is the inverse of OutcomeKind.String.
func ParseOutcomeKind(s string) (OutcomeKind, bool) {
	switch s {
	case "empty":
		return OutcomeEmpty, true
	case "failed":
		return OutcomeFailed, true
	case "ready":
		return OutcomeReady, true
	case "cancelled":
		return OutcomeCancelled, true
	default:
		return OutcomeEmpty, false
	}
}
