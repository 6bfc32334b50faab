package refresh

import (
	"context"

	"github.com/tinytelemetry/retrylist/internal/model"
)

// Surface is the rendering collaborator the coordinator drives. All calls
// are fire-and-forget and must be idempotent.
type Surface interface {
	SetBusy(trigger model.TriggerKind, busy bool)
	RenderList(items []int)
	RenderError(message string)
	ClearError()
}

// Loader is the data source as seen by the coordinator. Load runs off the
// UI loop; Commit and CurrentItems run on it.
type Loader interface {
	Load(ctx context.Context) (model.FetchOutcome, error)
	Commit(o model.FetchOutcome)
	CurrentItems() []int
}

// EmptyPolicy decides how an empty outcome is shown.
type EmptyPolicy int

const (
	// EmptyAsList renders an empty list with no error.
	EmptyAsList EmptyPolicy = iota
	// EmptyAsError shows the "no data available" retry affordance.
	EmptyAsError
)

func (p EmptyPolicy) String() string {
	if p == EmptyAsError {
		return "error"
	}
	return "list"
}
