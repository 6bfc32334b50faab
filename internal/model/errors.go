package model

import "errors"

// User-facing messages for the two failure kinds.
const (
	MsgNetworkFailure = "failed to load, tap to retry"
	MsgEmptyResult    = "no data available, tap to retry"
)

// ErrorKind classifies a fetch failure.
type ErrorKind int

const (
	NetworkFailure ErrorKind = iota
	EmptyResultTreatedAsError
)

func (k ErrorKind) String() string {
	switch k {
	case NetworkFailure:
		return "network_failure"
	case EmptyResultTreatedAsError:
		return "empty_result"
	default:
		return "unknown"
	}
}

// FetchError is a modeled failure of one fetch attempt. It is terminal for
// that attempt and only a new trigger recovers from it.
type FetchError struct {
	Kind    ErrorKind
	Message string
}

func (e *FetchError) Error() string {
	return e.Message
}

// Is matches any FetchError of the same kind, so errors.Is works against
// the sentinels below regardless of the message.
func (e *FetchError) Is(target error) bool {
	var t *FetchError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinel errors for the two failure kinds.
var (
	ErrNetworkFailure = &FetchError{Kind: NetworkFailure, Message: MsgNetworkFailure}
	ErrEmptyResult    = &FetchError{Kind: EmptyResultTreatedAsError, Message: MsgEmptyResult}
)
