package model

import "time"

// Shared defaults used by the binary and its packages.
const (
	DefaultFetchDelay   = time.Second
	DefaultOutcomeRange = 30
	DefaultHistoryBars  = 40
)
