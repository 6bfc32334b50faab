package model

// OutcomeSource produces the outcome of one fetch attempt.
type OutcomeSource interface {
	Next() FetchOutcome
}

// AttemptRecorder stores finished attempts.
type AttemptRecorder interface {
	RecordAttempt(a Attempt) error
}

// AttemptReader provides read-only queries on recorded attempts.
type AttemptReader interface {
	RecentAttempts(limit int) ([]Attempt, error)
	OutcomeSummary() (OutcomeSummary, error)
}

// ItemsReader exposes the last good item snapshot.
type ItemsReader interface {
	CurrentItems() []int
}
