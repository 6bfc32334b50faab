package history

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tinytelemetry/retrylist/internal/model"
)

const maxRecentAttempts = 500

// RecordAttempt inserts one finished attempt.
func (s *Store) RecordAttempt(a model.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryContext()
	defer cancel()

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO fetch_attempts
		(id, seq, trigger_kind, is_initial, outcome, item_count, message, superseded, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID.String(), a.Seq, a.Trigger.String(), a.Initial, a.Outcome.String(),
		a.ItemCount, a.Message, a.Superseded, a.StartedAt, a.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert attempt %s: %w", a.ID, err)
	}
	return nil
}

// RecentAttempts returns up to limit attempts, newest first.
func (s *Store) RecentAttempts(limit int) ([]model.Attempt, error) {
	if limit <= 0 {
		return []model.Attempt{}, nil
	}
	limit = min(limit, maxRecentAttempts)

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryContext()
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT
		id, seq, trigger_kind, is_initial, outcome, item_count, message, superseded, started_at, finished_at
		FROM fetch_attempts
		ORDER BY finished_at DESC, seq DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent attempts: %w", err)
	}
	defer rows.Close()

	attempts := make([]model.Attempt, 0, limit)
	for rows.Next() {
		var (
			a                model.Attempt
			id, trig, result string
		)
		if err := rows.Scan(&id, &a.Seq, &trig, &a.Initial, &result, &a.ItemCount,
			&a.Message, &a.Superseded, &a.StartedAt, &a.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		if a.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse attempt id %q: %w", id, err)
		}
		a.Trigger, _ = model.ParseTriggerKind(trig)
		a.Outcome, _ = model.ParseOutcomeKind(result)
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// OutcomeSummary counts attempts by result. Superseded attempts are only
// counted as superseded.
func (s *Store) OutcomeSummary() (model.OutcomeSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryContext()
	defer cancel()

	var sum model.OutcomeSummary
	err := s.db.QueryRowContext(ctx, `SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE NOT superseded AND outcome = 'ready'),
		COUNT(*) FILTER (WHERE NOT superseded AND outcome = 'empty'),
		COUNT(*) FILTER (WHERE NOT superseded AND outcome = 'failed'),
		COUNT(*) FILTER (WHERE superseded)
		FROM fetch_attempts`).Scan(&sum.Total, &sum.Ready, &sum.Empty, &sum.Failed, &sum.Superseded)
	if err != nil {
		return model.OutcomeSummary{}, fmt.Errorf("query outcome summary: %w", err)
	}
	return sum, nil
}
