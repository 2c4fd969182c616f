// Package schedule computes spaced-repetition intervals for word reviews.
package schedule

import (
	"time"

	"vocabbot/internal/domain"
)

// MaxIntervalDays caps the check interval so a word is reviewed at least
// once a month even after a long streak of known answers.
const MaxIntervalDays = 32

// ComputeNextInterval returns the new check interval and next check date for
// a score event. Score 0 resets the word: zero interval, no check date, the
// word is immediately eligible again. Score 1 doubles the previous interval
// starting from one day, capped at MaxIntervalDays.
//
// Inputs are pre-validated by the caller: score must be 0 or 1 and
// previousDays must be non-negative.
func ComputeNextInterval(previousDays, score int, now time.Time) (int, *time.Time) {
	if score == domain.ScoreUnknown {
		return 0, nil
	}

	days := 1
	if previousDays > 0 {
		days = previousDays * 2
		if days > MaxIntervalDays {
			days = MaxIntervalDays
		}
	}

	next := now.AddDate(0, 0, days)
	return days, &next
}
