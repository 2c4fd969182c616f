package domain

import "time"

// Score values recorded for a word evaluation.
const (
	ScoreUnknown = 0
	ScoreKnown   = 1
)

// Statistic is a user's learning record for one word: last score, skip flag,
// the current check interval and the date the word is next due.
// At most one Statistic exists per (user, word) pair. Its WordID may reference
// a word that has since been deleted; such records are orphans and are
// tracked, not treated as corruption.
type Statistic struct {
	ID            int64
	UserID        int64
	WordID        int64
	LanguageID    int64
	Score         int
	Skip          bool
	CheckInterval int // days, >= 0
	NextCheckDate *time.Time
	HintText      string // text hint shown to the user, if any
	HintImageID   string // file id of a generated hint image, if any
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsDue reports whether the record is due for review at the given time.
// A record with no next check date is always eligible.
func (s *Statistic) IsDue(now time.Time) bool {
	return s.NextCheckDate == nil || !s.NextCheckDate.After(now)
}

// StudyCandidate is a word joined with the user's statistic for it, if one
// exists. Derived per session, never persisted.
type StudyCandidate struct {
	Word     Word
	Progress *Statistic // nil when the word was never studied
}

// ProgressSummary backs the progress screen: counters for one user and
// language, computed in a single aggregate query.
type ProgressSummary struct {
	TotalWords    int
	Studied       int
	Known         int
	Skipped       int
	LastStudyDate *time.Time
}

// Percentage returns known words as a share of the whole catalog, 0..100.
func (p ProgressSummary) Percentage() float64 {
	if p.TotalWords == 0 {
		return 0
	}
	return float64(p.Known) / float64(p.TotalWords) * 100
}

// IntegrityReport summarizes orphaned learning records against the catalog.
type IntegrityReport struct {
	Total    int
	Valid    int
	Orphaned int
}

// OrphanedPercentage returns orphans as a share of all records, 0..100.
func (r IntegrityReport) OrphanedPercentage() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Orphaned) / float64(r.Total) * 100
}

// CleanupResult reports one auditor cleanup pass. Deleted differing from
// Found signals an inconsistency the caller must surface.
type CleanupResult struct {
	Found   int
	Deleted int
}
