package repository

import (
	"context"
	"time"

	"vocabbot/internal/domain"
)

// WordRepository is read-only access to the word catalog. The per-language
// sequential number is the natural ordering and paging key, so "resume from
// number N" is stable across sessions.
type WordRepository interface {
	GetByLanguageAndNumber(ctx context.Context, languageID int64, number int) (*domain.Word, error)
	CountByLanguage(ctx context.Context, languageID int64) (int, error)
	// ListByLanguage returns up to limit words with number >= fromNumber,
	// ordered by number ascending.
	ListByLanguage(ctx context.Context, languageID int64, fromNumber, limit int) ([]domain.Word, error)
	// ListByIDs returns the words that still exist among the given ids,
	// ordered by number.
	ListByIDs(ctx context.Context, ids []int64) ([]domain.Word, error)
}

// StatRepository owns write access to learning records. Create and Update
// are distinct entry points to keep intent explicit; Update fails with
// domain.ErrNotFound when no record exists.
type StatRepository interface {
	Create(ctx context.Context, stat *domain.Statistic) (*domain.Statistic, error)
	Update(ctx context.Context, stat *domain.Statistic) (*domain.Statistic, error)
	GetByUserAndWord(ctx context.Context, userID, wordID int64) (*domain.Statistic, error)

	// ListByUser pages first, then (when validate is set) drops rows whose
	// word no longer exists, so a page may hold fewer than limit valid rows.
	// languageID 0 means all languages.
	ListByUser(ctx context.Context, userID, languageID int64, limit, offset int, validate bool) ([]domain.Statistic, error)
	CountByUser(ctx context.Context, userID, languageID int64, validate bool) (int, error)

	// AggregateProgress computes studied/known/skipped counters and the last
	// study date in a single query. TotalWords is left for the caller.
	AggregateProgress(ctx context.Context, userID, languageID int64, validate bool) (*domain.ProgressSummary, error)

	// ListDue returns candidates whose next check date is at or before now,
	// joined to still-existing words, ordered by (next_check_date, number).
	ListDue(ctx context.Context, userID, languageID int64, now time.Time, limit, offset int) ([]domain.StudyCandidate, error)

	// ListByWordIDs fetches the user's records for exactly the given words,
	// validated against the catalog. Used for the bounded study-batch join.
	ListByWordIDs(ctx context.Context, userID int64, wordIDs []int64) ([]domain.Statistic, error)

	// IntegrityCounts reports total/valid/orphaned records in one pass.
	IntegrityCounts(ctx context.Context) (*domain.IntegrityReport, error)
	// ListOrphanIDs returns the ids of records whose word no longer exists.
	ListOrphanIDs(ctx context.Context) ([]int64, error)
	// DeleteByIDs removes the given records, returning how many were deleted.
	DeleteByIDs(ctx context.Context, ids []int64) (int, error)
}

// UserRepository tracks known users for registration and session ownership.
type UserRepository interface {
	EnsureUserExists(ctx context.Context, userID int64) error
	TouchLastSeen(ctx context.Context, userID int64) error
}
