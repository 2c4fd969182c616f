package service

import (
	"context"
	"errors"
	"time"

	"vocabbot/internal/domain"
	"vocabbot/internal/repository"
	"vocabbot/internal/schedule"

	"go.uber.org/zap"
)

// StudyService selects study candidates and records score events. It is
// stateless: batching and cursor state live in the session manager.
type StudyService struct {
	wordRepo repository.WordRepository
	statRepo repository.StatRepository
	retry    repository.RetryPolicy
	logger   *zap.Logger
	now      func() time.Time
}

// NewStudyService creates a new study service.
func NewStudyService(wordRepo repository.WordRepository, statRepo repository.StatRepository, logger *zap.Logger) *StudyService {
	return &StudyService{
		wordRepo: wordRepo,
		statRepo: statRepo,
		retry:    repository.DefaultRetryPolicy,
		logger:   logger,
		now:      time.Now,
	}
}

// SelectForStudy returns one page of study candidates: catalog words from
// startNumber joined with the user's learning records, then filtered by the
// session's policy. A filtered page may be shorter than limit or empty even
// though eligible words exist further on; the session replenish loop handles
// that, not the selector. The second return is the number of the last
// catalog word fetched, so the caller can resume exactly past the page even
// when filtering emptied it; zero means the catalog holds nothing at or
// past startNumber.
func (s *StudyService) SelectForStudy(ctx context.Context, userID, languageID int64, startNumber int, filter domain.SessionFilter, limit int) ([]domain.StudyCandidate, int, error) {
	words, err := repository.Retry(ctx, s.retry, func(ctx context.Context) ([]domain.Word, error) {
		return s.wordRepo.ListByLanguage(ctx, languageID, startNumber, limit)
	})
	if err != nil {
		return nil, 0, err
	}
	if len(words) == 0 {
		// Catalog exhausted past startNumber; not an error.
		return nil, 0, nil
	}
	lastNumber := words[len(words)-1].Number

	wordIDs := make([]int64, len(words))
	for i, w := range words {
		wordIDs[i] = w.ID
	}

	// Records for exactly this page, validated against the catalog.
	stats, err := repository.Retry(ctx, s.retry, func(ctx context.Context) ([]domain.Statistic, error) {
		return s.statRepo.ListByWordIDs(ctx, userID, wordIDs)
	})
	if err != nil {
		return nil, 0, err
	}

	byWord := make(map[int64]*domain.Statistic, len(stats))
	for i := range stats {
		byWord[stats[i].WordID] = &stats[i]
	}

	candidates := make([]domain.StudyCandidate, 0, len(words))
	for _, w := range words {
		candidates = append(candidates, domain.StudyCandidate{
			Word:     w,
			Progress: byWord[w.ID],
		})
	}

	// The common "review everything" mode skips the filter pass entirely.
	if !filter.SkipMarked && !filter.UseCheckDate {
		return candidates, lastNumber, nil
	}

	now := s.now()
	filtered := candidates[:0]
	for _, c := range candidates {
		if c.Progress != nil {
			// Never-studied words are always eligible; only recorded
			// progress can exclude a candidate.
			if filter.SkipMarked && c.Progress.Skip {
				continue
			}
			if filter.UseCheckDate && !c.Progress.IsDue(now) {
				continue
			}
		}
		filtered = append(filtered, c)
	}
	return filtered, lastNumber, nil
}

// RecordScore applies a score event to the user's record for a word,
// running the interval computation and persisting the result. With create
// set, a missing record is created; otherwise domain.ErrNotFound is
// returned. languageID is only consulted on create.
//
// Re-applying the score a record already carries while the word is not yet
// due leaves the interval untouched, so a caller retrying an ambiguous
// write cannot double-grow the schedule.
func (s *StudyService) RecordScore(ctx context.Context, userID, wordID, languageID int64, score int, create bool) (*domain.Statistic, error) {
	if score != domain.ScoreUnknown && score != domain.ScoreKnown {
		return nil, domain.NewValidationError("score", "must be 0 or 1")
	}

	now := s.now()

	stat, err := s.statRepo.GetByUserAndWord(ctx, userID, wordID)
	if errors.Is(err, domain.ErrNotFound) {
		if !create {
			return nil, domain.ErrNotFound
		}
		days, next := schedule.ComputeNextInterval(0, score, now)
		created, err := s.statRepo.Create(ctx, &domain.Statistic{
			UserID:        userID,
			WordID:        wordID,
			LanguageID:    languageID,
			Score:         score,
			CheckInterval: days,
			NextCheckDate: next,
		})
		if err != nil {
			return nil, err
		}
		s.logger.Debug("learning record created",
			zap.Int64("user_id", userID),
			zap.Int64("word_id", wordID),
			zap.Int("score", score),
		)
		return created, nil
	}
	if err != nil {
		return nil, err
	}

	if stat.Score == score && score == domain.ScoreKnown && !stat.IsDue(now) {
		// Identical score on a not-yet-due word: a repeat of the same
		// evaluation, not a new review. Refresh the record as is.
		return s.statRepo.Update(ctx, stat)
	}

	days, next := schedule.ComputeNextInterval(stat.CheckInterval, score, now)
	stat.Score = score
	stat.CheckInterval = days
	stat.NextCheckDate = next
	return s.statRepo.Update(ctx, stat)
}

// SetSkip toggles the skip flag on the user's record for a word, creating
// the record when none exists yet.
func (s *StudyService) SetSkip(ctx context.Context, userID, wordID, languageID int64, skip bool) (*domain.Statistic, error) {
	stat, err := s.statRepo.GetByUserAndWord(ctx, userID, wordID)
	if errors.Is(err, domain.ErrNotFound) {
		return s.statRepo.Create(ctx, &domain.Statistic{
			UserID:     userID,
			WordID:     wordID,
			LanguageID: languageID,
			Skip:       skip,
		})
	}
	if err != nil {
		return nil, err
	}

	stat.Skip = skip
	return s.statRepo.Update(ctx, stat)
}

// RecordHint stores the hint text or image shown for a word, creating the
// record when none exists yet.
func (s *StudyService) RecordHint(ctx context.Context, userID, wordID, languageID int64, hintText, hintImageID string) (*domain.Statistic, error) {
	stat, err := s.statRepo.GetByUserAndWord(ctx, userID, wordID)
	if errors.Is(err, domain.ErrNotFound) {
		return s.statRepo.Create(ctx, &domain.Statistic{
			UserID:      userID,
			WordID:      wordID,
			LanguageID:  languageID,
			HintText:    hintText,
			HintImageID: hintImageID,
		})
	}
	if err != nil {
		return nil, err
	}

	if hintText != "" {
		stat.HintText = hintText
	}
	if hintImageID != "" {
		stat.HintImageID = hintImageID
	}
	return s.statRepo.Update(ctx, stat)
}

// GetProgress returns the user's progress counters for one language,
// combining the catalog size with a single statistics aggregate.
func (s *StudyService) GetProgress(ctx context.Context, userID, languageID int64) (*domain.ProgressSummary, error) {
	total, err := repository.Retry(ctx, s.retry, func(ctx context.Context) (int, error) {
		return s.wordRepo.CountByLanguage(ctx, languageID)
	})
	if err != nil {
		return nil, err
	}

	summary, err := repository.Retry(ctx, s.retry, func(ctx context.Context) (*domain.ProgressSummary, error) {
		return s.statRepo.AggregateProgress(ctx, userID, languageID, true)
	})
	if err != nil {
		return nil, err
	}

	summary.TotalWords = total
	return summary, nil
}

// ListStudied returns one page of the user's learning records, validated
// against the catalog and joined to the words they track, together with
// the total count for pagination. The page is cut before the existence
// check, so it may hold fewer than limit rows when orphans were dropped
// from it.
func (s *StudyService) ListStudied(ctx context.Context, userID, languageID int64, limit, offset int) ([]domain.StudyCandidate, int, error) {
	stats, err := repository.Retry(ctx, s.retry, func(ctx context.Context) ([]domain.Statistic, error) {
		return s.statRepo.ListByUser(ctx, userID, languageID, limit, offset, true)
	})
	if err != nil {
		return nil, 0, err
	}

	total, err := repository.Retry(ctx, s.retry, func(ctx context.Context) (int, error) {
		return s.statRepo.CountByUser(ctx, userID, languageID, true)
	})
	if err != nil {
		return nil, 0, err
	}

	if len(stats) == 0 {
		return nil, total, nil
	}

	wordIDs := make([]int64, 0, len(stats))
	for _, st := range stats {
		wordIDs = append(wordIDs, st.WordID)
	}
	words, err := repository.Retry(ctx, s.retry, func(ctx context.Context) ([]domain.Word, error) {
		return s.wordRepo.ListByIDs(ctx, wordIDs)
	})
	if err != nil {
		return nil, 0, err
	}
	byID := make(map[int64]domain.Word, len(words))
	for _, w := range words {
		byID[w.ID] = w
	}

	candidates := make([]domain.StudyCandidate, 0, len(stats))
	for i := range stats {
		w, ok := byID[stats[i].WordID]
		if !ok {
			continue
		}
		candidates = append(candidates, domain.StudyCandidate{Word: w, Progress: &stats[i]})
	}
	return candidates, total, nil
}

// GetDueForReview returns a page of due candidates ordered by due date,
// then word number.
func (s *StudyService) GetDueForReview(ctx context.Context, userID, languageID int64, limit, offset int) ([]domain.StudyCandidate, error) {
	return repository.Retry(ctx, s.retry, func(ctx context.Context) ([]domain.StudyCandidate, error) {
		return s.statRepo.ListDue(ctx, userID, languageID, s.now(), limit, offset)
	})
}
