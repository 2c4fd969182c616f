package service

import (
	"context"
	"errors"
	"sync"

	"vocabbot/internal/domain"

	"go.uber.org/zap"
)

// ErrSessionCompleted is returned for actions on a session that has already
// run out of words.
var ErrSessionCompleted = errors.New("study session completed")

// SessionManager owns the per-user study sessions. Sessions live in memory
// for the duration of one study loop; the transport layer dispatches a
// user's actions sequentially, so the mutex only guards the map itself and
// is never held across storage calls.
type SessionManager struct {
	study    *StudyService
	logger   *zap.Logger
	pageSize int

	mu       sync.RWMutex
	sessions map[int64]*domain.Session
}

// NewSessionManager creates a new session manager. pageSize is the study
// batch size used for every candidate fetch.
func NewSessionManager(study *StudyService, pageSize int, logger *zap.Logger) *SessionManager {
	return &SessionManager{
		study:    study,
		logger:   logger,
		pageSize: pageSize,
		sessions: make(map[int64]*domain.Session),
	}
}

// Get returns the user's active session, or nil.
func (m *SessionManager) Get(userID int64) *domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[userID]
}

func (m *SessionManager) put(s *domain.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.UserID] = s
}

// End discards the user's session, if any.
func (m *SessionManager) End(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

// Start begins a study session for one language and filter configuration,
// replacing any previous session for the user, and loads the first batch.
func (m *SessionManager) Start(ctx context.Context, userID, languageID int64, filter domain.SessionFilter) (*domain.Session, error) {
	s := &domain.Session{
		UserID:     userID,
		LanguageID: languageID,
		Filter:     filter,
		State:      domain.StateStudying,
		// Index starts below zero so the first fetch lands on batch 0.
		BatchInfo:  domain.BatchInfo{Index: -1, NextNumber: 1},
	}
	s.ResetWordFlags()

	if err := m.replenish(ctx, s); err != nil {
		return nil, err
	}

	m.put(s)
	m.logger.Info("study session started",
		zap.Int64("user_id", userID),
		zap.Int64("language_id", languageID),
		zap.String("state", string(s.State)),
	)
	return s, nil
}

// Reveal shows the current word's translation. Revealing records a
// provisional unknown score: seeing the answer counts as not knowing the
// word until the user says otherwise. Revealing after a tentative "known"
// rolls the score back to unknown — the latest evaluation wins.
func (m *SessionManager) Reveal(ctx context.Context, userID int64) (*domain.Session, error) {
	s, err := m.active(userID)
	if err != nil {
		return nil, err
	}
	cur := s.Current()
	if cur == nil {
		return nil, domain.ErrNotFound
	}

	if _, err := m.recordForCandidate(ctx, s, cur, domain.ScoreUnknown); err != nil {
		return nil, err
	}

	s.Revealed = true
	s.ScoredTurn = true
	s.State = domain.StateViewingWord
	return s, nil
}

// MarkKnown records a known score for the current word and waits for an
// explicit advance before moving on.
func (m *SessionManager) MarkKnown(ctx context.Context, userID int64) (*domain.Session, error) {
	s, err := m.active(userID)
	if err != nil {
		return nil, err
	}
	cur := s.Current()
	if cur == nil {
		return nil, domain.ErrNotFound
	}

	if _, err := m.recordForCandidate(ctx, s, cur, domain.ScoreKnown); err != nil {
		return nil, err
	}

	s.ScoredTurn = true
	s.State = domain.StateConfirming
	return s, nil
}

// MarkUnknown records an unknown score for the current word and advances.
func (m *SessionManager) MarkUnknown(ctx context.Context, userID int64) (*domain.Session, error) {
	s, err := m.active(userID)
	if err != nil {
		return nil, err
	}
	cur := s.Current()
	if cur == nil {
		return nil, domain.ErrNotFound
	}

	if _, err := m.recordForCandidate(ctx, s, cur, domain.ScoreUnknown); err != nil {
		return nil, err
	}

	return s, m.advance(ctx, s)
}

// Advance moves to the next word. From the revealed view it first records
// an unknown score unless one was already recorded this turn; from the
// confirming state it is the explicit confirm-next step.
func (m *SessionManager) Advance(ctx context.Context, userID int64) (*domain.Session, error) {
	s, err := m.active(userID)
	if err != nil {
		return nil, err
	}
	cur := s.Current()
	if cur == nil {
		return nil, domain.ErrNotFound
	}

	if s.State == domain.StateViewingWord && !s.ScoredTurn {
		if _, err := m.recordForCandidate(ctx, s, cur, domain.ScoreUnknown); err != nil {
			return nil, err
		}
	}

	return s, m.advance(ctx, s)
}

// UseHint marks a hint as used for the current word and stores its content
// on the learning record.
func (m *SessionManager) UseHint(ctx context.Context, userID int64, kind, hintText, hintImageID string) (*domain.Session, error) {
	s, err := m.active(userID)
	if err != nil {
		return nil, err
	}
	cur := s.Current()
	if cur == nil {
		return nil, domain.ErrNotFound
	}

	stat, err := m.study.RecordHint(ctx, s.UserID, cur.Word.ID, s.LanguageID, hintText, hintImageID)
	if err != nil {
		return nil, err
	}
	cur.Progress = stat
	s.UsedHints[kind] = true
	return s, nil
}

func (m *SessionManager) active(userID int64) (*domain.Session, error) {
	s := m.Get(userID)
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if s.State == domain.StateCompleted {
		return nil, ErrSessionCompleted
	}
	return s, nil
}

// recordForCandidate persists a score event and mirrors the updated record
// back onto the candidate so the session sees its own writes.
func (m *SessionManager) recordForCandidate(ctx context.Context, s *domain.Session, cur *domain.StudyCandidate, score int) (*domain.Statistic, error) {
	stat, err := m.study.RecordScore(ctx, s.UserID, cur.Word.ID, s.LanguageID, score, true)
	if err != nil {
		// Session state untouched: repeating the action retries cleanly.
		return nil, err
	}
	cur.Progress = stat
	return stat, nil
}

// advance moves the cursor forward, replenishing the batch when the current
// one is exhausted. On any storage failure the session keeps its last-known
// cursor and state.
func (m *SessionManager) advance(ctx context.Context, s *domain.Session) error {
	if s.Cursor+1 < len(s.Batch) {
		s.Cursor++
		s.WordsProcessed++
		s.ResetWordFlags()
		s.State = domain.StateStudying
		return nil
	}

	if err := m.replenish(ctx, s); err != nil {
		return err
	}
	s.WordsProcessed++
	return nil
}

// replenish fetches the next non-empty batch starting at the recorded
// word number, skipping past pages that filtering emptied. Each fetch
// advances past the last catalog number it saw, so the loop walks the
// finite catalog regardless of gaps in the numbering and completes the
// session when a fetch comes back with no raw words at all.
func (m *SessionManager) replenish(ctx context.Context, s *domain.Session) error {
	next := s.BatchInfo.NextNumber
	batches := 0
	for {
		candidates, lastNumber, err := m.study.SelectForStudy(ctx, s.UserID, s.LanguageID, next, s.Filter, m.pageSize)
		if err != nil {
			// A failed replenish must not complete the session.
			return err
		}
		batches++

		if len(candidates) > 0 {
			s.Batch = candidates
			s.Cursor = 0
			s.ResetWordFlags()
			s.State = domain.StateStudying
			s.BatchInfo = domain.BatchInfo{
				Index:      s.BatchInfo.Index + batches,
				NextNumber: candidates[len(candidates)-1].Word.Number + 1,
				Requested:  m.pageSize,
				Received:   len(candidates),
			}
			s.BatchesLoaded += batches
			return nil
		}

		if lastNumber == 0 {
			// Catalog exhausted.
			break
		}
		next = lastNumber + 1
	}

	s.Batch = nil
	s.Cursor = 0
	s.State = domain.StateCompleted
	s.BatchInfo.Index += batches
	s.BatchInfo.NextNumber = next
	s.BatchesLoaded += batches
	m.logger.Info("study session completed",
		zap.Int64("user_id", s.UserID),
		zap.Int("words_processed", s.WordsProcessed),
		zap.Int("batches_loaded", s.BatchesLoaded),
	)
	return nil
}
