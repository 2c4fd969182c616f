package domain

// SessionState is the phase of a user's study loop for the current word.
type SessionState string

const (
	// StateStudying: a word is shown face-down, awaiting an evaluation.
	StateStudying SessionState = "studying"
	// StateViewingWord: the word was revealed; provisional score is unknown.
	StateViewingWord SessionState = "viewing_word"
	// StateConfirming: the word was marked known, awaiting explicit advance.
	StateConfirming SessionState = "confirming"
	// StateCompleted: no more candidates anywhere; terminal until restart.
	StateCompleted SessionState = "completed"
)

// SessionFilter is the candidate filter policy fixed for the whole session.
type SessionFilter struct {
	SkipMarked   bool // drop words whose statistic has the skip flag set
	UseCheckDate bool // drop words whose next check date is in the future
}

// BatchInfo tracks batch fetch bookkeeping for one session: which batch we
// are on, where the next fetch starts, and how the last fetch went. Used for
// telemetry and for advancing the offset when a fetch comes back empty.
type BatchInfo struct {
	Index       int // 0-based, incremented per fetch
	NextNumber  int // word number the next fetch starts from
	Requested   int
	Received    int
}

// Session is one user's active study loop for a single language and filter
// configuration. Owned exclusively by the session manager; never persisted.
type Session struct {
	UserID     int64
	LanguageID int64
	Filter     SessionFilter

	State      SessionState
	Batch      []StudyCandidate
	Cursor     int
	BatchInfo  BatchInfo

	// Per-word transient flags, reset on every cursor advance.
	Revealed    bool
	ScoredTurn  bool // an evaluation was already recorded for the current word
	UsedHints   map[string]bool

	// Session-lifetime counters.
	WordsProcessed int
	BatchesLoaded  int
}

// Current returns the candidate under the cursor, or nil when the batch is
// exhausted or the session is completed.
func (s *Session) Current() *StudyCandidate {
	if s.State == StateCompleted || s.Cursor < 0 || s.Cursor >= len(s.Batch) {
		return nil
	}
	return &s.Batch[s.Cursor]
}

// ResetWordFlags clears the per-word transient flags after a cursor advance.
func (s *Session) ResetWordFlags() {
	s.Revealed = false
	s.ScoredTurn = false
	s.UsedHints = make(map[string]bool)
}
