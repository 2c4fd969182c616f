package testutil

import (
	"time"

	"vocabbot/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestWord creates a catalog word for tests
func NewTestWord(id int64, languageID int64, number int, foreign, translation string) domain.Word {
	return domain.Word{
		ID:          id,
		LanguageID:  languageID,
		Number:      number,
		Foreign:     foreign,
		Translation: translation,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

// NewTestStat creates a learning record for tests
func NewTestStat(id, userID, wordID, languageID int64, score int) *domain.Statistic {
	return &domain.Statistic{
		ID:         id,
		UserID:     userID,
		WordID:     wordID,
		LanguageID: languageID,
		Score:      score,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
}

// NewTestCandidate joins a word with an optional record for tests
func NewTestCandidate(word domain.Word, progress *domain.Statistic) domain.StudyCandidate {
	return domain.StudyCandidate{Word: word, Progress: progress}
}
