package domain

import "time"

// Word is a single catalog entry: a foreign word with its translation,
// addressed by a per-language sequential number.
type Word struct {
	ID            int64
	LanguageID    int64
	Number        int // 1-based, unique within the language
	Foreign       string
	Translation   string
	Transcription string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Language is a word catalog a user can study.
type Language struct {
	ID        int64
	Code      string
	Name      string
	CreatedAt time.Time
}
