package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatistic_IsDue(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name     string
		next     *time.Time
		expected bool
	}{
		{
			name:     "no check date is always due",
			next:     nil,
			expected: true,
		},
		{
			name:     "past check date is due",
			next:     &past,
			expected: true,
		},
		{
			name:     "check date equal to now is due",
			next:     &now,
			expected: true,
		},
		{
			name:     "future check date is not due",
			next:     &future,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Statistic{NextCheckDate: tt.next}
			assert.Equal(t, tt.expected, s.IsDue(now))
		})
	}
}

func TestProgressSummary_Percentage(t *testing.T) {
	assert.Equal(t, 0.0, ProgressSummary{}.Percentage())
	assert.Equal(t, 25.0, ProgressSummary{TotalWords: 200, Known: 50}.Percentage())
}

func TestIntegrityReport_OrphanedPercentage(t *testing.T) {
	assert.Equal(t, 0.0, IntegrityReport{}.OrphanedPercentage())
	assert.Equal(t, 5.0, IntegrityReport{Total: 100, Valid: 95, Orphaned: 5}.OrphanedPercentage())
}

func TestSession_Current(t *testing.T) {
	s := &Session{
		State: StateStudying,
		Batch: []StudyCandidate{
			{Word: Word{ID: 1}},
			{Word: Word{ID: 2}},
		},
		Cursor: 1,
	}

	assert.Equal(t, int64(2), s.Current().Word.ID)

	s.Cursor = 2
	assert.Nil(t, s.Current())

	s.Cursor = 0
	s.State = StateCompleted
	assert.Nil(t, s.Current())
}
