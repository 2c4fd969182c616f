package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"vocabbot/internal/domain"
	"vocabbot/internal/repository"
	"vocabbot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestStudyService(wordRepo *testutil.MockWordRepository, statRepo *testutil.MockStatRepository) *StudyService {
	s := NewStudyService(wordRepo, statRepo, testutil.NewTestLogger())
	s.retry = repository.RetryPolicy{Attempts: 1}
	return s
}

func TestStudyService_SelectForStudy_JoinWithoutFilters(t *testing.T) {
	wordRepo := new(testutil.MockWordRepository)
	statRepo := new(testutil.MockStatRepository)

	words := []domain.Word{
		testutil.NewTestWord(1, 1, 1, "huis", "house"),
		testutil.NewTestWord(2, 1, 2, "boom", "tree"),
		testutil.NewTestWord(3, 1, 3, "fiets", "bicycle"),
	}
	stats := []domain.Statistic{
		*testutil.NewTestStat(10, 42, 2, 1, domain.ScoreKnown),
	}

	wordRepo.On("ListByLanguage", int64(1), 1, 10).Return(words, nil)
	statRepo.On("ListByWordIDs", int64(42), []int64{1, 2, 3}).Return(stats, nil)

	service := newTestStudyService(wordRepo, statRepo)

	candidates, lastNumber, err := service.SelectForStudy(context.Background(), 42, 1, 1, domain.SessionFilter{}, 10)

	assert.NoError(t, err)
	assert.Len(t, candidates, 3)
	assert.Equal(t, 3, lastNumber)
	assert.Nil(t, candidates[0].Progress)
	assert.NotNil(t, candidates[1].Progress)
	assert.Equal(t, int64(10), candidates[1].Progress.ID)
	assert.Nil(t, candidates[2].Progress)

	wordRepo.AssertExpectations(t)
	statRepo.AssertExpectations(t)
}

func TestStudyService_SelectForStudy_EmptyCatalogPage(t *testing.T) {
	wordRepo := new(testutil.MockWordRepository)
	statRepo := new(testutil.MockStatRepository)

	wordRepo.On("ListByLanguage", int64(1), 500, 10).Return([]domain.Word{}, nil)

	service := newTestStudyService(wordRepo, statRepo)

	candidates, lastNumber, err := service.SelectForStudy(context.Background(), 42, 1, 500, domain.SessionFilter{}, 10)

	assert.NoError(t, err)
	assert.Empty(t, candidates)
	assert.Zero(t, lastNumber)
	// No record fetch for an empty page.
	statRepo.AssertNotCalled(t, "ListByWordIDs", mock.Anything, mock.Anything)
}

func TestStudyService_SelectForStudy_SkipFilter(t *testing.T) {
	words := []domain.Word{
		testutil.NewTestWord(1, 1, 1, "huis", "house"),
		testutil.NewTestWord(2, 1, 2, "boom", "tree"),
	}
	skipped := testutil.NewTestStat(10, 42, 1, 1, domain.ScoreUnknown)
	skipped.Skip = true

	tests := []struct {
		name       string
		skipMarked bool
		expected   []int64
	}{
		{
			name:       "skipMarked excludes the flagged word",
			skipMarked: true,
			expected:   []int64{2},
		},
		{
			name:       "without skipMarked the flagged word stays",
			skipMarked: false,
			expected:   []int64{1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wordRepo := new(testutil.MockWordRepository)
			statRepo := new(testutil.MockStatRepository)
			wordRepo.On("ListByLanguage", int64(1), 1, 10).Return(words, nil)
			statRepo.On("ListByWordIDs", int64(42), []int64{1, 2}).Return([]domain.Statistic{*skipped}, nil)

			service := newTestStudyService(wordRepo, statRepo)

			// UseCheckDate keeps the filter pass active in both cases.
			filter := domain.SessionFilter{SkipMarked: tt.skipMarked, UseCheckDate: true}
			candidates, lastNumber, err := service.SelectForStudy(context.Background(), 42, 1, 1, filter, 10)

			assert.NoError(t, err)
			// The raw page position is reported even when filtering trims it.
			assert.Equal(t, 2, lastNumber)
			got := make([]int64, 0, len(candidates))
			for _, c := range candidates {
				got = append(got, c.Word.ID)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestStudyService_SelectForStudy_CheckDateFilter(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(48 * time.Hour)
	past := now.Add(-48 * time.Hour)

	words := []domain.Word{
		testutil.NewTestWord(1, 1, 1, "huis", "house"),
		testutil.NewTestWord(2, 1, 2, "boom", "tree"),
		testutil.NewTestWord(3, 1, 3, "fiets", "bicycle"),
	}
	notDue := testutil.NewTestStat(10, 42, 1, 1, domain.ScoreKnown)
	notDue.NextCheckDate = &future
	due := testutil.NewTestStat(11, 42, 2, 1, domain.ScoreKnown)
	due.NextCheckDate = &past

	wordRepo := new(testutil.MockWordRepository)
	statRepo := new(testutil.MockStatRepository)
	wordRepo.On("ListByLanguage", int64(1), 1, 10).Return(words, nil)
	statRepo.On("ListByWordIDs", int64(42), []int64{1, 2, 3}).Return([]domain.Statistic{*notDue, *due}, nil)

	service := newTestStudyService(wordRepo, statRepo)
	service.now = func() time.Time { return now }

	filter := domain.SessionFilter{UseCheckDate: true}
	candidates, _, err := service.SelectForStudy(context.Background(), 42, 1, 1, filter, 10)

	assert.NoError(t, err)
	// Word 1 is not due; word 2 is due; word 3 was never studied and is
	// always eligible.
	assert.Len(t, candidates, 2)
	assert.Equal(t, int64(2), candidates[0].Word.ID)
	assert.Equal(t, int64(3), candidates[1].Word.ID)
}

func TestStudyService_SelectForStudy_StorageError(t *testing.T) {
	wordRepo := new(testutil.MockWordRepository)
	statRepo := new(testutil.MockStatRepository)

	wordRepo.On("ListByLanguage", int64(1), 1, 10).
		Return(nil, domain.NewStorageError("words.list", errors.New("connection lost")))

	service := newTestStudyService(wordRepo, statRepo)

	_, _, err := service.SelectForStudy(context.Background(), 42, 1, 1, domain.SessionFilter{}, 10)

	assert.Error(t, err)
	assert.True(t, domain.IsRetryable(err))
}

func TestStudyService_RecordScore_Validation(t *testing.T) {
	service := newTestStudyService(new(testutil.MockWordRepository), new(testutil.MockStatRepository))

	for _, score := range []int{-1, 2, 5} {
		_, err := service.RecordScore(context.Background(), 42, 1, 1, score, true)

		var verr *domain.ValidationError
		assert.ErrorAs(t, err, &verr)
	}
}

func TestStudyService_RecordScore_CreatesRecord(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	wordRepo := new(testutil.MockWordRepository)
	statRepo := new(testutil.MockStatRepository)

	statRepo.On("GetByUserAndWord", int64(42), int64(7)).Return(nil, domain.ErrNotFound)
	statRepo.On("Create", mock.MatchedBy(func(s *domain.Statistic) bool {
		return s.UserID == 42 && s.WordID == 7 && s.LanguageID == 1 &&
			s.Score == domain.ScoreKnown && s.CheckInterval == 1 &&
			s.NextCheckDate != nil && s.NextCheckDate.Equal(now.AddDate(0, 0, 1))
	})).Return(testutil.NewTestStat(1, 42, 7, 1, domain.ScoreKnown), nil)

	service := newTestStudyService(wordRepo, statRepo)
	service.now = func() time.Time { return now }

	stat, err := service.RecordScore(context.Background(), 42, 7, 1, domain.ScoreKnown, true)

	assert.NoError(t, err)
	assert.NotNil(t, stat)
	statRepo.AssertExpectations(t)
}

func TestStudyService_RecordScore_MissingWithoutCreate(t *testing.T) {
	wordRepo := new(testutil.MockWordRepository)
	statRepo := new(testutil.MockStatRepository)

	statRepo.On("GetByUserAndWord", int64(42), int64(7)).Return(nil, domain.ErrNotFound)

	service := newTestStudyService(wordRepo, statRepo)

	_, err := service.RecordScore(context.Background(), 42, 7, 1, domain.ScoreKnown, false)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	statRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestStudyService_RecordScore_DoublesInterval(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	existing := testutil.NewTestStat(1, 42, 7, 1, domain.ScoreKnown)
	existing.CheckInterval = 4
	// The word is due, so an identical score is a real review.
	past := now.Add(-time.Hour)
	existing.NextCheckDate = &past

	wordRepo := new(testutil.MockWordRepository)
	statRepo := new(testutil.MockStatRepository)

	statRepo.On("GetByUserAndWord", int64(42), int64(7)).Return(existing, nil)
	statRepo.On("Update", mock.MatchedBy(func(s *domain.Statistic) bool {
		return s.CheckInterval == 8 && s.Score == domain.ScoreKnown &&
			s.NextCheckDate != nil && s.NextCheckDate.Equal(now.AddDate(0, 0, 8))
	})).Return(existing, nil)

	service := newTestStudyService(wordRepo, statRepo)
	service.now = func() time.Time { return now }

	_, err := service.RecordScore(context.Background(), 42, 7, 1, domain.ScoreKnown, true)

	assert.NoError(t, err)
	statRepo.AssertExpectations(t)
}

func TestStudyService_RecordScore_RepeatedKnownIsNoOp(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	future := now.AddDate(0, 0, 8)

	existing := testutil.NewTestStat(1, 42, 7, 1, domain.ScoreKnown)
	existing.CheckInterval = 8
	existing.NextCheckDate = &future

	wordRepo := new(testutil.MockWordRepository)
	statRepo := new(testutil.MockStatRepository)

	statRepo.On("GetByUserAndWord", int64(42), int64(7)).Return(existing, nil)
	// A retried "known" on a not-yet-due word must not grow the interval.
	statRepo.On("Update", mock.MatchedBy(func(s *domain.Statistic) bool {
		return s.CheckInterval == 8 && s.NextCheckDate.Equal(future)
	})).Return(existing, nil)

	service := newTestStudyService(wordRepo, statRepo)
	service.now = func() time.Time { return now }

	_, err := service.RecordScore(context.Background(), 42, 7, 1, domain.ScoreKnown, true)

	assert.NoError(t, err)
	statRepo.AssertExpectations(t)
}

func TestStudyService_RecordScore_UnknownResets(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	future := now.AddDate(0, 0, 32)

	existing := testutil.NewTestStat(1, 42, 7, 1, domain.ScoreKnown)
	existing.CheckInterval = 32
	existing.NextCheckDate = &future

	wordRepo := new(testutil.MockWordRepository)
	statRepo := new(testutil.MockStatRepository)

	statRepo.On("GetByUserAndWord", int64(42), int64(7)).Return(existing, nil)
	statRepo.On("Update", mock.MatchedBy(func(s *domain.Statistic) bool {
		return s.CheckInterval == 0 && s.NextCheckDate == nil && s.Score == domain.ScoreUnknown
	})).Return(existing, nil)

	service := newTestStudyService(wordRepo, statRepo)
	service.now = func() time.Time { return now }

	_, err := service.RecordScore(context.Background(), 42, 7, 1, domain.ScoreUnknown, true)

	assert.NoError(t, err)
	statRepo.AssertExpectations(t)
}

func TestStudyService_GetProgress(t *testing.T) {
	last := time.Date(2024, 5, 30, 10, 0, 0, 0, time.UTC)

	wordRepo := new(testutil.MockWordRepository)
	statRepo := new(testutil.MockStatRepository)

	wordRepo.On("CountByLanguage", int64(1)).Return(200, nil)
	statRepo.On("AggregateProgress", int64(42), int64(1), true).Return(&domain.ProgressSummary{
		Studied:       80,
		Known:         50,
		Skipped:       5,
		LastStudyDate: &last,
	}, nil)

	service := newTestStudyService(wordRepo, statRepo)

	p, err := service.GetProgress(context.Background(), 42, 1)

	assert.NoError(t, err)
	assert.Equal(t, 200, p.TotalWords)
	assert.Equal(t, 80, p.Studied)
	assert.Equal(t, 50, p.Known)
	assert.Equal(t, 5, p.Skipped)
	assert.Equal(t, 25.0, p.Percentage())
	assert.Equal(t, &last, p.LastStudyDate)
}

func TestStudyService_ListStudied(t *testing.T) {
	wordRepo := new(testutil.MockWordRepository)
	statRepo := new(testutil.MockStatRepository)

	stats := []domain.Statistic{*testutil.NewTestStat(10, 42, 7, 1, domain.ScoreKnown)}
	statRepo.On("ListByUser", int64(42), int64(1), 10, 0, true).Return(stats, nil)
	statRepo.On("CountByUser", int64(42), int64(1), true).Return(35, nil)
	wordRepo.On("ListByIDs", []int64{7}).
		Return([]domain.Word{testutil.NewTestWord(7, 1, 7, "huis", "house")}, nil)

	service := newTestStudyService(wordRepo, statRepo)

	got, total, err := service.ListStudied(context.Background(), 42, 1, 10, 0)

	assert.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 35, total)
	// Records come back joined to the words they track.
	assert.Equal(t, "huis", got[0].Word.Foreign)
	assert.Equal(t, int64(10), got[0].Progress.ID)
	statRepo.AssertExpectations(t)
	wordRepo.AssertExpectations(t)
}

func TestStudyService_ListStudied_EmptyPage(t *testing.T) {
	wordRepo := new(testutil.MockWordRepository)
	statRepo := new(testutil.MockStatRepository)

	statRepo.On("ListByUser", int64(42), int64(1), 10, 30, true).Return([]domain.Statistic{}, nil)
	statRepo.On("CountByUser", int64(42), int64(1), true).Return(30, nil)

	service := newTestStudyService(wordRepo, statRepo)

	got, total, err := service.ListStudied(context.Background(), 42, 1, 10, 30)

	assert.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 30, total)
	wordRepo.AssertNotCalled(t, "ListByIDs", mock.Anything)
}

func TestStudyService_GetDueForReview(t *testing.T) {
	word := testutil.NewTestWord(1, 1, 1, "huis", "house")
	stat := testutil.NewTestStat(10, 42, 1, 1, domain.ScoreKnown)

	wordRepo := new(testutil.MockWordRepository)
	statRepo := new(testutil.MockStatRepository)

	statRepo.On("ListDue", int64(42), int64(1), 10, 0).
		Return([]domain.StudyCandidate{testutil.NewTestCandidate(word, stat)}, nil)

	service := newTestStudyService(wordRepo, statRepo)

	due, err := service.GetDueForReview(context.Background(), 42, 1, 10, 0)

	assert.NoError(t, err)
	assert.Len(t, due, 1)
	assert.Equal(t, int64(1), due[0].Word.ID)
	statRepo.AssertExpectations(t)
}
