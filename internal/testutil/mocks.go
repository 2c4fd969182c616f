package testutil

import (
	"context"
	"time"

	"vocabbot/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockWordRepository is a mock for repository.WordRepository
type MockWordRepository struct {
	mock.Mock
}

func (m *MockWordRepository) GetByLanguageAndNumber(ctx context.Context, languageID int64, number int) (*domain.Word, error) {
	args := m.Called(languageID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Word), args.Error(1)
}

func (m *MockWordRepository) CountByLanguage(ctx context.Context, languageID int64) (int, error) {
	args := m.Called(languageID)
	return args.Int(0), args.Error(1)
}

func (m *MockWordRepository) ListByIDs(ctx context.Context, ids []int64) ([]domain.Word, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Word), args.Error(1)
}

func (m *MockWordRepository) ListByLanguage(ctx context.Context, languageID int64, fromNumber, limit int) ([]domain.Word, error) {
	args := m.Called(languageID, fromNumber, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Word), args.Error(1)
}

// MockStatRepository is a mock for repository.StatRepository
type MockStatRepository struct {
	mock.Mock
}

func (m *MockStatRepository) Create(ctx context.Context, stat *domain.Statistic) (*domain.Statistic, error) {
	args := m.Called(stat)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Statistic), args.Error(1)
}

func (m *MockStatRepository) Update(ctx context.Context, stat *domain.Statistic) (*domain.Statistic, error) {
	args := m.Called(stat)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Statistic), args.Error(1)
}

func (m *MockStatRepository) GetByUserAndWord(ctx context.Context, userID, wordID int64) (*domain.Statistic, error) {
	args := m.Called(userID, wordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Statistic), args.Error(1)
}

func (m *MockStatRepository) ListByUser(ctx context.Context, userID, languageID int64, limit, offset int, validate bool) ([]domain.Statistic, error) {
	args := m.Called(userID, languageID, limit, offset, validate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Statistic), args.Error(1)
}

func (m *MockStatRepository) CountByUser(ctx context.Context, userID, languageID int64, validate bool) (int, error) {
	args := m.Called(userID, languageID, validate)
	return args.Int(0), args.Error(1)
}

func (m *MockStatRepository) AggregateProgress(ctx context.Context, userID, languageID int64, validate bool) (*domain.ProgressSummary, error) {
	args := m.Called(userID, languageID, validate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProgressSummary), args.Error(1)
}

func (m *MockStatRepository) ListDue(ctx context.Context, userID, languageID int64, now time.Time, limit, offset int) ([]domain.StudyCandidate, error) {
	args := m.Called(userID, languageID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StudyCandidate), args.Error(1)
}

func (m *MockStatRepository) ListByWordIDs(ctx context.Context, userID int64, wordIDs []int64) ([]domain.Statistic, error) {
	args := m.Called(userID, wordIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Statistic), args.Error(1)
}

func (m *MockStatRepository) IntegrityCounts(ctx context.Context) (*domain.IntegrityReport, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IntegrityReport), args.Error(1)
}

func (m *MockStatRepository) ListOrphanIDs(ctx context.Context) ([]int64, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockStatRepository) DeleteByIDs(ctx context.Context, ids []int64) (int, error) {
	args := m.Called(ids)
	return args.Int(0), args.Error(1)
}

// MockUserRepository is a mock for repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) EnsureUserExists(ctx context.Context, userID int64) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockUserRepository) TouchLastSeen(ctx context.Context, userID int64) error {
	args := m.Called(userID)
	return args.Error(0)
}
