package service

import (
	"context"
	"fmt"

	"vocabbot/internal/domain"
	"vocabbot/internal/repository"

	"go.uber.org/zap"
)

// AuditService reports and purges orphaned learning records: records whose
// word was deleted from the catalog. Orphans are a normal transient
// condition of the store, not corruption, so reporting never fails a study
// path; cleanup is explicit and admin-driven.
type AuditService struct {
	statRepo repository.StatRepository
	retry    repository.RetryPolicy
	logger   *zap.Logger
}

// NewAuditService creates a new integrity auditor.
func NewAuditService(statRepo repository.StatRepository, logger *zap.Logger) *AuditService {
	return &AuditService{
		statRepo: statRepo,
		retry:    repository.DefaultRetryPolicy,
		logger:   logger,
	}
}

// Report returns total, valid and orphaned record counts in one pass.
func (s *AuditService) Report(ctx context.Context) (*domain.IntegrityReport, error) {
	return repository.Retry(ctx, s.retry, func(ctx context.Context) (*domain.IntegrityReport, error) {
		return s.statRepo.IntegrityCounts(ctx)
	})
}

// Cleanup deletes exactly the orphaned records identified in this pass.
// With dryRun set it only counts them. A deleted count differing from the
// found count means the store changed under us in a way worth surfacing,
// not silently ignoring.
func (s *AuditService) Cleanup(ctx context.Context, dryRun bool) (*domain.CleanupResult, error) {
	ids, err := repository.Retry(ctx, s.retry, func(ctx context.Context) ([]int64, error) {
		return s.statRepo.ListOrphanIDs(ctx)
	})
	if err != nil {
		return nil, err
	}

	result := &domain.CleanupResult{Found: len(ids)}
	if dryRun || len(ids) == 0 {
		return result, nil
	}

	// Delete is not retried: repeating an ambiguous delete could mask a
	// partial failure behind a clean second run.
	deleted, err := s.statRepo.DeleteByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	result.Deleted = deleted

	s.logger.Info("orphan cleanup finished",
		zap.Int("found", result.Found),
		zap.Int("deleted", result.Deleted),
	)

	if result.Deleted != result.Found {
		return result, fmt.Errorf("orphan cleanup mismatch: found %d, deleted %d", result.Found, result.Deleted)
	}
	return result, nil
}
