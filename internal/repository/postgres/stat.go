package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"vocabbot/internal/domain"

	"github.com/lib/pq"
)

// StatRepo implements repository.StatRepository over the statistics table.
type StatRepo struct {
	db *sql.DB
}

// NewStatRepo creates a new learning-record repository.
func NewStatRepo(db *sql.DB) *StatRepo {
	return &StatRepo{db: db}
}

const statColumns = `id, user_id, word_id, language_id, score, skip, check_interval, next_check_date, hint_text, hint_image_id, created_at, updated_at`

func scanStat(row interface{ Scan(...any) error }) (*domain.Statistic, error) {
	var s domain.Statistic
	var next sql.NullTime
	err := row.Scan(
		&s.ID, &s.UserID, &s.WordID, &s.LanguageID, &s.Score, &s.Skip,
		&s.CheckInterval, &next, &s.HintText, &s.HintImageID,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if next.Valid {
		s.NextCheckDate = &next.Time
	}
	return &s, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// Create inserts a new record for (user, word).
func (r *StatRepo) Create(ctx context.Context, stat *domain.Statistic) (*domain.Statistic, error) {
	query := `
		INSERT INTO statistics (user_id, word_id, language_id, score, skip, check_interval, next_check_date, hint_text, hint_image_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + statColumns + `
	`
	created, err := scanStat(r.db.QueryRowContext(ctx, query,
		stat.UserID, stat.WordID, stat.LanguageID, stat.Score, stat.Skip,
		stat.CheckInterval, nullTime(stat.NextCheckDate), stat.HintText, stat.HintImageID,
	))
	if err != nil {
		return nil, domain.NewStorageError("statistics.create", err)
	}
	return created, nil
}

// Update applies field updates to an existing record and refreshes
// updated_at. Fails with domain.ErrNotFound when no record exists.
func (r *StatRepo) Update(ctx context.Context, stat *domain.Statistic) (*domain.Statistic, error) {
	query := `
		UPDATE statistics
		SET score = $3, skip = $4, check_interval = $5, next_check_date = $6,
			hint_text = $7, hint_image_id = $8, updated_at = NOW()
		WHERE user_id = $1 AND word_id = $2
		RETURNING ` + statColumns + `
	`
	updated, err := scanStat(r.db.QueryRowContext(ctx, query,
		stat.UserID, stat.WordID, stat.Score, stat.Skip, stat.CheckInterval,
		nullTime(stat.NextCheckDate), stat.HintText, stat.HintImageID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.NewStorageError("statistics.update", err)
	}
	return updated, nil
}

// GetByUserAndWord returns the record for one (user, word) pair.
func (r *StatRepo) GetByUserAndWord(ctx context.Context, userID, wordID int64) (*domain.Statistic, error) {
	query := `
		SELECT ` + statColumns + `
		FROM statistics
		WHERE user_id = $1 AND word_id = $2
	`
	s, err := scanStat(r.db.QueryRowContext(ctx, query, userID, wordID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.NewStorageError("statistics.get", err)
	}
	return s, nil
}

// ListByUser pages records for one user. With validate set, the page is cut
// first and orphans are dropped from it afterwards, so a page can come back
// shorter than limit even when more raw rows exist. languageID 0 means all
// languages.
func (r *StatRepo) ListByUser(ctx context.Context, userID, languageID int64, limit, offset int, validate bool) ([]domain.Statistic, error) {
	query := `
		SELECT ` + statColumns + ` FROM (
			SELECT ` + statColumns + `
			FROM statistics
			WHERE user_id = $1 AND ($2 = 0 OR language_id = $2)
			ORDER BY id
			LIMIT $3 OFFSET $4
		) s
	`
	if validate {
		query += ` WHERE EXISTS (SELECT 1 FROM words w WHERE w.id = s.word_id)`
	}
	// The subquery's order does not carry through the existence filter, so
	// the outer query orders again.
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, userID, languageID, limit, offset)
	if err != nil {
		return nil, domain.NewStorageError("statistics.list", err)
	}
	defer rows.Close()

	var stats []domain.Statistic
	for rows.Next() {
		s, err := scanStat(rows)
		if err != nil {
			return nil, domain.NewStorageError("statistics.list", err)
		}
		stats = append(stats, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("statistics.list", err)
	}
	return stats, nil
}

// CountByUser returns the number of records for one user as a single
// aggregate, optionally counting only records whose word still exists.
func (r *StatRepo) CountByUser(ctx context.Context, userID, languageID int64, validate bool) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM statistics s
		WHERE s.user_id = $1 AND ($2 = 0 OR s.language_id = $2)
	`
	if validate {
		query += ` AND EXISTS (SELECT 1 FROM words w WHERE w.id = s.word_id)`
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, userID, languageID).Scan(&count); err != nil {
		return 0, domain.NewStorageError("statistics.count", err)
	}
	return count, nil
}

// AggregateProgress computes the progress counters in one round trip.
// TotalWords is not filled here; the caller combines it with the catalog
// count.
func (r *StatRepo) AggregateProgress(ctx context.Context, userID, languageID int64, validate bool) (*domain.ProgressSummary, error) {
	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE s.score = 1),
			COUNT(*) FILTER (WHERE s.skip),
			MAX(s.updated_at)
		FROM statistics s
		WHERE s.user_id = $1 AND s.language_id = $2
	`
	if validate {
		query += ` AND EXISTS (SELECT 1 FROM words w WHERE w.id = s.word_id)`
	}

	var p domain.ProgressSummary
	var last sql.NullTime
	err := r.db.QueryRowContext(ctx, query, userID, languageID).
		Scan(&p.Studied, &p.Known, &p.Skipped, &last)
	if err != nil {
		return nil, domain.NewStorageError("statistics.aggregate", err)
	}
	if last.Valid {
		p.LastStudyDate = &last.Time
	}
	return &p, nil
}

// ListDue returns records due at or before now, joined to still-existing
// words. The join excludes orphans. Ordering by (next_check_date, number)
// keeps pages stable when due dates collide.
func (r *StatRepo) ListDue(ctx context.Context, userID, languageID int64, now time.Time, limit, offset int) ([]domain.StudyCandidate, error) {
	query := `
		SELECT w.id, w.language_id, w.number, w.foreign_text, w.translation, w.transcription, w.created_at, w.updated_at,
			s.id, s.user_id, s.word_id, s.language_id, s.score, s.skip, s.check_interval, s.next_check_date, s.hint_text, s.hint_image_id, s.created_at, s.updated_at
		FROM statistics s
		JOIN words w ON w.id = s.word_id
		WHERE s.user_id = $1 AND s.language_id = $2
			AND s.next_check_date IS NOT NULL AND s.next_check_date <= $3
		ORDER BY s.next_check_date, w.number
		LIMIT $4 OFFSET $5
	`
	rows, err := r.db.QueryContext(ctx, query, userID, languageID, now, limit, offset)
	if err != nil {
		return nil, domain.NewStorageError("statistics.due", err)
	}
	defer rows.Close()

	var candidates []domain.StudyCandidate
	for rows.Next() {
		var c domain.StudyCandidate
		var s domain.Statistic
		var next sql.NullTime
		err := rows.Scan(
			&c.Word.ID, &c.Word.LanguageID, &c.Word.Number, &c.Word.Foreign,
			&c.Word.Translation, &c.Word.Transcription, &c.Word.CreatedAt, &c.Word.UpdatedAt,
			&s.ID, &s.UserID, &s.WordID, &s.LanguageID, &s.Score, &s.Skip,
			&s.CheckInterval, &next, &s.HintText, &s.HintImageID, &s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, domain.NewStorageError("statistics.due", err)
		}
		if next.Valid {
			s.NextCheckDate = &next.Time
		}
		c.Progress = &s
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("statistics.due", err)
	}
	return candidates, nil
}

// ListByWordIDs fetches the user's records for exactly the given words,
// skipping records whose word has been deleted meanwhile.
func (r *StatRepo) ListByWordIDs(ctx context.Context, userID int64, wordIDs []int64) ([]domain.Statistic, error) {
	if len(wordIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + statColumns + `
		FROM statistics s
		WHERE s.user_id = $1 AND s.word_id = ANY($2)
			AND EXISTS (SELECT 1 FROM words w WHERE w.id = s.word_id)
	`
	rows, err := r.db.QueryContext(ctx, query, userID, pq.Array(wordIDs))
	if err != nil {
		return nil, domain.NewStorageError("statistics.by_words", err)
	}
	defer rows.Close()

	var stats []domain.Statistic
	for rows.Next() {
		s, err := scanStat(rows)
		if err != nil {
			return nil, domain.NewStorageError("statistics.by_words", err)
		}
		stats = append(stats, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("statistics.by_words", err)
	}
	return stats, nil
}

// IntegrityCounts reports total, valid and orphaned records in one pass.
func (r *StatRepo) IntegrityCounts(ctx context.Context) (*domain.IntegrityReport, error) {
	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE EXISTS (SELECT 1 FROM words w WHERE w.id = s.word_id))
		FROM statistics s
	`
	var report domain.IntegrityReport
	if err := r.db.QueryRowContext(ctx, query).Scan(&report.Total, &report.Valid); err != nil {
		return nil, domain.NewStorageError("statistics.integrity", err)
	}
	report.Orphaned = report.Total - report.Valid
	return &report, nil
}

// ListOrphanIDs returns ids of records referencing deleted words.
func (r *StatRepo) ListOrphanIDs(ctx context.Context) ([]int64, error) {
	query := `
		SELECT s.id
		FROM statistics s
		WHERE NOT EXISTS (SELECT 1 FROM words w WHERE w.id = s.word_id)
		ORDER BY s.id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, domain.NewStorageError("statistics.orphans", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, domain.NewStorageError("statistics.orphans", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("statistics.orphans", err)
	}
	return ids, nil
}

// DeleteByIDs removes the given records and returns how many were deleted.
func (r *StatRepo) DeleteByIDs(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := `DELETE FROM statistics WHERE id = ANY($1)`
	res, err := r.db.ExecContext(ctx, query, pq.Array(ids))
	if err != nil {
		return 0, domain.NewStorageError("statistics.delete", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, domain.NewStorageError("statistics.delete", err)
	}
	return int(affected), nil
}
