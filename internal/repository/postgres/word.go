package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"vocabbot/internal/domain"
)

// WordRepo implements repository.WordRepository over the words catalog.
type WordRepo struct {
	db *sql.DB
}

// NewWordRepo creates a new catalog repository.
func NewWordRepo(db *sql.DB) *WordRepo {
	return &WordRepo{db: db}
}

const wordColumns = `id, language_id, number, foreign_text, translation, transcription, created_at, updated_at`

func scanWord(row interface{ Scan(...any) error }) (*domain.Word, error) {
	var w domain.Word
	err := row.Scan(
		&w.ID, &w.LanguageID, &w.Number, &w.Foreign, &w.Translation,
		&w.Transcription, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// GetByLanguageAndNumber returns the word at the given sequential number.
func (r *WordRepo) GetByLanguageAndNumber(ctx context.Context, languageID int64, number int) (*domain.Word, error) {
	query := `
		SELECT ` + wordColumns + `
		FROM words
		WHERE language_id = $1 AND number = $2
	`
	w, err := scanWord(r.db.QueryRowContext(ctx, query, languageID, number))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.NewStorageError("words.get", err)
	}
	return w, nil
}

// CountByLanguage returns the catalog size for one language.
func (r *WordRepo) CountByLanguage(ctx context.Context, languageID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM words WHERE language_id = $1`
	if err := r.db.QueryRowContext(ctx, query, languageID).Scan(&count); err != nil {
		return 0, domain.NewStorageError("words.count", err)
	}
	return count, nil
}

// ListByIDs returns the words that still exist among the given ids.
func (r *WordRepo) ListByIDs(ctx context.Context, ids []int64) ([]domain.Word, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + wordColumns + `
		FROM words
		WHERE id = ANY($1)
		ORDER BY number
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, domain.NewStorageError("words.by_ids", err)
	}
	defer rows.Close()

	var words []domain.Word
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, domain.NewStorageError("words.by_ids", err)
		}
		words = append(words, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("words.by_ids", err)
	}
	return words, nil
}

// ListByLanguage returns up to limit words with number >= fromNumber,
// ordered by number.
func (r *WordRepo) ListByLanguage(ctx context.Context, languageID int64, fromNumber, limit int) ([]domain.Word, error) {
	query := `
		SELECT ` + wordColumns + `
		FROM words
		WHERE language_id = $1 AND number >= $2
		ORDER BY number
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, languageID, fromNumber, limit)
	if err != nil {
		return nil, domain.NewStorageError("words.list", err)
	}
	defer rows.Close()

	var words []domain.Word
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, domain.NewStorageError("words.list", err)
		}
		words = append(words, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("words.list", err)
	}
	return words, nil
}
