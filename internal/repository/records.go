package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/leads-scraper/internal/entity"
)

// ErrRecordsTableMissing indicates the business_records table has not been
// created yet.
var ErrRecordsTableMissing = errors.New("business_records table does not exist")

// RecordsRepository describes persistence operations for reconciled records.
type RecordsRepository interface {
	SaveRecords(ctx context.Context, runID uuid.UUID, records []entity.BusinessRecord) error
	ListByRun(ctx context.Context, runID uuid.UUID) ([]entity.BusinessRecord, error)
	ListRecent(ctx context.Context, limit, offset int) ([]entity.BusinessRecord, error)
}

type pgxPool interface {
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// PGXRecordsRepository implements RecordsRepository using pgx.
type PGXRecordsRepository struct {
	pool pgxPool
}

// NewPGXRecordsRepository wires a pgx backed repository.
func NewPGXRecordsRepository(pool *pgxpool.Pool) *PGXRecordsRepository {
	return &PGXRecordsRepository{pool: pool}
}

var _ pgxPool = (*pgxpool.Pool)(nil)

const insertRecordSQL = `
        INSERT INTO business_records (
            run_id,
            business_name,
            website_url,
            emails,
            phones,
            socials,
            source_page,
            scraped_at,
            errors
        ) VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8, $9)
        ON CONFLICT (run_id, business_name) DO UPDATE SET
            website_url = EXCLUDED.website_url,
            emails = EXCLUDED.emails,
            phones = EXCLUDED.phones,
            socials = EXCLUDED.socials,
            source_page = EXCLUDED.source_page,
            scraped_at = EXCLUDED.scraped_at,
            errors = EXCLUDED.errors;
    `

// SaveRecords persists a run's reconciled records in a single transaction.
// Re-saving the same run overwrites the earlier rows.
func (r *PGXRecordsRepository) SaveRecords(ctx context.Context, runID uuid.UUID, records []entity.BusinessRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("start save records tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, record := range records {
		socialsJSON, err := json.Marshal(record.SocialLinks)
		if err != nil {
			return fmt.Errorf("marshal socials for %q: %w", record.BusinessName, err)
		}

		_, err = tx.Exec(ctx, insertRecordSQL,
			runID,
			record.BusinessName,
			stringOrNull(record.WebsiteURL),
			stringSliceOrEmpty(record.Emails),
			stringSliceOrEmpty(record.Phones),
			string(socialsJSON),
			stringOrNull(record.SourcePage),
			record.ScrapedAt,
			stringOrNull(record.Errors),
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "42P01" {
				return fmt.Errorf("%w: %v", ErrRecordsTableMissing, pgErr)
			}
			return fmt.Errorf("insert record %q: %w", record.BusinessName, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit save records tx: %w", err)
	}

	return nil
}

const selectRecordColumns = `
        SELECT
            business_name,
            website_url,
            emails,
            phones,
            socials,
            source_page,
            scraped_at,
            errors
        FROM business_records
    `

// ListByRun returns the records persisted for one pipeline run.
func (r *PGXRecordsRepository) ListByRun(ctx context.Context, runID uuid.UUID) ([]entity.BusinessRecord, error) {
	rows, err := r.pool.Query(ctx, selectRecordColumns+` WHERE run_id = $1 ORDER BY business_name ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("list records by run: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// ListRecent returns the most recently scraped records across runs.
func (r *PGXRecordsRepository) ListRecent(ctx context.Context, limit, offset int) ([]entity.BusinessRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(ctx, selectRecordColumns+` ORDER BY scraped_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list recent records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func scanRecords(rows pgx.Rows) ([]entity.BusinessRecord, error) {
	var records []entity.BusinessRecord
	for rows.Next() {
		var (
			record      entity.BusinessRecord
			websiteURL  sql.NullString
			emails      []string
			phones      []string
			socialsJSON []byte
			sourcePage  sql.NullString
			errorsText  sql.NullString
		)

		err := rows.Scan(
			&record.BusinessName,
			&websiteURL,
			&emails,
			&phones,
			&socialsJSON,
			&sourcePage,
			&record.ScrapedAt,
			&errorsText,
		)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}

		record.WebsiteURL = websiteURL.String
		record.SourcePage = sourcePage.String
		record.Errors = errorsText.String
		record.Emails = stringSliceOrEmpty(emails)
		record.Phones = stringSliceOrEmpty(phones)
		record.SocialLinks = []entity.SocialLink{}
		if len(socialsJSON) > 0 {
			if err := json.Unmarshal(socialsJSON, &record.SocialLinks); err != nil {
				return nil, fmt.Errorf("unmarshal socials for %q: %w", record.BusinessName, err)
			}
		}

		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

func stringSliceOrEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func stringOrNull(value string) any {
	if value == "" {
		return nil
	}
	return value
}
