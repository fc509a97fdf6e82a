package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/notevault/internal/common"
	"github.com/dmitrijs2005/notevault/internal/dbx"
	"github.com/dmitrijs2005/notevault/internal/models"
)

// PostgresRepository implements record storage over *sql.DB. Unlike the
// other repositories it keeps the concrete handle because Delete runs a
// read-then-delete transaction.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository constructs a repository bound to the given database.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, record *models.Record) error {
	query := `
		INSERT INTO records (id, owner_id, title, description, folder_id, category_id, storage_key, content_url, active, views)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE, 0);
	`
	_, err := r.db.ExecContext(ctx, query,
		record.ID, record.OwnerID, record.Title, record.Description,
		record.FolderID, record.CategoryID, record.StorageKey, record.ContentURL)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

const recordColumns = `id, owner_id, title, description, folder_id, category_id, storage_key, content_url, active, views, created_at, updated_at`

func scanRecord(row interface{ Scan(dest ...any) error }) (*models.Record, error) {
	rec := &models.Record{}
	err := row.Scan(
		&rec.ID, &rec.OwnerID, &rec.Title, &rec.Description,
		&rec.FolderID, &rec.CategoryID, &rec.StorageKey, &rec.ContentURL,
		&rec.Active, &rec.Views, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE id = $1`

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rec, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	var result []*models.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) SetActive(ctx context.Context, id string, ownerID int64, active bool) error {
	query := `
		UPDATE records SET active = $3, updated_at = now()
		WHERE id = $1 AND owner_id = $2;
	`
	res, err := r.db.ExecContext(ctx, query, id, ownerID, active)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) UpdateContent(ctx context.Context, id string, ownerID int64, storageKey, contentURL string) error {
	query := `
		UPDATE records SET storage_key = $3, content_url = $4, updated_at = now()
		WHERE id = $1 AND owner_id = $2;
	`
	res, err := r.db.ExecContext(ctx, query, id, ownerID, storageKey, contentURL)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

// Delete removes the record row and returns its storage key. The read and
// the delete run in one transaction so the returned key always belongs to
// the row that was actually removed.
func (r *PostgresRepository) Delete(ctx context.Context, id string, ownerID int64) (string, error) {
	var storageKey string

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		err := tx.QueryRowContext(ctx,
			`SELECT storage_key FROM records WHERE id = $1 AND owner_id = $2 FOR UPDATE`,
			id, ownerID).Scan(&storageKey)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return common.ErrorNotFound
			}
			return fmt.Errorf("db error: %w", err)
		}

		_, err = tx.ExecContext(ctx, `DELETE FROM records WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return storageKey, nil
}

func (r *PostgresRepository) IncrementViews(ctx context.Context, id string) (string, error) {
	query := `
		UPDATE records SET views = views + 1, updated_at = now()
		WHERE id = $1 AND active
		RETURNING content_url;
	`

	var contentURL string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&contentURL)
	if err == nil {
		return contentURL, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("db error: %w", err)
	}

	// No active row matched: distinguish revoked from missing.
	var active bool
	err = r.db.QueryRowContext(ctx, `SELECT active FROM records WHERE id = $1`, id).Scan(&active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	if !active {
		return "", common.ErrRecordInactive
	}

	// The record became active between the two statements; treat the press
	// as stale rather than retrying.
	return "", common.ErrorNotFound
}

func (r *PostgresRepository) Stats(ctx context.Context) (*Stats, error) {
	query := `
		SELECT count(*),
		       count(*) FILTER (WHERE active),
		       COALESCE(sum(views), 0)
		FROM records;
	`

	s := &Stats{}
	err := r.db.QueryRowContext(ctx, query).Scan(&s.Records, &s.ActiveRecords, &s.TotalViews)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}
