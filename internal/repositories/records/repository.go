// Package records persists finalized content records.
package records

import (
	"context"

	"github.com/dmitrijs2005/notevault/internal/models"
)

// Stats is the aggregate view over all records.
type Stats struct {
	Records       int64
	ActiveRecords int64
	TotalViews    int64
}

// Repository stores records. Methods that mutate a specific record are
// owner-scoped: the owner id participates in the WHERE clause, so a
// mismatched owner behaves exactly like a missing record.
type Repository interface {
	Create(ctx context.Context, record *models.Record) error

	// GetByID returns the record or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Record, error)

	// ListByOwner returns the owner's records newest-first.
	ListByOwner(ctx context.Context, ownerID int64) ([]*models.Record, error)

	// SetActive toggles the visibility flag. Idempotent: setting the flag to
	// its current value succeeds.
	SetActive(ctx context.Context, id string, ownerID int64, active bool) error

	// UpdateContent points the record at a new object key and URL.
	UpdateContent(ctx context.Context, id string, ownerID int64, storageKey, contentURL string) error

	// Delete removes the record and returns the storage key it pointed at,
	// so the caller can best-effort delete the backing object.
	Delete(ctx context.Context, id string, ownerID int64) (string, error)

	// IncrementViews atomically bumps the view counter of an active record
	// and returns its content URL. Returns common.ErrRecordInactive for a
	// revoked record and common.ErrorNotFound for a missing one; in both
	// cases the counter is untouched and no URL is disclosed.
	IncrementViews(ctx context.Context, id string) (string, error)

	Stats(ctx context.Context) (*Stats, error)
}
