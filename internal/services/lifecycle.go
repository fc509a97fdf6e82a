package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/notevault/internal/common"
	"github.com/dmitrijs2005/notevault/internal/logging"
	"github.com/dmitrijs2005/notevault/internal/models"
	"github.com/dmitrijs2005/notevault/internal/objstore"
	"github.com/dmitrijs2005/notevault/internal/repositories/records"
	"github.com/dmitrijs2005/notevault/internal/repositories/users"
)

// StatsSummary is the read-only aggregate exposed on the operator surface.
type StatsSummary struct {
	Records       int64 `json:"records"`
	ActiveRecords int64 `json:"active_records"`
	Users         int64 `json:"users"`
	TotalViews    int64 `json:"total_views"`
}

// LifecycleService manages finalized records: visibility, links, deletion,
// and consumer access. Metadata is authoritative throughout; the backing
// object is handled best-effort.
type LifecycleService struct {
	records records.Repository
	users   users.Repository
	store   objstore.Store
	botName string
	logger  logging.Logger
}

func NewLifecycleService(
	records records.Repository,
	users users.Repository,
	store objstore.Store,
	botName string,
	logger logging.Logger,
) *LifecycleService {
	return &LifecycleService{records: records, users: users, store: store, botName: botName, logger: logger}
}

// Revoke hides the record from consumers. Idempotent: revoking an already
// revoked record succeeds. The content URL stays technically resolvable;
// revocation is enforced by the access check, not at the object level.
func (s *LifecycleService) Revoke(ctx context.Context, ownerID int64, recordID string) error {
	if err := s.records.SetActive(ctx, recordID, ownerID, false); err != nil {
		return s.wrapLifecycle(err)
	}
	return nil
}

// Activate makes the record visible again. Idempotent like Revoke.
func (s *LifecycleService) Activate(ctx context.Context, ownerID int64, recordID string) error {
	if err := s.records.SetActive(ctx, recordID, ownerID, true); err != nil {
		return s.wrapLifecycle(err)
	}
	return nil
}

// RegenerateLink copies the backing object to a fresh key and points the
// record at it. The old object and its URL are left in place: a stale
// direct link keeps resolving. This is a best-effort control, not a hard
// security boundary.
func (s *LifecycleService) RegenerateLink(ctx context.Context, ownerID int64, recordID string) (string, error) {
	rec, err := s.records.GetByID(ctx, recordID)
	if err != nil {
		return "", s.wrapLifecycle(err)
	}
	if rec.OwnerID != ownerID {
		return "", common.ErrorNotFound
	}

	newKey := newStorageKey()
	url, err := s.store.Copy(ctx, rec.StorageKey, newKey)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrTransferStore, err)
	}

	if err := s.records.UpdateContent(ctx, recordID, ownerID, newKey, url); err != nil {
		return "", s.wrapLifecycle(err)
	}

	return url, nil
}

// Delete removes the record. Metadata goes first and is authoritative;
// object deletion is best-effort, and its failure never resurrects the
// record.
func (s *LifecycleService) Delete(ctx context.Context, ownerID int64, recordID string) error {
	storageKey, err := s.records.Delete(ctx, recordID, ownerID)
	if err != nil {
		return s.wrapLifecycle(err)
	}

	if err := s.store.Delete(ctx, storageKey); err != nil {
		s.logger.Warn(ctx, "failed to delete backing object", "record_id", recordID, "key", storageKey, "error", err)
	}

	return nil
}

// Open grants a consumer access to a record's content: the requester must
// have made first contact, and the record must be active. Both checks pass
// before the view counter moves or the URL is disclosed. The increment is
// a single conditional SQL statement, so concurrent opens never undercount.
func (s *LifecycleService) Open(ctx context.Context, userID int64, recordID string) (string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", fmt.Errorf("%w: %w", common.ErrRecordStore, err)
	}
	if !user.Started {
		return "", common.ErrorUnauthorized
	}

	url, err := s.records.IncrementViews(ctx, recordID)
	if err != nil {
		return "", s.wrapLifecycle(err)
	}

	return url, nil
}

// OwnerRecords lists the owner's records newest-first. The repository
// scopes by owner id, so a forged identifier can only ever select the
// forger's own records.
func (s *LifecycleService) OwnerRecords(ctx context.Context, ownerID int64) ([]*models.Record, error) {
	recs, err := s.records.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrRecordStore, err)
	}
	return recs, nil
}

// ShareLink renders the public deep link for a record.
func (s *LifecycleService) ShareLink(recordID string) string {
	if s.botName == "" {
		return recordID
	}
	return fmt.Sprintf("https://t.me/%s?start=%s", s.botName, recordID)
}

// Stats returns the aggregate counters. Read-only, no side effects.
func (s *LifecycleService) Stats(ctx context.Context) (*StatsSummary, error) {
	recStats, err := s.records.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrRecordStore, err)
	}

	userCount, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrRecordStore, err)
	}

	return &StatsSummary{
		Records:       recStats.Records,
		ActiveRecords: recStats.ActiveRecords,
		Users:         userCount,
		TotalViews:    recStats.TotalViews,
	}, nil
}

// wrapLifecycle keeps domain sentinels intact and tags everything else as
// a record-store failure.
func (s *LifecycleService) wrapLifecycle(err error) error {
	if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrRecordInactive) {
		return err
	}
	return fmt.Errorf("%w: %w", common.ErrRecordStore, err)
}
