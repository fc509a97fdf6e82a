package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/notevault/internal/common"
	"github.com/dmitrijs2005/notevault/internal/logging"
	"github.com/dmitrijs2005/notevault/internal/models"
	"github.com/dmitrijs2005/notevault/internal/repositories/records"
	"github.com/dmitrijs2005/notevault/internal/repositories/sessions"
	"github.com/dmitrijs2005/notevault/internal/taxonomy"
	"github.com/dmitrijs2005/notevault/internal/telegram"
)

// acceptedExtension is the single attachment type the pipeline ingests.
const acceptedExtension = ".html"

// Transferrer is the slice of TransferService the state machine needs.
type Transferrer interface {
	Transfer(ctx context.Context, fileID string) (string, string, error)
}

// UploadService drives the step-by-step upload dialogue. The process keeps
// no state between chat events, so every step loads the session, checks
// that the event matches the step the session is actually waiting on, and
// persists the result before replying. An event that does not match the
// loaded state is answered with common.ErrSessionExpired and changes
// nothing; stale button presses from a cancelled or completed dialogue must
// never leak into a newer one.
type UploadService struct {
	sessions   sessions.Repository
	records    records.Repository
	tax        *taxonomy.Taxonomy
	transfer   Transferrer
	sessionTTL time.Duration
	logger     logging.Logger
}

func NewUploadService(
	sessions sessions.Repository,
	records records.Repository,
	tax *taxonomy.Taxonomy,
	transfer Transferrer,
	sessionTTL time.Duration,
	logger logging.Logger,
) *UploadService {
	return &UploadService{
		sessions:   sessions,
		records:    records,
		tax:        tax,
		transfer:   transfer,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// Start begins a fresh upload dialogue. An in-progress session is deleted
// first: re-initiation is a full reset, never a resume. A failed initial
// save aborts the flow, because an un-persisted session would make every
// following step look like "no session in progress".
func (u *UploadService) Start(ctx context.Context, userID int64) error {
	if err := u.sessions.Delete(ctx, userID); err != nil {
		return fmt.Errorf("%w: %w", common.ErrSessionStore, err)
	}

	err := u.sessions.Save(ctx, &models.Session{
		UserID: userID,
		State:  models.StateAwaitingFolder,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrSessionStore, err)
	}

	return nil
}

// Cancel deletes any session unconditionally. Valid in every state; a
// cancel with nothing to cancel is still a success.
func (u *UploadService) Cancel(ctx context.Context, userID int64) error {
	if err := u.sessions.Delete(ctx, userID); err != nil {
		return fmt.Errorf("%w: %w", common.ErrSessionStore, err)
	}

	return nil
}

// load fetches the user's session, converting "no session" and a session
// past its TTL into ErrSessionExpired. Expired sessions are deleted on
// sight; the store has no automatic expiry of its own.
func (u *UploadService) load(ctx context.Context, userID int64) (*models.Session, error) {
	s, err := u.sessions.Load(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrSessionNotFound) {
			return nil, common.ErrSessionExpired
		}
		return nil, fmt.Errorf("%w: %w", common.ErrSessionStore, err)
	}

	if u.sessionTTL > 0 && time.Since(s.UpdatedAt) > u.sessionTTL {
		if err := u.sessions.Delete(ctx, userID); err != nil {
			u.logger.Warn(ctx, "failed to delete expired session", "user_id", userID, "error", err)
		}
		return nil, common.ErrSessionExpired
	}

	return s, nil
}

// loadExpect additionally rejects a session waiting on a different step.
func (u *UploadService) loadExpect(ctx context.Context, userID int64, state models.SessionState) (*models.Session, error) {
	s, err := u.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.State != state {
		return nil, common.ErrSessionExpired
	}
	return s, nil
}

// SelectFolder handles a folder button press and returns the categories of
// the chosen folder for the next prompt.
func (u *UploadService) SelectFolder(ctx context.Context, userID int64, folderID string) ([]taxonomy.Category, error) {
	if _, err := u.loadExpect(ctx, userID, models.StateAwaitingFolder); err != nil {
		return nil, err
	}

	cats, ok := u.tax.Categories(folderID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrUnknownFolder, folderID)
	}

	err := u.sessions.Save(ctx, &models.Session{
		UserID: userID,
		State:  models.StateAwaitingCategory,
		Draft:  models.Draft{FolderID: folderID},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrSessionStore, err)
	}

	return cats, nil
}

// SelectCategory handles a category button press. The category must belong
// to the folder already recorded in the draft.
func (u *UploadService) SelectCategory(ctx context.Context, userID int64, categoryID string) error {
	s, err := u.loadExpect(ctx, userID, models.StateAwaitingCategory)
	if err != nil {
		return err
	}

	if !u.tax.Contains(s.Draft.FolderID, categoryID) {
		return fmt.Errorf("%w: %s in %s", common.ErrCategoryMismatch, categoryID, s.Draft.FolderID)
	}

	err = u.sessions.Save(ctx, &models.Session{
		UserID: userID,
		State:  models.StateAwaitingTitle,
		Draft:  models.Draft{CategoryID: categoryID},
	})
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrSessionStore, err)
	}

	return nil
}

// SubmitText routes free text into the step the session is waiting on
// (title or description) and returns the state entered afterwards. Text
// arriving in any other state, or with no session, is a stale event.
func (u *UploadService) SubmitText(ctx context.Context, userID int64, text string) (models.SessionState, error) {
	s, err := u.load(ctx, userID)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)

	switch s.State {
	case models.StateAwaitingTitle:
		if text == "" {
			return "", common.ErrEmptyInput
		}
		err = u.sessions.Save(ctx, &models.Session{
			UserID: userID,
			State:  models.StateAwaitingDescription,
			Draft:  models.Draft{Title: text},
		})
		if err != nil {
			return "", fmt.Errorf("%w: %w", common.ErrSessionStore, err)
		}
		return models.StateAwaitingDescription, nil

	case models.StateAwaitingDescription:
		if text == "" {
			return "", common.ErrEmptyInput
		}
		err = u.sessions.Save(ctx, &models.Session{
			UserID: userID,
			State:  models.StateAwaitingFile,
			Draft:  models.Draft{Description: text},
		})
		if err != nil {
			return "", fmt.Errorf("%w: %w", common.ErrSessionStore, err)
		}
		return models.StateAwaitingFile, nil

	default:
		return "", common.ErrSessionExpired
	}
}

// AttachFile completes the dialogue. The attachment name must end in the
// accepted extension (case-insensitive); a mismatch leaves the session
// untouched so the user can retry with the right file. After a transfer or
// record-store failure the session is deleted anyway: forward progress is
// preferred over retry-ability, the user restarts from scratch.
func (u *UploadService) AttachFile(ctx context.Context, userID int64, doc *telegram.Document) (*models.Record, error) {
	s, err := u.loadExpect(ctx, userID, models.StateAwaitingFile)
	if err != nil {
		return nil, err
	}

	if !strings.HasSuffix(strings.ToLower(doc.FileName), acceptedExtension) {
		return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedFile, doc.FileName)
	}

	key, url, err := u.transfer.Transfer(ctx, doc.FileID)
	if err != nil {
		u.deleteSession(ctx, userID)
		return nil, err
	}

	id, err := models.NewRecordID()
	if err != nil {
		u.deleteSession(ctx, userID)
		return nil, fmt.Errorf("record id generation: %w", err)
	}

	rec := &models.Record{
		ID:          id,
		OwnerID:     userID,
		Title:       s.Draft.Title,
		Description: s.Draft.Description,
		FolderID:    s.Draft.FolderID,
		CategoryID:  s.Draft.CategoryID,
		StorageKey:  key,
		ContentURL:  url,
		Active:      true,
	}

	if err := u.records.Create(ctx, rec); err != nil {
		u.deleteSession(ctx, userID)
		return nil, fmt.Errorf("%w: %w", common.ErrRecordStore, err)
	}

	u.deleteSession(ctx, userID)

	u.logger.Info(ctx, "record created", "record_id", rec.ID, "owner_id", userID)

	return rec, nil
}

// deleteSession removes the session, logging instead of failing: at this
// point the outcome of the upload is already decided, and a leftover
// session is caught later by the state check or the TTL.
func (u *UploadService) deleteSession(ctx context.Context, userID int64) {
	if err := u.sessions.Delete(ctx, userID); err != nil {
		u.logger.Warn(ctx, "failed to delete session", "user_id", userID, "error", err)
	}
}
