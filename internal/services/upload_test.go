package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/notevault/internal/common"
	"github.com/dmitrijs2005/notevault/internal/logging"
	"github.com/dmitrijs2005/notevault/internal/models"
	"github.com/dmitrijs2005/notevault/internal/repositories/records"
	"github.com/dmitrijs2005/notevault/internal/repositories/sessions"
	"github.com/dmitrijs2005/notevault/internal/taxonomy"
	"github.com/dmitrijs2005/notevault/internal/telegram"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type fakeTransfer struct {
	key   string
	url   string
	err   error
	calls int
}

func (f *fakeTransfer) Transfer(ctx context.Context, fileID string) (string, string, error) {
	f.calls++
	if f.err != nil {
		return "", "", f.err
	}
	return f.key, f.url, nil
}

type uploadFixture struct {
	svc      *UploadService
	sessions *sessions.InMemoryRepository
	records  *records.InMemoryRepository
	transfer *fakeTransfer
}

func newUploadFixture(t *testing.T, ttl time.Duration) *uploadFixture {
	t.Helper()

	tax, err := taxonomy.Load()
	require.NoError(t, err)

	f := &uploadFixture{
		sessions: sessions.NewInMemoryRepository(),
		records:  records.NewInMemoryRepository(),
		transfer: &fakeTransfer{key: "notes/abc.html", url: "memory://bucket/notes/abc.html"},
	}
	f.svc = NewUploadService(f.sessions, f.records, tax, f.transfer, ttl, testLogger())

	return f
}

func htmlDoc(name string) *telegram.Document {
	return &telegram.Document{FileID: "file-1", FileName: name}
}

func TestUpload_FullWalk(t *testing.T) {
	f := newUploadFixture(t, 0)
	ctx := context.Background()
	const userID = int64(42)

	require.NoError(t, f.svc.Start(ctx, userID))

	cats, err := f.svc.SelectFolder(ctx, userID, "natural")
	require.NoError(t, err)
	require.NotEmpty(t, cats)

	require.NoError(t, f.svc.SelectCategory(ctx, userID, "medical"))

	state, err := f.svc.SubmitText(ctx, userID, "Cell Biology")
	require.NoError(t, err)
	require.Equal(t, models.StateAwaitingDescription, state)

	state, err = f.svc.SubmitText(ctx, userID, "Chapter 1")
	require.NoError(t, err)
	require.Equal(t, models.StateAwaitingFile, state)

	rec, err := f.svc.AttachFile(ctx, userID, htmlDoc("notes.html"))
	require.NoError(t, err)
	require.Equal(t, userID, rec.OwnerID)
	require.Equal(t, "Cell Biology", rec.Title)
	require.Equal(t, "Chapter 1", rec.Description)
	require.Equal(t, "natural", rec.FolderID)
	require.Equal(t, "medical", rec.CategoryID)
	require.Equal(t, "notes/abc.html", rec.StorageKey)
	require.True(t, rec.Active)

	stored, err := f.records.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	require.Equal(t, rec.Title, stored.Title)

	// completion removes the session
	_, err = f.sessions.Load(ctx, userID)
	require.ErrorIs(t, err, common.ErrSessionNotFound)
}

func TestUpload_EventWithoutSession(t *testing.T) {
	f := newUploadFixture(t, 0)
	ctx := context.Background()

	_, err := f.svc.SelectFolder(ctx, 7, "natural")
	require.ErrorIs(t, err, common.ErrSessionExpired)

	_, err = f.svc.SubmitText(ctx, 7, "hello")
	require.ErrorIs(t, err, common.ErrSessionExpired)

	_, err = f.svc.AttachFile(ctx, 7, htmlDoc("notes.html"))
	require.ErrorIs(t, err, common.ErrSessionExpired)
}

func TestUpload_StaleEventForCurrentState(t *testing.T) {
	f := newUploadFixture(t, 0)
	ctx := context.Background()
	const userID = int64(42)

	require.NoError(t, f.svc.Start(ctx, userID))

	// waiting on a folder; everything else is stale
	require.ErrorIs(t, f.svc.SelectCategory(ctx, userID, "medical"), common.ErrSessionExpired)

	_, err := f.svc.SubmitText(ctx, userID, "title")
	require.ErrorIs(t, err, common.ErrSessionExpired)

	_, err = f.svc.AttachFile(ctx, userID, htmlDoc("notes.html"))
	require.ErrorIs(t, err, common.ErrSessionExpired)

	// the session survives stale events untouched
	s, err := f.sessions.Load(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, models.StateAwaitingFolder, s.State)
}

func TestUpload_UnknownFolder(t *testing.T) {
	f := newUploadFixture(t, 0)
	ctx := context.Background()
	const userID = int64(42)

	require.NoError(t, f.svc.Start(ctx, userID))

	_, err := f.svc.SelectFolder(ctx, userID, "astrology")
	require.ErrorIs(t, err, common.ErrUnknownFolder)

	s, err := f.sessions.Load(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, models.StateAwaitingFolder, s.State)
}

func TestUpload_CategoryOutsideFolder(t *testing.T) {
	f := newUploadFixture(t, 0)
	ctx := context.Background()
	const userID = int64(42)

	require.NoError(t, f.svc.Start(ctx, userID))
	_, err := f.svc.SelectFolder(ctx, userID, "natural")
	require.NoError(t, err)

	// "history" exists, but under humanities
	err = f.svc.SelectCategory(ctx, userID, "history")
	require.ErrorIs(t, err, common.ErrCategoryMismatch)

	s, err := f.sessions.Load(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, models.StateAwaitingCategory, s.State)
}

func TestUpload_EmptyText(t *testing.T) {
	f := newUploadFixture(t, 0)
	ctx := context.Background()
	const userID = int64(42)

	require.NoError(t, f.svc.Start(ctx, userID))
	_, err := f.svc.SelectFolder(ctx, userID, "natural")
	require.NoError(t, err)
	require.NoError(t, f.svc.SelectCategory(ctx, userID, "medical"))

	_, err = f.svc.SubmitText(ctx, userID, "   ")
	require.ErrorIs(t, err, common.ErrEmptyInput)

	s, err := f.sessions.Load(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, models.StateAwaitingTitle, s.State)
}

func TestUpload_RejectsNonHTMLAttachment(t *testing.T) {
	f := newUploadFixture(t, 0)
	ctx := context.Background()
	const userID = int64(42)

	walkToFile(t, f, userID)

	_, err := f.svc.AttachFile(ctx, userID, htmlDoc("notes.txt"))
	require.ErrorIs(t, err, common.ErrUnsupportedFile)
	require.Zero(t, f.transfer.calls)

	// the user may retry with the right file
	rec, err := f.svc.AttachFile(ctx, userID, htmlDoc("NOTES.HTML"))
	require.NoError(t, err)
	require.NotEmpty(t, rec.ID)
}

func TestUpload_TransferFailureEndsSession(t *testing.T) {
	f := newUploadFixture(t, 0)
	ctx := context.Background()
	const userID = int64(42)

	walkToFile(t, f, userID)
	f.transfer.err = errors.New("bucket on fire")

	_, err := f.svc.AttachFile(ctx, userID, htmlDoc("notes.html"))
	require.Error(t, err)

	// no half-finished record, no lingering session
	recs, err := f.records.ListByOwner(ctx, userID)
	require.NoError(t, err)
	require.Empty(t, recs)

	_, err = f.sessions.Load(ctx, userID)
	require.ErrorIs(t, err, common.ErrSessionNotFound)
}

func TestUpload_RestartResetsDraft(t *testing.T) {
	f := newUploadFixture(t, 0)
	ctx := context.Background()
	const userID = int64(42)

	require.NoError(t, f.svc.Start(ctx, userID))
	_, err := f.svc.SelectFolder(ctx, userID, "natural")
	require.NoError(t, err)
	require.NoError(t, f.svc.SelectCategory(ctx, userID, "medical"))

	require.NoError(t, f.svc.Start(ctx, userID))

	s, err := f.sessions.Load(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, models.StateAwaitingFolder, s.State)
	require.Equal(t, models.Draft{}, s.Draft)
}

func TestUpload_Cancel(t *testing.T) {
	f := newUploadFixture(t, 0)
	ctx := context.Background()
	const userID = int64(42)

	// cancelling with nothing in progress still succeeds
	require.NoError(t, f.svc.Cancel(ctx, userID))

	require.NoError(t, f.svc.Start(ctx, userID))
	require.NoError(t, f.svc.Cancel(ctx, userID))

	_, err := f.svc.SelectFolder(ctx, userID, "natural")
	require.ErrorIs(t, err, common.ErrSessionExpired)
}

func TestUpload_SessionTTL(t *testing.T) {
	f := newUploadFixture(t, time.Millisecond)
	ctx := context.Background()
	const userID = int64(42)

	require.NoError(t, f.svc.Start(ctx, userID))
	time.Sleep(5 * time.Millisecond)

	_, err := f.svc.SelectFolder(ctx, userID, "natural")
	require.ErrorIs(t, err, common.ErrSessionExpired)

	// expiry removed the session entirely
	_, err = f.sessions.Load(ctx, userID)
	require.ErrorIs(t, err, common.ErrSessionNotFound)
}

// walkToFile drives a session up to the awaiting_file step.
func walkToFile(t *testing.T, f *uploadFixture, userID int64) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, f.svc.Start(ctx, userID))
	_, err := f.svc.SelectFolder(ctx, userID, "natural")
	require.NoError(t, err)
	require.NoError(t, f.svc.SelectCategory(ctx, userID, "medical"))
	_, err = f.svc.SubmitText(ctx, userID, "Cell Biology")
	require.NoError(t, err)
	_, err = f.svc.SubmitText(ctx, userID, "Chapter 1")
	require.NoError(t, err)
}
