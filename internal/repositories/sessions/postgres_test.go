package sessions

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/notevault/internal/common"
	"github.com/dmitrijs2005/notevault/internal/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestSave_MergeUpsertQueryShape(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	// the upsert must merge drafts, not replace them
	q := regexp.MustCompile(`INSERT INTO sessions .* ON CONFLICT \(user_id\).* DO UPDATE SET\s+state = EXCLUDED\.state,\s+draft = sessions\.draft \|\| EXCLUDED\.draft`)

	mock.ExpectExec(q.String()).
		WithArgs(int64(42), "awaiting_category", []byte(`{"folder_id":"natural"}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Save(context.Background(), &models.Session{
		UserID: 42,
		State:  models.StateAwaitingCategory,
		Draft:  models.Draft{FolderID: "natural"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSave_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO sessions`).
		WillReturnError(errors.New("db is down"))

	err := repo.Save(context.Background(), &models.Session{UserID: 42, State: models.StateAwaitingFolder})
	if err == nil || !regexp.MustCompile(`db error: .*db is down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestLoad_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"state", "draft", "updated_at"}).
		AddRow("awaiting_title", []byte(`{"folder_id":"natural","category_id":"medical"}`), now)

	mock.ExpectQuery(`SELECT state, draft, updated_at FROM sessions WHERE user_id = \$1`).
		WithArgs(int64(42)).
		WillReturnRows(rows)

	s, err := repo.Load(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.State != models.StateAwaitingTitle {
		t.Fatalf("unexpected state: %s", s.State)
	}
	if s.Draft.FolderID != "natural" || s.Draft.CategoryID != "medical" {
		t.Fatalf("unexpected draft: %+v", s.Draft)
	}
}

func TestLoad_None(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT state, draft, updated_at FROM sessions`).
		WithArgs(int64(7)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Load(context.Background(), 7)
	if !errors.Is(err, common.ErrSessionNotFound) {
		t.Fatalf("want ErrSessionNotFound, got %v", err)
	}
}

func TestDelete_NoopWhenMissing(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM sessions WHERE user_id = \$1`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), 7); err != nil {
		t.Fatalf("delete of a missing session must be a no-op, got %v", err)
	}
}
