package sessions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/notevault/internal/common"
	"github.com/dmitrijs2005/notevault/internal/dbx"
	"github.com/dmitrijs2005/notevault/internal/models"
)

// PostgresRepository implements session storage over a dbx.DBTX. The draft
// is a jsonb column; merge-write semantics come from the `||` operator, so
// a partial draft written by one invocation cannot clobber fields written
// by another.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Save(ctx context.Context, session *models.Session) error {
	draft, err := json.Marshal(session.Draft)
	if err != nil {
		return fmt.Errorf("draft marshal error: %w", err)
	}

	query := `
		INSERT INTO sessions (user_id, state, draft, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id)
		DO UPDATE SET
			state = EXCLUDED.state,
			draft = sessions.draft || EXCLUDED.draft,
			updated_at = now();
	`
	_, err = r.db.ExecContext(ctx, query, session.UserID, string(session.State), draft)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Load(ctx context.Context, userID int64) (*models.Session, error) {
	query := `SELECT state, draft, updated_at FROM sessions WHERE user_id = $1`

	var (
		state string
		draft []byte
	)
	session := &models.Session{UserID: userID}

	err := r.db.QueryRowContext(ctx, query, userID).Scan(&state, &draft, &session.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrSessionNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	session.State = models.SessionState(state)
	if err := json.Unmarshal(draft, &session.Draft); err != nil {
		return nil, fmt.Errorf("draft unmarshal error: %w", err)
	}

	return session, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
