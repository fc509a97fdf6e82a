// Package sessions persists in-progress upload sessions keyed by user id.
package sessions

import (
	"context"

	"github.com/dmitrijs2005/notevault/internal/models"
)

// Repository is the session store. The process holds no state between chat
// events, so every workflow step round-trips through here.
type Repository interface {
	// Save upserts the session with merge-write semantics: only draft fields
	// set on the given session overwrite what is already stored; unrelated
	// fields survive. The state is always replaced.
	Save(ctx context.Context, session *models.Session) error

	// Load returns the current session or common.ErrSessionNotFound.
	Load(ctx context.Context, userID int64) (*models.Session, error)

	// Delete removes any session for the user. Deleting a missing session
	// is a no-op, not an error.
	Delete(ctx context.Context, userID int64) error
}
