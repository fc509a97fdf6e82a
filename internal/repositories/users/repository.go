// Package users persists chat-platform contacts.
package users

import (
	"context"

	"github.com/dmitrijs2005/notevault/internal/models"
)

// Repository stores user profiles keyed by platform-assigned id.
type Repository interface {
	// Upsert creates the user on first contact or refreshes name/admin flag
	// on subsequent contact. Started is always set: contacting the service
	// is what the flag records.
	Upsert(ctx context.Context, user *models.User) error

	// GetByID returns the user or common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// Count returns the number of known users.
	Count(ctx context.Context) (int64, error)
}
