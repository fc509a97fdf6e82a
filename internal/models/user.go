// Package models defines the data model persisted by the service: contacts,
// upload sessions, and finalized records.
package models

import "time"

// User is a chat-platform contact. The ID is assigned by the platform.
// Started records that the user has initiated contact at least once; access
// to record content is gated on it.
type User struct {
	ID        int64
	Name      string
	IsAdmin   bool
	Started   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
