package models

import "time"

// SessionState names the single next input an upload session is waiting on.
type SessionState string

const (
	StateAwaitingFolder      SessionState = "awaiting_folder"
	StateAwaitingCategory    SessionState = "awaiting_category"
	StateAwaitingTitle       SessionState = "awaiting_title"
	StateAwaitingDescription SessionState = "awaiting_description"
	StateAwaitingFile        SessionState = "awaiting_file"
)

// Draft accumulates record fields during the upload dialogue. Fields are
// marshalled with omitempty so a partial draft written to the session store
// merges over what is already there instead of clobbering it.
type Draft struct {
	FolderID    string `json:"folder_id,omitempty"`
	CategoryID  string `json:"category_id,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Session is the ephemeral per-user upload dialogue state. At most one
// session exists per user; it is overwritten on each step and removed on
// completion or cancellation.
type Session struct {
	UserID    int64
	State     SessionState
	Draft     Draft
	UpdatedAt time.Time
}
