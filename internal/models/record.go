package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/notevault/internal/shared"
)

// Record is a finalized unit of uploaded content. ContentURL points at the
// durable object-store location; StorageKey is the object key behind it,
// kept so the object can be copied or deleted later.
type Record struct {
	ID          string
	OwnerID     int64
	Title       string
	Description string
	FolderID    string
	CategoryID  string
	StorageKey  string
	ContentURL  string
	Active      bool
	Views       int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewRecordID returns a time-ordered opaque token: base36 unix milliseconds
// followed by a random hex suffix. Practically unique without coordination.
func NewRecordID() (string, error) {
	suffix, err := shared.MakeRandHexString(4)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%s", strconv.FormatInt(time.Now().UnixMilli(), 36), suffix), nil
}
