// Package services implements the upload dialogue state machine, the
// content-transfer pipeline, and record lifecycle operations.
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/notevault/internal/common"
	"github.com/dmitrijs2005/notevault/internal/logging"
	"github.com/dmitrijs2005/notevault/internal/objstore"
	"github.com/dmitrijs2005/notevault/internal/telegram"
)

// storagePrefix is the fixed namespace all content objects live under.
const storagePrefix = "notes"

// newStorageKey allocates a globally unique object key.
func newStorageKey() string {
	return fmt.Sprintf("%s/%s.html", storagePrefix, uuid.New())
}

// FileSource is the chat-platform side of content transfer: resolving an
// attachment reference and fetching its bytes.
type FileSource interface {
	GetFile(ctx context.Context, fileID string) (*telegram.File, error)
	DownloadFile(ctx context.Context, filePath string) ([]byte, error)
}

// TransferService moves attachment bytes from the chat platform into
// durable object storage.
type TransferService struct {
	source FileSource
	store  objstore.Store
	logger logging.Logger
}

func NewTransferService(source FileSource, store objstore.Store, logger logging.Logger) *TransferService {
	return &TransferService{source: source, store: store, logger: logger}
}

// Transfer fetches the attachment in full and writes it under a fresh
// object key, returning the key and a long-lived URL. Failures on the two
// boundaries stay distinct: common.ErrTransferFetch for the platform side,
// common.ErrTransferStore for the storage side.
func (s *TransferService) Transfer(ctx context.Context, fileID string) (string, string, error) {
	f, err := s.source.GetFile(ctx, fileID)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", common.ErrTransferFetch, err)
	}

	body, err := s.source.DownloadFile(ctx, f.FilePath)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", common.ErrTransferFetch, err)
	}

	key := newStorageKey()
	url, err := s.store.Put(ctx, key, body, "text/html")
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", common.ErrTransferStore, err)
	}

	s.logger.Info(ctx, "attachment stored", "key", key, "size", len(body))

	return key, url, nil
}
