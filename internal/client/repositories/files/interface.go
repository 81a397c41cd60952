package files

import (
	"context"

	"github.com/dmitrijs2005/datashare/internal/client/models"
)

// Repository describes create and query operations for file references.
type Repository interface {
	// Create records upload as sent by uploaderID to targetID. When persisting
	// fails the reference is still returned and kept in memory, alongside an
	// error matching common.ErrPersistenceWrite.
	Create(ctx context.Context, upload models.Upload, targetID, uploaderID string) (*models.FileReference, error)

	// Insert stores a fully formed reference as is, e.g. imported or demo
	// data. The reference must validate.
	Insert(ctx context.Context, ref models.FileReference) error

	// QueryByUploader returns the files uploaderID sent, newest first.
	QueryByUploader(ctx context.Context, uploaderID string) []models.FileReference

	// QueryByTarget returns the files addressed to targetID, newest first.
	QueryByTarget(ctx context.Context, targetID string) []models.FileReference

	// QueryAll returns every reference, newest first.
	QueryAll(ctx context.Context) []models.FileReference

	// Count returns the number of stored references.
	Count(ctx context.Context) int

	// Clear removes every reference from memory and the store.
	Clear(ctx context.Context) error

	// Invalidate makes the next access re-read the store.
	Invalidate()
}
