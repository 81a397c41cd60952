package metrics

import (
	"context"

	"github.com/dmitrijs2005/datashare/internal/client/models"
)

// Repository describes create and query operations for metric submissions.
type Repository interface {
	// Create stores a new submission with a fresh id, the current time and
	// the derived percentage. When persisting fails the submission is still
	// returned and kept in memory, alongside an error matching
	// common.ErrPersistenceWrite.
	Create(ctx context.Context, in models.MetricInput) (*models.MetricSubmission, error)

	// QueryByOwner returns the owner's submissions, newest first.
	QueryByOwner(ctx context.Context, ownerID string) []models.MetricSubmission

	// LatestByOwner returns the owner's newest submission or nil.
	LatestByOwner(ctx context.Context, ownerID string) *models.MetricSubmission

	// QueryAll returns every submission, newest first.
	QueryAll(ctx context.Context) []models.MetricSubmission

	// Count returns the number of stored submissions.
	Count(ctx context.Context) int

	// Clear removes every submission from memory and the store.
	Clear(ctx context.Context) error

	// Invalidate makes the next access re-read the store.
	Invalidate()
}
