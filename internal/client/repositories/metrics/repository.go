package metrics

import (
	"context"

	"github.com/dmitrijs2005/datashare/internal/client/models"
	"github.com/dmitrijs2005/datashare/internal/client/repositories/collection"
	"github.com/dmitrijs2005/datashare/internal/client/storage"
	"github.com/dmitrijs2005/datashare/internal/common"
	"github.com/dmitrijs2005/datashare/internal/logging"
)

type Option func(*repository)

func WithClock(c collection.Clock) Option {
	return func(r *repository) { r.clock = c }
}

func WithIDGenerator(g collection.IDGenerator) Option {
	return func(r *repository) { r.ids = g }
}

type repository struct {
	items *collection.Collection[models.MetricSubmission]
	clock collection.Clock
	ids   collection.IDGenerator
	log   logging.Logger
}

func NewRepository(store *storage.Adapter, log logging.Logger, opts ...Option) Repository {
	if log == nil {
		log = logging.Nop()
	}
	r := &repository{
		items: collection.New[models.MetricSubmission](store, common.KeyCompanyData, log),
		clock: collection.RealClock{},
		ids:   collection.UUIDGenerator{},
		log:   log.With("component", "metrics"),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *repository) Create(ctx context.Context, in models.MetricInput) (*models.MetricSubmission, error) {
	if in.NumberOfUsers < 0 || in.NumberOfProducts < 0 {
		return nil, common.NewValidationError("counts", "must not be negative")
	}

	m := models.MetricSubmission{
		ID:               r.ids.New(),
		CompanyName:      in.CompanyName,
		NumberOfUsers:    in.NumberOfUsers,
		NumberOfProducts: in.NumberOfProducts,
		Percentage:       models.Percentage(in.NumberOfUsers, in.NumberOfProducts),
		OwnerID:          in.OwnerID,
		CreatedAt:        r.clock.Now(),
	}

	err := r.items.Append(ctx, m)
	if err != nil {
		r.log.Warn(ctx, "metric submission kept in memory only", "id", m.ID, "error", err)
	}
	return &m, err
}

func (r *repository) QueryByOwner(ctx context.Context, ownerID string) []models.MetricSubmission {
	return r.items.Select(ctx, func(m models.MetricSubmission) bool { return m.OwnerID == ownerID })
}

func (r *repository) LatestByOwner(ctx context.Context, ownerID string) *models.MetricSubmission {
	list := r.QueryByOwner(ctx, ownerID)
	if len(list) == 0 {
		return nil
	}
	return &list[0]
}

func (r *repository) QueryAll(ctx context.Context) []models.MetricSubmission {
	return r.items.Select(ctx, nil)
}

func (r *repository) Count(ctx context.Context) int {
	return r.items.Len(ctx)
}

func (r *repository) Clear(ctx context.Context) error {
	return r.items.Clear(ctx)
}

func (r *repository) Invalidate() {
	r.items.Invalidate()
}
