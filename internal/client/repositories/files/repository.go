package files

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
	items *collection.Collection[models.FileReference]
	clock collection.Clock
	ids   collection.IDGenerator
	log   logging.Logger
}

func NewRepository(store *storage.Adapter, log logging.Logger, opts ...Option) Repository {
	if log == nil {
		log = logging.Nop()
	}
	r := &repository{
		items: collection.New[models.FileReference](store, common.KeyUploadedFiles, log),
		clock: collection.RealClock{},
		ids:   collection.UUIDGenerator{},
		log:   log.With("component", "files"),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *repository) Create(ctx context.Context, upload models.Upload, targetID, uploaderID string) (*models.FileReference, error) {
	if upload == nil || upload.Name() == "" {
		return nil, common.NewValidationError("file", "no file selected")
	}

	f := models.FileReference{
		ID:         r.ids.New(),
		FileName:   upload.Name(),
		BlobRef:    upload.Ref(),
		FileSize:   upload.Size(),
		TargetID:   targetID,
		UploaderID: uploaderID,
		CreatedAt:  r.clock.Now(),
	}

	err := r.items.Append(ctx, f)
	if err != nil {
		r.log.Warn(ctx, "file reference kept in memory only", "id", f.ID, "error", err)
	}
	return &f, err
}

func (r *repository) Insert(ctx context.Context, ref models.FileReference) error {
	if err := ref.Validate(); err != nil {
		return common.NewValidationError("file", err.Error())
	}
	return r.items.Append(ctx, ref)
}

func (r *repository) QueryByUploader(ctx context.Context, uploaderID string) []models.FileReference {
	return r.items.Select(ctx, func(f models.FileReference) bool { return f.UploaderID == uploaderID })
}

func (r *repository) QueryByTarget(ctx context.Context, targetID string) []models.FileReference {
	return r.items.Select(ctx, func(f models.FileReference) bool { return f.TargetID == targetID })
}

func (r *repository) QueryAll(ctx context.Context) []models.FileReference {
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
