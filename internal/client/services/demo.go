package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/datashare/internal/client/models"
	"github.com/dmitrijs2005/datashare/internal/client/repositories/files"
	"github.com/dmitrijs2005/datashare/internal/client/repositories/metrics"
	"github.com/dmitrijs2005/datashare/internal/common"
)

// Demo records.
const (
	DemoCompanyName = "Demo Company Inc."
	DemoFileID      = "demo-file-1"
	DemoFileName    = "sample-chart.png"
	DemoFileRef     = "/images/sample-chart.png"
	DemoFileSize    = 1024576
	DemoUploader    = "demo-user-b@email.com"
)

// SeedResult tells which demo records SeedDemo added.
type SeedResult struct {
	Metric *models.MetricSubmission
	File   *models.FileReference
}

// SeedDemo adds a demo metrics entry when no metrics exist and a demo file
// reference when no files exist. Existing data is never touched.
func SeedDemo(ctx context.Context, m metrics.Repository, f files.Repository, now time.Time) (*SeedResult, error) {
	res := &SeedResult{}
	var errs []error

	if m.Count(ctx) == 0 {
		sub, err := m.Create(ctx, models.MetricInput{
			CompanyName:      DemoCompanyName,
			NumberOfUsers:    150,
			NumberOfProducts: 25,
			OwnerID:          common.DemoUserAID,
		})
		res.Metric = sub
		errs = append(errs, err)
	}

	if f.Count(ctx) == 0 {
		ref := models.FileReference{
			ID:         DemoFileID,
			FileName:   DemoFileName,
			BlobRef:    DemoFileRef,
			FileSize:   DemoFileSize,
			TargetID:   common.DemoUserAID,
			UploaderID: DemoUploader,
			CreatedAt:  now.Add(-24 * time.Hour).UTC(),
		}
		err := f.Insert(ctx, ref)
		if err == nil || errors.Is(err, common.ErrPersistenceWrite) {
			res.File = &ref
		}
		errs = append(errs, err)
	}

	return res, errors.Join(errs...)
}
