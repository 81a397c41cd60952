package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/datashare/internal/client/blob"
	"github.com/dmitrijs2005/datashare/internal/client/models"
	"github.com/dmitrijs2005/datashare/internal/client/repositories/files"
	"github.com/dmitrijs2005/datashare/internal/client/repositories/metrics"
	"github.com/dmitrijs2005/datashare/internal/client/session"
	"github.com/dmitrijs2005/datashare/internal/common"
	"github.com/dmitrijs2005/datashare/internal/logging"
)

// AcceptedContentType is the only upload type the dashboard takes.
const AcceptedContentType = "image/png"

// Dashboard implements the role-gated use cases of the two dashboards.
type Dashboard struct {
	session       *session.Holder
	metrics       metrics.Repository
	files         files.Repository
	stager        *blob.Stager
	defaultTarget string
	log           logging.Logger
}

func NewDashboard(sess *session.Holder, m metrics.Repository, f files.Repository, stager *blob.Stager, defaultTarget string, log logging.Logger) *Dashboard {
	if log == nil {
		log = logging.Nop()
	}
	if defaultTarget == "" {
		defaultTarget = common.DemoUserAID
	}
	return &Dashboard{
		session:       sess,
		metrics:       m,
		files:         f,
		stager:        stager,
		defaultTarget: defaultTarget,
		log:           log.With("component", "dashboard"),
	}
}

// DefaultTarget is the RoleA identity addressed when none is given.
func (d *Dashboard) DefaultTarget() string {
	return d.defaultTarget
}

func (d *Dashboard) require(ctx context.Context, roles ...models.Role) (*models.Identity, error) {
	me := d.session.Current(ctx)
	if me == nil {
		return nil, common.ErrNotAuthenticated
	}
	if len(roles) == 0 {
		return me, nil
	}
	for _, r := range roles {
		if me.Role == r {
			return me, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", common.ErrForbidden, me.Role)
}

// SubmitMetrics records a company metrics entry for the signed-in RoleA
// identity. A persistence failure is returned together with the record,
// which remains visible for this process.
func (d *Dashboard) SubmitMetrics(ctx context.Context, companyName string, users, products int) (*models.MetricSubmission, error) {
	me, err := d.require(ctx, models.RoleA)
	if err != nil {
		return nil, err
	}

	companyName = strings.TrimSpace(companyName)
	switch {
	case companyName == "":
		return nil, common.NewValidationError("company name", "is required")
	case users < 0:
		return nil, common.NewValidationError("number of users", "must not be negative")
	case products < 0:
		return nil, common.NewValidationError("number of products", "must not be negative")
	}

	return d.metrics.Create(ctx, models.MetricInput{
		CompanyName:      companyName,
		NumberOfUsers:    users,
		NumberOfProducts: products,
		OwnerID:          me.ID,
	})
}

// History lists the signed-in RoleA identity's submissions, newest first.
func (d *Dashboard) History(ctx context.Context) ([]models.MetricSubmission, error) {
	me, err := d.require(ctx, models.RoleA)
	if err != nil {
		return nil, err
	}
	return d.metrics.QueryByOwner(ctx, me.ID), nil
}

// LatestFor returns the newest submission of ownerID. RoleA identities always
// see their own; RoleB identities see ownerID, or the default target when
// ownerID is empty. A nil result means there is none.
func (d *Dashboard) LatestFor(ctx context.Context, ownerID string) (*models.MetricSubmission, error) {
	me, err := d.require(ctx)
	if err != nil {
		return nil, err
	}
	switch {
	case me.Role == models.RoleA:
		ownerID = me.ID
	case ownerID == "":
		ownerID = d.defaultTarget
	}
	return d.metrics.LatestByOwner(ctx, ownerID), nil
}

// UploadFile stages the file at path and records it as sent by the signed-in
// RoleB identity to targetID (the default target when empty). Only PNG
// images are accepted; rejected files are removed from staging.
func (d *Dashboard) UploadFile(ctx context.Context, path, targetID string) (*models.FileReference, error) {
	me, err := d.require(ctx, models.RoleB)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(path) == "" {
		return nil, common.NewValidationError("file", "no file selected")
	}
	if targetID == "" {
		targetID = d.defaultTarget
	}

	h, err := d.stager.Stage(path)
	if err != nil {
		return nil, common.NewValidationError("file", err.Error())
	}
	if h.ContentType() != AcceptedContentType {
		if derr := d.stager.Discard(h); derr != nil {
			d.log.Warn(ctx, "failed to discard rejected upload", "ref", h.Ref(), "error", derr)
		}
		return nil, common.NewValidationError("file", fmt.Sprintf("only PNG images are accepted, got %s", h.ContentType()))
	}

	ref, err := d.files.Create(ctx, h, targetID, me.ID)
	if ref == nil {
		_ = d.stager.Discard(h)
		return nil, err
	}
	d.log.Info(ctx, "file uploaded", "id", ref.ID, "target", targetID, "size", ref.FileSize)
	return ref, err
}

// FilesForMe lists the files addressed to the signed-in identity.
func (d *Dashboard) FilesForMe(ctx context.Context) ([]models.FileReference, error) {
	me, err := d.require(ctx)
	if err != nil {
		return nil, err
	}
	return d.files.QueryByTarget(ctx, me.ID), nil
}

// FilesUploaded lists the files the signed-in RoleB identity sent.
func (d *Dashboard) FilesUploaded(ctx context.Context) ([]models.FileReference, error) {
	me, err := d.require(ctx, models.RoleB)
	if err != nil {
		return nil, err
	}
	return d.files.QueryByUploader(ctx, me.ID), nil
}

// AllFiles lists every file reference.
func (d *Dashboard) AllFiles(ctx context.Context) ([]models.FileReference, error) {
	if _, err := d.require(ctx); err != nil {
		return nil, err
	}
	return d.files.QueryAll(ctx), nil
}

// Stats summarises the activity of the signed-in identity.
func (d *Dashboard) Stats(ctx context.Context) (*models.Stats, error) {
	me, err := d.require(ctx)
	if err != nil {
		return nil, err
	}
	return StatsFor(ctx, d.metrics, d.files, me.ID), nil
}

// StatsFor summarises the activity of userID.
func StatsFor(ctx context.Context, m metrics.Repository, f files.Repository, userID string) *models.Stats {
	data := m.QueryByOwner(ctx, userID)
	sent := f.QueryByUploader(ctx, userID)
	received := f.QueryByTarget(ctx, userID)

	st := &models.Stats{
		DataEntries:   len(data),
		FilesUploaded: len(sent),
		FilesReceived: len(received),
	}
	if len(data) > 0 {
		st.LatestData = &data[0]
	}
	if len(sent) > 0 {
		st.LatestFile = &sent[0]
	}
	return st
}

// IsPersistenceFailure reports whether err only means the record was not
// written durably.
func IsPersistenceFailure(err error) bool {
	return errors.Is(err, common.ErrPersistenceWrite)
}
