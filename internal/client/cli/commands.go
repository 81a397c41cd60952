package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/datashare/internal/client/models"
	"github.com/dmitrijs2005/datashare/internal/client/services"
)

// Submit prompts for a company metrics entry and records it.
func (a *App) Submit(ctx context.Context) error {
	company, err := getSimpleText(a.reader, "Company name", a.out)
	if err != nil {
		return err
	}
	users, err := GetCount(a.reader, "Number of users", a.out)
	if err != nil {
		return err
	}
	products, err := GetCount(a.reader, "Number of products", a.out)
	if err != nil {
		return err
	}

	m, err := a.dash.SubmitMetrics(ctx, company, users, products)
	if m == nil {
		return err
	}
	printlnFn("Saved:", formatMetric(*m))
	if services.IsPersistenceFailure(err) {
		return err
	}
	return nil
}

// History prints the signed-in identity's submissions, newest first.
func (a *App) History(ctx context.Context) error {
	list, err := a.dash.History(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		printlnFn("No data submitted yet")
		return nil
	}
	for _, m := range list {
		printlnFn(formatMetric(m))
	}
	return nil
}

// Latest prints the newest submission of ownerID.
func (a *App) Latest(ctx context.Context, ownerID string) error {
	m, err := a.dash.LatestFor(ctx, ownerID)
	if err != nil {
		return err
	}
	if m == nil {
		printlnFn("No data available")
		return nil
	}
	printlnFn(formatMetric(*m))
	return nil
}

// Upload sends the image at path to targetID.
func (a *App) Upload(ctx context.Context, path, targetID string) error {
	ref, err := a.dash.UploadFile(ctx, path, targetID)
	if ref == nil {
		return err
	}
	printlnFn("Uploaded:", formatFile(*ref))
	if services.IsPersistenceFailure(err) {
		return err
	}
	return nil
}

// Files prints the files relevant to the signed-in identity, or every file
// reference when all is set.
func (a *App) Files(ctx context.Context, all bool) error {
	var (
		list []models.FileReference
		err  error
	)
	switch {
	case all:
		list, err = a.dash.AllFiles(ctx)
	case a.role() == models.RoleB:
		list, err = a.dash.FilesUploaded(ctx)
	default:
		list, err = a.dash.FilesForMe(ctx)
	}
	if err != nil {
		return err
	}
	if len(list) == 0 {
		printlnFn("No files")
		return nil
	}
	for _, f := range list {
		printlnFn(formatFile(f))
	}
	return nil
}

// Stats prints the activity summary of the signed-in identity.
func (a *App) Stats(ctx context.Context) error {
	st, err := a.dash.Stats(ctx)
	if err != nil {
		return err
	}
	printlnFn(formatStats(st))
	return nil
}

// Refresh drops in-memory copies so the next read comes from the store.
func (a *App) Refresh(ctx context.Context) error {
	a.store.Refresh()
	a.log.Debug(ctx, "store refreshed")
	printlnFn(fmt.Sprintf("Reloaded from %s store", a.config.Store))
	return nil
}
