package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/datashare/internal/client/blob"
	"github.com/dmitrijs2005/datashare/internal/client/config"
	"github.com/dmitrijs2005/datashare/internal/client/datastore"
	"github.com/dmitrijs2005/datashare/internal/client/identity"
	"github.com/dmitrijs2005/datashare/internal/client/models"
	"github.com/dmitrijs2005/datashare/internal/client/services"
	"github.com/dmitrijs2005/datashare/internal/logging"
)

type App struct {
	config *config.Config
	store  *datastore.Store
	auth   services.AuthService
	dash   *services.Dashboard
	stager *blob.Stager
	log    logging.Logger
	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the store, the identity provider and the blob stager
// described by c.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	store, err := datastore.Open(ctx, c, log)
	if err != nil {
		return nil, err
	}

	gw, err := NewGateway(ctx, c, store, log)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	stager, err := blob.NewStager(c.BlobDir)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return newApp(c, store, gw, stager, log, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, store *datastore.Store, gw identity.Gateway, stager *blob.Stager, log logging.Logger, in io.Reader, out io.Writer) *App {
	if log == nil {
		log = logging.Nop()
	}
	return &App{
		config: c,
		store:  store,
		auth:   services.NewAuthService(gw, store.Session, log),
		dash:   services.NewDashboard(store.Session, store.Metrics, store.Files, stager, c.DefaultTargetID, log),
		stager: stager,
		log:    log.With("component", "cli"),
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// NewGateway builds the identity provider selected by c.
func NewGateway(ctx context.Context, c *config.Config, store *datastore.Store, log logging.Logger) (identity.Gateway, error) {
	switch c.IdentityProvider {
	case config.ProviderLocal:
		if store.Backend == nil {
			return nil, errors.New("the local identity provider needs a store")
		}
		return identity.NewLocalGateway(store.Backend, log), nil
	case config.ProviderRemote:
		gw, err := identity.NewRemoteGateway(ctx, identity.RemoteConfig{
			Endpoint: c.IdentityEndpoint,
			APIKey:   c.IdentityAPIKey,
			JWKSURL:  c.JWKSURL,
			Timeout:  c.RequestTimeout,
		}, log)
		if err != nil {
			return nil, err
		}
		return gw, nil
	default:
		return nil, fmt.Errorf("unknown identity provider %q", c.IdentityProvider)
	}
}

// Run serves the REPL until the user exits, then releases resources.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	if a.config.MetricsAddr != "" {
		go func() {
			if err := serveMetrics(ctx, a.config.MetricsAddr, a.log); err != nil {
				a.log.Error(ctx, "metrics listener stopped", "error", err)
			}
		}()
	}

	printlnFn("Welcome to DataShare CLI (type 'help' for commands)")
	runREPL(ctx, a, a.status, bufio.NewScanner(a.reader))
	return nil
}

// Close removes staged uploads and closes the store.
func (a *App) Close() error {
	var errs []error
	if a.stager != nil {
		errs = append(errs, a.stager.Close())
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	return errors.Join(errs...)
}

func (a *App) current(ctx context.Context) *models.Identity {
	return a.auth.Current(ctx)
}

func (a *App) status() string {
	me := a.auth.Current(context.Background())
	if me == nil {
		return ""
	}
	return fmt.Sprintf("(%s %s)", me.Email, me.Role)
}
