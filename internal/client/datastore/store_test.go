package datastore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/datashare/internal/client/config"
	"github.com/dmitrijs2005/datashare/internal/client/models"
	"github.com/dmitrijs2005/datashare/internal/client/repositories/kv"
	"github.com/dmitrijs2005/datashare/internal/common"
	"github.com/dmitrijs2005/datashare/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type upload struct{}

func (upload) Name() string { return "chart.png" }
func (upload) Size() int64  { return 10 }
func (upload) Ref() string  { return "ref" }

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDSN = filepath.Join(t.TempDir(), "datashare.db")
	return cfg
}

func TestOpen_SQLiteSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	cfg := sqliteConfig(t)

	s, err := Open(ctx, cfg, logging.Nop())
	require.NoError(t, err)

	require.NoError(t, s.Session.SetCurrent(ctx, models.Identity{ID: "a", Email: "a@x.io", Role: models.RoleA, CreatedAt: time.Now()}))
	m, err := s.Metrics.Create(ctx, models.MetricInput{CompanyName: "Acme", NumberOfUsers: 1, NumberOfProducts: 2, OwnerID: "a"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s2, err := Open(ctx, cfg, logging.Nop())
	require.NoError(t, err)
	defer s2.Close()

	cur := s2.Session.Current(ctx)
	require.NotNil(t, cur)
	assert.Equal(t, "a", cur.ID)
	latest := s2.Metrics.LatestByOwner(ctx, "a")
	require.NotNil(t, latest)
	assert.Equal(t, m.ID, latest.ID)
}

func TestOpen_Modes(t *testing.T) {
	ctx := context.Background()
	for _, mode := range []string{config.StoreMemory, config.StoreNone} {
		t.Run(mode, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.LoadDefaults()
			cfg.Store = mode

			s, err := Open(ctx, cfg, nil)
			require.NoError(t, err)
			defer s.Close()

			assert.Equal(t, mode == config.StoreMemory, s.Adapter.Available())
		})
	}

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.Store = "redis"
	_, err := Open(ctx, cfg, nil)
	require.Error(t, err)
}

func TestClearAll_RemovesCoreKeys(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemoryRepository()
	s := New(mem, logging.Nop())

	require.NoError(t, s.Session.SetCurrent(ctx, models.Identity{ID: "b", Email: "b@x.io", Role: models.RoleB}))
	_, err := s.Metrics.Create(ctx, models.MetricInput{CompanyName: "Acme", OwnerID: "a"})
	require.NoError(t, err)
	_, err = s.Files.Create(ctx, upload{}, "a", "b")
	require.NoError(t, err)
	require.NoError(t, mem.Set(ctx, "account:b@x.io", "{}"))

	require.NoError(t, s.ClearAll(ctx))

	for _, k := range []string{common.KeyCurrentUser, common.KeyCompanyData, common.KeyUploadedFiles} {
		_, ok, _ := mem.Get(ctx, k)
		assert.False(t, ok, k)
	}
	_, ok, _ := mem.Get(ctx, "account:b@x.io")
	assert.True(t, ok)

	assert.Nil(t, s.Session.Current(ctx))
	assert.Empty(t, s.Metrics.QueryAll(ctx))
	assert.Empty(t, s.Files.QueryAll(ctx))
}

func TestRefresh_SeesOtherProcessWrites(t *testing.T) {
	ctx := context.Background()
	cfg := sqliteConfig(t)

	s1, err := Open(ctx, cfg, nil)
	require.NoError(t, err)
	defer s1.Close()
	s2, err := Open(ctx, cfg, nil)
	require.NoError(t, err)
	defer s2.Close()

	assert.Empty(t, s1.Files.QueryAll(ctx))
	_, err = s2.Files.Create(ctx, upload{}, "a", "b")
	require.NoError(t, err)

	assert.Empty(t, s1.Files.QueryAll(ctx))
	s1.Refresh()
	assert.Len(t, s1.Files.QueryAll(ctx), 1)
}
