package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/datashare/internal/client/models"
	"github.com/dmitrijs2005/datashare/internal/client/repositories/kv"
	"github.com/dmitrijs2005/datashare/internal/common"
	"github.com/dmitrijs2005/datashare/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenBackend struct {
	getErr, setErr, delErr error
}

func (b brokenBackend) Get(context.Context, string) (string, bool, error) { return "", false, b.getErr }
func (b brokenBackend) Set(context.Context, string, string) error { return b.setErr }
func (b brokenBackend) Delete(context.Context, ...string) error { return b.delErr }

func newAdapter(t *testing.T) (*Adapter, *kv.MemoryRepository) {
	t.Helper()
	mem := kv.NewMemoryRepository()
	return NewAdapter(mem, logging.Nop()), mem
}

func sample(id string, at time.Time) models.MetricSubmission {
	return models.MetricSubmission{
		ID: id, CompanyName: "Acme", NumberOfUsers: 3, NumberOfProducts: 4,
		Percentage: 75, OwnerID: "u1", CreatedAt: at,
	}
}

func TestSaveLoad_RoundTripKeepsTimestamps(t *testing.T) {
	a, _ := newAdapter(t)
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 10, 30, 0, 123000000, time.UTC)

	require.NoError(t, Save(ctx, a, common.KeyCompanyData, []models.MetricSubmission{sample("1", at)}))

	got := Load[models.MetricSubmission](ctx, a, common.KeyCompanyData)
	require.Len(t, got, 1)
	assert.True(t, got[0].CreatedAt.Equal(at))
	assert.Equal(t, "Acme", got[0].CompanyName)
}

func TestSave_NilSliceStoresEmptyArray(t *testing.T) {
	a, mem := newAdapter(t)
	ctx := context.Background()

	require.NoError(t, Save[models.MetricSubmission](ctx, a, common.KeyCompanyData, nil))
	v, ok, _ := mem.Get(ctx, common.KeyCompanyData)
	require.True(t, ok)
	assert.Equal(t, "[]", v)
}

func TestLoad_AbsentKeyIsEmpty(t *testing.T) {
	a, _ := newAdapter(t)
	got := Load[models.MetricSubmission](context.Background(), a, common.KeyCompanyData)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLoad_UnparseableTextIsEmpty(t *testing.T) {
	a, mem := newAdapter(t)
	ctx := context.Background()
	require.NoError(t, mem.Set(ctx, common.KeyCompanyData, "{not json"))

	assert.Empty(t, Load[models.MetricSubmission](ctx, a, common.KeyCompanyData))
}

func TestLoad_DropsMalformedElements(t *testing.T) {
	a, mem := newAdapter(t)
	ctx := context.Background()
	raw := `[
		{"id":"ok","companyName":"A","numberOfUsers":1,"numberOfProducts":2,"percentage":50,"userId":"u","createdAt":"2024-01-01T00:00:00Z"},
		{"id":"bad-date","createdAt":"yesterday"},
		{"id":"","createdAt":"2024-01-01T00:00:00Z"},
		42
	]`
	require.NoError(t, mem.Set(ctx, common.KeyCompanyData, raw))

	got := Load[models.MetricSubmission](ctx, a, common.KeyCompanyData)
	require.Len(t, got, 1)
	assert.Equal(t, "ok", got[0].ID)
}

func TestLoad_BackendReadErrorIsSwallowed(t *testing.T) {
	a := NewAdapter(brokenBackend{getErr: errors.New("io")}, logging.Nop())
	assert.Empty(t, Load[models.MetricSubmission](context.Background(), a, common.KeyCompanyData))
}

type warning struct {
	msg string
	err error
}

// warnRecorder keeps the error attribute of every warning.
type warnRecorder struct {
	warnings []warning
}

func (r *warnRecorder) Debug(context.Context, string, ...any) {}
func (r *warnRecorder) Info(context.Context, string, ...any) {}
func (r *warnRecorder) Error(context.Context, string, ...any) {}
func (r *warnRecorder) With(...any) logging.Logger { return r }
func (r *warnRecorder) Warn(_ context.Context, msg string, args ...any) {
	w := warning{msg: msg}
	for i := 0; i+1 < len(args); i += 2 {
		if args[i] == "error" {
			w.err, _ = args[i+1].(error)
		}
	}
	r.warnings = append(r.warnings, w)
}

func TestReadFailuresAreLoggedAsPersistenceRead(t *testing.T) {
	ctx := context.Background()

	rec := &warnRecorder{}
	a := NewAdapter(brokenBackend{getErr: errors.New("io")}, rec)
	_, ok := LoadOne[models.Identity](ctx, a, common.KeyCurrentUser)
	assert.False(t, ok)

	mem := kv.NewMemoryRepository()
	require.NoError(t, mem.Set(ctx, common.KeyCompanyData, `[{"id":""},"x"]`))
	require.NoError(t, mem.Set(ctx, common.KeyCurrentUser, `not json`))
	b := NewAdapter(mem, rec)
	assert.Empty(t, Load[models.MetricSubmission](ctx, b, common.KeyCompanyData))
	_, ok = LoadOne[models.Identity](ctx, b, common.KeyCurrentUser)
	assert.False(t, ok)

	require.Len(t, rec.warnings, 4)
	for _, w := range rec.warnings {
		assert.ErrorIs(t, w.err, common.ErrPersistenceRead, w.msg)
	}
	assert.NotErrorIs(t, rec.warnings[0].err, common.ErrPersistenceWrite)
}

func TestSave_WriteFailureWrapsSentinel(t *testing.T) {
	a := NewAdapter(brokenBackend{setErr: errors.New("quota exceeded")}, logging.Nop())
	err := Save(context.Background(), a, common.KeyCompanyData, []models.MetricSubmission{})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrPersistenceWrite)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestRemove_FailureWrapsSentinel(t *testing.T) {
	a := NewAdapter(brokenBackend{delErr: errors.New("locked")}, logging.Nop())
	assert.ErrorIs(t, a.Remove(context.Background(), "k"), common.ErrPersistenceWrite)
}

func TestNoDurableMedium(t *testing.T) {
	a := NewAdapter(nil, nil)
	ctx := context.Background()

	assert.False(t, a.Available())
	require.NoError(t, Save(ctx, a, common.KeyCompanyData, []models.MetricSubmission{sample("1", time.Now())}))
	assert.Empty(t, Load[models.MetricSubmission](ctx, a, common.KeyCompanyData))
	require.NoError(t, a.Remove(ctx, common.KeyCompanyData))

	_, ok := LoadOne[models.Identity](ctx, a, common.KeyCurrentUser)
	assert.False(t, ok)
}

func TestSaveOneLoadOne(t *testing.T) {
	a, mem := newAdapter(t)
	ctx := context.Background()
	id := models.Identity{ID: "s1", Email: "a@x.io", Role: models.RoleB, CreatedAt: time.Now().UTC()}

	require.NoError(t, SaveOne(ctx, a, common.KeyCurrentUser, id))
	got, ok := LoadOne[models.Identity](ctx, a, common.KeyCurrentUser)
	require.True(t, ok)
	assert.Equal(t, id.ID, got.ID)
	assert.Equal(t, models.RoleB, got.Role)

	require.NoError(t, mem.Set(ctx, common.KeyCurrentUser, `{"id":"s1","email":"a@x.io","role":"ADMIN"}`))
	_, ok = LoadOne[models.Identity](ctx, a, common.KeyCurrentUser)
	assert.False(t, ok)

	require.NoError(t, mem.Set(ctx, common.KeyCurrentUser, `garbage`))
	_, ok = LoadOne[models.Identity](ctx, a, common.KeyCurrentUser)
	assert.False(t, ok)
}
