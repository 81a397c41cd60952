package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/datashare/internal/client/identity"
	"github.com/dmitrijs2005/datashare/internal/client/models"
	"github.com/dmitrijs2005/datashare/internal/client/repositories/kv"
	"github.com/dmitrijs2005/datashare/internal/client/session"
	"github.com/dmitrijs2005/datashare/internal/client/storage"
	"github.com/dmitrijs2005/datashare/internal/common"
	"github.com/dmitrijs2005/datashare/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fake gateway ----

type fakeGateway struct {
	SignUpRet  *identity.ProviderIdentity
	SignUpErr  error
	SignInRet  *identity.ProviderIdentity
	SignInErr  error
	SignOutErr error

	calls        int
	LastEmail    string
	LastPassword []byte
	LastRole     models.Role
}

func (f *fakeGateway) SignUp(_ context.Context, email string, password []byte, role models.Role) (*identity.ProviderIdentity, error) {
	f.calls++
	f.LastEmail, f.LastPassword, f.LastRole = email, password, role
	if f.SignUpErr != nil {
		return nil, f.SignUpErr
	}
	c := *f.SignUpRet
	return &c, nil
}

func (f *fakeGateway) SignIn(_ context.Context, email string, password []byte) (*identity.ProviderIdentity, error) {
	f.calls++
	f.LastEmail, f.LastPassword = email, password
	if f.SignInErr != nil {
		return nil, f.SignInErr
	}
	c := *f.SignInRet
	return &c, nil
}

func (f *fakeGateway) SignOut(context.Context) error {
	f.calls++
	return f.SignOutErr
}

func newAuth(gw identity.Gateway, backend kv.Backend) (AuthService, *session.Holder) {
	h := session.NewHolder(storage.NewAdapter(backend, logging.Nop()))
	return NewAuthService(gw, h, logging.Nop()), h
}

func TestSignUp_UsesRequestedRole(t *testing.T) {
	gw := &fakeGateway{SignUpRet: &identity.ProviderIdentity{SubjectID: "s1", Email: "a@x.io"}}
	svc, h := newAuth(gw, kv.NewMemoryRepository())

	id, err := svc.SignUp(context.Background(), " a@x.io ", []byte("pw"), models.RoleB)
	require.NoError(t, err)
	assert.Equal(t, models.RoleB, id.Role)
	assert.Equal(t, "a@x.io", gw.LastEmail)
	assert.False(t, id.CreatedAt.IsZero())

	cur := h.Current(context.Background())
	require.NotNil(t, cur)
	assert.Equal(t, "s1", cur.ID)
}

func TestSignUp_ValidatesBeforeGateway(t *testing.T) {
	gw := &fakeGateway{}
	svc, _ := newAuth(gw, kv.NewMemoryRepository())
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "", []byte("pw"), models.RoleA)
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = svc.SignUp(ctx, "a@x.io", nil, models.RoleA)
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = svc.SignUp(ctx, "a@x.io", []byte("pw"), models.Role("ROOT"))
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = svc.SignIn(ctx, "  ", []byte("pw"))
	assert.ErrorIs(t, err, common.ErrValidation)

	assert.Zero(t, gw.calls)
}

func TestSignIn_RoleResolution(t *testing.T) {
	ctx := context.Background()

	t.Run("provider role wins", func(t *testing.T) {
		gw := &fakeGateway{SignInRet: &identity.ProviderIdentity{SubjectID: "s", Email: "e@x.io", Role: models.RoleB}}
		svc, _ := newAuth(gw, kv.NewMemoryRepository())
		id, err := svc.SignIn(ctx, "e@x.io", []byte("pw"))
		require.NoError(t, err)
		assert.Equal(t, models.RoleB, id.Role)
	})

	t.Run("persisted session of same subject", func(t *testing.T) {
		mem := kv.NewMemoryRepository()
		gw := &fakeGateway{
			SignUpRet: &identity.ProviderIdentity{SubjectID: "s", Email: "e@x.io"},
			SignInRet: &identity.ProviderIdentity{SubjectID: "s", Email: "e@x.io"},
		}
		svc, _ := newAuth(gw, mem)
		_, err := svc.SignUp(ctx, "e@x.io", []byte("pw"), models.RoleB)
		require.NoError(t, err)

		restarted, _ := newAuth(gw, mem)
		id, err := restarted.SignIn(ctx, "e@x.io", []byte("pw"))
		require.NoError(t, err)
		assert.Equal(t, models.RoleB, id.Role)
	})

	t.Run("defaults to USER_A", func(t *testing.T) {
		mem := kv.NewMemoryRepository()
		gw := &fakeGateway{
			SignUpRet: &identity.ProviderIdentity{SubjectID: "other", Email: "o@x.io"},
			SignInRet: &identity.ProviderIdentity{SubjectID: "s", Email: "e@x.io"},
		}
		svc, _ := newAuth(gw, mem)
		_, err := svc.SignUp(ctx, "o@x.io", []byte("pw"), models.RoleB)
		require.NoError(t, err)

		id, err := svc.SignIn(ctx, "e@x.io", []byte("pw"))
		require.NoError(t, err)
		assert.Equal(t, models.RoleA, id.Role)
	})
}

func TestSignIn_GatewayErrorLeavesSessionAlone(t *testing.T) {
	gw := &fakeGateway{SignInErr: &identity.AuthError{Op: "sign in", Message: "INVALID_LOGIN_CREDENTIALS", Err: identity.ErrInvalidCredentials}}
	svc, h := newAuth(gw, kv.NewMemoryRepository())

	_, err := svc.SignIn(context.Background(), "e@x.io", []byte("pw"))
	require.ErrorIs(t, err, identity.ErrInvalidCredentials)
	assert.Equal(t, "INVALID_LOGIN_CREDENTIALS", err.Error())
	assert.Nil(t, h.Current(context.Background()))
}

type quotaBackend struct{ *kv.MemoryRepository }

func (quotaBackend) Set(context.Context, string, string) error { return errors.New("quota exceeded") }

func TestSignIn_SessionPersistFailureIsNotFatal(t *testing.T) {
	gw := &fakeGateway{SignInRet: &identity.ProviderIdentity{SubjectID: "s", Email: "e@x.io", Role: models.RoleA}}
	svc, _ := newAuth(gw, quotaBackend{kv.NewMemoryRepository()})

	id, err := svc.SignIn(context.Background(), "e@x.io", []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, "s", id.ID)
	assert.NotNil(t, svc.Current(context.Background()))
}

func TestSignOut(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{SignInRet: &identity.ProviderIdentity{SubjectID: "s", Email: "e@x.io", Role: models.RoleA}}
	svc, _ := newAuth(gw, kv.NewMemoryRepository())
	_, err := svc.SignIn(ctx, "e@x.io", []byte("pw"))
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(ctx))
	assert.Nil(t, svc.Current(ctx))

	gw.SignOutErr = &identity.AuthError{Op: "sign out", Message: "network down", Err: identity.ErrUnavailable}
	_, err = svc.SignIn(ctx, "e@x.io", []byte("pw"))
	require.NoError(t, err)
	err = svc.SignOut(ctx)
	assert.ErrorIs(t, err, identity.ErrUnavailable)
	assert.Nil(t, svc.Current(ctx))
}

func TestAuthWithLocalGateway(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemoryRepository()
	svc, _ := newAuth(identity.NewLocalGateway(mem, nil), mem)

	_, err := svc.SignUp(ctx, "b@x.io", []byte("secret1"), models.RoleB)
	require.NoError(t, err)
	require.NoError(t, svc.SignOut(ctx))

	id, err := svc.SignIn(ctx, "b@x.io", []byte("secret1"))
	require.NoError(t, err)
	assert.Equal(t, models.RoleB, id.Role)
}
