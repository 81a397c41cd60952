package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/datashare/internal/client/models"
	"github.com/dmitrijs2005/datashare/internal/client/repositories/kv"
	"github.com/dmitrijs2005/datashare/internal/common"
	"github.com/dmitrijs2005/datashare/internal/cryptox"
	"github.com/dmitrijs2005/datashare/internal/logging"
	"github.com/google/uuid"
)

const (
	accountKeyPrefix  = "account:"
	minPasswordLength = 6
)

type account struct {
	SubjectID string      `json:"id"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	Salt      []byte      `json:"salt"`
	Verifier  []byte      `json:"verifier"`
	CreatedAt time.Time   `json:"createdAt"`
}

// LocalGateway keeps accounts in a kv backend so DataShare works without a
// network provider. Only a salt and a verifier of the argon2id-derived key
// are stored.
type LocalGateway struct {
	backend kv.Backend
	log     logging.Logger
	now     func() time.Time
}

func NewLocalGateway(backend kv.Backend, log logging.Logger) *LocalGateway {
	if log == nil {
		log = logging.Nop()
	}
	return &LocalGateway{
		backend: backend,
		log:     log.With("component", "identity", "provider", "local"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func accountKey(email string) string {
	return accountKeyPrefix + strings.ToLower(strings.TrimSpace(email))
}

func (g *LocalGateway) SignUp(ctx context.Context, email string, password []byte, role models.Role) (*ProviderIdentity, error) {
	const op = "sign up"

	if !strings.Contains(email, "@") {
		return nil, authError(op, "INVALID_EMAIL", ErrRejected)
	}
	if len(password) < minPasswordLength {
		return nil, authError(op, fmt.Sprintf("WEAK_PASSWORD : Password should be at least %d characters", minPasswordLength), ErrWeakPassword)
	}
	if !role.Valid() {
		return nil, authError(op, "INVALID_ROLE", ErrRejected)
	}

	_, exists, err := g.lookup(ctx, op, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, authError(op, "EMAIL_EXISTS", ErrEmailExists)
	}

	salt := cryptox.NewSalt()
	key := cryptox.DeriveKey(password, salt)
	defer common.WipeByteArray(key)

	acc := account{
		SubjectID: uuid.NewString(),
		Email:     strings.TrimSpace(email),
		Role:      role,
		Salt:      salt,
		Verifier:  cryptox.MakeVerifier(key),
		CreatedAt: g.now(),
	}
	b, err := json.Marshal(acc)
	if err != nil {
		return nil, authError(op, "", fmt.Errorf("%w: %v", ErrRejected, err))
	}
	if err := g.backend.Set(ctx, accountKey(email), string(b)); err != nil {
		g.log.Error(ctx, "failed to store account", "error", err)
		return nil, authError(op, "account store is unavailable", fmt.Errorf("%w: %v", ErrUnavailable, err))
	}

	g.log.Info(ctx, "account created", "subject", acc.SubjectID, "role", acc.Role)
	return &ProviderIdentity{SubjectID: acc.SubjectID, Email: acc.Email, Role: acc.Role}, nil
}

func (g *LocalGateway) SignIn(ctx context.Context, email string, password []byte) (*ProviderIdentity, error) {
	const op = "sign in"

	acc, exists, err := g.lookup(ctx, op, email)
	if err != nil {
		return nil, err
	}
	if !exists || !cryptox.CheckPassword(password, acc.Salt, acc.Verifier) {
		return nil, authError(op, "INVALID_LOGIN_CREDENTIALS", ErrInvalidCredentials)
	}
	return &ProviderIdentity{SubjectID: acc.SubjectID, Email: acc.Email, Role: acc.Role}, nil
}

// SignOut is a no-op: the local provider holds no tokens.
func (g *LocalGateway) SignOut(context.Context) error {
	return nil
}

func (g *LocalGateway) lookup(ctx context.Context, op, email string) (*account, bool, error) {
	if g.backend == nil {
		return nil, false, authError(op, "no account store configured", ErrUnavailable)
	}

	raw, ok, err := g.backend.Get(ctx, accountKey(email))
	if err != nil {
		return nil, false, authError(op, "account store is unavailable", fmt.Errorf("%w: %v", ErrUnavailable, err))
	}
	if !ok {
		return nil, false, nil
	}

	var acc account
	if err := json.Unmarshal([]byte(raw), &acc); err != nil {
		g.log.Warn(ctx, "discarding unreadable account", "error", err)
		return nil, false, nil
	}
	return &acc, true, nil
}
