package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/datashare/internal/client/identity"
	"github.com/dmitrijs2005/datashare/internal/client/models"
	"github.com/dmitrijs2005/datashare/internal/client/session"
	"github.com/dmitrijs2005/datashare/internal/common"
	"github.com/dmitrijs2005/datashare/internal/logging"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - SignUp: create an account with the given role and sign it in.
//   - SignIn: authenticate and make the identity current.
//   - SignOut: end the provider session and clear the current identity.
//   - Current: the signed-in identity, or nil.
//
// Passwords are not retained; wiping them is the caller's job.
type AuthService interface {
	SignUp(ctx context.Context, email string, password []byte, role models.Role) (*models.Identity, error)
	SignIn(ctx context.Context, email string, password []byte) (*models.Identity, error)
	SignOut(ctx context.Context) error
	Current(ctx context.Context) *models.Identity
}

type authService struct {
	gateway identity.Gateway
	session *session.Holder
	log     logging.Logger
	now     func() time.Time
}

func NewAuthService(gateway identity.Gateway, sess *session.Holder, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &authService{
		gateway: gateway,
		session: sess,
		log:     log.With("component", "auth"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func validateCredentials(email string, password []byte) error {
	if strings.TrimSpace(email) == "" {
		return common.NewValidationError("email", "is required")
	}
	if len(password) == 0 {
		return common.NewValidationError("password", "is required")
	}
	return nil
}

func (s *authService) SignUp(ctx context.Context, email string, password []byte, role models.Role) (*models.Identity, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, common.NewValidationError("role", "must be USER_A or USER_B")
	}

	pid, err := s.gateway.SignUp(ctx, strings.TrimSpace(email), password, role)
	if err != nil {
		return nil, err
	}
	if pid.Role == "" {
		pid.Role = role
	}
	return s.establish(ctx, pid), nil
}

func (s *authService) SignIn(ctx context.Context, email string, password []byte) (*models.Identity, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	previous := s.session.Current(ctx)

	pid, err := s.gateway.SignIn(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return nil, err
	}

	if pid.Role == "" {
		switch {
		case previous != nil && previous.ID == pid.SubjectID:
			pid.Role = previous.Role
		default:
			pid.Role = models.RoleA
		}
	}
	return s.establish(ctx, pid), nil
}

// establish makes pid the current identity. A failure to persist the session
// does not undo a successful authentication.
func (s *authService) establish(ctx context.Context, pid *identity.ProviderIdentity) *models.Identity {
	id := models.Identity{
		ID:        pid.SubjectID,
		Email:     pid.Email,
		Role:      pid.Role,
		CreatedAt: s.now(),
	}
	if err := s.session.SetCurrent(ctx, id); err != nil {
		s.log.Warn(ctx, "session not persisted", "subject", id.ID, "error", err)
	}
	s.log.Info(ctx, "signed in", "subject", id.ID, "role", id.Role)
	return &id
}

func (s *authService) SignOut(ctx context.Context) error {
	gwErr := s.gateway.SignOut(ctx)
	if gwErr != nil {
		s.log.Warn(ctx, "provider sign out failed", "error", gwErr)
	}
	return errors.Join(gwErr, s.session.Clear(ctx))
}

func (s *authService) Current(ctx context.Context) *models.Identity {
	return s.session.Current(ctx)
}
