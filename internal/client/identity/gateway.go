// Package identity talks to the identity provider that authenticates
// DataShare users.
//
// Two providers implement Gateway: RemoteGateway speaks the Identity Toolkit
// REST protocol over HTTP, LocalGateway keeps accounts in the local store for
// offline use. Both report failures as *AuthError.
package identity

import (
	"context"

	"github.com/dmitrijs2005/datashare/internal/client/models"
)

// ProviderIdentity is what a provider returns on success. Role is empty when
// the provider does not know it.
type ProviderIdentity struct {
	SubjectID string
	Email     string
	Role      models.Role
}

// Gateway authenticates users. Calls are the only blocking boundary of the
// data-access core and honour ctx; nothing is retried.
type Gateway interface {
	SignUp(ctx context.Context, email string, password []byte, role models.Role) (*ProviderIdentity, error)
	SignIn(ctx context.Context, email string, password []byte) (*ProviderIdentity, error)
	SignOut(ctx context.Context) error
}
