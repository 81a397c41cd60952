// Package models defines the records DataShare keeps: the signed-in identity,
// company metric submissions and uploaded file references. JSON field names
// match the persisted layout.
package models

import (
	"errors"
	"fmt"
	"time"
)

// Role is one of the two mutually exclusive identity roles.
type Role string

const (
	// RoleA enters company metrics.
	RoleA Role = "USER_A"
	// RoleB uploads image files and views RoleA's latest metrics.
	RoleB Role = "USER_B"
)

var ErrUnknownRole = errors.New("unknown role")

// ParseRole accepts the stored form ("USER_A") and the short forms "a"/"b".
func ParseRole(s string) (Role, error) {
	switch s {
	case string(RoleA), "A", "a":
		return RoleA, nil
	case string(RoleB), "B", "b":
		return RoleB, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

func (r Role) Valid() bool {
	return r == RoleA || r == RoleB
}

// Identity is the authenticated subject held by the session.
type Identity struct {
	// ID is the opaque, provider-assigned subject identifier.
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (i Identity) Validate() error {
	if i.ID == "" {
		return errors.New("identity: empty id")
	}
	if i.Email == "" {
		return errors.New("identity: empty email")
	}
	if !i.Role.Valid() {
		return fmt.Errorf("identity: %w: %q", ErrUnknownRole, i.Role)
	}
	return nil
}

func (i Identity) Timestamp() time.Time { return i.CreatedAt }
