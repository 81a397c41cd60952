package identity

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password too weak")
	ErrUnavailable        = errors.New("identity provider unavailable")
	ErrRejected           = errors.New("request rejected by identity provider")
)

// AuthError carries the provider's message, which is shown to the user as
// is, together with one of the sentinel errors above.
type AuthError struct {
	Op      string
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func authError(op, message string, err error) *AuthError {
	return &AuthError{Op: op, Message: message, Err: err}
}
