package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/tasknest-app/tasknest/internal/models"
)

// Failure codes forwarded by the interactive sign-in flow. They match the
// codes the web client receives from its popup, so the session layer can
// normalize them into user-facing messages.
const (
	CodePopupBlocked          = "auth/popup-blocked"
	CodePopupClosedByUser     = "auth/popup-closed-by-user"
	CodeCancelledPopupRequest = "auth/cancelled-popup-request"
	CodeUnauthorizedDomain    = "auth/unauthorized-domain"
	CodeUnsupportedEnv        = "auth/operation-not-supported-in-this-environment"
	CodeInvalidToken          = "auth/invalid-token"
)

type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Code
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError returns the identity error wrapped in err, if any.
func AsError(err error) (*Error, bool) {
	var idErr *Error
	if errors.As(err, &idErr) {
		return idErr, true
	}
	return nil, false
}

// Credential carries the outcome of the client-side interactive sign-in: a
// provider ID token on success, or the failure code and raw message the
// popup flow produced.
type Credential struct {
	IDToken        string
	FailureCode    string
	FailureMessage string
}

// Provider is the external identity provider port.
//
// OnChange registers an observer and asynchronously delivers the current
// identity (possibly nil) to it right away, matching the provider's
// auth-state-changed semantics. The returned function unsubscribes.
type Provider interface {
	SignIn(ctx context.Context, cred Credential) (*models.UserIdentity, error)
	SignOut(ctx context.Context) error
	OnChange(fn func(*models.UserIdentity)) (unsubscribe func())
}
