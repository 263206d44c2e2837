package ports

import (
	"context"

	"github.com/maktaba/customer-core/internal/core/domain"
)

// AuthResult is the outcome envelope for the account-flow operations. Error
// holds localized user-facing text that UI layers display verbatim.
type AuthResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// RegisterInput carries the fields a new customer submits. The role is never
// caller-controlled: the service always registers customers.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	FullName string `json:"full_name" validate:"required,min=1,max=100"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,e164"`
}

// RestoreOutcome reports what a session restore found in durable storage.
type RestoreOutcome int

const (
	// RestoreNone means no credential was stored.
	RestoreNone RestoreOutcome = iota
	// RestoreCorrupt means the stored credential failed to decode and was removed.
	RestoreCorrupt
	// RestoreExpired means the credential's expiry had passed and it was removed.
	RestoreExpired
	// RestoreOK means the session was re-established from the stored credential.
	RestoreOK
)

func (o RestoreOutcome) String() string {
	switch o {
	case RestoreCorrupt:
		return "corrupt"
	case RestoreExpired:
		return "expired"
	case RestoreOK:
		return "ok"
	default:
		return "none"
	}
}

// RefreshOutcome reports the result of re-fetching the identity.
type RefreshOutcome int

const (
	// RefreshSkipped means no credential was present; nothing happened.
	RefreshSkipped RefreshOutcome = iota
	// RefreshOK means the identity was replaced with the server's view.
	RefreshOK
	// RefreshInvalidated means the refresh failed and the session was logged out.
	RefreshInvalidated
)

func (o RefreshOutcome) String() string {
	switch o {
	case RefreshOK:
		return "ok"
	case RefreshInvalidated:
		return "invalidated"
	default:
		return "skipped"
	}
}

// SessionService owns the authentication credential and the identity derived
// from it.
type SessionService interface {
	// Login authenticates against the remote auth service. On success the
	// credential and identity are stored in memory and durable storage; on
	// failure the session is left untouched and Error carries the message.
	Login(ctx context.Context, email, password string) AuthResult

	// Register creates a customer account. Same contract as Login.
	Register(ctx context.Context, in RegisterInput) AuthResult

	// Logout clears the session and durable credential, then navigates to the
	// login page. It always succeeds locally; no server round-trip.
	Logout()

	// Restore re-establishes the session from the durably stored credential,
	// trusting the decoded payload without a server round-trip. Expired or
	// undecodable credentials are removed silently.
	Restore() RestoreOutcome

	// Refresh replaces the identity with the auth service's current view.
	// Any failure is treated as an invalid session and triggers Logout.
	Refresh(ctx context.Context) RefreshOutcome

	// AuthHeaders returns the bearer authorization header for the current
	// credential, or an empty map when unauthenticated. Pure.
	AuthHeaders() map[string]string

	Authenticated() bool
	Identity() *domain.Identity
	// Loading reports whether a login or register call is in flight.
	Loading() bool
}
