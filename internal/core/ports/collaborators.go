package ports

import (
	"context"
	"fmt"

	"github.com/maktaba/customer-core/internal/core/domain"
)

// Transport performs JSON calls against one logical remote base (auth,
// catalog or cart service). Implementations decode 2xx bodies into out (which
// may be nil) and return an error for anything else; timeout policy belongs to
// the implementation.
type Transport interface {
	Get(ctx context.Context, path string, headers map[string]string, out any) error
	Post(ctx context.Context, path string, headers map[string]string, body, out any) error
}

// DurableStore is a synchronous key-value persistence collaborator scoped to
// the running client. An environment without persistent storage supplies a
// no-op implementation; callers never branch on the environment themselves.
type DurableStore interface {
	// Get returns the stored value and whether the key was present.
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
}

// StatusError is returned by Transport implementations for non-2xx responses.
// Message carries the server's user-facing text when the body had one.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote returned status %d", e.Status)
	}
	return fmt.Sprintf("remote returned status %d: %s", e.Status, e.Message)
}

// CredentialCodec decodes a signed credential token without verifying its
// signature; verification is the server's responsibility.
type CredentialCodec interface {
	Decode(token string) (*domain.CredentialClaims, error)
}

// Navigator is the routing collaborator used for post-logout redirection.
type Navigator interface {
	To(path string)
}
