package service

import (
	"context"

	"github.com/maktaba/customer-core/internal/core/ports"
)

// Bootstrap runs the once-per-process-start initialization: restore the
// session from durable storage, restore the cart, and reconcile the cart
// against the remote store when the restored session is still valid. Data
// flows storage to memory only; reconciliation is the first network touch.
func Bootstrap(ctx context.Context, session ports.SessionService, cart ports.CartService) {
	session.Restore()
	cart.Restore()
	if session.Authenticated() {
		cart.Reconcile(ctx)
	}
}
