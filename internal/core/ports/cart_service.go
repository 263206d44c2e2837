package ports

import (
	"context"

	"github.com/maktaba/customer-core/internal/core/domain"
)

// ReconcileOutcome reports how a cart reconciliation ended.
type ReconcileOutcome int

const (
	// ReconcileSkipped means the session was not authenticated; no network
	// call was made and the lines are unchanged.
	ReconcileSkipped ReconcileOutcome = iota
	// ReconcileSynced means local and remote carts converged on the merge.
	ReconcileSynced
	// ReconcileFailed means a network step failed; the cart stays usable in
	// its local state.
	ReconcileFailed
)

func (o ReconcileOutcome) String() string {
	switch o {
	case ReconcileSynced:
		return "synced"
	case ReconcileFailed:
		return "failed"
	default:
		return "skipped"
	}
}

// CartService owns the cart line set, its durable persistence and its
// reconciliation with the remote cart store.
type CartService interface {
	// AddItem merges quantity into an existing line for the product, or
	// appends a new line. The resulting quantity never exceeds the product's
	// stock: an add that would overflow an existing line is rejected whole,
	// a new line is clamped to stock. Persists after any applied change.
	AddItem(product domain.Product, quantity int)

	// RemoveItem deletes the line for the product, if present.
	RemoveItem(productID string)

	// UpdateQuantity sets the line's quantity when 1 <= quantity <= stock;
	// anything else is dropped as a no-op rather than clamped.
	UpdateQuantity(productID string, quantity int)

	// Clear empties the cart.
	Clear()

	// Persist writes the full line set to durable storage, replacing any
	// prior value. Safe to call after every mutation.
	Persist()

	// Restore loads the line set from durable storage. A corrupt value falls
	// back to an empty cart; it never fails startup.
	Restore()

	// Reconcile merges the remote cart into the local one and pushes the
	// merged set back, converging both sides. No-op unless authenticated.
	Reconcile(ctx context.Context) ReconcileOutcome

	Lines() []domain.CartLine
	ItemCount() int
	TotalAmount() float64
	IsEmpty() bool
	ItemByProduct(productID string) (domain.CartLine, bool)
	// Syncing reports whether a reconciliation is in flight.
	Syncing() bool
}
