package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/maktaba/customer-core/internal/core/domain"
	"github.com/maktaba/customer-core/internal/core/ports"
	"github.com/maktaba/customer-core/internal/metrics"
)

const cartKey = "cart_items"

// SessionView is the slice of the session the cart depends on. Reconciliation
// is gated on the authentication boolean alone, never on identity content.
type SessionView interface {
	Authenticated() bool
	AuthHeaders() map[string]string
}

// CartManager implements ports.CartService. Edits are local-first: every
// mutation persists to the durable store before returning, and the remote
// store only enters the picture during reconciliation.
//
// The mutex guards the line set for memory safety but is released across
// network calls. A mutation racing an in-flight reconciliation is therefore
// overwritten when the reconciliation commits its snapshot-based merge; that
// interleaving matches the original portal and is left as is.
type CartManager struct {
	transport ports.Transport
	store     ports.DurableStore
	session   SessionView
	log       zerolog.Logger

	mu      sync.Mutex
	lines   []domain.CartLine
	syncing bool
}

// NewCartManager wires a CartManager against the cart-service transport.
func NewCartManager(tr ports.Transport, store ports.DurableStore, session SessionView, log zerolog.Logger) *CartManager {
	return &CartManager{
		transport: tr,
		store:     store,
		session:   session,
		log:       log,
	}
}

// AddItem merges quantity into the product's existing line or appends a new
// one. Quantities never exceed the product's stock: an add that would push an
// existing line past stock is rejected whole, a fresh line is clamped.
func (m *CartManager) AddItem(product domain.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.indexOf(product.ID); i >= 0 {
		// Stock is judged against the product as passed in, which may be
		// fresher than the stock recorded on the line.
		next := m.lines[i].Quantity + quantity
		if next > product.StockQuantity {
			// Rejected whole rather than clamped: a partial add would not
			// match what the user asked for.
			return
		}
		m.lines[i].Quantity = next
	} else {
		if product.StockQuantity < 1 {
			m.log.Debug().Str("product_id", product.ID).Msg("add rejected, product out of stock")
			return
		}
		line := domain.CartLine{
			LineID:        uuid.NewString(),
			ProductID:     product.ID,
			Name:          product.Name,
			Author:        product.Author,
			Price:         product.Price,
			Quantity:      min(quantity, product.StockQuantity),
			VendorName:    product.VendorName,
			StockQuantity: product.StockQuantity,
		}
		if len(product.Images) > 0 {
			line.Image = product.Images[0]
		}
		m.lines = append(m.lines, line)
	}

	metrics.CartMutationsTotal.WithLabelValues("add").Inc()
	m.persistLocked()
}

// RemoveItem deletes the product's line. Missing product is a no-op.
func (m *CartManager) RemoveItem(productID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(productID)
	if i < 0 {
		return
	}
	m.lines = append(m.lines[:i], m.lines[i+1:]...)
	metrics.CartMutationsTotal.WithLabelValues("remove").Inc()
	m.persistLocked()
}

// UpdateQuantity sets the line's quantity when it is strictly positive and
// within stock. Invalid requests are dropped, not clamped: silently overriding
// user intent with a different number would be worse than ignoring the call.
func (m *CartManager) UpdateQuantity(productID string, quantity int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(productID)
	if i < 0 || quantity < 1 || quantity > m.lines[i].StockQuantity {
		return
	}
	m.lines[i].Quantity = quantity
	metrics.CartMutationsTotal.WithLabelValues("update").Inc()
	m.persistLocked()
}

// Clear empties the line set.
func (m *CartManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lines = nil
	metrics.CartMutationsTotal.WithLabelValues("clear").Inc()
	m.persistLocked()
}

// Persist writes the full line set to durable storage, replacing any prior
// value. Last-write-wins within the process.
func (m *CartManager) Persist() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.persistLocked()
}

func (m *CartManager) persistLocked() {
	raw, err := json.Marshal(m.lines)
	if err != nil {
		// Lines are plain data; this cannot realistically fail. Logged so a
		// future marshalling change does not silently drop persistence.
		m.log.Error().Err(err).Msg("cart marshal failed, skipping persist")
		return
	}
	m.store.Set(cartKey, string(raw))
}

// Restore loads the durable line set. A corrupt value falls back to an empty
// cart; startup is never blocked by local corruption.
func (m *CartManager) Restore() {
	raw, ok := m.store.Get(cartKey)
	if !ok || raw == "" {
		return
	}

	var lines []domain.CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		m.log.Warn().Err(err).Msg("stored cart corrupt, starting empty")
		m.mu.Lock()
		m.lines = nil
		m.mu.Unlock()
		return
	}

	m.mu.Lock()
	m.lines = lines
	m.mu.Unlock()
}

type syncRequest struct {
	Items []domain.CartLine `json:"items"`
}

// Reconcile aligns the local and remote carts once a session is active:
// fetch remote, merge into the local snapshot, persist the merge, push it
// back in full so both sides converge. Skipped outright when unauthenticated.
// A fetch failure aborts with local state untouched; a push failure leaves
// the merged local state in place. Neither failure is surfaced as a blocking
// error, the cart degrades to local-only.
func (m *CartManager) Reconcile(ctx context.Context) ports.ReconcileOutcome {
	if !m.session.Authenticated() {
		return ports.ReconcileSkipped
	}

	m.mu.Lock()
	snapshot := make([]domain.CartLine, len(m.lines))
	copy(snapshot, m.lines)
	m.syncing = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.syncing = false
		m.mu.Unlock()
	}()

	start := time.Now()
	headers := m.session.AuthHeaders()

	var remote []domain.CartLine
	if err := m.transport.Get(ctx, "/cart", headers, &remote); err != nil {
		m.log.Warn().Err(err).Msg("cart fetch failed, staying local")
		metrics.ReconciliationsTotal.WithLabelValues("failed").Inc()
		return ports.ReconcileFailed
	}

	merged := mergeLines(snapshot, remote)

	m.mu.Lock()
	m.lines = merged
	m.persistLocked()
	m.mu.Unlock()

	if err := m.transport.Post(ctx, "/cart/sync", headers, syncRequest{Items: merged}, nil); err != nil {
		m.log.Warn().Err(err).Msg("cart push failed, remote left stale")
		metrics.ReconciliationsTotal.WithLabelValues("failed").Inc()
		return ports.ReconcileFailed
	}

	metrics.ReconciliationsTotal.WithLabelValues("synced").Inc()
	metrics.ReconcileDuration.Observe(time.Since(start).Seconds())
	return ports.ReconcileSynced
}

// mergeLines folds the remote line set into the local one. Shared products
// keep the higher of the two quantities: both sides are assumed to describe
// the same shopping intent, so whichever progressed further wins. Local
// ordering is preserved, remote-only lines are appended in remote order.
func mergeLines(local, remote []domain.CartLine) []domain.CartLine {
	merged := make([]domain.CartLine, len(local))
	copy(merged, local)

	for _, r := range remote {
		found := false
		for i := range merged {
			if merged[i].ProductID == r.ProductID {
				if r.Quantity > merged[i].Quantity {
					merged[i].Quantity = r.Quantity
				}
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, r)
		}
	}
	return merged
}

// Lines returns a copy of the current line set in insertion order.
func (m *CartManager) Lines() []domain.CartLine {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.CartLine, len(m.lines))
	copy(out, m.lines)
	return out
}

// ItemCount is the sum of all line quantities.
func (m *CartManager) ItemCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, l := range m.lines {
		total += l.Quantity
	}
	return total
}

// TotalAmount is the sum of price times quantity across all lines.
func (m *CartManager) TotalAmount() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0.0
	for _, l := range m.lines {
		total += l.Subtotal()
	}
	return total
}

// IsEmpty reports whether the cart has no lines.
func (m *CartManager) IsEmpty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lines) == 0
}

// ItemByProduct returns the line for the product, if any.
func (m *CartManager) ItemByProduct(productID string) (domain.CartLine, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexOf(productID); i >= 0 {
		return m.lines[i], true
	}
	return domain.CartLine{}, false
}

// Syncing reports whether a reconciliation is in flight.
func (m *CartManager) Syncing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.syncing
}

// indexOf returns the position of the product's line, or -1. Caller holds mu.
func (m *CartManager) indexOf(productID string) int {
	for i := range m.lines {
		if m.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}
