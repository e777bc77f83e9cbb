package httpserver

import (
	"context"
	"fmt"
	"sync"
	"time"

	"retail-console/internal/repository/audit"
	cartsvc "retail-console/internal/service/cart"
	"retail-console/internal/service/checkout"
	"retail-console/internal/session"
)

// desk is the per-login sales workspace: the mirrored cart and the checkout
// session for one logged-in manager.
type desk struct {
	cart     *cartsvc.Manager
	checkout *checkout.Orchestrator
}

type deskRegistry struct {
	mu sync.Mutex
	m  map[string]*desk
}

func newDeskRegistry() *deskRegistry {
	return &deskRegistry{m: make(map[string]*desk)}
}

// deskFor returns the session's desk, building it on first use. A cart id
// persisted in the session record is adopted so the desk survives a console
// restart.
func (h *handlers) deskFor(sess *session.Session) *desk {
	h.desks.mu.Lock()
	defer h.desks.mu.Unlock()

	if d, ok := h.desks.m[sess.ID]; ok {
		return d
	}

	mgr := cartsvc.NewManager(h.deps.Upstream, h.deps.Catalog)
	mgr.Adopt(sess.CartID)

	orch := checkout.NewOrchestrator(mgr, h.deps.Upstream, h.deps.Catalog, h.deps.Timing, h.logger)
	orch.OnTerminal(h.terminalHook(sess.ID, sess.Email))

	d := &desk{cart: mgr, checkout: orch}
	h.desks.m[sess.ID] = d
	return d
}

func (h *handlers) dropDesk(sessionID string) {
	h.desks.mu.Lock()
	defer h.desks.mu.Unlock()
	delete(h.desks.m, sessionID)
}

// terminalHook records checkout outcomes and clears the session's cart id
// once a checkout consumed the cart.
func (h *handlers) terminalHook(sessionID, actor string) func(checkout.Session) {
	return func(s checkout.Session) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		entity := ""
		if s.Order != nil {
			entity = fmt.Sprintf("order/%d", s.Order.OrderID)
		}
		if err := h.deps.Audit.Insert(ctx, audit.Entry{
			Actor:  actor,
			Action: "checkout." + string(s.State),
			Entity: entity,
			Detail: s.Message,
		}); err != nil {
			h.logger.Printf("audit checkout outcome: %v", err)
		}

		if s.State == checkout.StateSuccess {
			if err := h.deps.Sessions.SetCartID(ctx, sessionID, 0); err != nil {
				h.logger.Printf("clear session cart id: %v", err)
			}
		}
	}
}
