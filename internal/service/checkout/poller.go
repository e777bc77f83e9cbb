package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"retail-console/internal/domain"
)

var (
	// ErrConfirmationTimeout is reported when the overall payment deadline
	// elapses without the order reaching a terminal status.
	ErrConfirmationTimeout = errors.New("payment confirmation deadline elapsed")

	// ErrStatusUnavailable is reported when a poll tick exhausts its retry
	// budget without a usable answer from the backend.
	ErrStatusUnavailable = errors.New("order status unavailable")
)

type orderFetcher interface {
	GetOrder(ctx context.Context, token string, orderID int64) (*domain.Order, error)
}

// poller queries order status on a fixed interval until a terminal status,
// the overall deadline, or cancellation. Ticks are serialized: at most one
// status query chain is in flight at a time.
type poller struct {
	orders orderFetcher
	timing Timing
	logger *log.Logger
}

// run blocks until it can report exactly one outcome. Cancellation of ctx
// stops both the interval and the deadline and returns ctx.Err().
func (p *poller) run(ctx context.Context, token string, orderID int64) (domain.PaymentStatus, error) {
	deadline := time.NewTimer(p.timing.PaymentDeadline)
	defer deadline.Stop()

	ticker := time.NewTicker(p.timing.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-deadline.C:
			return "", ErrConfirmationTimeout
		case <-ticker.C:
			status, err := p.query(ctx, token, orderID)
			if err != nil {
				return "", err
			}
			if status.Terminal() {
				return status, nil
			}
			// Still PENDING; keep polling.
		}
	}
}

// query is one poll tick: up to PollAttempts tries with PollBackoff between
// them. A tick never skips silently; exhausting the budget is a failure.
func (p *poller) query(ctx context.Context, token string, orderID int64) (domain.PaymentStatus, error) {
	var lastErr error
	for attempt := 1; attempt <= p.timing.PollAttempts; attempt++ {
		order, err := p.orders.GetOrder(ctx, token, orderID)
		if err == nil {
			return order.PaymentStatus, nil
		}
		lastErr = err
		if p.logger != nil {
			p.logger.Printf("poll order %d attempt %d/%d: %v", orderID, attempt, p.timing.PollAttempts, err)
		}

		if attempt < p.timing.PollAttempts {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(p.timing.PollBackoff):
			}
		}
	}
	return "", fmt.Errorf("%w after %d attempts: %v", ErrStatusUnavailable, p.timing.PollAttempts, lastErr)
}
