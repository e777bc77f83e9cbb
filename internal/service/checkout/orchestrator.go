// Package checkout drives a cart through payment: validate, submit, and for
// mobile money poll the order until a terminal status. Exactly one terminal
// outcome (success, failure, cancellation) is applied per checkout attempt;
// every timer belonging to a session is cancelled whenever the session
// terminates by any path.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"sync"
	"time"

	"retail-console/internal/domain"
	"retail-console/internal/upstream"
)

// State is the checkout session state visible to the UI.
type State string

const (
	StateIdle                 State = "IDLE"
	StateValidating           State = "VALIDATING"
	StateSubmitting           State = "SUBMITTING"
	StateCashSettled          State = "CASH_SETTLED"
	StateAwaitingConfirmation State = "AWAITING_CONFIRMATION"
	StateSuccess              State = "SUCCESS"
	StateFailed               State = "FAILED"
	StateCancelled            State = "CANCELLED"
)

// ErrNoPendingConfirmation is returned by Cancel outside AWAITING_CONFIRMATION.
var ErrNoPendingConfirmation = errors.New("no payment awaiting confirmation")

// Mozambican M-Pesa MSISDN: country code 258 followed by exactly 9 digits,
// no separators.
var phonePattern = regexp.MustCompile(`^258\d{9}$`)

// Timing groups every delay the checkout flow uses. Tests shrink these to
// milliseconds.
type Timing struct {
	PollInterval    time.Duration
	PollBackoff     time.Duration
	PollAttempts    int
	PaymentDeadline time.Duration
	SuccessDisplay  time.Duration
	FailureDisplay  time.Duration
	CancelDisplay   time.Duration
}

func DefaultTiming() Timing {
	return Timing{
		PollInterval:    10 * time.Second,
		PollBackoff:     2 * time.Second,
		PollAttempts:    3,
		PaymentDeadline: 5 * time.Minute,
		SuccessDisplay:  3 * time.Second,
		FailureDisplay:  5 * time.Second,
		CancelDisplay:   2 * time.Second,
	}
}

func (t Timing) withDefaults() Timing {
	def := DefaultTiming()
	if t.PollInterval <= 0 {
		t.PollInterval = def.PollInterval
	}
	if t.PollBackoff <= 0 {
		t.PollBackoff = def.PollBackoff
	}
	if t.PollAttempts <= 0 {
		t.PollAttempts = def.PollAttempts
	}
	if t.PaymentDeadline <= 0 {
		t.PaymentDeadline = def.PaymentDeadline
	}
	if t.SuccessDisplay <= 0 {
		t.SuccessDisplay = def.SuccessDisplay
	}
	if t.FailureDisplay <= 0 {
		t.FailureDisplay = def.FailureDisplay
	}
	if t.CancelDisplay <= 0 {
		t.CancelDisplay = def.CancelDisplay
	}
	return t
}

// Session is the UI-facing snapshot of the payment session.
type Session struct {
	State   State         `json:"state"`
	Order   *domain.Order `json:"order,omitempty"`
	Message string        `json:"message,omitempty"`
}

type backend interface {
	Checkout(ctx context.Context, token string, cartID int64, in upstream.CheckoutInput) (*domain.Order, error)
	GetOrder(ctx context.Context, token string, orderID int64) (*domain.Order, error)
}

type cartState interface {
	Current() *domain.Cart
	Invalidate()
}

type stockRefresher interface {
	Refresh(ctx context.Context, token string) ([]domain.Product, error)
}

// Orchestrator owns one desk's payment session. Starting a new checkout
// implicitly resets any residual prior session and its timers.
type Orchestrator struct {
	mu         sync.Mutex
	state      State
	order      *domain.Order
	message    string
	epoch      uint64
	cancelPoll context.CancelFunc
	resetTimer *time.Timer

	cart       cartState
	backend    backend
	catalog    stockRefresher
	timing     Timing
	logger     *log.Logger
	onTerminal func(Session)
}

func NewOrchestrator(cart cartState, backend backend, catalog stockRefresher, timing Timing, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		state:   StateIdle,
		cart:    cart,
		backend: backend,
		catalog: catalog,
		timing:  timing.withDefaults(),
		logger:  logger,
	}
}

// OnTerminal registers a hook invoked (on its own goroutine) each time the
// session reaches SUCCESS, FAILED or CANCELLED. Used for audit recording and
// session bookkeeping.
func (o *Orchestrator) OnTerminal(fn func(Session)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onTerminal = fn
}

// Status returns the current session snapshot.
func (o *Orchestrator) Status() Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

// Checkout validates preconditions, submits the checkout request and either
// settles immediately (cash) or hands off to the payment poller (M-Pesa).
// Precondition violations return an error before any network call; submission
// failures are expressed through the FAILED state, not an error return.
func (o *Orchestrator) Checkout(ctx context.Context, token, phone string, method domain.PaymentMethod) (Session, error) {
	o.mu.Lock()
	o.resetLocked()
	myEpoch := o.epoch

	o.state = StateValidating
	current := o.cart.Current()
	if current.Empty() {
		o.state = StateIdle
		o.mu.Unlock()
		return Session{State: StateIdle}, domain.ErrEmptyCart
	}
	switch method {
	case domain.PaymentMethodCash:
	case domain.PaymentMethodMpesa:
		if !phonePattern.MatchString(phone) {
			o.state = StateIdle
			o.mu.Unlock()
			return Session{State: StateIdle}, domain.ErrInvalidPhone
		}
	default:
		o.state = StateIdle
		o.mu.Unlock()
		return Session{State: StateIdle}, &domain.ValidationError{Field: "paymentMethod", Reason: "must be MPESA or CASH"}
	}

	o.state = StateSubmitting
	cartID, amount := current.ID, current.Total
	o.mu.Unlock()

	order, err := o.backend.Checkout(ctx, token, cartID, upstream.CheckoutInput{
		PhoneNumber:   phone,
		PaymentMethod: method,
		Amount:        amount,
	})

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.epoch != myEpoch {
		// A newer checkout superseded this one while the request was in flight.
		return o.snapshotLocked(), nil
	}

	if err != nil {
		o.failLocked(submitFailureMessage(err))
		return o.snapshotLocked(), nil
	}

	if method == domain.PaymentMethodCash {
		o.state = StateCashSettled
		o.settleLocked(token, order, "payment received; sale complete")
		return o.snapshotLocked(), nil
	}

	o.order = order
	o.state = StateAwaitingConfirmation
	o.message = fmt.Sprintf("payment request sent (transaction %s); awaiting confirmation", order.CheckoutRequestID)

	pollCtx, cancel := context.WithCancel(context.Background())
	o.cancelPoll = cancel
	go o.confirm(pollCtx, myEpoch, token, order.OrderID)

	return o.snapshotLocked(), nil
}

// Cancel stops the poller and the deadline timer atomically. Only valid while
// awaiting confirmation; displayed as a failed outcome with a distinct
// message.
func (o *Orchestrator) Cancel() (Session, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateAwaitingConfirmation {
		return o.snapshotLocked(), ErrNoPendingConfirmation
	}

	if o.cancelPoll != nil {
		o.cancelPoll()
		o.cancelPoll = nil
	}
	o.state = StateCancelled
	o.message = "payment cancelled by user"
	o.scheduleResetLocked(o.timing.CancelDisplay)
	o.fireTerminalLocked()
	return o.snapshotLocked(), nil
}

// confirm waits for the poller's single outcome and applies it, unless the
// session terminated first. The epoch and state checks make cancellation and
// the poll outcome mutually exclusive terminal events.
func (o *Orchestrator) confirm(ctx context.Context, myEpoch uint64, token string, orderID int64) {
	p := &poller{orders: o.backend, timing: o.timing, logger: o.logger}
	status, err := p.run(ctx, token, orderID)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.epoch != myEpoch || o.state != StateAwaitingConfirmation {
		// Cancelled or superseded; a late poll result must not overwrite it.
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			return
		case errors.Is(err, ErrConfirmationTimeout):
			o.failLocked("timed out waiting for payment confirmation")
		default:
			o.failLocked("unable to verify payment status; please check the order before retrying")
		}
		return
	}

	if status == domain.PaymentCompleted {
		confirmed := *o.order
		confirmed.PaymentStatus = domain.PaymentCompleted
		o.settleLocked(token, &confirmed, "payment confirmed")
		return
	}
	o.failLocked("payment failed: the payment provider reported the transaction as failed")
}

// settleLocked applies the success terminal state: the backend has deleted
// the cart and decremented stock, so local cart state is dropped and the
// catalog refreshed in the background.
func (o *Orchestrator) settleLocked(token string, order *domain.Order, message string) {
	o.order = order
	o.state = StateSuccess
	o.message = message
	o.cart.Invalidate()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := o.catalog.Refresh(ctx, token); err != nil && o.logger != nil {
			o.logger.Printf("catalog refresh after checkout: %v", err)
		}
	}()

	o.scheduleResetLocked(o.timing.SuccessDisplay)
	o.fireTerminalLocked()
}

func (o *Orchestrator) failLocked(message string) {
	o.state = StateFailed
	o.message = message
	o.scheduleResetLocked(o.timing.FailureDisplay)
	o.fireTerminalLocked()
}

// scheduleResetLocked arms the auto-reset back to IDLE after the display
// delay. The epoch check keeps an orphaned timer from firing into a session
// that was since reset and reused.
func (o *Orchestrator) scheduleResetLocked(after time.Duration) {
	myEpoch := o.epoch
	if o.resetTimer != nil {
		o.resetTimer.Stop()
	}
	o.resetTimer = time.AfterFunc(after, func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		if o.epoch == myEpoch {
			o.resetLocked()
		}
	})
}

// resetLocked clears the captured order, status and message, cancels every
// session timer, and returns to IDLE ready for a new checkout.
func (o *Orchestrator) resetLocked() {
	o.epoch++
	if o.cancelPoll != nil {
		o.cancelPoll()
		o.cancelPoll = nil
	}
	if o.resetTimer != nil {
		o.resetTimer.Stop()
		o.resetTimer = nil
	}
	o.state = StateIdle
	o.order = nil
	o.message = ""
}

func (o *Orchestrator) snapshotLocked() Session {
	s := Session{State: o.state, Message: o.message}
	if o.order != nil {
		order := *o.order
		s.Order = &order
	}
	return s
}

func (o *Orchestrator) fireTerminalLocked() {
	if o.onTerminal == nil {
		return
	}
	snap := o.snapshotLocked()
	fn := o.onTerminal
	go fn(snap)
}

func submitFailureMessage(err error) string {
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "checkout failed; please try again"
}
