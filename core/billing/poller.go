package billing

import (
	"context"
	"time"

	"github.com/supernitin06/erp-tenants-sub000/core"
)

// StatusChecker asks the payment collaborator for an order's current state.
type StatusChecker interface {
	CheckPayment(ctx context.Context, orderID string) (PaymentStatus, error)
}

// Poller watches one order on a fixed interval until a terminal success or
// cancellation. The backend expects a fresh login once a payment lands, so
// the onPaid callback typically clears the session and points the user back
// at the login screen.
type Poller struct {
	checker  StatusChecker
	interval time.Duration
	logger   core.Logger
	onPaid   func(PaymentStatus)
}

func NewPoller(checker StatusChecker, interval time.Duration, logger core.Logger, onPaid func(PaymentStatus)) *Poller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Poller{checker: checker, interval: interval, logger: logger, onPaid: onPaid}
}

// Run polls until the order reaches a paid state or ctx is cancelled.
// Check failures are logged and retried on the next tick; there is no
// backoff and no terminal-failure state, the collaborator keeps an order
// pending until it either settles or the user abandons the screen.
func (p *Poller) Run(ctx context.Context, orderID string) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			status, err := p.checker.CheckPayment(ctx, orderID)
			if err != nil {
				p.logger.Warn("billing: payment status check failed", orderID, err)
				continue
			}
			if status.Paid() {
				if p.onPaid != nil {
					p.onPaid(status)
				}
				return nil
			}
		}
	}
}
