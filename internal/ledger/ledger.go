// Package ledger records shared expenses, derives who owes whom and settles
// individual shares.
//
// A Ledger is safe for concurrent use. Every operation that writes more than one
// record commits all of it through a single storage transaction; ledger events
// are published only after that commit and never undo it.
package ledger

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/storage"
)

// Ledger is the expense and settlement engine.
type Ledger struct {
	store       storage.Store
	publisher   events.Publisher
	payerPolicy calculator.PayerPolicy
	now         func() time.Time

	// recalcs collapses concurrent split recalculations of the same group.
	recalcs singleflight.Group
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithPublisher sets where ledger events go. The default discards them.
func WithPublisher(p events.Publisher) Option {
	return func(l *Ledger) { l.publisher = p }
}

// WithPayerPolicy overrides how the main payer of a group expense is chosen.
func WithPayerPolicy(policy calculator.PayerPolicy) Option {
	return func(l *Ledger) { l.payerPolicy = policy }
}

// WithClock overrides the time source used for created and settled timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// New creates a Ledger backed by store.
func New(store storage.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:       store,
		publisher:   events.NopPublisher{},
		payerPolicy: calculator.LargestContributor,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// publish hands a committed change to the publisher. Failures are logged and
// counted, never returned.
func (l *Ledger) publish(ctx context.Context, event events.Event) {
	event.Timestamp = l.now().UTC()
	if err := l.publisher.Publish(ctx, event); err != nil {
		metrics.EventPublishFailures.WithLabelValues(string(event.Kind)).Inc()
		slog.WarnContext(ctx, "Failed to publish ledger event",
			"kind", event.Kind,
			"error", err,
		)
	}
}
