package ledger

import (
	"context"

	"github.com/facturio/backend/internal/domain/shared"
)

// publishEvents hands committed events to the publisher. Services without
// a configured publisher drop them; the in-memory bus logs per-handler
// failures itself, so the return value carries nothing actionable.
func publishEvents(ctx context.Context, publisher shared.EventPublisher, events ...shared.DomainEvent) {
	if publisher == nil || len(events) == 0 {
		return
	}
	_ = publisher.Publish(ctx, events...)
}

// drainAggregateEvents moves an aggregate's pending events into the
// collector so they can be published once the transaction has committed
func drainAggregateEvents(collector *[]shared.DomainEvent, aggregate shared.AggregateRoot) {
	*collector = append(*collector, aggregate.GetDomainEvents()...)
	aggregate.ClearDomainEvents()
}
