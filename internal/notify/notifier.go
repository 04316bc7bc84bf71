package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/nexflow/nexflow-server/internal/orders"
)

// Channel is one outbound messaging mechanism triggered on order
// creation. Channels are independently configured and independently
// fallible; an unconfigured channel no-ops.
type Channel interface {
	Name() string
	NotifyOrderCreated(ctx context.Context, o *orders.Order) error
}

// Dispatcher fans an order out to all channels concurrently. Failures
// are logged and swallowed; a lost notification never fails the order.
type Dispatcher struct {
	channels []Channel
	log      *zap.Logger
}

func NewDispatcher(log *zap.Logger, channels ...Channel) *Dispatcher {
	return &Dispatcher{channels: channels, log: log}
}

// OrderCreated dispatches to every channel and waits for all of them.
// Each attempt gets exactly one try; there is no retry policy.
func (d *Dispatcher) OrderCreated(ctx context.Context, o *orders.Order) {
	var wg sync.WaitGroup
	for _, ch := range d.channels {
		wg.Add(1)
		go func(ch Channel) {
			defer wg.Done()
			if err := ch.NotifyOrderCreated(ctx, o); err != nil {
				d.log.Error("notification failed",
					zap.String("channel", ch.Name()),
					zap.String("orderId", o.OrderID),
					zap.Error(err))
			}
		}(ch)
	}
	wg.Wait()
}
