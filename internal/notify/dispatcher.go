package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/SamarthKalavadia/hospital-management-system/internal/metrics"
)

// Dispatcher sends notifications on behalf of the domain services. Send never
// blocks the caller and never reports failure to it; failures are logged.
type Dispatcher struct {
	next    Notifier
	log     zerolog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDispatcher(next Notifier, log zerolog.Logger, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Dispatcher{next: next, log: log, timeout: timeout}
}

// Send delivers msg in the background. Messages without a recipient are dropped.
func (d *Dispatcher) Send(msg Message) {
	if msg.Recipient == "" {
		d.log.Debug().Str("kind", string(msg.Kind)).Msg("notification skipped, no recipient")
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		_ = d.SendNow(ctx, msg)
	}()
}

// SendNow delivers msg synchronously and returns the transport error.
func (d *Dispatcher) SendNow(ctx context.Context, msg Message) error {
	err := d.next.Notify(ctx, msg)
	metrics.NotificationDeliveries.WithLabelValues(string(msg.Kind), metrics.Result(err)).Inc()
	if err != nil {
		d.log.Warn().Err(err).
			Str("recipient", msg.Recipient).
			Str("kind", string(msg.Kind)).
			Msg("notification delivery failed")
	}
	return err
}

// Wait blocks until every background send has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
