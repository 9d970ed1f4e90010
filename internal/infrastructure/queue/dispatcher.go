package queue

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/gitedu/docuvault/internal/api/metrics"
	"github.com/gitedu/docuvault/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	maxAttempts    = 3
	retryBase      = 2 * time.Second
)

// Dispatcher routes notifications to a fixed set of workers using consistent
// hashing on the recipient, so messages to the same address keep their order.
// Delivery is fire-and-forget: transient failures get a bounded exponential
// retry, terminal failures are logged and dropped.
type Dispatcher struct {
	workers  []chan ports.Notification
	notifier ports.Notifier
	log      zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, notifier ports.Notifier, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan ports.Notification, numWorkers),
		notifier: notifier,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.Notification, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a notification to the worker responsible for its recipient.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(n ports.Notification) {
	d.workers[d.shardIndex(n.To)] <- n
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(recipient string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recipient))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.Notification) {
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			d.deliver(ctx, id, n)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, id int, n ports.Notification) {
	backoff := retry.WithMaxRetries(maxAttempts-1, retry.NewExponential(retryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		return retry.RetryableError(d.notifier.Send(ctx, n))
	})
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		d.log.Error().Err(err).
			Str("to", n.To).
			Str("subject", n.Subject).
			Int("worker_id", id).
			Msg("notification delivery failed")
		return
	}
	metrics.NotificationsTotal.WithLabelValues("sent").Inc()
	d.log.Info().Str("to", n.To).Str("subject", n.Subject).Msg("notification sent")
}
