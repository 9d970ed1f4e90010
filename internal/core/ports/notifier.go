package ports

import "context"

// Notification is an outbound email message.
type Notification struct {
	To      string
	Subject string
	Body    string
}

// Notifier delivers a single notification synchronously. Callers that must
// not block on delivery go through the queue dispatcher instead.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

// NotificationEnqueuer accepts notifications for fire-and-forget delivery.
// Failures are retried a bounded number of times and then logged, never
// surfaced to the enqueueing request.
type NotificationEnqueuer interface {
	Enqueue(n Notification)
}
