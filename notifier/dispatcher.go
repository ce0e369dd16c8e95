package notifier

import (
	"context"
	"sync"
	"time"

	"claims-management-api/logger"
	"claims-management-api/metrics"
)

// Dispatcher hands messages to a Sender on a background worker so callers never wait
// on delivery.
type Dispatcher struct {
	sender  Sender
	timeout time.Duration
	queue   chan Message
	log     logger.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(sender Sender, queueSize int, timeout time.Duration) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 100
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	d := &Dispatcher{
		sender:  sender,
		timeout: timeout,
		queue:   make(chan Message, queueSize),
		log:     logger.New("notifier"),
	}
	d.wg.Add(1)
	go d.run()
	return d
}

// Notify enqueues msg without blocking. A full queue or a closed dispatcher drops it.
func (d *Dispatcher) Notify(msg Message) {
	log := d.log.Function("Notify")

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		log.Warn("dispatcher closed, dropping notification", "claimID", msg.ClaimID)
		metrics.Notifications.WithLabelValues(d.sender.Name(), "dropped").Inc()
		return
	}

	select {
	case d.queue <- msg:
	default:
		log.Warn("notification queue full, dropping notification", "claimID", msg.ClaimID)
		metrics.Notifications.WithLabelValues(d.sender.Name(), "dropped").Inc()
	}
}

// Close stops accepting messages and waits for queued ones to be attempted.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for msg := range d.queue {
		d.deliver(msg)
	}
}

func (d *Dispatcher) deliver(msg Message) {
	log := d.log.Function("deliver")

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.sender.Send(ctx, msg); err != nil {
		log.Er("failed to send notification", err,
			"sender", d.sender.Name(), "claimID", msg.ClaimID, "to", msg.To)
		metrics.Notifications.WithLabelValues(d.sender.Name(), "failed").Inc()
		return
	}

	log.Info("notification sent",
		"sender", d.sender.Name(), "claimID", msg.ClaimID, "to", msg.To, "status", msg.Status)
	metrics.Notifications.WithLabelValues(d.sender.Name(), "sent").Inc()
}
