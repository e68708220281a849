package notify

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const sendTimeout = 10 * time.Second

// Transport delivers one job. Errors are logged by the dispatcher and dropped.
type Transport interface {
	Name() string
	Send(ctx context.Context, job Job) error
}

// Dispatcher is a fixed pool of workers draining a bounded queue.
// Enqueue never blocks the caller.
type Dispatcher struct {
	transport Transport
	logger    logrus.FieldLogger
	jobs      chan Job

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(transport Transport, workers, queueSize int, logger logrus.FieldLogger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	d := &Dispatcher{
		transport: transport,
		logger:    logger.WithField("transport", transport.Name()),
		jobs:      make(chan Job, queueSize),
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// Enqueue queues job and reports whether it was accepted. A full queue or a
// dispatcher that is shutting down drops the job with a warning.
func (d *Dispatcher) Enqueue(job Job) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.logger.WithField("invoice_no", job.InvoiceNo).Warn("notification dropped: dispatcher closed")
		return false
	}
	select {
	case d.jobs <- job:
		return true
	default:
		d.logger.WithField("invoice_no", job.InvoiceNo).Warn("notification dropped: queue full")
		return false
	}
}

// Shutdown stops accepting jobs and waits for queued ones to finish,
// or for ctx to expire.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for job := range d.jobs {
		d.deliver(job)
	}
}

func (d *Dispatcher) deliver(job Job) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.WithFields(logrus.Fields{"invoice_no": job.InvoiceNo, "panic": r}).Error("notification transport panicked")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := d.transport.Send(ctx, job); err != nil {
		d.logger.WithFields(logrus.Fields{"invoice_no": job.InvoiceNo, "error": err.Error()}).Error("notification failed")
		return
	}
	d.logger.WithField("invoice_no", job.InvoiceNo).Info("notification sent")
}
