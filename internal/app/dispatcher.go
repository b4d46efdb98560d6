package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ajharry69/kcb-b2c-payment/internal/domain/payments"
	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/config"
	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/logger"
	"github.com/google/uuid"
)

// ErrDispatcherStopped is returned by Dispatch after Stop has been called.
var ErrDispatcherStopped = errors.New("payment dispatcher is stopped")

// Dispatcher is a bounded worker pool feeding payment IDs to a PaymentProcessor.
// Core workers drain a fixed capacity queue. When the queue is full, transient
// workers are started until MaxWorkers are busy; after that Dispatch fails with
// payments.ErrQueueFull.
type Dispatcher struct {
	processor payments.PaymentProcessor
	settings  config.DispatcherSettings
	metrics   Metrics
	logger    logger.Logger

	queue    chan uuid.UUID
	overflow atomic.Int32

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.RWMutex
	started bool
	stopped bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. Call Start before dispatching.
func NewDispatcher(settings config.DispatcherSettings, processor payments.PaymentProcessor, metrics Metrics, logger logger.Logger) (*Dispatcher, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if processor == nil {
		return nil, fmt.Errorf("dispatcher requires a processor")
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		processor: processor,
		settings:  settings,
		metrics:   metrics,
		logger:    logger,
		queue:     make(chan uuid.UUID, settings.QueueCapacity),
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// Start launches the core workers.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started || d.stopped {
		return
	}
	d.started = true

	for i := 0; i < d.settings.CoreWorkers; i++ {
		d.wg.Add(1)
		go d.coreWorker()
	}
	d.logger.Info("Payment dispatcher started with ", d.settings.CoreWorkers, " core workers")
}

// Dispatch queues a payment for processing.
func (d *Dispatcher) Dispatch(paymentID uuid.UUID) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		return ErrDispatcherStopped
	}

	select {
	case d.queue <- paymentID:
		d.metrics.SetQueueDepth(len(d.queue))
		return nil
	default:
	}

	if !d.reserveOverflowWorker() {
		return fmt.Errorf("%w: %d queued, %d workers busy", payments.ErrQueueFull, len(d.queue), d.settings.MaxWorkers)
	}

	d.wg.Add(1)
	go d.overflowWorker(paymentID)
	return nil
}

func (d *Dispatcher) reserveOverflowWorker() bool {
	limit := int32(d.settings.MaxWorkers - d.settings.CoreWorkers)
	for {
		n := d.overflow.Load()
		if n >= limit {
			return false
		}
		if d.overflow.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

// QueueDepth returns the number of payments waiting for a worker.
func (d *Dispatcher) QueueDepth() int {
	return len(d.queue)
}

// Stop rejects new work and waits for queued payments to be processed.
// If ctx expires first, in-flight processing is cancelled and ctx.Err() is returned.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return nil
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		d.logger.Info("Payment dispatcher stopped")
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return fmt.Errorf("payment dispatcher did not drain in time: %w", ctx.Err())
	}
}

func (d *Dispatcher) coreWorker() {
	defer d.wg.Done()

	for paymentID := range d.queue {
		d.metrics.SetQueueDepth(len(d.queue))
		d.process(paymentID)
	}
}

// overflowWorker processes its payment then helps drain the queue until it is empty.
func (d *Dispatcher) overflowWorker(paymentID uuid.UUID) {
	defer d.wg.Done()
	defer d.overflow.Add(-1)

	d.process(paymentID)
	for {
		select {
		case next, ok := <-d.queue:
			if !ok {
				return
			}
			d.metrics.SetQueueDepth(len(d.queue))
			d.process(next)
		default:
			return
		}
	}
}

func (d *Dispatcher) process(paymentID uuid.UUID) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Recovered from panic while processing payment ", paymentID, ": ", r)
		}
	}()
	d.processor.Process(d.ctx, paymentID)
}
