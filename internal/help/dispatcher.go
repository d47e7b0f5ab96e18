package help

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// ErrQueueFull is returned by Submit when the queue has no room.
var ErrQueueFull = errors.New("help queue is full")

// ErrStopped is returned by Submit after Stop.
var ErrStopped = errors.New("help dispatcher stopped")

// DispatcherOptions configures a Dispatcher.
type DispatcherOptions struct {
	Workers    int
	QueueSize  int
	MaxRetries int
	// Backoff defaults to the package Backoff.
	Backoff func(attempt int) time.Duration
	Stats   *Stats
}

// DispatcherSnapshot reports queue and delivery counters.
type DispatcherSnapshot struct {
	QueueDepth int           `json:"queue_depth"`
	QueueSize  int           `json:"queue_size"`
	Submitted  int64         `json:"submitted"`
	Delivered  int64         `json:"delivered"`
	Failed     int64         `json:"failed"`
	Latency    StatsSnapshot `json:"latency"`
}

// Dispatcher delivers help requests asynchronously so the page that raised
// them never waits on the chat collaborator.
type Dispatcher struct {
	requester Requester
	opts      DispatcherOptions
	log       *slog.Logger
	queue     chan Request

	mu      sync.RWMutex
	stopped bool

	submitted atomic.Int64
	delivered atomic.Int64
	failed    atomic.Int64

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDispatcher creates a dispatcher; call Start to launch its workers.
func NewDispatcher(r Requester, opts DispatcherOptions, log *slog.Logger) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 100
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.Backoff == nil {
		opts.Backoff = Backoff
	}
	if opts.Stats == nil {
		opts.Stats = NewStats(time.Hour)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		requester: r,
		opts:      opts,
		log:       log,
		queue:     make(chan Request, opts.QueueSize),
	}
}

// Start launches worker goroutines.
func (d *Dispatcher) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	for range d.opts.Workers {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case req, ok := <-d.queue:
					if !ok {
						return
					}
					d.deliver(workerCtx, req)
				}
			}
		}()
	}
}

// Stop cancels in-flight deliveries, drops queued requests and waits for
// the workers to exit.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()

	if d.cancel != nil {
		d.cancel()
	}
	d.wg.Wait()
}

// Submit queues req for delivery.
func (d *Dispatcher) Submit(req Request) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrStopped
	}
	select {
	case d.queue <- req:
		d.submitted.Add(1)
		return nil
	default:
		return ErrQueueFull
	}
}

// Snapshot returns the current counters.
func (d *Dispatcher) Snapshot() DispatcherSnapshot {
	return DispatcherSnapshot{
		QueueDepth: len(d.queue),
		QueueSize:  d.opts.QueueSize,
		Submitted:  d.submitted.Load(),
		Delivered:  d.delivered.Load(),
		Failed:     d.failed.Load(),
		Latency:    d.opts.Stats.Snapshot(),
	}
}

func (d *Dispatcher) deliver(ctx context.Context, req Request) {
	log := d.log.With("document", req.Document)
	for attempt := 0; ; attempt++ {
		start := time.Now()
		err := d.requester.RequestHelp(ctx, req)
		d.opts.Stats.Record(time.Since(start), err != nil)
		if err == nil {
			d.delivered.Add(1)
			log.Debug("help delivered", "attempt", attempt)
			return
		}
		if !IsRetryable(err) || attempt >= d.opts.MaxRetries {
			d.failed.Add(1)
			log.Error("help delivery failed", "attempt", attempt, "error", err)
			return
		}
		wait := d.opts.Backoff(attempt)
		log.Warn("help delivery retry", "attempt", attempt, "backoff", wait, "error", err)
		select {
		case <-ctx.Done():
			d.failed.Add(1)
			return
		case <-time.After(wait):
		}
	}
}
