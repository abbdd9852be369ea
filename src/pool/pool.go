// Package pool maintains a bounded set of physical database
// connections with checkout/checkin semantics, liveness validation,
// overflow, and disposal on invalidation.
package pool

import (
	"container/list"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tidesql/tidesql/logging"
	"github.com/tidesql/tidesql/src/driver"
)

const (
	// DefaultSize is the number of connections kept idle-eligible.
	DefaultSize = 5

	// DefaultMaxOverflow is how many connections beyond Size may exist
	// transiently. Overflow connections close on checkin instead of
	// idling.
	DefaultMaxOverflow = 10

	// DefaultTimeout bounds how long a checkout waits for capacity.
	DefaultTimeout = 30 * time.Second

	// resetTimeout bounds the rollback issued when a connection is
	// returned with an open transaction.
	resetTimeout = 5 * time.Second
)

// ErrDisposed is returned by checkout after the pool is disposed.
// Waiters blocked at disposal time receive it as well.
var ErrDisposed = errors.New("pool is disposed")

// TimeoutError is returned when no connection became available within
// the checkout timeout. The pool itself stays healthy; callers may
// retry after backoff.
type TimeoutError struct {
	Wait time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("pool: checkout timed out after %s", e.Wait)
}

// Config controls pool behavior. The zero value gets defaults applied.
type Config struct {
	Size        int
	MaxOverflow int
	Timeout     time.Duration

	// PrePing probes a pooled connection's liveness before handing it
	// out. A failed probe disposes that connection silently and the
	// checkout retries. Connections created within the same checkout
	// are not probed.
	PrePing bool

	Logger *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.Size <= 0 {
		c.Size = DefaultSize
	}
	if c.MaxOverflow < 0 {
		c.MaxOverflow = 0
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Logger == nil {
		c.Logger = logging.Discard
	}
	return c
}

// Record wraps one physical connection. A Record is owned by exactly
// one caller between checkout and checkin; the pool never touches a
// checked-out record's handle.
type Record struct {
	handle    driver.Handle
	createdAt time.Time

	invalid atomic.Bool
	inTx    atomic.Bool
}

// Handle returns the physical connection.
func (r *Record) Handle() driver.Handle { return r.handle }

// Invalidate marks the record permanently unusable. The physical
// connection is closed when the record is checked back in; other pool
// members are unaffected.
func (r *Record) Invalidate() { r.invalid.Store(true) }

// Invalidated reports whether the record has been marked unusable.
func (r *Record) Invalidated() bool { return r.invalid.Load() }

// MarkInTransaction records whether the connection has an open
// transaction. A record checked in while marked gets a rollback issued
// before it becomes reusable.
func (r *Record) MarkInTransaction(open bool) { r.inTx.Store(open) }

// grant is what a blocked checkout receives. Exactly one of the three
// shapes is meaningful: a record (direct handoff), an error (pool
// disposed), or neither (capacity reserved, open a fresh connection).
type grant struct {
	rec *Record
	err error
}

// Pool is a bounded connection pool. Safe for concurrent use.
type Pool struct {
	connector driver.Connector
	cfg       Config
	logger    *slog.Logger

	mu       sync.Mutex
	idle     []*Record
	waiters  *list.List // of chan grant, buffered 1
	numOpen  int        // checked out + idle + reserved capacity
	disposed bool
}

// Stats is a point-in-time snapshot of pool occupancy.
type Stats struct {
	Open    int
	Idle    int
	Waiting int
}

// New creates a pool over the given connector. No connections are
// opened until the first checkout.
func New(connector driver.Connector, cfg Config) *Pool {
	cfg = cfg.withDefaults()
	return &Pool{
		connector: connector,
		cfg:       cfg,
		logger:    cfg.Logger,
		waiters:   list.New(),
	}
}

func (p *Pool) maxSize() int { return p.cfg.Size + p.cfg.MaxOverflow }

// Stats returns a snapshot of the pool's occupancy counters.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		Open:    p.numOpen,
		Idle:    len(p.idle),
		Waiting: p.waiters.Len(),
	}
}

// Checkout returns a live connection record, blocking while the pool is
// at capacity. It returns a *TimeoutError when the configured timeout
// elapses first, ctx.Err() on cancellation, and ErrDisposed after
// Dispose.
func (p *Pool) Checkout(ctx context.Context) (*Record, error) {
	deadline := time.NewTimer(p.cfg.Timeout)
	defer deadline.Stop()

	for {
		p.mu.Lock()
		if p.disposed {
			p.mu.Unlock()
			return nil, ErrDisposed
		}

		// Most-recently-returned first
		if n := len(p.idle); n > 0 {
			rec := p.idle[n-1]
			p.idle = p.idle[:n-1]
			p.mu.Unlock()

			if p.cfg.PrePing {
				if err := rec.handle.Ping(ctx); err != nil {
					p.logger.Debug("pool: discarding dead connection on pre-ping",
						"error", err)
					p.closeRecord(rec)
					continue
				}
			}
			return rec, nil
		}

		if p.numOpen < p.maxSize() {
			p.numOpen++
			p.mu.Unlock()
			return p.openFresh(ctx)
		}

		// At capacity: queue and wait
		ch := make(chan grant, 1)
		el := p.waiters.PushBack(ch)
		p.mu.Unlock()

		g, err := p.await(ctx, ch, el, deadline)
		if err != nil {
			return nil, err
		}
		if g.err != nil {
			return nil, g.err
		}
		if g.rec != nil {
			// Direct handoff; the previous owner already reset it
			if p.cfg.PrePing {
				if err := g.rec.handle.Ping(ctx); err != nil {
					p.logger.Debug("pool: discarding dead connection on pre-ping",
						"error", err)
					p.closeRecord(g.rec)
					continue
				}
			}
			return g.rec, nil
		}
		// Capacity was reserved on our behalf
		return p.openFresh(ctx)
	}
}

// await blocks on a queued waiter until granted, cancelled, or timed
// out. A grant that races with cancellation is recovered and released
// so no capacity or connection is leaked.
func (p *Pool) await(ctx context.Context, ch chan grant, el *list.Element, deadline *time.Timer) (grant, error) {
	select {
	case g := <-ch:
		return g, nil
	case <-ctx.Done():
		p.abandonWaiter(ch, el)
		return grant{}, ctx.Err()
	case <-deadline.C:
		p.abandonWaiter(ch, el)
		return grant{}, &TimeoutError{Wait: p.cfg.Timeout}
	}
}

// abandonWaiter removes a waiter from the queue, recovering any grant
// that arrived concurrently.
func (p *Pool) abandonWaiter(ch chan grant, el *list.Element) {
	p.mu.Lock()
	p.waiters.Remove(el)
	p.mu.Unlock()

	select {
	case g := <-ch:
		p.releaseGrant(g)
	default:
	}
}

// releaseGrant returns an unconsumed grant's resources to the pool.
func (p *Pool) releaseGrant(g grant) {
	if g.err != nil {
		return
	}
	if g.rec != nil {
		p.Checkin(g.rec)
		return
	}
	// Undo the capacity reservation
	p.mu.Lock()
	p.numOpen--
	p.wakeLocked()
	p.mu.Unlock()
}

// openFresh dials a new connection against capacity already reserved
// under the lock.
func (p *Pool) openFresh(ctx context.Context) (*Record, error) {
	handle, err := p.connector.Connect(ctx)
	if err != nil {
		p.mu.Lock()
		p.numOpen--
		p.wakeLocked()
		p.mu.Unlock()
		return nil, fmt.Errorf("pool: connect: %w", err)
	}
	return &Record{handle: handle, createdAt: time.Now()}, nil
}

// Checkin returns a record to the pool. A record holding an open
// transaction is rolled back first; an invalidated record (or one whose
// reset fails) is closed and replaced lazily on later demand.
func (p *Pool) Checkin(rec *Record) {
	if rec.inTx.Load() {
		p.resetRecord(rec)
	}

	p.mu.Lock()
	if p.disposed || rec.Invalidated() {
		p.mu.Unlock()
		p.closeRecord(rec)
		return
	}

	// Hand off directly to a waiter if one is queued
	if el := p.waiters.Front(); el != nil {
		p.waiters.Remove(el)
		ch := el.Value.(chan grant)
		p.mu.Unlock()
		ch <- grant{rec: rec}
		return
	}

	// Overflow connections close instead of idling
	if len(p.idle) >= p.cfg.Size {
		p.mu.Unlock()
		p.closeRecord(rec)
		return
	}

	p.idle = append(p.idle, rec)
	p.mu.Unlock()
}

// resetRecord issues a rollback so no transaction or locks cross the
// reuse boundary. Failure invalidates the record.
func (p *Pool) resetRecord(rec *Record) {
	ctx, cancel := context.WithTimeout(context.Background(), resetTimeout)
	defer cancel()

	if _, err := rec.handle.ExecContext(ctx, "ROLLBACK", nil); err != nil {
		p.logger.Warn("pool: rollback on checkin failed, discarding connection",
			"error", err)
		rec.Invalidate()
		return
	}
	rec.MarkInTransaction(false)
}

// closeRecord closes the physical connection and releases its capacity
// to the next waiter.
func (p *Pool) closeRecord(rec *Record) {
	if err := rec.handle.Close(); err != nil {
		p.logger.Debug("pool: error closing connection", "error", err)
	}
	p.mu.Lock()
	p.numOpen--
	p.wakeLocked()
	p.mu.Unlock()
}

// wakeLocked grants freed capacity to the first waiter. Caller holds
// p.mu. Exactly one waiter is released per freed slot.
func (p *Pool) wakeLocked() {
	if p.disposed {
		return
	}
	el := p.waiters.Front()
	if el == nil {
		return
	}
	if p.numOpen >= p.maxSize() {
		return
	}
	p.waiters.Remove(el)
	p.numOpen++
	el.Value.(chan grant) <- grant{}
}

// Dispose closes all idle connections and fails all blocked waiters.
// Checked-out records are closed as they come back. Checkout after
// Dispose returns ErrDisposed.
func (p *Pool) Dispose() {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return
	}
	p.disposed = true
	idle := p.idle
	p.idle = nil
	p.numOpen -= len(idle)

	var chans []chan grant
	for el := p.waiters.Front(); el != nil; el = el.Next() {
		chans = append(chans, el.Value.(chan grant))
	}
	p.waiters.Init()
	p.mu.Unlock()

	for _, ch := range chans {
		ch <- grant{err: ErrDisposed}
	}
	for _, rec := range idle {
		if err := rec.handle.Close(); err != nil {
			p.logger.Debug("pool: error closing connection", "error", err)
		}
	}
}
