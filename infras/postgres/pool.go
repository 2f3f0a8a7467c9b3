package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	// ErrPoolExhausted is returned when no connection becomes available within the
	// acquire timeout. It is transient: callers may retry after backoff.
	ErrPoolExhausted = errors.New("connection pool exhausted")

	// ErrConnectivity is returned when the backing store cannot be reached while
	// creating a connection.
	ErrConnectivity = errors.New("backing store unreachable")

	// ErrNotInitialized is returned by Acquire before Initialize has succeeded.
	ErrNotInitialized = errors.New("connection pool not initialized")
)

// Conn is the contract a pooled handle must satisfy. *sqlx.DB satisfies it.
type Conn interface {
	PingContext(ctx context.Context) error
	Close() error
}

// Factory creates a fresh backing-store handle.
type Factory[C Conn] func(ctx context.Context) (C, error)

// Pool bounds the number of concurrently open backing-store handles. Handles are
// created eagerly at Initialize and live until Shutdown; a handle that fails its
// liveness probe on checkout is replaced transparently.
type Pool[C Conn] struct {
	factory Factory[C]
	timeout time.Duration
	size    int

	mu          sync.Mutex
	conns       chan C
	vacant      int
	initialized bool
}

func NewPool[C Conn](size int, acquireTimeout time.Duration, factory Factory[C]) *Pool[C] {
	return &Pool[C]{
		factory: factory,
		timeout: acquireTimeout,
		size:    size,
	}
}

// Initialize eagerly creates the full set of connections. It is idempotent and
// fails fast: if any connection cannot be created, everything created so far is
// closed and the pool stays uninitialized.
func (p *Pool[C]) Initialize(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	conns := make(chan C, p.size)

	for created := range p.size {
		conn, err := p.factory(ctx)
		if err != nil {
			drain(conns)

			return fmt.Errorf("%w: creating connection %d of %d: %w", ErrConnectivity, created+1, p.size, err)
		}

		conns <- conn
	}

	p.conns = conns
	p.vacant = 0
	p.initialized = true

	log.Info().Int("size", p.size).Dur("acquireTimeout", p.timeout).Msg("Connection pool initialized")

	return nil
}

// Acquire blocks until a connection is available, the acquire timeout elapses
// (ErrPoolExhausted) or ctx is cancelled. The returned handle is revalidated: a
// dead one is closed and replaced with a freshly created connection.
func (p *Pool[C]) Acquire(ctx context.Context) (C, error) {
	var zero C

	p.mu.Lock()
	conns, initialized := p.conns, p.initialized
	p.mu.Unlock()

	if !initialized {
		return zero, ErrNotInitialized
	}

	p.refill(ctx, conns)

	timer := time.NewTimer(p.timeout)
	defer timer.Stop()

	select {
	case conn := <-conns:
		if err := conn.PingContext(ctx); err != nil {
			log.Warn().Err(err).Msg("Pooled connection failed liveness probe, replacing")

			_ = conn.Close()

			fresh, createErr := p.factory(ctx)
			if createErr != nil {
				p.noteVacancy()

				return zero, fmt.Errorf("%w: replacing dead connection: %w", ErrConnectivity, createErr)
			}

			return fresh, nil
		}

		return conn, nil
	case <-timer.C:
		return zero, ErrPoolExhausted
	case <-ctx.Done():
		return zero, fmt.Errorf("waiting for connection: %w", ctx.Err())
	}
}

// refill restores a slot lost when a dead connection's replacement could
// not be created, so the pool's bound recovers once the store is back.
func (p *Pool[C]) refill(ctx context.Context, conns chan C) {
	p.mu.Lock()
	if p.vacant == 0 {
		p.mu.Unlock()

		return
	}
	p.vacant--
	p.mu.Unlock()

	conn, err := p.factory(ctx)
	if err != nil {
		p.noteVacancy()

		log.Warn().Err(err).Msg("Could not refill pool slot, will retry on next acquire")

		return
	}

	select {
	case conns <- conn:
	default:
		_ = conn.Close()
	}
}

func (p *Pool[C]) noteVacancy() {
	p.mu.Lock()
	p.vacant++
	p.mu.Unlock()
}

// Release returns a connection to the queue unconditionally. Callers must not
// release the same handle twice or keep using it afterwards; a release beyond
// the pool's capacity closes the handle instead of growing the pool.
func (p *Pool[C]) Release(conn C) {
	p.mu.Lock()
	conns, initialized := p.conns, p.initialized
	p.mu.Unlock()

	if !initialized {
		_ = conn.Close()

		return
	}

	select {
	case conns <- conn:
	default:
		_ = conn.Close()
	}
}

// Shutdown drains the queue and closes every connection best-effort. Closing
// errors are swallowed; shutdown never fails. The pool may be initialized again
// afterwards.
func (p *Pool[C]) Shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}

	drain(p.conns)
	p.conns = nil
	p.vacant = 0
	p.initialized = false

	log.Info().Msg("Connection pool shut down")
}

func drain[C Conn](conns chan C) {
	for {
		select {
		case conn := <-conns:
			_ = conn.Close()
		default:
			return
		}
	}
}
