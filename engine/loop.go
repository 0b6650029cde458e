package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

// ErrLoopRunning is returned by Run when the loop is already running
var ErrLoopRunning = errors.New("engine: loop already running")

const postBuffer = 64

type frameRequest struct {
	id FrameID
	fn FrameFunc
}

// Loop is a single-goroutine frame scheduler driven by a fixed-rate ticker
// Frame callbacks and posted work all execute on the Run goroutine, so the work they touch needs no locking
type Loop struct {
	interval time.Duration
	clock    *Clock

	mu      sync.Mutex
	nextID  FrameID
	pending []frameRequest

	posts   chan func()
	done    chan struct{}
	running atomic.Bool

	tickCount atomic.Uint64
}

// NewLoop creates a loop ticking frameRate times per second
func NewLoop(frameRate int, clock *Clock) *Loop {
	if frameRate <= 0 {
		frameRate = 60
	}
	if clock == nil {
		clock = NewClock(nil)
	}
	return &Loop{
		interval: time.Second / time.Duration(frameRate),
		clock:    clock,
		posts:    make(chan func(), postBuffer),
		done:     make(chan struct{}),
	}
}

// RequestFrame queues fn for the next tick
func (l *Loop) RequestFrame(fn FrameFunc) FrameID {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	l.pending = append(l.pending, frameRequest{id: l.nextID, fn: fn})
	return l.nextID
}

// CancelFrame drops a queued request, unknown ids are ignored
func (l *Loop) CancelFrame(id FrameID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, req := range l.pending {
		if req.id == id {
			l.pending = append(l.pending[:i], l.pending[i+1:]...)
			return
		}
	}
}

// Pending returns the number of queued frame requests
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// Post schedules fn on the loop goroutine between ticks
// Returns false once the loop has exited
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.posts <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Tick runs every frame callback queued before the call with one shared timestamp
func (l *Loop) Tick() {
	l.mu.Lock()
	batch := l.pending
	l.pending = nil
	l.mu.Unlock()

	ts := l.clock.Millis()
	for _, req := range batch {
		req.fn(ts)
	}
	l.tickCount.Add(1)
}

// Ticks returns how many ticks have run
func (l *Loop) Ticks() uint64 {
	return l.tickCount.Load()
}

// Run ticks until ctx is cancelled, then drains posted work
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer close(l.done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.drain()
			return ctx.Err()
		case fn := <-l.posts:
			fn()
		case <-ticker.C:
			l.Tick()
		}
	}
}

func (l *Loop) drain() {
	for {
		select {
		case fn := <-l.posts:
			fn()
		default:
			return
		}
	}
}
