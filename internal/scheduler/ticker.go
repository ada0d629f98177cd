package scheduler

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var ErrTickerStopped = errors.New("scheduler: ticker stopped")

// Tick is one firing of an armed Ticker. Gen identifies the arming it
// belongs to; a tick whose Gen is no longer current must be ignored.
type Tick struct {
	Gen uint64
	At  time.Time
}

// Ticker emits Tick values every interval while armed. Arm and Disarm bump
// the generation, so ticks already buffered become stale at once.
type Ticker struct {
	interval time.Duration

	mu      sync.Mutex
	gen     uint64
	armed   bool
	out     chan Tick
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

func NewTicker(interval time.Duration, bufferSize int) *Ticker {
	if interval <= 0 {
		interval = time.Second
	}
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Ticker{
		interval: interval,
		out:      make(chan Tick, bufferSize),
		wakeup:   make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

func (t *Ticker) C() <-chan Tick {
	return t.out
}

func (t *Ticker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return
	}
	t.started = true
	go t.loop()
}

func (t *Ticker) Stop() {
	t.mu.Lock()
	if !t.started || t.stopped {
		t.stopped = true
		t.mu.Unlock()
		return
	}
	t.stopped = true
	t.armed = false
	close(t.stopCh)
	t.mu.Unlock()
	<-t.doneCh
}

// Arm starts a new generation; the first tick follows one full interval later.
func (t *Ticker) Arm() (uint64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return 0, ErrTickerStopped
	}
	t.gen++
	t.armed = true
	t.signalWakeup()
	return t.gen, nil
}

func (t *Ticker) Disarm() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	t.armed = false
	t.signalWakeup()
}

// Current reports whether tick belongs to the live generation.
func (t *Ticker) Current(tick Tick) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.armed && tick.Gen == t.gen
}

func (t *Ticker) Generation() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gen
}

func (t *Ticker) Armed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.armed
}

func (t *Ticker) Dropped() uint64 {
	return atomic.LoadUint64(&t.dropped)
}

func (t *Ticker) loop() {
	defer close(t.doneCh)
	defer close(t.out)

	var timer *time.Timer
	for {
		gen, armed := t.snapshot()
		if !armed {
			stopTimer(timer)
			select {
			case <-t.wakeup:
				continue
			case <-t.stopCh:
				return
			}
		}

		timer = resetTimer(timer, t.interval)
		select {
		case now := <-timer.C:
			select {
			case t.out <- Tick{Gen: gen, At: now}:
			default:
				atomic.AddUint64(&t.dropped, 1)
			}
		case <-t.wakeup:
			continue
		case <-t.stopCh:
			stopTimer(timer)
			return
		}
	}
}

func (t *Ticker) snapshot() (uint64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gen, t.armed
}

func (t *Ticker) signalWakeup() {
	select {
	case t.wakeup <- struct{}{}:
	default:
	}
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
