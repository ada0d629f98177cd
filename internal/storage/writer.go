package storage

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/sandeepkv93/timetally/internal/model"
)

const writeTimeout = 5 * time.Second

// Writer persists workspace snapshots in the background. Only the latest
// submitted snapshot is kept; older pending ones are overwritten.
type Writer struct {
	store Store
	key   string
	log   zerolog.Logger

	mu      sync.Mutex
	pending *string
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool

	writeMu sync.Mutex
	written uint64
	failed  uint64
}

func NewWriter(store Store, key string, log zerolog.Logger) *Writer {
	if key == "" {
		key = DefaultStateKey
	}
	return &Writer{
		store:  store,
		key:    key,
		log:    log.With().Str("mod", "persist").Logger(),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

func (w *Writer) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return
	}
	w.started = true
	go w.loop()
}

// Stop ends the loop after writing whatever is still pending.
func (w *Writer) Stop() {
	w.mu.Lock()
	if !w.started || w.stopped {
		w.stopped = true
		w.mu.Unlock()
		return
	}
	w.stopped = true
	close(w.stopCh)
	w.mu.Unlock()
	<-w.doneCh
}

// Submit encodes ws now and queues it for writing.
func (w *Writer) Submit(ws *model.Workspace) {
	raw, err := Encode(ws)
	if err != nil {
		w.log.Error().Err(err).Msg("encode snapshot")
		return
	}
	w.mu.Lock()
	w.pending = &raw
	w.mu.Unlock()
	select {
	case w.wakeup <- struct{}{}:
	default:
	}
}

// Flush writes the pending snapshot, if any, before returning.
func (w *Writer) Flush(ctx context.Context) error {
	return w.writePending(ctx)
}

func (w *Writer) Written() uint64 { return atomic.LoadUint64(&w.written) }

func (w *Writer) Failed() uint64 { return atomic.LoadUint64(&w.failed) }

func (w *Writer) loop() {
	defer close(w.doneCh)
	for {
		select {
		case <-w.wakeup:
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			_ = w.writePending(ctx)
			cancel()
		case <-w.stopCh:
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			_ = w.writePending(ctx)
			cancel()
			return
		}
	}
}

func (w *Writer) take() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending == nil {
		return "", false
	}
	raw := *w.pending
	w.pending = nil
	return raw, true
}

func (w *Writer) writePending(ctx context.Context) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	raw, ok := w.take()
	if !ok {
		return nil
	}
	err := w.store.Put(ctx, w.key, raw)
	switch {
	case err == nil:
		atomic.AddUint64(&w.written, 1)
		w.log.Debug().Int("bytes", len(raw)).Msg("state saved")
	case errors.Is(err, ErrQuotaExceeded):
		atomic.AddUint64(&w.failed, 1)
		w.log.Warn().Err(err).Msg("state not saved")
	default:
		atomic.AddUint64(&w.failed, 1)
		w.log.Error().Err(err).Msg("state not saved")
	}
	return err
}
