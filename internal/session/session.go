package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/sandeepkv93/timetally/internal/model"
	"github.com/sandeepkv93/timetally/internal/notify"
	"github.com/sandeepkv93/timetally/internal/scheduler"
	"github.com/sandeepkv93/timetally/internal/storage"
)

// Update tells subscribers that the workspace changed.
type Update struct {
	Reason string
	Events []scheduler.Event
}

type Options struct {
	Store        storage.Store
	StateKey     string
	Dispatcher   *notify.Dispatcher
	Logger       zerolog.Logger
	TickInterval time.Duration
	EventBuffer  int
	Now          func() time.Time
}

// Session owns the workspace and serializes every intent against it, the
// timer engine and its tick source.
type Session struct {
	mu         sync.Mutex
	ws         *model.Workspace
	engine     *scheduler.Engine
	ticker     *scheduler.Ticker
	dispatcher *notify.Dispatcher
	writer     *storage.Writer
	log        zerolog.Logger
	now        func() time.Time

	updates chan Update
	dropped uint64

	lifeMu  sync.Mutex
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	closed  bool
}

type notification struct {
	kind notify.EventKind
	task model.Task
	cfg  model.ListConfiguration
}

// New loads the workspace from the store, falling back to a single empty
// list when the stored state is missing or unreadable.
func New(ctx context.Context, opts Options) (*Session, error) {
	if opts.Store == nil {
		return nil, errors.New("session: nil store")
	}
	if opts.Dispatcher == nil {
		opts.Dispatcher = notify.NewDispatcher(nil, nil, nil)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.EventBuffer <= 0 {
		opts.EventBuffer = 64
	}
	if opts.StateKey == "" {
		opts.StateKey = storage.DefaultStateKey
	}
	log := opts.Logger.With().Str("mod", "session").Logger()

	ws, loadErr := storage.Load(ctx, opts.Store, opts.StateKey)
	if loadErr != nil {
		log.Warn().Err(loadErr).Msg("stored state unusable, starting with default workspace")
	}

	s := &Session{
		ws:         ws,
		engine:     scheduler.NewEngine(ws),
		ticker:     scheduler.NewTicker(opts.TickInterval, 1),
		dispatcher: opts.Dispatcher,
		writer:     storage.NewWriter(opts.Store, opts.StateKey, opts.Logger),
		log:        log,
		now:        opts.Now,
		updates:    make(chan Update, opts.EventBuffer),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
	if s.dispatcher.RefreshVoices(ws.CurrentConfig()) {
		s.writer.Submit(ws)
	}
	log.Info().
		Str("list", ws.CurrentList).
		Int("lists", len(ws.ListOrder)).
		Int("tasks", len(ws.CurrentTasks())).
		Msg("session loaded")
	return s, nil
}

// Open launches the tick source, the tick consumer and the persistence
// writer.
func (s *Session) Open() {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()
	if s.started || s.closed {
		return
	}
	s.started = true
	s.writer.Start()
	s.ticker.Start()
	go s.loop()
}

// Close stops ticking and writes the last snapshot.
func (s *Session) Close(ctx context.Context) error {
	s.lifeMu.Lock()
	if s.closed {
		s.lifeMu.Unlock()
		return nil
	}
	s.closed = true
	started := s.started
	s.lifeMu.Unlock()

	s.ticker.Stop()
	if started {
		close(s.stopCh)
		<-s.doneCh
	}
	s.writer.Stop()
	return s.writer.Flush(ctx)
}

func (s *Session) loop() {
	defer close(s.doneCh)
	ticks := s.ticker.C()
	for {
		select {
		case tick, ok := <-ticks:
			if !ok {
				return
			}
			s.handleTick(tick)
		case <-s.stopCh:
			return
		}
	}
}

func (s *Session) handleTick(tick scheduler.Tick) {
	s.mu.Lock()
	if !s.ticker.Current(tick) {
		s.mu.Unlock()
		return
	}
	prev := s.engine.State()
	events := s.engine.Tick()
	s.afterChange(prev, events)
	notes := s.notifications(events)
	s.mu.Unlock()

	s.dispatch(notes)
	s.publish(Update{Reason: "tick", Events: events})
}

// mutate runs fn under the lock, then syncs the ticker, persists, announces
// and publishes.
func (s *Session) mutate(reason string, fn func() ([]scheduler.Event, error)) error {
	s.mu.Lock()
	prev := s.engine.State()
	events, err := fn()
	if err != nil {
		s.mu.Unlock()
		s.log.Debug().Str("intent", reason).Err(err).Msg("rejected")
		return err
	}
	s.afterChange(prev, events)
	notes := s.notifications(events)
	s.mu.Unlock()

	s.log.Debug().Str("intent", reason).Int("events", len(events)).Msg("applied")
	s.dispatch(notes)
	s.publish(Update{Reason: reason, Events: events})
	return nil
}

func (s *Session) afterChange(prev model.RunState, events []scheduler.Event) {
	if s.engine.State() != model.RunRunning {
		s.ticker.Disarm()
	} else if prev != model.RunRunning || hasStart(events) {
		if _, err := s.ticker.Arm(); err != nil {
			s.log.Warn().Err(err).Msg("arm ticker")
		}
	}
	s.writer.Submit(s.ws)
}

func hasStart(events []scheduler.Event) bool {
	for _, ev := range events {
		if ev.Kind == scheduler.EventTaskStarted {
			return true
		}
	}
	return false
}

func (s *Session) notifications(events []scheduler.Event) []notification {
	var out []notification
	for _, ev := range events {
		var kind notify.EventKind
		switch ev.Kind {
		case scheduler.EventTaskStarted:
			kind = notify.EventTaskStart
		case scheduler.EventTaskCompleted:
			kind = notify.EventTaskComplete
		default:
			continue
		}
		out = append(out, notification{kind: kind, task: ev.Task, cfg: *s.ws.GetOrCreateConfig(ev.List)})
	}
	return out
}

func (s *Session) dispatch(notes []notification) {
	for _, n := range notes {
		if err := s.dispatcher.Dispatch(n.kind, n.task, n.cfg); err != nil {
			s.log.Warn().Err(err).Str("event", string(n.kind)).Str("task", n.task.Name).Msg("notification failed")
		}
	}
}

func (s *Session) publish(u Update) {
	select {
	case s.updates <- u:
	default:
		atomic.AddUint64(&s.dropped, 1)
	}
}

// Updates delivers a value after every applied change. Slow readers miss
// updates rather than block the session.
func (s *Session) Updates() <-chan Update {
	return s.updates
}

func (s *Session) Dropped() uint64 {
	return atomic.LoadUint64(&s.dropped)
}

func (s *Session) State() model.RunState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.State()
}

// Snapshot is the read-only projection of the current list.
func (s *Session) Snapshot() model.Projection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ws.Project(s.engine.State(), s.now())
}

// Workspace returns a deep copy of the whole workspace.
func (s *Session) Workspace() *model.Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ws.Clone()
}

// Flush writes any pending snapshot synchronously.
func (s *Session) Flush(ctx context.Context) error {
	return s.writer.Flush(ctx)
}
