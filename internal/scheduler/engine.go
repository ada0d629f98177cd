package scheduler

import (
	"github.com/sandeepkv93/timetally/internal/model"
)

type EventKind string

const (
	EventTaskStarted   EventKind = "taskStarted"
	EventTaskCompleted EventKind = "taskCompleted"
	EventLapCompleted  EventKind = "lapCompleted"
)

// Event reports a transition of the engine. Task is a copy taken when the
// event fired.
type Event struct {
	Kind  EventKind
	List  string
	Index int
	Task  model.Task
}

// Engine runs the current task of the workspace's current list. It holds no
// lock of its own; callers serialize access together with the workspace.
type Engine struct {
	ws    *model.Workspace
	state model.RunState
}

func NewEngine(ws *model.Workspace) *Engine {
	return &Engine{ws: ws, state: model.RunIdle}
}

func (e *Engine) State() model.RunState {
	return e.state
}

func (e *Engine) event(kind EventKind, index int) Event {
	ev := Event{Kind: kind, List: e.ws.CurrentList, Index: index}
	if tasks := e.ws.CurrentTasks(); index >= 0 && index < len(tasks) {
		ev.Task = tasks[index]
	}
	return ev
}

// Start runs the first enabled task at or after the current index. Running
// past the end of the list is a lap: the list is reset and the engine idles.
func (e *Engine) Start() []Event {
	if e.state == model.RunRunning || len(e.ws.CurrentTasks()) == 0 {
		return nil
	}
	idx := e.ws.FirstEnabledFrom(e.ws.CurrentTaskIndex)
	if idx < 0 {
		return e.lap(nil)
	}
	e.ws.CurrentTaskIndex = idx
	e.state = model.RunRunning
	return []Event{e.event(EventTaskStarted, idx)}
}

// Tick advances the active task by one second.
func (e *Engine) Tick() []Event {
	if e.state != model.RunRunning {
		return nil
	}
	task, ok := e.ws.ActiveTask()
	if !ok {
		return e.lap(nil)
	}
	if !task.Enabled {
		return e.advance(nil, true)
	}
	if task.RemainingSeconds > 0 {
		task.RemainingSeconds--
	}
	if task.RemainingSeconds > 0 {
		return nil
	}
	events := []Event{e.event(EventTaskCompleted, e.ws.CurrentTaskIndex)}
	return e.advance(events, true)
}

// Pause is idempotent; it only affects a running engine.
func (e *Engine) Pause() bool {
	if e.state != model.RunRunning {
		return false
	}
	e.state = model.RunPaused
	return true
}

// Skip moves to the next enabled task. A running engine keeps running on it.
func (e *Engine) Skip() []Event {
	if !e.hasActive() {
		return nil
	}
	return e.advance(nil, e.state == model.RunRunning)
}

// CompleteEarly is Skip preceded by a completion of the active task.
func (e *Engine) CompleteEarly() []Event {
	if !e.hasActive() {
		return nil
	}
	var events []Event
	if task, _ := e.ws.ActiveTask(); task.Enabled {
		events = append(events, e.event(EventTaskCompleted, e.ws.CurrentTaskIndex))
	}
	return e.advance(events, e.state == model.RunRunning)
}

// Restart resets every task of the current list and idles.
func (e *Engine) Restart() {
	e.ws.ResetAll()
	e.state = model.RunIdle
}

// Halt idles without touching the workspace.
func (e *Engine) Halt() {
	e.state = model.RunIdle
}

func (e *Engine) hasActive() bool {
	_, ok := e.ws.ActiveTask()
	return ok
}

func (e *Engine) advance(events []Event, resume bool) []Event {
	next := e.ws.NextEnabledAfter(e.ws.CurrentTaskIndex)
	if next < 0 {
		return e.lap(events)
	}
	e.ws.CurrentTaskIndex = next
	if resume {
		e.state = model.RunRunning
		events = append(events, e.event(EventTaskStarted, next))
	}
	return events
}

func (e *Engine) lap(events []Event) []Event {
	e.ws.ResetAll()
	e.state = model.RunIdle
	return append(events, Event{Kind: EventLapCompleted, List: e.ws.CurrentList, Index: 0})
}
