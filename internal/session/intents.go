package session

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/sandeepkv93/timetally/internal/exchange"
	"github.com/sandeepkv93/timetally/internal/model"
	"github.com/sandeepkv93/timetally/internal/scheduler"
)

func noEvents(err error) ([]scheduler.Event, error) {
	return nil, err
}

func (s *Session) AddTask(name string, amount int, unit model.TimeUnit) error {
	return s.mutate("add-task", func() ([]scheduler.Event, error) {
		_, err := s.ws.AddTask(name, amount, unit)
		return noEvents(err)
	})
}

// EditTask renames the task and gives it a new duration, restarting its
// countdown.
func (s *Session) EditTask(index int, name string, durationSeconds int) error {
	return s.mutate("edit-task", func() ([]scheduler.Event, error) {
		return noEvents(s.ws.EditTask(index, name, durationSeconds))
	})
}

// RemoveTask deletes a task. Removing the running task pauses the engine on
// the task that takes its place; removing the last task restarts the list.
func (s *Session) RemoveTask(index int) error {
	return s.mutate("remove-task", func() ([]scheduler.Event, error) {
		wasActive := index == s.ws.CurrentTaskIndex
		if _, err := s.ws.RemoveTask(index); err != nil {
			return nil, err
		}
		switch {
		case len(s.ws.CurrentTasks()) == 0:
			s.engine.Restart()
		case wasActive:
			s.engine.Pause()
		}
		return nil, nil
	})
}

func (s *Session) MoveTask(from, to int) error {
	return s.mutate("move-task", func() ([]scheduler.Event, error) {
		return noEvents(s.ws.MoveTask(from, to))
	})
}

// SetTaskEnabled toggles a task. Disabling the running task moves on to the
// next enabled one without announcing a completion.
func (s *Session) SetTaskEnabled(index int, enabled bool) error {
	return s.mutate("set-enabled", func() ([]scheduler.Event, error) {
		return s.setEnabledLocked(index, enabled)
	})
}

// ToggleTask flips the enabled flag, reading it under the same lock as the
// write.
func (s *Session) ToggleTask(index int) error {
	return s.mutate("toggle-task", func() ([]scheduler.Event, error) {
		tasks := s.ws.CurrentTasks()
		if index < 0 || index >= len(tasks) {
			return nil, fmt.Errorf("%w: task index %d", model.ErrNotFound, index)
		}
		return s.setEnabledLocked(index, !tasks[index].Enabled)
	})
}

func (s *Session) setEnabledLocked(index int, enabled bool) ([]scheduler.Event, error) {
	if err := s.ws.SetTaskEnabled(index, enabled); err != nil {
		return nil, err
	}
	if !enabled && index == s.ws.CurrentTaskIndex && s.engine.State() == model.RunRunning {
		return s.engine.Skip(), nil
	}
	return nil, nil
}

func (s *Session) CreateList(name string, makeCurrent bool) error {
	return s.mutate("create-list", func() ([]scheduler.Event, error) {
		if err := s.ws.CreateList(name, makeCurrent); err != nil {
			return nil, err
		}
		if makeCurrent {
			s.engine.Halt()
			s.dispatcher.RefreshVoices(s.ws.CurrentConfig())
		}
		return nil, nil
	})
}

func (s *Session) RenameList(oldName, newName string) error {
	return s.mutate("rename-list", func() ([]scheduler.Event, error) {
		return noEvents(s.ws.RenameList(oldName, newName))
	})
}

// DeleteList removes a list. Deleting the current list stops the engine.
func (s *Session) DeleteList(name string) error {
	return s.mutate("delete-list", func() ([]scheduler.Event, error) {
		wasCurrent := name == s.ws.CurrentList
		if err := s.ws.DeleteList(name); err != nil {
			return nil, err
		}
		if wasCurrent {
			s.engine.Halt()
			s.dispatcher.RefreshVoices(s.ws.CurrentConfig())
		}
		return nil, nil
	})
}

func (s *Session) ReorderLists(order []string) error {
	return s.mutate("reorder-lists", func() ([]scheduler.Event, error) {
		return noEvents(s.ws.ReorderLists(order))
	})
}

// SwitchList makes name current. The engine stops; the previous list keeps
// its remaining times.
func (s *Session) SwitchList(name string) error {
	return s.mutate("switch-list", func() ([]scheduler.Event, error) {
		return nil, s.switchLocked(name)
	})
}

func (s *Session) switchLocked(name string) error {
	if !s.ws.HasList(name) {
		return fmt.Errorf("%w: list %q", model.ErrNotFound, name)
	}
	if name == s.ws.CurrentList {
		return nil
	}
	s.engine.Halt()
	if err := s.ws.SwitchList(name); err != nil {
		return err
	}
	s.dispatcher.RefreshVoices(s.ws.CurrentConfig())
	return nil
}

// CycleList switches to the list delta tabs away, wrapping around.
func (s *Session) CycleList(delta int) error {
	return s.mutate("cycle-list", func() ([]scheduler.Event, error) {
		n := len(s.ws.ListOrder)
		if n < 2 {
			return nil, nil
		}
		idx := slices.Index(s.ws.ListOrder, s.ws.CurrentList)
		next := ((idx+delta)%n + n) % n
		return nil, s.switchLocked(s.ws.ListOrder[next])
	})
}

func (s *Session) Start() error {
	return s.mutate("start", func() ([]scheduler.Event, error) {
		return s.engine.Start(), nil
	})
}

func (s *Session) Pause() error {
	return s.mutate("pause", func() ([]scheduler.Event, error) {
		s.engine.Pause()
		return nil, nil
	})
}

// StartPause starts or resumes an idle or paused engine and pauses a running one.
func (s *Session) StartPause() error {
	return s.mutate("start-pause", func() ([]scheduler.Event, error) {
		if s.engine.Pause() {
			return nil, nil
		}
		return s.engine.Start(), nil
	})
}

func (s *Session) Skip() error {
	return s.mutate("skip", func() ([]scheduler.Event, error) {
		return s.engine.Skip(), nil
	})
}

func (s *Session) CompleteEarly() error {
	return s.mutate("complete", func() ([]scheduler.Event, error) {
		return s.engine.CompleteEarly(), nil
	})
}

func (s *Session) Restart() error {
	return s.mutate("restart", func() ([]scheduler.Event, error) {
		s.engine.Restart()
		return nil, nil
	})
}

func (s *Session) updateConfig(reason string, fn func(cfg *model.ListConfiguration) error) error {
	return s.mutate(reason, func() ([]scheduler.Event, error) {
		cfg := *s.ws.CurrentConfig()
		if err := fn(&cfg); err != nil {
			return nil, err
		}
		*s.ws.CurrentConfig() = cfg
		return nil, nil
	})
}

func (s *Session) SetBeep(enabled bool) error {
	return s.updateConfig("set-beep", func(cfg *model.ListConfiguration) error {
		cfg.BeepEnabled = enabled
		return nil
	})
}

func (s *Session) SetTTS(enabled bool) error {
	return s.updateConfig("set-tts", func(cfg *model.ListConfiguration) error {
		cfg.TTSEnabled = enabled
		return nil
	})
}

// SetVoice selects a voice offered by the speech backend; "" means the
// backend default.
func (s *Session) SetVoice(voice string) error {
	voice = strings.TrimSpace(voice)
	if voice != "" {
		available, err := s.dispatcher.Voices()
		if err != nil {
			return err
		}
		if !slices.Contains(available, voice) {
			return fmt.Errorf("%w: voice %q", model.ErrNotFound, voice)
		}
	}
	return s.updateConfig("set-voice", func(cfg *model.ListConfiguration) error {
		cfg.SelectedVoice = voice
		return nil
	})
}

func (s *Session) SetMode(mode model.NotificationMode) error {
	return s.updateConfig("set-mode", func(cfg *model.ListConfiguration) error {
		if !mode.IsValid() {
			return fmt.Errorf("%w: notification mode %q", model.ErrValidation, mode)
		}
		cfg.NotificationMode = mode
		return nil
	})
}

// SetCustomMessage stores the trimmed message; an empty one restores the
// default.
func (s *Session) SetCustomMessage(msg string) error {
	return s.updateConfig("set-message", func(cfg *model.ListConfiguration) error {
		msg = strings.TrimSpace(msg)
		if msg == "" {
			msg = model.DefaultCustomMessage
		}
		cfg.CustomMessage = msg
		return nil
	})
}

func (s *Session) Voices() ([]string, error) {
	return s.dispatcher.Voices()
}

// ImportXML parses r and merges it into the workspace. Nothing changes when
// the document is malformed. Replacing the current list stops the engine.
func (s *Session) ImportXML(r io.Reader, mode exchange.Mode) (exchange.Result, error) {
	doc, err := exchange.Parse(r)
	if err != nil {
		s.log.Warn().Err(err).Msg("import rejected")
		return exchange.Result{}, err
	}
	var res exchange.Result
	err = s.mutate("import", func() ([]scheduler.Event, error) {
		var applyErr error
		res, applyErr = exchange.Apply(s.ws, doc, mode)
		if applyErr != nil {
			return nil, applyErr
		}
		if res.ReplacedList {
			s.engine.Halt()
			s.dispatcher.RefreshVoices(s.ws.CurrentConfig())
		}
		return nil, nil
	})
	if err != nil {
		return exchange.Result{}, err
	}
	s.log.Info().Str("list", res.List).Str("mode", string(res.Mode)).Int("tasks", res.Imported).Msg("imported")
	return res, nil
}

// ExportXML writes the current list and returns the artifact file name.
func (s *Session) ExportXML(w io.Writer) (string, error) {
	s.mu.Lock()
	name := s.ws.CurrentList
	tasks := slices.Clone(s.ws.CurrentTasks())
	s.mu.Unlock()

	if err := exchange.Export(w, name, tasks); err != nil {
		return "", err
	}
	return exchange.FileName(name), nil
}
