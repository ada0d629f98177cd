package commands

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/sandeepkv93/timetally/internal/model"
	"github.com/sandeepkv93/timetally/internal/session"
	"github.com/sandeepkv93/timetally/internal/timefmt"
)

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func done(format string, args ...any) (Result, error) {
	return Result{Message: fmt.Sprintf(format, args...)}, nil
}

// Bind routes every command to the matching session intent. Import and
// export read and write files relative to the working directory.
func Bind(s *session.Session) Handlers {
	return Handlers{
		Add: func(a AddArgs) (Result, error) {
			if err := s.AddTask(a.Name, a.Amount, a.Unit); err != nil {
				return Result{}, err
			}
			return done("added %q (%s)", a.Name, timefmt.Format(a.Unit.Seconds(a.Amount)))
		},
		Edit: func(a EditArgs) (Result, error) {
			if err := s.EditTask(a.Index, a.Name, a.Seconds); err != nil {
				return Result{}, err
			}
			return done("task %d is now %q (%s)", a.Index+1, a.Name, timefmt.Format(a.Seconds))
		},
		Remove: func(a IndexArgs) (Result, error) {
			if err := s.RemoveTask(a.Index); err != nil {
				return Result{}, err
			}
			return done("removed task %d", a.Index+1)
		},
		Move: func(a MoveArgs) (Result, error) {
			if err := s.MoveTask(a.From, a.To); err != nil {
				return Result{}, err
			}
			return done("moved task %d to %d", a.From+1, a.To+1)
		},
		Toggle: func(a IndexArgs) (Result, error) {
			if err := s.ToggleTask(a.Index); err != nil {
				return Result{}, err
			}
			return done("toggled task %d", a.Index+1)
		},
		New: func(a NameArgs) (Result, error) {
			if err := s.CreateList(a.Name, true); err != nil {
				return Result{}, err
			}
			return done("created list %q", a.Name)
		},
		Rename: func(a NameArgs) (Result, error) {
			old := s.Snapshot().CurrentList
			if err := s.RenameList(old, a.Name); err != nil {
				return Result{}, err
			}
			return done("renamed %q to %q", old, a.Name)
		},
		Delete: func(a NameArgs) (Result, error) {
			name := a.Name
			if name == "" {
				name = s.Snapshot().CurrentList
			}
			if err := s.DeleteList(name); err != nil {
				return Result{}, err
			}
			return done("deleted list %q", name)
		},
		Switch: func(a NameArgs) (Result, error) {
			if err := s.SwitchList(a.Name); err != nil {
				return Result{}, err
			}
			return done("switched to %q", a.Name)
		},
		Order: func(a OrderArgs) (Result, error) {
			if err := s.ReorderLists(a.Names); err != nil {
				return Result{}, err
			}
			return done("lists reordered")
		},
		Start: func() (Result, error) {
			if err := s.Start(); err != nil {
				return Result{}, err
			}
			return done("timer %s", s.State())
		},
		Pause: func() (Result, error) {
			if err := s.Pause(); err != nil {
				return Result{}, err
			}
			return done("timer %s", s.State())
		},
		Skip: func() (Result, error) {
			if err := s.Skip(); err != nil {
				return Result{}, err
			}
			return done("skipped")
		},
		Done: func() (Result, error) {
			if err := s.CompleteEarly(); err != nil {
				return Result{}, err
			}
			return done("completed early")
		},
		Restart: func() (Result, error) {
			if err := s.Restart(); err != nil {
				return Result{}, err
			}
			return done("list restarted")
		},
		Beep: func(a SwitchArgs) (Result, error) {
			if err := s.SetBeep(a.On); err != nil {
				return Result{}, err
			}
			return done("beep %s", onOff(a.On))
		},
		TTS: func(a SwitchArgs) (Result, error) {
			if err := s.SetTTS(a.On); err != nil {
				return Result{}, err
			}
			return done("speech %s", onOff(a.On))
		},
		Voice: func(a TextArgs) (Result, error) {
			if err := s.SetVoice(a.Text); err != nil {
				return Result{}, err
			}
			if a.Text == "" {
				return done("voice reset to default")
			}
			return done("voice set to %q", a.Text)
		},
		Mode: func(a ModeArgs) (Result, error) {
			if err := s.SetMode(a.Mode); err != nil {
				return Result{}, err
			}
			return done("notification mode %s", a.Mode.ShortName())
		},
		Message: func(a TextArgs) (Result, error) {
			if err := s.SetCustomMessage(a.Text); err != nil {
				return Result{}, err
			}
			msg := strings.TrimSpace(a.Text)
			if msg == "" {
				msg = model.DefaultCustomMessage
			}
			return done("completion message %q", msg)
		},
		Import: func(a ImportArgs) (Result, error) {
			f, err := os.Open(a.Path)
			if err != nil {
				return Result{}, err
			}
			defer f.Close()
			res, err := s.ImportXML(f, a.Mode)
			if err != nil {
				return Result{}, err
			}
			return done("imported %d tasks into %q (%s)", res.Imported, res.List, res.Mode)
		},
		Export: func(a ExportArgs) (Result, error) {
			var buf bytes.Buffer
			name, err := s.ExportXML(&buf)
			if err != nil {
				return Result{}, err
			}
			path := a.Path
			if path == "" {
				path = name
			}
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return Result{}, err
			}
			return done("exported to %s", path)
		},
		Voices: func() (Result, error) {
			voices, err := s.Voices()
			if err != nil {
				return Result{}, err
			}
			if len(voices) == 0 {
				return done("no voices available")
			}
			return done("voices: %s", strings.Join(voices, ", "))
		},
	}
}
