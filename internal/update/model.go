package update

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/timetally/internal/commands"
	"github.com/sandeepkv93/timetally/internal/model"
	"github.com/sandeepkv93/timetally/internal/session"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	StartPause string
	Skip       string
	Complete   string
	Restart    string
	NextList   string
	PrevList   string
	Toggle     string
	Remove     string
	MoveDown   string
	MoveUp     string
	Help       string
	Quit       string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type Options struct {
	EstimateInterval time.Duration
	Now              func() time.Time
}

type Model struct {
	Session       *session.Session
	Snapshot      model.Projection
	Cursor        int
	Palette       CommandPaletteState
	HelpVisible   bool
	Notifications []Notification
	Status        StatusBar
	Keys          GlobalKeyMap
	Quitting      bool
	LastError     error
	Width         int

	handlers         commands.Handlers
	estimateInterval time.Duration
	now              func() time.Time
	commandInput     textinput.Model
	taskProgress     progress.Model
	helpModel        help.Model
	helpViewport     viewport.Model
}

// SessionUpdateMsg carries one update published by the session.
type SessionUpdateMsg struct {
	Update session.Update
}

// EstimateTickMsg asks the model to refresh the estimated finish time.
type EstimateTickMsg struct{}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

func NewModel(s *session.Session, opts Options) Model {
	if opts.EstimateInterval <= 0 {
		opts.EstimateInterval = 5 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	m := Model{
		Session:          s,
		handlers:         commands.Bind(s),
		estimateInterval: opts.EstimateInterval,
		now:              opts.Now,
		Keys: GlobalKeyMap{
			StartPause: " ",
			Skip:       "s",
			Complete:   "c",
			Restart:    "r",
			NextList:   "tab",
			PrevList:   "shift+tab",
			Toggle:     "e",
			Remove:     "x",
			MoveDown:   "J",
			MoveUp:     "K",
			Help:       "?",
			Quit:       "q",
		},
	}
	m.initBubbleComponents()
	m.refresh()
	return m
}

func (m *Model) initBubbleComponents() {
	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.taskProgress = progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	m.taskProgress.Width = 30

	m.helpModel = help.New()
	m.helpViewport = viewport.New(56, 14)
}

// refresh pulls a fresh projection from the session and keeps the cursor
// inside the list.
func (m *Model) refresh() {
	if m.Session == nil {
		return
	}
	m.Snapshot = m.Session.Snapshot()
	n := len(m.Snapshot.Tasks)
	switch {
	case n == 0:
		m.Cursor = 0
	case m.Cursor >= n:
		m.Cursor = n - 1
	case m.Cursor < 0:
		m.Cursor = 0
	}
}

func (m *Model) notify(title, body, level string) {
	if body == "" {
		return
	}
	m.Notifications = append(m.Notifications, Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    m.now(),
	})
	if len(m.Notifications) > 40 {
		m.Notifications = m.Notifications[len(m.Notifications)-40:]
	}
}

func levelFromError(isErr bool) string {
	if isErr {
		return "error"
	}
	return "info"
}
