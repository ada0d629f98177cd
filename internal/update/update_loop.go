package update

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/timetally/internal/scheduler"
	"github.com/sandeepkv93/timetally/internal/session"
	"github.com/sandeepkv93/timetally/internal/views"
)

func (m Model) Init() tea.Cmd {
	if m.Session == nil {
		return nil
	}
	return tea.Batch(waitForUpdateCmd(m.Session.Updates()), estimateTickCmd(m.estimateInterval))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			return m.handlePaletteKey(typed), nil
		}
		switch typed.String() {
		case "/", ":":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.SetValue("")
			m.commandInput.Focus()
			m.Status = StatusBar{Text: "command palette active"}
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown"}
			} else {
				m.Status = StatusBar{Text: "help hidden"}
			}
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}
		if m.HelpVisible {
			var cmd tea.Cmd
			m.helpViewport, cmd = m.helpViewport.Update(typed)
			return m, cmd
		}
		return m.handleTimerKey(typed), nil
	case tea.WindowSizeMsg:
		m.Width = typed.Width
		m.taskProgress.Width = max(10, typed.Width/2-24)
		m.helpViewport.Width = max(30, typed.Width/2-4)
		m.helpViewport.Height = max(8, typed.Height-12)
		return m, nil
	case SessionUpdateMsg:
		m.refresh()
		m.announce(typed.Update.Events)
		if m.Session != nil {
			return m, waitForUpdateCmd(m.Session.Updates())
		}
		return m, nil
	case EstimateTickMsg:
		m.refresh()
		return m, estimateTickCmd(m.estimateInterval)
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	}
	return m, nil
}

// announce records timer events in the notification log.
func (m *Model) announce(events []scheduler.Event) {
	for _, ev := range events {
		switch ev.Kind {
		case scheduler.EventTaskStarted:
			m.notify("Started", fmt.Sprintf("%s (%s)", ev.Task.Name, ev.List), "info")
		case scheduler.EventTaskCompleted:
			m.notify("Completed", fmt.Sprintf("%s (%s)", ev.Task.Name, ev.List), "info")
		case scheduler.EventLapCompleted:
			m.notify("List", fmt.Sprintf("all tasks in %s completed", ev.List), "info")
		}
	}
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	right := m.renderTimerView()
	if m.HelpVisible {
		right = m.renderHelpView()
	}
	left := m.renderTaskView()
	if palette := views.RenderCommandPalette(m.Palette.Active, m.commandInput.View()); palette != "" {
		left += "\n\n" + palette
	}

	notification := ""
	if n := len(m.Notifications); n > 0 {
		last := m.Notifications[n-1]
		notification = views.RenderNotification(last.Level, fmt.Sprintf("%s: %s @ %s", last.Title, last.Body, last.At.Format("15:04:05")))
	}

	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("timetally | list: %s | %s", m.Snapshot.CurrentList, m.Snapshot.State),
		Tabs:         views.RenderTabs(m.Snapshot.Lists, m.Snapshot.CurrentList),
		LeftPane:     left,
		RightPane:    right,
		StatusLine:   status,
		Notification: notification,
		Width:        m.Width,
		Footer: fmt.Sprintf("keys: space start/pause | %s skip | %s complete | %s restart | tab lists | / cmd | %s help | %s quit",
			m.Keys.Skip, m.Keys.Complete, m.Keys.Restart, m.Keys.Help, m.Keys.Quit),
	})
}

func (m Model) renderTaskView() string {
	rows := make([]views.TaskRowData, 0, len(m.Snapshot.Tasks))
	for i, t := range m.Snapshot.Tasks {
		rows = append(rows, views.TaskRowData{
			Number:   i + 1,
			Name:     t.Name,
			Duration: t.Duration,
			Clock:    t.Clock,
			Progress: t.ProgressText,
			Enabled:  t.Enabled,
			Current:  t.Current,
			Selected: i == m.Cursor,
		})
	}
	return views.RenderTaskPanel(views.TaskPanelData{ListName: m.Snapshot.CurrentList, Rows: rows})
}

func (m Model) renderTimerView() string {
	cfg := m.Snapshot.Config
	data := views.TimerPanelData{
		State:    string(m.Snapshot.State),
		Summary:  m.Snapshot.Summary,
		Estimate: m.Snapshot.EstimatedFinish,
		Beep:     cfg.BeepEnabled,
		Speech:   cfg.TTSEnabled,
		Voice:    cfg.SelectedVoice,
		Mode:     cfg.NotificationMode.ShortName(),
		Message:  cfg.CustomMessage,
	}
	idx := m.Snapshot.CurrentTaskIndex
	if idx >= 0 && idx < len(m.Snapshot.Tasks) {
		task := m.Snapshot.Tasks[idx]
		data.Clock = task.Clock
		data.ProgressView = m.taskProgress.ViewAs(task.Progress)
		data.ProgressText = task.ProgressText
	}
	return views.RenderTimerPanel(data)
}

func waitForUpdateCmd(ch <-chan session.Update) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return nil
		}
		return SessionUpdateMsg{Update: u}
	}
}

func estimateTickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return EstimateTickMsg{} })
}
