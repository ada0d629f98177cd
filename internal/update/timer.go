package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) handleTimerKey(msg tea.KeyMsg) Model {
	if m.Session == nil {
		return m
	}
	var (
		err  error
		text string
	)
	switch msg.String() {
	case m.Keys.StartPause:
		err = m.Session.StartPause()
		text = fmt.Sprintf("timer %s", m.Session.State())
	case m.Keys.Skip:
		err = m.Session.Skip()
		text = "skipped"
	case m.Keys.Complete:
		err = m.Session.CompleteEarly()
		text = "completed early"
	case m.Keys.Restart:
		err = m.Session.Restart()
		text = "list restarted"
	case m.Keys.NextList:
		err = m.Session.CycleList(1)
		m.Cursor = 0
	case m.Keys.PrevList:
		err = m.Session.CycleList(-1)
		m.Cursor = 0
	case "j", "down":
		m.Cursor++
	case "k", "up":
		m.Cursor--
	case m.Keys.Toggle:
		err = m.Session.ToggleTask(m.Cursor)
		text = fmt.Sprintf("toggled task %d", m.Cursor+1)
	case m.Keys.Remove:
		err = m.Session.RemoveTask(m.Cursor)
		text = fmt.Sprintf("removed task %d", m.Cursor+1)
	case m.Keys.MoveDown:
		if err = m.Session.MoveTask(m.Cursor, m.Cursor+1); err == nil {
			m.Cursor++
		}
	case m.Keys.MoveUp:
		if err = m.Session.MoveTask(m.Cursor, m.Cursor-1); err == nil {
			m.Cursor--
		}
	default:
		return m
	}
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	} else if text != "" {
		m.Status = StatusBar{Text: text}
	}
	m.refresh()
	return m
}
