package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type TaskRowData struct {
	Number   int
	Name     string
	Duration string
	Clock    string
	Progress string
	Enabled  bool
	Current  bool
	Selected bool
}

type TaskPanelData struct {
	ListName string
	Rows     []TaskRowData
}

type TimerPanelData struct {
	State        string
	Summary      string
	Clock        string
	ProgressView string
	ProgressText string
	Estimate     string
	Beep         bool
	Speech       bool
	Voice        string
	Mode         string
	Message      string
}

type HelpPanelData struct {
	Bindings []string
	HelpView string
	Commands string
}

// RenderTabs draws one tab per list in order, highlighting the current one.
func RenderTabs(lists []string, current string) string {
	tabs := make([]string, 0, len(lists))
	for _, name := range lists {
		if name == current {
			tabs = append(tabs, activeTabStyle.Render(name))
			continue
		}
		tabs = append(tabs, tabStyle.Render(name))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func RenderTaskPanel(data TaskPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("tasks: %s\n", data.ListName))
	b.WriteString("actions: [j/k]select [e]toggle [J/K]move [x]remove\n")
	if len(data.Rows) == 0 {
		b.WriteString("\n(no tasks, add one with /add <name> <duration>)")
		return b.String()
	}
	for _, row := range data.Rows {
		cursor := " "
		if row.Selected {
			cursor = ">"
		}
		marker := " "
		if row.Current {
			marker = "*"
		}
		check := "[x]"
		if !row.Enabled {
			check = "[ ]"
		}
		line := fmt.Sprintf("%s%s %s %2d. %s  %s  %s  %s",
			cursor, marker, check, row.Number, row.Name, row.Duration, row.Clock, row.Progress)
		switch {
		case !row.Enabled:
			line = disabledStyle.Render(line)
		case row.Current:
			line = currentStyle.Render(line)
		}
		b.WriteString("\n" + line)
	}
	return b.String()
}

func RenderTimerPanel(data TimerPanelData) string {
	var b strings.Builder
	b.WriteString("timer:\n")
	b.WriteString(fmt.Sprintf("state: %s\n", strings.ToUpper(data.State)))
	b.WriteString(data.Summary + "\n")
	if data.Clock != "" {
		b.WriteString(fmt.Sprintf("remaining: %s\n", data.Clock))
		b.WriteString(fmt.Sprintf("progress: %s %s\n", data.ProgressView, data.ProgressText))
	}
	b.WriteString(data.Estimate + "\n")
	b.WriteString("actions: [space]start/pause [s]skip [c]complete [r]restart\n")

	b.WriteString("\nnotifications:\n")
	b.WriteString(fmt.Sprintf("beep: %s | speech: %s\n", onOff(data.Beep), onOff(data.Speech)))
	voice := data.Voice
	if voice == "" {
		voice = "(default)"
	}
	b.WriteString(fmt.Sprintf("voice: %s\n", voice))
	b.WriteString(fmt.Sprintf("mode: %s\n", data.Mode))
	b.WriteString(fmt.Sprintf("message: %s", data.Message))
	return b.String()
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: %s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s\n%s\n\n%s",
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
		data.Commands,
	)
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
