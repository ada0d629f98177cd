package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/timetally/internal/commands"
	"github.com/sandeepkv93/timetally/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.keyBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	vp := m.helpViewport
	vp.SetContent(views.RenderMarkdown(commandsMarkdown()))
	return views.RenderHelpPanel(views.HelpPanelData{
		Bindings: plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
		Commands: vp.View(),
	})
}

func commandsMarkdown() string {
	var b strings.Builder
	b.WriteString("## Commands\n\n")
	for _, usage := range commands.Usage {
		b.WriteString("- `" + usage + "`\n")
	}
	return b.String()
}

func (m Model) keyBindings() []KeyBinding {
	return []KeyBinding{
		{Key: "space", Action: "start/pause timer"},
		{Key: m.Keys.Skip, Action: "skip current task"},
		{Key: m.Keys.Complete, Action: "complete current task early"},
		{Key: m.Keys.Restart, Action: "restart list"},
		{Key: "tab/shift+tab", Action: "next/previous list"},
		{Key: "j/k", Action: "move selection"},
		{Key: m.Keys.Toggle, Action: "enable/disable selected task"},
		{Key: "J/K", Action: "move selected task down/up"},
		{Key: m.Keys.Remove, Action: "remove selected task"},
		{Key: "/", Action: "open command palette"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) helpBindings() []key.Binding {
	kbs := m.keyBindings()
	out := make([]key.Binding, 0, len(kbs))
	for _, kb := range kbs {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
