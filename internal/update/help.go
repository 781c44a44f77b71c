package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/yallatask/yalla/internal/model"
	"github.com/yallatask/yalla/internal/views"
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

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: viewLabel(m.Mode),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Today, Action: "today"},
		{Key: m.Keys.Tomorrow, Action: "tomorrow"},
		{Key: m.Keys.All, Action: "all tasks"},
		{Key: m.Keys.Tools, Action: "tools"},
		{Key: "/", Action: "command palette"},
		{Key: m.Keys.Help, Action: "toggle help"},
		{Key: m.Keys.Quit, Action: "quit"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	var out []KeyBinding
	switch m.Mode {
	case model.ViewToday, model.ViewTomorrow:
		out = []KeyBinding{
			{Key: m.Keys.Add, Action: "add a task"},
			{Key: "j/k", Action: "move selection"},
			{Key: "space/x", Action: "mark done / undo"},
			{Key: "d", Action: "delete task"},
			{Key: m.Keys.Advise, Action: "analyze my day"},
			{Key: m.Keys.Copy, Action: "copy advice"},
		}
	case model.ViewAll:
		out = []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "space/x", Action: "mark done / undo"},
			{Key: "d", Action: "delete task"},
			{Key: m.Keys.Advise, Action: "analyze all tasks"},
		}
	case model.ViewTools:
		out = []KeyBinding{
			{Key: "s", Action: "summarize a file aloud"},
			{Key: "i", Action: "infographic from a file"},
			{Key: m.Keys.Copy, Action: "copy summary"},
			{Key: "pgup/pgdown", Action: "scroll infographic"},
		}
	}
	if m.InstallVisible {
		out = append(out, KeyBinding{Key: "I/N", Action: "install / dismiss"})
	}
	return out
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.viewBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.viewBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
