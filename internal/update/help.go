package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/plannerd/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding { return k.short }
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
	for _, kb := range m.paneBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		Bindings: plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Day, Action: "day view"},
		{Key: m.Keys.Week, Action: "week view"},
		{Key: m.Keys.Month, Action: "month view"},
		{Key: "[/]", Action: "previous/next period"},
		{Key: "t", Action: "today"},
		{Key: "tab", Action: "switch sidebar/grid"},
		{Key: "s", Action: "toggle sidebar sort"},
		{Key: "/", Action: "open command palette"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) paneBindings() []KeyBinding {
	if m.Pane == PaneSidebar {
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "enter", Action: "pick up task for the grid"},
			{Key: "mouse", Action: "drag a task onto the grid"},
		}
	}
	return []KeyBinding{
		{Key: "h/j/k/l", Action: "move cursor"},
		{Key: "enter", Action: "drop / edit event"},
		{Key: "m", Action: "move event"},
		{Key: "+/-", Action: "resize event by one row"},
		{Key: "x", Action: "delete event"},
		{Key: "L", Action: "link event to a new task"},
		{Key: "esc", Action: "cancel gesture"},
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.paneBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.paneBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
