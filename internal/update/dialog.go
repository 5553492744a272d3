package update

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/plannerd/internal/materialize"
	"github.com/sandeepkv93/plannerd/internal/model"
	"github.com/sandeepkv93/plannerd/internal/views"
)

const (
	fieldTitle = iota
	fieldDescription
	fieldCategory
	fieldCount
)

// DialogState is the create/edit form. It stays open until a save succeeds.
type DialogState struct {
	Active  bool
	Heading string
	Draft   materialize.EventDraft
	Field   int
	Err     string
	inputs  []textinput.Model
}

func (m Model) openDialog(heading string, d materialize.EventDraft) (tea.Model, tea.Cmd) {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		in := textinput.New()
		in.CharLimit = 256
		in.Width = 48
		inputs[i] = in
	}
	inputs[fieldTitle].Prompt = "title: "
	inputs[fieldTitle].Placeholder = "what is happening"
	inputs[fieldTitle].SetValue(d.Title)
	inputs[fieldDescription].Prompt = "notes: "
	inputs[fieldDescription].Placeholder = "markdown description"
	inputs[fieldDescription].SetValue(d.Description)
	inputs[fieldCategory].Prompt = "category: "
	inputs[fieldCategory].Placeholder = string(model.CategoryOther)
	inputs[fieldCategory].SetValue(d.Category)
	cmd := inputs[fieldTitle].Focus()

	m.Dialog = DialogState{Active: true, Heading: heading, Draft: d, inputs: inputs}
	m.Status = StatusBar{Text: heading}
	return m, cmd
}

func (m Model) openEventDialog(ev model.CalendarEvent) (tea.Model, tea.Cmd) {
	m.SelectedEventID = ev.ID
	return m.openDialog("edit event", materialize.DraftFromEvent(ev))
}

func (m Model) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Dialog = DialogState{}
		m.Status = StatusBar{Text: "edit cancelled"}
		return m, nil
	case "tab", "shift+tab":
		dir := 1
		if msg.String() == "shift+tab" {
			dir = fieldCount - 1
		}
		m.Dialog.inputs[m.Dialog.Field].Blur()
		m.Dialog.Field = (m.Dialog.Field + dir) % fieldCount
		return m, m.Dialog.inputs[m.Dialog.Field].Focus()
	case "enter":
		d := m.Dialog.Draft
		d.Title = strings.TrimSpace(m.Dialog.inputs[fieldTitle].Value())
		d.Description = m.Dialog.inputs[fieldDescription].Value()
		d.Category = strings.ToLower(strings.TrimSpace(m.Dialog.inputs[fieldCategory].Value()))
		m.Dialog.Draft = d
		m.Dialog.Err = ""
		m.Status = StatusBar{Text: "saving..."}
		return m, m.saveCmd(d)
	}

	field := &m.Dialog.inputs[m.Dialog.Field]
	if msg.Type == tea.KeyRunes {
		field.SetValue(field.Value() + string(msg.Runes))
		return m, nil
	}
	var cmd tea.Cmd
	*field, cmd = field.Update(msg)
	return m, cmd
}

func (m Model) renderDialog() string {
	fields := make([]string, 0, len(m.Dialog.inputs))
	for _, in := range m.Dialog.inputs {
		fields = append(fields, in.View())
	}
	return views.RenderDialog(views.DialogData{
		Heading: m.Dialog.Heading,
		When:    formatSpan(m.Dialog.Draft.Start, m.Dialog.Draft.End),
		Fields:  fields,
		Error:   m.Dialog.Err,
	})
}

func (m Model) handleLinkPromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.LinkPrompt.EventID
	switch msg.String() {
	case "w":
		m.LinkPrompt = LinkPromptState{}
		return m, m.linkCmd(id, model.SourceWork)
	case "p":
		m.LinkPrompt = LinkPromptState{}
		return m, m.linkCmd(id, model.SourcePersonal)
	case "n", "esc":
		m.LinkPrompt = LinkPromptState{}
		m.Status = StatusBar{Text: "kept as a standalone event"}
	}
	return m, nil
}
