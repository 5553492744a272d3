package update

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/plannerd/internal/aggregate"
	"github.com/sandeepkv93/plannerd/internal/commands"
	"github.com/sandeepkv93/plannerd/internal/grid"
	"github.com/sandeepkv93/plannerd/internal/model"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
		return m, cmd
	}
	return m, nil
}

func (m Model) executePaletteCommand() (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var next tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		View: func(a commands.ViewArgs) (commands.Result, error) {
			mode, err := grid.ParseViewMode(a.Mode)
			if err != nil {
				return commands.Result{}, err
			}
			updated, c := m.setView(mode)
			m, next = updated.(Model), c
			return commands.Result{Message: fmt.Sprintf("view: %s", mode)}, nil
		},
		Goto: func(a commands.GotoArgs) (commands.Result, error) {
			day := a.Date
			loc := m.location()
			updated, c := m.gotoDate(time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc))
			m, next = updated.(Model), c
			return commands.Result{Message: "showing " + m.Focus.Format("2006-01-02")}, nil
		},
		Step: func(dir int) (commands.Result, error) {
			updated, c := m.step(dir)
			m, next = updated.(Model), c
			return commands.Result{Message: grid.RangeLabel(m.ViewMode, m.Focus, m.weekStart)}, nil
		},
		Today: func() (commands.Result, error) {
			updated, c := m.gotoDate(m.now())
			m, next = updated.(Model), c
			return commands.Result{Message: "showing today"}, nil
		},
		Export: func(a commands.ExportArgs) (commands.Result, error) {
			next = m.exportCmd(a.Format, a.Dir)
			return commands.Result{Message: fmt.Sprintf("exporting %s...", a.Format)}, nil
		},
		Delete: func() (commands.Result, error) {
			ev, ok := m.selectedEvent()
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no event selected"}
			}
			next = m.deleteCmd(ev.ID)
			return commands.Result{Message: "deleting " + ev.Title}, nil
		},
		Link: func(a commands.LinkArgs) (commands.Result, error) {
			ev, ok := m.selectedEvent()
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no event selected"}
			}
			next = m.linkCmd(ev.ID, model.Source(a.Source))
			return commands.Result{Message: fmt.Sprintf("linking %s to a %s task", ev.Title, a.Source)}, nil
		},
		Sort: func(a commands.SortArgs) (commands.Result, error) {
			mode := aggregate.SortPolicy
			if a.Mode == "created" {
				mode = aggregate.SortCreatedDesc
			}
			m.projector.SetSortMode(mode)
			m.Items = m.projector.Items()
			return commands.Result{Message: fmt.Sprintf("sort: %s", mode)}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message}
	return m, next
}
