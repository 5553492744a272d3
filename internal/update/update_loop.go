package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/plannerd/internal/model"
	"github.com/sandeepkv93/plannerd/internal/scheduler"
	"github.com/sandeepkv93/plannerd/internal/state"
)

const maxAlertLog = 5

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadItemsCmd(), m.refreshCmd(), m.loadSpinner.Tick}
	if m.engine != nil {
		cmds = append(cmds, waitForAlertCmd(m.engine.C()))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = typed.Width, typed.Height
		m.ensureCursorVisible()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(typed)
	case tea.MouseMsg:
		return m.handleMouse(typed)
	case spinner.TickMsg:
		if m.Loading {
			var cmd tea.Cmd
			m.loadSpinner, cmd = m.loadSpinner.Update(typed)
			return m, cmd
		}
		return m, nil
	case ItemsLoadedMsg:
		if typed.Err != nil {
			m.fail(typed.Err)
			return m, nil
		}
		m.applyInputs(typed)
		return m, nil
	case EventsLoadedMsg:
		m.Loading = false
		if typed.Err != nil {
			m.fail(typed.Err)
			return m, nil
		}
		m.setSnapshot(typed.Snapshot)
		return m, nil
	case EventSavedMsg:
		if typed.Err != nil {
			if m.Dialog.Active {
				m.Dialog.Err = typed.Err.Error()
			}
			m.fail(typed.Err)
			return m, nil
		}
		m.Dialog = DialogState{}
		m.setSnapshot(typed.Snapshot)
		m.SelectedEventID = typed.Result.Event.ID
		m.syncPreview()
		verb := "updated"
		if typed.Result.Created {
			verb = "created"
		}
		m.Status = StatusBar{Text: fmt.Sprintf("event %s: %s", verb, typed.Result.Event.Title)}
		if typed.Result.OfferLink {
			m.LinkPrompt = LinkPromptState{Active: true, EventID: typed.Result.Event.ID, Title: typed.Result.Event.Title}
		}
		return m, nil
	case EventDeletedMsg:
		if typed.Err != nil {
			m.fail(typed.Err)
			return m, nil
		}
		m.setSnapshot(typed.Snapshot)
		m.Status = StatusBar{Text: "event deleted"}
		return m, nil
	case EventLinkedMsg:
		if typed.Err != nil {
			m.fail(typed.Err)
			return m, nil
		}
		m.setSnapshot(typed.Snapshot)
		m.Status = StatusBar{Text: fmt.Sprintf("linked to new %s task: %s", typed.Source, typed.Task.Title)}
		return m, m.loadItemsCmd()
	case ExportedMsg:
		if typed.Err != nil {
			m.fail(typed.Err)
			return m, nil
		}
		m.Status = StatusBar{Text: "exported " + typed.Path}
		return m, nil
	case AlertDueMsg:
		m.Alerts = append(m.Alerts, typed.Alert)
		if len(m.Alerts) > maxAlertLog {
			m.Alerts = m.Alerts[len(m.Alerts)-maxAlertLog:]
		}
		m.Status = StatusBar{Text: fmt.Sprintf("starting soon: %s at %s", typed.Alert.Title, typed.Alert.StartsAt.Format("15:04"))}
		if m.engine != nil {
			return m, waitForAlertCmd(m.engine.C())
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.fail(typed.Err)
		return m, nil
	}
	return m, nil
}

func (m *Model) fail(err error) {
	m.LastError = err
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.log.Warn("planner action failed", "err", err)
	}
}

func (m *Model) applyInputs(msg ItemsLoadedMsg) {
	in := msg.Inputs
	m.projector.SetToday(in.Today)
	m.projector.SetWork(in.Work)
	m.projector.SetPersonal(in.Personal)
	m.projector.SetProjects(in.Projects, in.ProjectTasks)
	m.projector.SetRecurring(in.Recurring)
	m.Items = m.projector.Items()
	if m.SidebarCursor >= len(m.Items) {
		m.SidebarCursor = max(0, len(m.Items)-1)
	}
}

// setSnapshot replaces the visible events and everything derived from them.
func (m *Model) setSnapshot(s state.Snapshot) {
	m.Snapshot = s
	if _, ok := s.Find(m.SelectedEventID); !ok {
		m.SelectedEventID = ""
	}
	m.syncPreview()
	m.scheduleAlerts()
}

func (m *Model) scheduleAlerts() {
	if m.engine == nil {
		return
	}
	if err := m.engine.Replace(scheduler.AlertsFor(m.Snapshot.Events, m.alertLead, m.now())); err != nil {
		m.log.Warn("alerts not scheduled", "err", err)
	}
}

func (m *Model) syncPreview() {
	ev, ok := m.Snapshot.Find(m.SelectedEventID)
	if !ok || strings.TrimSpace(ev.Description) == "" {
		m.preview.SetContent("")
		return
	}
	m.preview.SetContent(renderDescription(ev))
}

func (m Model) selectedEvent() (model.CalendarEvent, bool) {
	return m.Snapshot.Find(m.SelectedEventID)
}

func waitForAlertCmd(ch <-chan scheduler.Alert) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		a, ok := <-ch
		if !ok {
			return nil
		}
		return AlertDueMsg{Alert: a}
	}
}
