package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type SidebarItem struct {
	Title    string
	Source   string
	Category string
	Overdue  bool
	Urgent   bool
	Selected bool
}

type SidebarData struct {
	Heading string
	Items   []SidebarItem
	Width   int
	Height  int
	Focused bool
}

var (
	overdueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	urgentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	selectedStyle = lipgloss.NewStyle().Reverse(true)
)

// RenderSidebar draws one item per line below the heading. Lines are padded
// to Width so the grid to the right stays aligned.
func RenderSidebar(d SidebarData) string {
	lines := make([]string, 0, d.Height+1)
	heading := d.Heading
	if d.Focused {
		heading = "> " + heading
	}
	lines = append(lines, dayLabelStyle.Render(fit(heading, d.Width)))
	if len(d.Items) == 0 {
		lines = append(lines, fit("  (nothing open)", d.Width))
	}
	for i, it := range d.Items {
		if i >= d.Height {
			break
		}
		badge := " "
		style := lipgloss.NewStyle()
		switch {
		case it.Overdue:
			badge = "!"
			style = overdueStyle
		case it.Urgent:
			badge = "*"
			style = urgentStyle
		}
		text := fit(fmt.Sprintf("%s %s [%s]", badge, it.Title, it.Source), d.Width)
		if it.Selected && d.Focused {
			style = selectedStyle
		}
		lines = append(lines, style.Render(text))
	}
	return strings.Join(lines, "\n")
}

type EventDetailData struct {
	Title    string
	When     string
	Category string
	Color    string
	Source   string
	Preview  string
}

func RenderEventDetail(d EventDetailData) string {
	var b strings.Builder
	swatch := lipgloss.NewStyle().Background(lipgloss.Color(d.Color)).Render("  ")
	b.WriteString(fmt.Sprintf("%s %s\n", swatch, d.Title))
	b.WriteString(fmt.Sprintf("when: %s\n", d.When))
	b.WriteString(fmt.Sprintf("category: %s\n", d.Category))
	b.WriteString(fmt.Sprintf("source: %s", d.Source))
	if strings.TrimSpace(d.Preview) != "" {
		b.WriteString("\n\n" + d.Preview)
	}
	return b.String()
}

type DialogData struct {
	Heading string
	When    string
	Fields  []string
	Error   string
}

func RenderDialog(d DialogData) string {
	var b strings.Builder
	b.WriteString(d.Heading + "\n")
	b.WriteString("when: " + d.When + "\n")
	for _, f := range d.Fields {
		b.WriteString(f + "\n")
	}
	if d.Error != "" {
		b.WriteString(errorStyle.Render("error: "+d.Error) + "\n")
	}
	b.WriteString("keys: [tab] field [enter] save [esc] cancel")
	return b.String()
}

func RenderLinkPrompt(title string) string {
	return fmt.Sprintf("create a task for %q?\n[w] work task [p] personal task [n] no", title)
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: %s", input)
}

type HelpPanelData struct {
	Bindings []string
	HelpView string
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s\n%s", strings.Join(data.Bindings, "\n"), data.HelpView)
}

func RenderAlerts(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return "alerts:\n" + strings.Join(lines, "\n")
}
