package export

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/sandeepkv93/plannerd/internal/model"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

var cellEscaper = strings.NewReplacer(
	`|`, `\|`,
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
)

// DocumentMarkdown renders the events as a markdown table, one row per
// event in start order.
func DocumentMarkdown(title string, events []model.CalendarEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", cellEscaper.Replace(title))
	if len(events) == 0 {
		b.WriteString("No events.\n")
		return b.String()
	}
	b.WriteString("| Time | Title | Category | Description |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for _, ev := range sortedByStart(events) {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			timeRange(ev),
			cell(ev.Title),
			cell(ev.Category),
			cell(ev.Description),
		)
	}
	return b.String()
}

// WriteDocument writes a self-contained HTML document wrapping the table.
func WriteDocument(w io.Writer, title string, events []model.CalendarEvent) error {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(DocumentMarkdown(title, events)), &body); err != nil {
		return fmt.Errorf("export: render document: %w", err)
	}
	_, err := fmt.Fprintf(w, "<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n%s</body>\n</html>\n",
		html.EscapeString(title), body.String())
	return err
}

func Document(title string, events []model.CalendarEvent) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteDocument(&buf, title, events); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func timeRange(ev model.CalendarEvent) string {
	if model.SameDay(ev.StartTime, ev.EndTime) {
		return ev.StartTime.Format("Mon 2006-01-02 15:04") + " - " + ev.EndTime.Format("15:04")
	}
	return ev.StartTime.Format("Mon 2006-01-02 15:04") + " - " + ev.EndTime.Format("Mon 2006-01-02 15:04")
}

func cell(s string) string {
	s = strings.TrimSpace(cellEscaper.Replace(s))
	if s == "" {
		return " "
	}
	return s
}
