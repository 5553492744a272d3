package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sandeepkv93/plannerd/internal/model"
)

// WriteICSFile writes the events to dir/schedule-<range>.ics and returns the
// path written.
func WriteICSFile(dir, rangeLabel string, events []model.CalendarEvent, stamp time.Time) (string, error) {
	return writeFile(dir, ICSFilename(rangeLabel), ICS(events, stamp))
}

// WriteDocumentFile writes the events to dir/<label>-<range>.doc.
func WriteDocumentFile(dir, label, rangeLabel string, events []model.CalendarEvent) (string, error) {
	if label == "" {
		label = DefaultDocumentLabel
	}
	body, err := Document(label+" "+rangeLabel, events)
	if err != nil {
		return "", err
	}
	return writeFile(dir, DocumentFilename(label, rangeLabel), body)
}

func writeFile(dir, name string, body []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export: create %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("export: write %s: %w", path, err)
	}
	return path, nil
}
