package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sandeepkv93/plannerd/internal/materialize"
	"github.com/sandeepkv93/plannerd/internal/model"
	"github.com/sandeepkv93/plannerd/internal/storage"
)

var fixedNow = time.Date(2026, 2, 11, 8, 0, 0, 0, time.UTC)

func setupServer(t *testing.T) (*httptest.Server, *storage.SQLiteRepository) {
	t.Helper()
	repo, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	if err := storage.MigrateUp(repo.DB()); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	n := 0
	planner, err := materialize.New(repo, materialize.Options{
		OwnerID:  "alice",
		Location: time.UTC,
		Logger:   logger,
		Now:      func() time.Time { return fixedNow },
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	})
	if err != nil {
		t.Fatalf("new materializer: %v", err)
	}
	s := New(Options{
		Planner:     planner,
		WeekStart:   time.Monday,
		ExportLabel: "schedule",
		Logger:      logger,
		Now:         func() time.Time { return fixedNow },
	})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, repo
}

func postJSON(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	res, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	defer res.Body.Close()
	var out map[string]any
	_ = json.NewDecoder(res.Body).Decode(&out)
	return res, out
}

func TestHealthAndMethods(t *testing.T) {
	ts, _ := setupServer(t)

	res, err := http.Get(ts.URL + "/healthz")
	if err != nil || res.StatusCode != http.StatusOK {
		t.Fatalf("health status %v err=%v", res, err)
	}

	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/v1/events", nil)
	res, _ = http.DefaultClient.Do(req)
	if res.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", res.StatusCode)
	}

	res, _ = http.Get(ts.URL + "/v1/events/create")
	if res.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", res.StatusCode)
	}
}

func TestItemsAggregatesCollections(t *testing.T) {
	ts, repo := setupServer(t)
	ctx := context.Background()

	past := fixedNow.AddDate(0, 0, -2)
	if err := repo.CreateTask(ctx, "alice", model.SourceWork, model.Task{ID: "w1", Title: "late", Status: model.TaskStatusTodo, PlannedEnd: &past, CreatedAt: fixedNow}); err != nil {
		t.Fatalf("create work task: %v", err)
	}
	if err := repo.CreateTask(ctx, "alice", model.SourcePersonal, model.Task{ID: "p1", Title: "groceries", Status: model.TaskStatusTodo, CreatedAt: fixedNow.Add(-time.Hour)}); err != nil {
		t.Fatalf("create personal task: %v", err)
	}

	res, err := http.Get(ts.URL + "/v1/items")
	if err != nil {
		t.Fatalf("get items: %v", err)
	}
	defer res.Body.Close()
	var items []itemDTO
	if err := json.NewDecoder(res.Body).Decode(&items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %+v", items)
	}
	if items[0].Key != "work-w1" || !items[0].Overdue {
		t.Fatalf("overdue work item should sort first: %+v", items)
	}

	res, _ = http.Get(ts.URL + "/v1/items?today=bad")
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", res.StatusCode)
	}
}

func TestEventLifecycle(t *testing.T) {
	ts, _ := setupServer(t)

	res, out := postJSON(t, ts.URL+"/v1/events/create", `{"event":{"title":"Standup","start":"2026-02-11T09:00:00Z","end":"2026-02-11T09:30:00Z"}}`)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("create status %d: %v", res.StatusCode, out)
	}
	if out["offer_link"] != true {
		t.Fatalf("custom event should offer link: %v", out)
	}
	ev := out["event"].(map[string]any)
	if ev["id"] != "id-1" || ev["category"] != "other" {
		t.Fatalf("unexpected event: %v", ev)
	}

	res, out = postJSON(t, ts.URL+"/v1/events/create", `{"event":{"title":"Too short","start":"2026-02-11T09:00:00Z","end":"2026-02-11T09:10:00Z"}}`)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for short event, got %d: %v", res.StatusCode, out)
	}

	res, out = postJSON(t, ts.URL+"/v1/events/update", `{"event_id":"id-1","event":{"title":"Standup","category":"meeting","start":"2026-02-11T10:00:00Z","end":"2026-02-11T10:45:00Z"}}`)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("update status %d: %v", res.StatusCode, out)
	}

	res, out = postJSON(t, ts.URL+"/v1/events/link", `{"event_id":"id-1","source":"personal"}`)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("link status %d: %v", res.StatusCode, out)
	}
	if out["task_id"] != "id-2" {
		t.Fatalf("unexpected link response: %v", out)
	}
	res, _ = postJSON(t, ts.URL+"/v1/events/link", `{"event_id":"id-1","source":"personal"}`)
	if res.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 relinking, got %d", res.StatusCode)
	}

	getRes, err := http.Get(ts.URL + "/v1/events?view=day&date=2026-02-11")
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	var events []eventDTO
	if err := json.NewDecoder(getRes.Body).Decode(&events); err != nil {
		t.Fatalf("decode: %v", err)
	}
	getRes.Body.Close()
	if len(events) != 1 || events[0].SourceType != "personal_task" || events[0].Start.Hour() != 10 {
		t.Fatalf("unexpected events: %+v", events)
	}

	res, _ = postJSON(t, ts.URL+"/v1/events/delete", `{"event_id":"id-1"}`)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("delete status %d", res.StatusCode)
	}
	res, _ = postJSON(t, ts.URL+"/v1/events/delete", `{"event_id":"id-1"}`)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 deleting twice, got %d", res.StatusCode)
	}
	res, _ = postJSON(t, ts.URL+"/v1/events/delete", `{`)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid json, got %d", res.StatusCode)
	}
}

func TestExportEndpoints(t *testing.T) {
	ts, _ := setupServer(t)
	postJSON(t, ts.URL+"/v1/events/create", `{"event":{"title":"Review","start":"2026-02-10T14:00:00Z","end":"2026-02-10T15:00:00Z"}}`)

	res, err := http.Get(ts.URL + "/v1/export.ics?view=week&date=2026-02-11")
	if err != nil {
		t.Fatalf("export ics: %v", err)
	}
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()
	if got := res.Header.Get("Content-Disposition"); got != `attachment; filename="schedule-2026-W07.ics"` {
		t.Fatalf("unexpected disposition: %q", got)
	}
	if !strings.Contains(string(body), "SUMMARY:Review\r\n") {
		t.Fatalf("missing event in ics: %s", body)
	}

	res, err = http.Get(ts.URL + "/v1/export.doc?view=month&date=2026-02-11")
	if err != nil {
		t.Fatalf("export doc: %v", err)
	}
	body, _ = io.ReadAll(res.Body)
	res.Body.Close()
	if got := res.Header.Get("Content-Disposition"); got != `attachment; filename="schedule-2026-02.doc"` {
		t.Fatalf("unexpected disposition: %q", got)
	}
	if !strings.Contains(string(body), "<td>Review</td>") {
		t.Fatalf("missing event in document: %s", body)
	}

	res, _ = http.Get(ts.URL + "/v1/export.ics?view=year")
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad view, got %d", res.StatusCode)
	}
}

func TestServeValidation(t *testing.T) {
	s := New(Options{})
	if err := s.ServeTCP(context.Background(), ""); err == nil {
		t.Fatal("expected bind error")
	}

	r := httptest.NewRecorder()
	writeErr(r, http.StatusTeapot, "x")
	var m map[string]string
	_ = json.Unmarshal(r.Body.Bytes(), &m)
	if r.Code != http.StatusTeapot || m["error"] != "x" {
		t.Fatalf("unexpected error payload: %d %v", r.Code, m)
	}
}
