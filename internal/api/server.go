// Package api exposes the planner over a small JSON HTTP interface.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/sandeepkv93/plannerd/internal/aggregate"
	"github.com/sandeepkv93/plannerd/internal/export"
	"github.com/sandeepkv93/plannerd/internal/grid"
	"github.com/sandeepkv93/plannerd/internal/materialize"
	"github.com/sandeepkv93/plannerd/internal/model"
	"github.com/sandeepkv93/plannerd/internal/storage"
)

type Server struct {
	planner     *materialize.Materializer
	weekStart   time.Weekday
	exportLabel string
	now         func() time.Time
	log         *slog.Logger
	httpSrv     *http.Server
}

type Options struct {
	Planner     *materialize.Materializer
	WeekStart   time.Weekday
	ExportLabel string
	Logger      *slog.Logger
	Now         func() time.Time
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	s := &Server{
		planner:     opts.Planner,
		weekStart:   opts.WeekStart,
		exportLabel: opts.ExportLabel,
		now:         now,
		log:         logger,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/items", s.handleItems)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/events/create", s.handleCreateEvent)
	mux.HandleFunc("/v1/events/update", s.handleUpdateEvent)
	mux.HandleFunc("/v1/events/delete", s.handleDeleteEvent)
	mux.HandleFunc("/v1/events/link", s.handleLinkEvent)
	mux.HandleFunc("/v1/orphans", s.handleOrphans)
	mux.HandleFunc("/v1/export.ics", s.handleExportICS)
	mux.HandleFunc("/v1/export.doc", s.handleExportDoc)
	s.httpSrv = &http.Server{Handler: s.logRequests(mux), ReadHeaderTimeout: 5 * time.Second}
	return s
}

func (s *Server) Handler() http.Handler { return s.httpSrv.Handler }

func (s *Server) ServeTCP(ctx context.Context, bind string) error {
	if bind == "" {
		return errors.New("api: bind required")
	}
	ln, err := net.Listen("tcp", bind)
	if err != nil {
		return err
	}
	s.log.Info("api listening", "addr", ln.Addr().String())
	go s.shutdownOnContext(ctx)
	if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) shutdownOnContext(ctx context.Context) {
	<-ctx.Done()
	timeout, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = s.httpSrv.Shutdown(timeout)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request", "method", r.Method, "path", r.URL.Path, "elapsed", time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "owner": s.planner.OwnerID()})
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	mode := aggregate.SortPolicy
	if r.URL.Query().Get("sort") == "created" {
		mode = aggregate.SortCreatedDesc
	}
	today := s.now().In(s.planner.Location())
	if raw := r.URL.Query().Get("today"); raw != "" {
		d, err := time.ParseInLocation("2006-01-02", raw, s.planner.Location())
		if err != nil {
			writeErr(w, http.StatusBadRequest, "invalid today")
			return
		}
		today = d
	}
	in, err := s.planner.LoadInputs(r.Context(), today)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	items := aggregate.Build(in, mode)
	out := make([]itemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, itemFromModel(it))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	from, to, _, err := s.rangeFromQuery(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	items, err := s.planner.Events(r.Context(), from, to)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, eventsFromModel(items))
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	s.handleMutation(w, r, func(ctx context.Context, payload mutationRequest) (any, error) {
		d := payload.Event.draft()
		d.ID = ""
		res, err := s.planner.Save(ctx, d)
		if err != nil {
			return nil, err
		}
		return saveResponse{Event: eventFromModel(res.Event), Created: true, OfferLink: res.OfferLink}, nil
	})
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	s.handleMutation(w, r, func(ctx context.Context, payload mutationRequest) (any, error) {
		if payload.EventID == "" {
			return nil, errMissingEventID
		}
		d := payload.Event.draft()
		d.ID = payload.EventID
		res, err := s.planner.Save(ctx, d)
		if err != nil {
			return nil, err
		}
		return saveResponse{Event: eventFromModel(res.Event)}, nil
	})
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	s.handleMutation(w, r, func(ctx context.Context, payload mutationRequest) (any, error) {
		if payload.EventID == "" {
			return nil, errMissingEventID
		}
		return map[string]string{"event_id": payload.EventID}, s.planner.Delete(ctx, payload.EventID)
	})
}

func (s *Server) handleLinkEvent(w http.ResponseWriter, r *http.Request) {
	s.handleMutation(w, r, func(ctx context.Context, payload mutationRequest) (any, error) {
		if payload.EventID == "" {
			return nil, errMissingEventID
		}
		task, ev, err := s.planner.LinkToNewTask(ctx, payload.EventID, model.Source(payload.Source))
		if err != nil {
			return nil, err
		}
		return linkResponse{TaskID: task.ID, Source: payload.Source, Event: eventFromModel(ev)}, nil
	})
}

func (s *Server) handleOrphans(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	items, err := s.planner.Orphans(r.Context())
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, eventsFromModel(items))
}

func (s *Server) handleExportICS(w http.ResponseWriter, r *http.Request) {
	s.handleExport(w, r, "text/calendar; charset=utf-8", func(events []model.CalendarEvent, label string) (string, []byte, error) {
		return export.ICSFilename(label), export.ICS(events, s.now().UTC()), nil
	})
}

func (s *Server) handleExportDoc(w http.ResponseWriter, r *http.Request) {
	s.handleExport(w, r, "application/msword; charset=utf-8", func(events []model.CalendarEvent, label string) (string, []byte, error) {
		body, err := export.Document(s.exportLabel+" "+label, events)
		return export.DocumentFilename(s.exportLabel, label), body, err
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request, contentType string, render func([]model.CalendarEvent, string) (string, []byte, error)) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	from, to, label, err := s.rangeFromQuery(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	events, err := s.planner.Events(r.Context(), from, to)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	name, body, err := render(events, label)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// rangeFromQuery reads either an explicit from/to pair (RFC3339) or a
// view/date pair, defaulting to the current week.
func (s *Server) rangeFromQuery(r *http.Request) (time.Time, time.Time, string, error) {
	q := r.URL.Query()
	loc := s.planner.Location()
	if q.Get("from") != "" || q.Get("to") != "" {
		from, err := time.Parse(time.RFC3339, q.Get("from"))
		if err != nil {
			return time.Time{}, time.Time{}, "", errors.New("invalid from")
		}
		to, err := time.Parse(time.RFC3339, q.Get("to"))
		if err != nil {
			return time.Time{}, time.Time{}, "", errors.New("invalid to")
		}
		if !to.After(from) {
			return time.Time{}, time.Time{}, "", errors.New("to must be after from")
		}
		from, to = from.In(loc), to.In(loc)
		label := from.Format("2006-01-02") + "_" + to.Add(-time.Nanosecond).Format("2006-01-02")
		return from, to, label, nil
	}
	mode, err := grid.ParseViewMode(q.Get("view"))
	if err != nil {
		return time.Time{}, time.Time{}, "", err
	}
	focus := s.now().In(loc)
	if raw := q.Get("date"); raw != "" {
		focus, err = time.ParseInLocation("2006-01-02", raw, loc)
		if err != nil {
			return time.Time{}, time.Time{}, "", errors.New("invalid date")
		}
	}
	from, to := grid.ViewRange(mode, focus, s.weekStart)
	return from, to, grid.RangeLabel(mode, focus, s.weekStart), nil
}

var errMissingEventID = errors.New("event_id is required")

type mutationRequest struct {
	EventID string   `json:"event_id"`
	Source  string   `json:"source"`
	Event   eventDTO `json:"event"`
}

func (s *Server) handleMutation(w http.ResponseWriter, r *http.Request, run func(context.Context, mutationRequest) (any, error)) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var payload mutationRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	out, err := run(r.Context(), payload)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errMissingEventID), errors.Is(err, model.ErrValidation), errors.Is(err, materialize.ErrInvalidLink):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
	case errors.Is(err, materialize.ErrAlreadyLinked):
		writeErr(w, http.StatusConflict, err.Error())
	default:
		s.log.Error("request failed", "err", err)
		writeErr(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
