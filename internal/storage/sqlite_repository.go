package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sandeepkv93/plannerd/internal/model"
)

const (
	sqliteTimeLayout = time.RFC3339Nano
	// eventTimeLayout is fixed-width so range predicates can compare text.
	eventTimeLayout = "2006-01-02T15:04:05Z"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) DB() *sql.DB {
	return r.db
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

const eventColumns = `id, owner_id, title, description, category, start_time, end_time, source_type, source_id, created_at, updated_at`

func (r *SQLiteRepository) CreateEvent(ctx context.Context, in model.CalendarEvent) error {
	if strings.TrimSpace(in.OwnerID) == "" {
		return ErrOwnerRequired
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO calendar_events (`+eventColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.OwnerID, in.Title, in.Description, in.Category,
		eventTime(in.StartTime), eventTime(in.EndTime), string(in.SourceType), nullString(in.SourceID),
		mustTime(in.CreatedAt), mustTime(in.UpdatedAt),
	)
	return err
}

func (r *SQLiteRepository) GetEvent(ctx context.Context, ownerID, id string) (model.CalendarEvent, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+eventColumns+`
		FROM calendar_events WHERE owner_id = ? AND id = ?`, ownerID, id)
	ev, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.CalendarEvent{}, ErrNotFound
		}
		return model.CalendarEvent{}, err
	}
	return ev, nil
}

func (r *SQLiteRepository) UpdateEvent(ctx context.Context, in model.CalendarEvent) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE calendar_events
		SET title = ?, description = ?, category = ?, start_time = ?, end_time = ?, source_type = ?, source_id = ?, updated_at = ?
		WHERE owner_id = ? AND id = ?`,
		in.Title, in.Description, in.Category, eventTime(in.StartTime), eventTime(in.EndTime),
		string(in.SourceType), nullString(in.SourceID), mustTime(in.UpdatedAt), in.OwnerID, in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteEvent(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM calendar_events WHERE owner_id = ? AND id = ?`, ownerID, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListEvents(ctx context.Context, filter EventListFilter) ([]model.CalendarEvent, error) {
	if strings.TrimSpace(filter.OwnerID) == "" {
		return nil, ErrOwnerRequired
	}
	query := `SELECT ` + eventColumns + ` FROM calendar_events`
	clauses := []string{"owner_id = ?"}
	args := []any{filter.OwnerID}
	if !filter.To.IsZero() {
		clauses = append(clauses, "start_time < ?")
		args = append(args, eventTime(filter.To))
	}
	if !filter.From.IsZero() {
		clauses = append(clauses, "end_time > ?")
		args = append(args, eventTime(filter.From))
	}
	if filter.SourceType != "" {
		clauses = append(clauses, "source_type = ?")
		args = append(args, string(filter.SourceType))
	}
	if filter.SourceID != "" {
		clauses = append(clauses, "source_id = ?")
		args = append(args, filter.SourceID)
	}
	query += " WHERE " + strings.Join(clauses, " AND ")
	query += ` ORDER BY start_time ASC, id ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.CalendarEvent, 0)
	for rows.Next() {
		ev, scanErr := scanEvent(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

const taskColumns = `id, title, status, archived, urgent, category, planned_end, created_at`

func (r *SQLiteRepository) CreateTask(ctx context.Context, ownerID string, source model.Source, in model.Task) error {
	if err := checkTaskScope(ownerID, source); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (owner_id, collection, `+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ownerID, string(source), in.ID, in.Title, string(in.Status), boolInt(in.Archived), boolInt(in.Urgent),
		in.Category, nullTime(in.PlannedEnd), mustTime(in.CreatedAt),
	)
	return err
}

func (r *SQLiteRepository) GetTask(ctx context.Context, ownerID string, source model.Source, id string) (model.Task, error) {
	if err := checkTaskScope(ownerID, source); err != nil {
		return model.Task{}, err
	}
	row := r.db.QueryRowContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks WHERE owner_id = ? AND collection = ? AND id = ?`, ownerID, string(source), id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, err
	}
	return task, nil
}

func (r *SQLiteRepository) UpdateTask(ctx context.Context, ownerID string, source model.Source, in model.Task) error {
	if err := checkTaskScope(ownerID, source); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, status = ?, archived = ?, urgent = ?, category = ?, planned_end = ?
		WHERE owner_id = ? AND collection = ? AND id = ?`,
		in.Title, string(in.Status), boolInt(in.Archived), boolInt(in.Urgent), in.Category, nullTime(in.PlannedEnd),
		ownerID, string(source), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteTask(ctx context.Context, ownerID string, source model.Source, id string) error {
	if err := checkTaskScope(ownerID, source); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE owner_id = ? AND collection = ? AND id = ?`, ownerID, string(source), id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListTasks(ctx context.Context, filter TaskListFilter) ([]model.Task, error) {
	if err := checkTaskScope(filter.OwnerID, filter.Source); err != nil {
		return nil, err
	}
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = ? AND collection = ?`
	args := []any{filter.OwnerID, string(filter.Source)}
	if filter.OpenOnly {
		query += ` AND status <> ? AND archived = 0`
		args = append(args, string(model.TaskStatusDone))
	}
	query += ` ORDER BY created_at ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateProject(ctx context.Context, ownerID string, in model.Project) error {
	if strings.TrimSpace(ownerID) == "" {
		return ErrOwnerRequired
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO projects (id, owner_id, title, created_at)
		VALUES (?, ?, ?, ?)`,
		in.ID, ownerID, in.Title, mustTime(time.Now()),
	)
	return err
}

func (r *SQLiteRepository) DeleteProject(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE owner_id = ? AND id = ?`, ownerID, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListProjects(ctx context.Context, ownerID string) ([]model.Project, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrOwnerRequired
	}
	rows, err := r.db.QueryContext(ctx, `SELECT id, title FROM projects WHERE owner_id = ? ORDER BY title ASC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Project, 0)
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.Title); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

const projectTaskColumns = `id, project_id, title, completed, planned_end, created_at`

func (r *SQLiteRepository) CreateProjectTask(ctx context.Context, ownerID string, in model.ProjectTask) error {
	if strings.TrimSpace(ownerID) == "" {
		return ErrOwnerRequired
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO project_tasks (owner_id, `+projectTaskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ownerID, in.ID, in.ProjectID, in.Title, boolInt(in.Completed), nullTime(in.PlannedEnd), mustTime(in.CreatedAt),
	)
	return err
}

func (r *SQLiteRepository) UpdateProjectTask(ctx context.Context, ownerID string, in model.ProjectTask) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE project_tasks
		SET project_id = ?, title = ?, completed = ?, planned_end = ?
		WHERE owner_id = ? AND id = ?`,
		in.ProjectID, in.Title, boolInt(in.Completed), nullTime(in.PlannedEnd), ownerID, in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteProjectTask(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM project_tasks WHERE owner_id = ? AND id = ?`, ownerID, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListProjectTasks(ctx context.Context, filter ProjectTaskListFilter) ([]model.ProjectTask, error) {
	if strings.TrimSpace(filter.OwnerID) == "" {
		return nil, ErrOwnerRequired
	}
	query := `SELECT ` + projectTaskColumns + ` FROM project_tasks`
	clauses := []string{"owner_id = ?"}
	args := []any{filter.OwnerID}
	if filter.ProjectID != "" {
		clauses = append(clauses, "project_id = ?")
		args = append(args, filter.ProjectID)
	}
	if filter.OpenOnly {
		clauses = append(clauses, "completed = 0")
	}
	query += " WHERE " + strings.Join(clauses, " AND ")
	query += ` ORDER BY created_at ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.ProjectTask, 0)
	for rows.Next() {
		item, scanErr := scanProjectTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

const recurringColumns = `id, title, category, rule_type, interval_value, anchor_at, weekdays, after_complete_minutes, rrule, last_completed_at, created_at`

func (r *SQLiteRepository) CreateRecurringTask(ctx context.Context, ownerID string, in model.RecurringTask) error {
	if strings.TrimSpace(ownerID) == "" {
		return ErrOwnerRequired
	}
	if err := in.Rule.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO recurring_tasks (owner_id, `+recurringColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ownerID, in.ID, in.Title, in.Category, string(in.Rule.Type), in.Rule.Interval, mustTime(in.Rule.Anchor),
		encodeWeekdays(in.Rule.Weekdays), int(in.Rule.AfterCompleteIn/time.Minute), in.Rule.RRule,
		nullTime(in.LastCompletedAt), mustTime(in.CreatedAt),
	)
	return err
}

func (r *SQLiteRepository) UpdateRecurringTask(ctx context.Context, ownerID string, in model.RecurringTask) error {
	if err := in.Rule.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE recurring_tasks
		SET title = ?, category = ?, rule_type = ?, interval_value = ?, anchor_at = ?, weekdays = ?, after_complete_minutes = ?, rrule = ?, last_completed_at = ?
		WHERE owner_id = ? AND id = ?`,
		in.Title, in.Category, string(in.Rule.Type), in.Rule.Interval, mustTime(in.Rule.Anchor),
		encodeWeekdays(in.Rule.Weekdays), int(in.Rule.AfterCompleteIn/time.Minute), in.Rule.RRule,
		nullTime(in.LastCompletedAt), ownerID, in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteRecurringTask(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recurring_tasks WHERE owner_id = ? AND id = ?`, ownerID, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListRecurringTasks(ctx context.Context, filter RecurringTaskListFilter) ([]model.RecurringTask, error) {
	if strings.TrimSpace(filter.OwnerID) == "" {
		return nil, ErrOwnerRequired
	}
	args := []any{filter.OwnerID}
	query := `SELECT ` + recurringColumns + ` FROM recurring_tasks WHERE owner_id = ? ORDER BY created_at ASC` +
		applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.RecurringTask, 0)
	for rows.Next() {
		item, scanErr := scanRecurringTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func checkTaskScope(ownerID string, source model.Source) error {
	if strings.TrimSpace(ownerID) == "" {
		return ErrOwnerRequired
	}
	if source != model.SourceWork && source != model.SourcePersonal {
		return fmt.Errorf("%w: %q", ErrUnsupportedTable, source)
	}
	return nil
}

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.UTC().Format(sqliteTimeLayout)
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func eventTime(v time.Time) string {
	return v.UTC().Format(eventTimeLayout)
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func parseNullableTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	tm, err := time.Parse(sqliteTimeLayout, v.String)
	if err != nil {
		return nil, err
	}
	return &tm, nil
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		if limit <= 0 {
			sql += " LIMIT -1"
		}
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

func encodeWeekdays(days []time.Weekday) string {
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, strconv.Itoa(int(d)))
	}
	return strings.Join(parts, ",")
}

func decodeWeekdays(raw string) ([]time.Weekday, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]time.Weekday, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 || n > 6 {
			return nil, fmt.Errorf("storage: invalid weekday %q", p)
		}
		out = append(out, time.Weekday(n))
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(s scanner) (model.CalendarEvent, error) {
	var out model.CalendarEvent
	var start, end, created, updated string
	var sourceType string
	var sourceID sql.NullString
	if err := s.Scan(&out.ID, &out.OwnerID, &out.Title, &out.Description, &out.Category, &start, &end, &sourceType, &sourceID, &created, &updated); err != nil {
		return model.CalendarEvent{}, err
	}
	var err error
	if out.StartTime, err = time.Parse(eventTimeLayout, start); err != nil {
		return model.CalendarEvent{}, err
	}
	if out.EndTime, err = time.Parse(eventTimeLayout, end); err != nil {
		return model.CalendarEvent{}, err
	}
	if out.CreatedAt, err = parseRequiredTime(created); err != nil {
		return model.CalendarEvent{}, err
	}
	if out.UpdatedAt, err = parseRequiredTime(updated); err != nil {
		return model.CalendarEvent{}, err
	}
	out.SourceType = model.SourceType(sourceType)
	out.SourceID = sourceID.String
	return out, nil
}

func scanTask(s scanner) (model.Task, error) {
	var out model.Task
	var status string
	var archived, urgent int
	var plannedEnd sql.NullString
	var created string
	if err := s.Scan(&out.ID, &out.Title, &status, &archived, &urgent, &out.Category, &plannedEnd, &created); err != nil {
		return model.Task{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return model.Task{}, err
	}
	planned, err := parseNullableTime(plannedEnd)
	if err != nil {
		return model.Task{}, err
	}
	out.Status = model.TaskStatus(status)
	out.Archived = archived == 1
	out.Urgent = urgent == 1
	out.PlannedEnd = planned
	out.CreatedAt = createdAt
	return out, nil
}

func scanProjectTask(s scanner) (model.ProjectTask, error) {
	var out model.ProjectTask
	var completed int
	var plannedEnd sql.NullString
	var created string
	if err := s.Scan(&out.ID, &out.ProjectID, &out.Title, &completed, &plannedEnd, &created); err != nil {
		return model.ProjectTask{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return model.ProjectTask{}, err
	}
	planned, err := parseNullableTime(plannedEnd)
	if err != nil {
		return model.ProjectTask{}, err
	}
	out.Completed = completed == 1
	out.PlannedEnd = planned
	out.CreatedAt = createdAt
	return out, nil
}

func scanRecurringTask(s scanner) (model.RecurringTask, error) {
	var out model.RecurringTask
	var ruleType, anchor, weekdays, created string
	var afterMinutes int
	var lastCompleted sql.NullString
	if err := s.Scan(&out.ID, &out.Title, &out.Category, &ruleType, &out.Rule.Interval, &anchor, &weekdays, &afterMinutes, &out.Rule.RRule, &lastCompleted, &created); err != nil {
		return model.RecurringTask{}, err
	}
	anchorAt, err := parseRequiredTime(anchor)
	if err != nil {
		return model.RecurringTask{}, err
	}
	days, err := decodeWeekdays(weekdays)
	if err != nil {
		return model.RecurringTask{}, err
	}
	last, err := parseNullableTime(lastCompleted)
	if err != nil {
		return model.RecurringTask{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return model.RecurringTask{}, err
	}
	out.Rule.Type = model.RecurrenceType(ruleType)
	out.Rule.Anchor = anchorAt
	out.Rule.Weekdays = days
	out.Rule.AfterCompleteIn = time.Duration(afterMinutes) * time.Minute
	out.LastCompletedAt = last
	out.CreatedAt = createdAt
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
