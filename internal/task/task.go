// Package task persists the user's task list and turns it into engine input.
package task

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rnwolfe/prio/internal/rank"
)

// Field limits enforced before any write.
const (
	MaxTitleLen       = 200
	MinImportance     = 1
	MaxImportance     = 10
	DefaultImportance = 5
	DefaultHours      = 2
)

// ErrNotFound is wrapped by every lookup of a missing task.
var ErrNotFound = errors.New("not found")

// Task is a stored task.
type Task struct {
	ID             int
	Title          string
	Notes          string
	DueDate        *time.Time
	EstimatedHours int
	Importance     int
	Dependencies   []int
	Done           bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
	CompletedAt    *time.Time
}

// Validate checks the field limits. It does not check that dependencies
// exist; the store does that.
func (t Task) Validate() error {
	title := strings.TrimSpace(t.Title)
	if title == "" {
		return errors.New("title is required")
	}
	if n := utf8.RuneCountInString(title); n > MaxTitleLen {
		return fmt.Errorf("title is %d characters, max is %d", n, MaxTitleLen)
	}
	if t.EstimatedHours < 1 {
		return fmt.Errorf("estimated hours must be at least 1, got %d", t.EstimatedHours)
	}
	if t.Importance < MinImportance || t.Importance > MaxImportance {
		return fmt.Errorf("importance must be %d-%d, got %d", MinImportance, MaxImportance, t.Importance)
	}
	seen := make(map[int]bool, len(t.Dependencies))
	for _, d := range t.Dependencies {
		if t.ID != 0 && d == t.ID {
			return fmt.Errorf("task #%d cannot depend on itself", t.ID)
		}
		if seen[d] {
			return fmt.Errorf("dependency #%d is listed twice", d)
		}
		seen[d] = true
	}
	return nil
}

// Raw returns the task in the shape the ranking engine consumes.
func (t Task) Raw() rank.RawTask {
	deps := make([]any, len(t.Dependencies))
	for i, d := range t.Dependencies {
		deps[i] = d
	}
	var due any
	if t.DueDate != nil {
		due = t.DueDate.Format(time.DateOnly)
	}
	return rank.RawTask{
		"id":              t.ID,
		"title":           t.Title,
		"due_date":        due,
		"estimated_hours": t.EstimatedHours,
		"importance":      t.Importance,
		"dependencies":    deps,
	}
}

// Store handles task persistence.
type Store struct {
	db *sql.DB
}

// NewStore creates a new task store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ListOptions configures which tasks List returns.
type ListOptions struct {
	// ShowDone includes completed tasks.
	ShowDone bool
	// OnlyDone returns completed tasks only. It wins over ShowDone.
	OnlyDone bool
}

// Patch holds the fields Edit changes. nil fields are left alone.
type Patch struct {
	Title          *string
	Notes          *string
	DueDate        *time.Time
	ClearDue       bool
	EstimatedHours *int
	Importance     *int
	Dependencies   *[]int
}

// querier is the subset of *sql.DB and *sql.Tx the store reads through.
type querier interface {
	QueryRow(query string, args ...any) *sql.Row
	Query(query string, args ...any) (*sql.Rows, error)
	Exec(query string, args ...any) (sql.Result, error)
}

const selectColumns = `SELECT id, title, notes, due_date, estimated_hours, importance, dependencies, done, created_at, updated_at, completed_at FROM tasks`

// Add validates t and inserts it, returning the new ID. t.ID is ignored.
func (s *Store) Add(t Task) (int, error) {
	t.ID = 0
	t.Title = strings.TrimSpace(t.Title)
	if err := t.Validate(); err != nil {
		return 0, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if err := checkDependencies(tx, t.Dependencies); err != nil {
		return 0, err
	}
	id, err := insert(tx, t)
	if err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

func insert(q querier, t Task) (int, error) {
	deps, err := encodeDeps(t.Dependencies)
	if err != nil {
		return 0, err
	}
	res, err := q.Exec(
		`INSERT INTO tasks (title, notes, due_date, estimated_hours, importance, dependencies, done, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, CASE WHEN ? = 1 THEN CURRENT_TIMESTAMP END)`,
		t.Title, t.Notes, formatDue(t.DueDate), t.EstimatedHours, t.Importance, deps, boolInt(t.Done), boolInt(t.Done),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting task: %w", err)
	}
	id, _ := res.LastInsertId()
	return int(id), nil
}

// Get returns a single task by ID.
func (s *Store) Get(id int) (*Task, error) {
	return get(s.db, id)
}

func get(q querier, id int) (*Task, error) {
	t, err := scanTask(q.QueryRow(selectColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task #%d %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// List returns tasks ordered by ID.
func (s *Store) List(opts ListOptions) ([]Task, error) {
	query := selectColumns
	switch {
	case opts.OnlyDone:
		query += " WHERE done = 1"
	case !opts.ShowDone:
		query += " WHERE done = 0"
	}
	query += " ORDER BY id ASC"

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// Complete marks a task as done.
func (s *Store) Complete(id int) error {
	res, err := s.db.Exec(
		`UPDATE tasks SET done = 1, completed_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND done = 0`,
		id,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := s.Get(id); err != nil {
			return err
		}
		return fmt.Errorf("task #%d is already done", id)
	}
	return nil
}

// Uncomplete marks a task as not done.
func (s *Store) Uncomplete(id int) error {
	res, err := s.db.Exec(
		`UPDATE tasks SET done = 0, completed_at = NULL, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		id,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("task #%d %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes a task and strips it from every other task's
// dependencies. It returns how many tasks lost the dependency.
func (s *Store) Delete(id int) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, fmt.Errorf("task #%d %w", id, ErrNotFound)
	}

	rows, err := tx.Query(`SELECT id, dependencies FROM tasks WHERE dependencies != '[]'`)
	if err != nil {
		return 0, err
	}
	updates := make(map[int][]int)
	for rows.Next() {
		var otherID int
		var raw string
		if err := rows.Scan(&otherID, &raw); err != nil {
			rows.Close()
			return 0, err
		}
		deps, err := decodeDeps(raw)
		if err != nil {
			rows.Close()
			return 0, fmt.Errorf("task #%d: %w", otherID, err)
		}
		if kept := without(deps, id); len(kept) != len(deps) {
			updates[otherID] = kept
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for otherID, deps := range updates {
		enc, err := encodeDeps(deps)
		if err != nil {
			return 0, err
		}
		if _, err := tx.Exec(
			`UPDATE tasks SET dependencies = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, enc, otherID,
		); err != nil {
			return 0, err
		}
	}
	return len(updates), tx.Commit()
}

// Edit applies p to a task after validating the result.
func (s *Store) Edit(id int, p Patch) (*Task, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	t, err := get(tx, id)
	if err != nil {
		return nil, err
	}
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	if p.ClearDue {
		t.DueDate = nil
	} else if p.DueDate != nil {
		t.DueDate = p.DueDate
	}
	if p.EstimatedHours != nil {
		t.EstimatedHours = *p.EstimatedHours
	}
	if p.Importance != nil {
		t.Importance = *p.Importance
	}
	if p.Dependencies != nil {
		t.Dependencies = *p.Dependencies
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if p.Dependencies != nil {
		if err := checkDependencies(tx, t.Dependencies); err != nil {
			return nil, err
		}
	}

	deps, err := encodeDeps(t.Dependencies)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(
		`UPDATE tasks SET title = ?, notes = ?, due_date = ?, estimated_hours = ?, importance = ?, dependencies = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		t.Title, t.Notes, formatDue(t.DueDate), t.EstimatedHours, t.Importance, deps, id,
	); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return t, nil
}

// Count returns the number of open and completed tasks.
func (s *Store) Count() (open int, done int, err error) {
	err = s.db.QueryRow(
		`SELECT COALESCE(SUM(done = 0), 0), COALESCE(SUM(done = 1), 0) FROM tasks`,
	).Scan(&open, &done)
	return
}

// CompletedIDs returns the IDs of done tasks, for use as Options.Completed.
func (s *Store) CompletedIDs() ([]any, error) {
	rows, err := s.db.Query(`SELECT id FROM tasks WHERE done = 1 ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []any{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Batch returns the open tasks as engine input along with the IDs of done
// tasks, which count as met dependencies.
func (s *Store) Batch() ([]rank.RawTask, []any, error) {
	open, err := s.List(ListOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("listing tasks: %w", err)
	}
	completed, err := s.CompletedIDs()
	if err != nil {
		return nil, nil, fmt.Errorf("listing completed tasks: %w", err)
	}
	raw := make([]rank.RawTask, len(open))
	for i, t := range open {
		raw[i] = t.Raw()
	}
	return raw, completed, nil
}

func checkDependencies(q querier, deps []int) error {
	for _, d := range deps {
		var exists int
		if err := q.QueryRow(`SELECT COUNT(*) FROM tasks WHERE id = ?`, d).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return fmt.Errorf("dependency: task #%d %w", d, ErrNotFound)
		}
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*Task, error) {
	var t Task
	var doneInt int
	var dueStr sql.NullString
	var depsStr string
	var completedAt sql.NullTime
	var createdStr, updatedStr string

	if err := row.Scan(&t.ID, &t.Title, &t.Notes, &dueStr, &t.EstimatedHours, &t.Importance,
		&depsStr, &doneInt, &createdStr, &updatedStr, &completedAt); err != nil {
		return nil, err
	}

	t.Done = doneInt == 1
	if dueStr.Valid && dueStr.String != "" {
		if parsed, err := time.Parse(time.DateOnly, dueStr.String); err == nil {
			t.DueDate = &parsed
		}
	}
	deps, err := decodeDeps(depsStr)
	if err != nil {
		return nil, fmt.Errorf("task #%d: %w", t.ID, err)
	}
	t.Dependencies = deps
	if completedAt.Valid {
		t.CompletedAt = &completedAt.Time
	}
	t.CreatedAt = parseTimestamp(createdStr)
	t.UpdatedAt = parseTimestamp(updatedStr)
	return &t, nil
}

// parseTimestamp reads a CURRENT_TIMESTAMP value, which the driver may hand
// back as SQLite text or as an RFC 3339 rendering of a time.Time.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.DateTime, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func encodeDeps(deps []int) (string, error) {
	if len(deps) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(deps)
	if err != nil {
		return "", fmt.Errorf("encoding dependencies: %w", err)
	}
	return string(b), nil
}

func decodeDeps(s string) ([]int, error) {
	deps := []int{}
	if s == "" {
		return deps, nil
	}
	if err := json.Unmarshal([]byte(s), &deps); err != nil {
		return nil, fmt.Errorf("decoding dependencies %q: %w", s, err)
	}
	return deps, nil
}

func formatDue(due *time.Time) *string {
	if due == nil {
		return nil
	}
	d := due.Format(time.DateOnly)
	return &d
}

func without(ids []int, id int) []int {
	out := make([]int, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
