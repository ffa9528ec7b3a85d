package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/rnwolfe/prio/internal/rank"
)

// Encoding is a serialization format for task files.
type Encoding string

const (
	JSON Encoding = "json"
	YAML Encoding = "yaml"
)

// EncodingFor picks the encoding from a file name; anything that is not
// .yaml or .yml is read as JSON.
func EncodingFor(path string) Encoding {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSON
}

// Payload errors reported to clients verbatim.
var (
	ErrTasksNotList     = errors.New("Tasks must be a list/array.")
	ErrTaskNotObject    = errors.New("Each task must be an object.")
	ErrCompletedNotList = errors.New("completed_ids must be a list/array.")
)

// InvalidStrategyError reports a strategy field that is not a profile name.
type InvalidStrategyError struct {
	Value any
}

func (e *InvalidStrategyError) Error() string {
	return fmt.Sprintf("Invalid strategy: %v", e.Value)
}

// Batch is a set of tasks submitted for ranking, either as a bare list or
// wrapped in an object with options.
type Batch struct {
	Tasks        []rank.RawTask `json:"tasks" yaml:"tasks"`
	Strategy     string         `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	CompletedIDs []any          `json:"completed_ids,omitempty" yaml:"completed_ids,omitempty"`
}

// Decode parses a task list or a {tasks, strategy, completed_ids} object.
func Decode(data []byte, enc Encoding) (*Batch, error) {
	var v any
	var err error
	switch enc {
	case YAML:
		err = yaml.Unmarshal(data, &v)
	default:
		err = json.Unmarshal(data, &v)
	}
	if err != nil {
		return nil, err
	}
	return BatchFrom(v)
}

// BatchFrom builds a Batch from an already-decoded document.
func BatchFrom(v any) (*Batch, error) {
	b := &Batch{}
	tasks := v
	if obj, ok := v.(map[string]any); ok {
		tasks = obj["tasks"]
		switch s := obj["strategy"].(type) {
		case nil:
		case string:
			b.Strategy = s
		default:
			return nil, &InvalidStrategyError{Value: s}
		}
		switch ids := obj["completed_ids"].(type) {
		case nil:
		case []any:
			b.CompletedIDs = ids
		default:
			return nil, ErrCompletedNotList
		}
	}

	switch list := tasks.(type) {
	case nil:
		return b, nil
	case []any:
		b.Tasks = make([]rank.RawTask, 0, len(list))
		for _, item := range list {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, ErrTaskNotObject
			}
			b.Tasks = append(b.Tasks, rank.RawTask(m))
		}
		return b, nil
	}
	return nil, ErrTasksNotList
}

// LoadFile reads a task file; "-" reads standard input as JSON.
func LoadFile(path string) (*Batch, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	b, err := Decode(data, EncodingFor(path))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return b, nil
}

// Encode writes v as JSON (indented) or YAML.
func Encode(w io.Writer, v any, enc Encoding) error {
	if enc == YAML {
		e := yaml.NewEncoder(w)
		e.SetIndent(2)
		if err := e.Encode(v); err != nil {
			return err
		}
		return e.Close()
	}
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	return e.Encode(v)
}

// Export writes tasks as a file Import can read back. Done tasks carry a
// done flag; the engine ignores it.
func Export(w io.Writer, tasks []Task, enc Encoding) error {
	out := Batch{Tasks: make([]rank.RawTask, 0, len(tasks))}
	for _, t := range tasks {
		raw := t.Raw()
		if t.Done {
			raw["done"] = true
		}
		if t.Notes != "" {
			raw["notes"] = t.Notes
		}
		out.Tasks = append(out.Tasks, raw)
	}
	return Encode(w, out, enc)
}

// ImportResult reports what Import did.
type ImportResult struct {
	Added    int
	Warnings []string
}

// Import adds every task in b to the store in one transaction. Records go
// through the engine's normalizer, so out-of-range values are corrected
// rather than rejected. Dependencies are remapped from the file's ids to
// the new ones; references to ids not in the file are dropped with a
// warning.
func (s *Store) Import(b *Batch) (ImportResult, error) {
	var res ImportResult
	tx, err := s.db.Begin()
	if err != nil {
		return res, err
	}
	defer tx.Rollback()

	type pending struct {
		id   int
		deps []any
		line string
	}
	// File ids to new ids; the first task to use an id owns it.
	newIDs := make(map[string]int)
	var added []pending

	for i, raw := range b.Tasks {
		n, warnings := rank.Normalize(raw)
		line := fmt.Sprintf("task %d", i+1)
		for _, w := range warnings {
			res.Warnings = append(res.Warnings, line+": "+w)
		}
		if utf8.RuneCountInString(n.Title) > MaxTitleLen {
			return ImportResult{}, fmt.Errorf("%s: title is longer than %d characters", line, MaxTitleLen)
		}

		t := Task{
			Title:          n.Title,
			DueDate:        n.DueDate,
			EstimatedHours: n.EstimatedHours,
			Importance:     n.Importance,
			Done:           isDone(raw["done"]),
		}
		if notes, ok := raw["notes"].(string); ok {
			t.Notes = notes
		}
		id, err := insert(tx, t)
		if err != nil {
			return ImportResult{}, fmt.Errorf("%s: %w", line, err)
		}
		if k, ok := rank.IDKey(n.ID); ok {
			if _, taken := newIDs[k]; !taken {
				newIDs[k] = id
			}
		}
		added = append(added, pending{id: id, deps: n.Dependencies, line: line})
	}

	for _, p := range added {
		var deps []int
		for _, d := range p.deps {
			k, _ := rank.IDKey(d)
			target, ok := newIDs[k]
			if !ok {
				res.Warnings = append(res.Warnings, fmt.Sprintf("%s: dependency %v is not in the file - dropped", p.line, d))
				continue
			}
			if target == p.id || slices.Contains(deps, target) {
				continue
			}
			deps = append(deps, target)
		}
		if len(deps) == 0 {
			continue
		}
		enc, err := encodeDeps(deps)
		if err != nil {
			return ImportResult{}, err
		}
		if _, err := tx.Exec(`UPDATE tasks SET dependencies = ? WHERE id = ?`, enc, p.id); err != nil {
			return ImportResult{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return ImportResult{}, err
	}
	res.Added = len(added)
	return res, nil
}

func isDone(v any) bool {
	switch d := v.(type) {
	case bool:
		return d
	case string:
		return strings.EqualFold(d, "true") || d == "1"
	case float64:
		return d != 0
	case int:
		return d != 0
	}
	return false
}

// ParseDue parses a due date given on the command line. Besides the
// formats the engine accepts it understands today, tomorrow and +Nd.
func ParseDue(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch s {
	case "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	}
	if strings.HasPrefix(s, "+") && strings.HasSuffix(s, "d") {
		var n int
		if _, err := fmt.Sscanf(s, "+%dd", &n); err == nil && n >= 0 {
			return today.AddDate(0, 0, n), nil
		}
	}
	if t, ok := rank.ParseDate(s); ok {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD, MM/DD/YYYY, today, tomorrow or +Nd)", s)
}
