package rank

import (
	"math"
	"strings"
	"time"
)

// UntitledTask replaces a missing or blank title.
const UntitledTask = "Untitled Task"

const (
	defaultImportance = 5
	defaultHours      = 2
)

// NormalizedTask is a task record after validation and defaulting.
// Importance is always in [1,10], EstimatedHours is at least 1 and
// Dependencies is never nil.
type NormalizedTask struct {
	ID             any
	Title          string
	DueDate        *time.Time
	Importance     int
	EstimatedHours int
	Dependencies   []any
}

// Normalize validates raw and fills in defaults. It never fails: every
// problem is corrected and described in the returned warnings.
func Normalize(raw RawTask) (NormalizedTask, []string) {
	var warnings []string
	n := NormalizedTask{
		ID:             raw["id"],
		Importance:     defaultImportance,
		EstimatedHours: defaultHours,
		Dependencies:   []any{},
	}

	title, _ := raw["title"].(string)
	n.Title = strings.TrimSpace(title)
	if n.Title == "" {
		n.Title = UntitledTask
		warnings = append(warnings, `Missing title - defaulted to "Untitled Task"`)
	}

	rawDue := raw["due_date"]
	if due, ok := ParseDate(rawDue); ok {
		n.DueDate = &due
	} else if truthy(rawDue) {
		warnings = append(warnings, "Invalid date format: "+display(rawDue))
	}

	if v, present := raw["importance"]; present {
		i, ok := toInt(v)
		switch {
		case !ok:
			warnings = append(warnings, "Invalid importance value - defaulted to 5")
		case i < 1:
			n.Importance = 1
			warnings = append(warnings, "Importance below 1 - clamped to 1")
		case i > 10:
			n.Importance = 10
			warnings = append(warnings, "Importance above 10 - clamped to 10")
		default:
			n.Importance = i
		}
	}

	if v, present := raw["estimated_hours"]; present {
		h, ok := toInt(v)
		switch {
		case !ok:
			warnings = append(warnings, "Invalid estimated_hours - defaulted to 2")
		case h <= 0:
			if h < 0 {
				n.EstimatedHours = -h
				if n.EstimatedHours < 0 { // -MinInt
					n.EstimatedHours = math.MaxInt
				}
			}
			warnings = append(warnings, "Invalid hours - converted to positive")
		default:
			n.EstimatedHours = h
		}
	}

	if v, present := raw["dependencies"]; present {
		if deps, ok := asList(v); ok {
			n.Dependencies = deps
		} else {
			warnings = append(warnings, "Invalid dependencies format - defaulted to empty list")
		}
	}

	return n, warnings
}
