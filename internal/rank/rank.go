// Package rank scores and orders tasks by urgency, importance, effort and
// dependency structure, and turns the ranking into suggestions.
//
// Everything in this package is a pure function of its arguments. The only
// ambient input is the reference date, which callers pass in Options.Today.
package rank

import "time"

// RawTask is an unvalidated task record as it arrives from a request body,
// a task file or the store. Recognized keys are id, title, due_date,
// estimated_hours, importance and dependencies. Any of them may be missing
// or hold a value of the wrong type; Normalize is the only way to turn a
// RawTask into something the scorers accept.
type RawTask map[string]any

// Suggestion count bounds for callers that accept a count from users.
const (
	DefaultSuggestions = 3
	MaxSuggestions     = 10
)

// Level is a discrete priority bucket derived from a final score.
type Level string

// Priority levels, highest first.
const (
	LevelCritical Level = "CRITICAL"
	LevelHigh     Level = "HIGH"
	LevelMedium   Level = "MEDIUM"
	LevelLow      Level = "LOW"
	LevelMinimal  Level = "MINIMAL"
)

// Levels returns every priority level from highest to lowest.
func Levels() []Level {
	return []Level{LevelCritical, LevelHigh, LevelMedium, LevelLow, LevelMinimal}
}

// LevelFor maps a final score to its priority level. Each tier includes its
// lower bound.
func LevelFor(score float64) Level {
	switch {
	case score >= 75:
		return LevelCritical
	case score >= 60:
		return LevelHigh
	case score >= 40:
		return LevelMedium
	case score >= 25:
		return LevelLow
	default:
		return LevelMinimal
	}
}

// Options carries the per-call inputs shared by ScoreTask, Analyze and Suggest.
type Options struct {
	// Strategy names the weight profile. Unknown names fall back to the
	// strategy set's default profile.
	Strategy string
	// Completed lists ids of tasks that are already done. Dependencies on
	// these ids count as met.
	Completed []any
	// Today is the reference date for urgency. Only its calendar date in its
	// own location is used. Zero value means the current local date.
	Today time.Time
}

func (o Options) today() time.Time {
	if o.Today.IsZero() {
		return time.Now()
	}
	return o.Today
}
