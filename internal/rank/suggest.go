package rank

import "fmt"

// Suggestion is a top-ranked task with the reasons to pick it and advice on
// how to approach it.
type Suggestion struct {
	ScoredTask     `yaml:",inline"`
	SuggestionRank int      `json:"suggestion_rank" yaml:"suggestion_rank"`
	Why            []string `json:"why" yaml:"why"`
	Action         string   `json:"action" yaml:"action"`
}

// SuggestionResult is the output of Suggest.
type SuggestionResult struct {
	Suggestions      []Suggestion `json:"suggestions" yaml:"suggestions"`
	Message          string       `json:"message" yaml:"message"`
	Summary          Summary      `json:"summary" yaml:"summary"`
	AllTasksAnalyzed int          `json:"all_tasks_analyzed" yaml:"all_tasks_analyzed"`
}

// Suggest analyzes tasks and returns the top count of them with reasons,
// action advice and an overall focus message. count is clamped to the
// number of tasks; boundaries that take it from users should also cap it
// at MaxSuggestions.
func (e *Engine) Suggest(tasks []RawTask, count int, opts Options) SuggestionResult {
	analysis := e.Analyze(tasks, opts)
	if len(analysis.Tasks) == 0 {
		return SuggestionResult{
			Suggestions: []Suggestion{},
			Message:     "No tasks to suggest. Add some tasks first!",
			Summary:     analysis.Summary,
		}
	}

	count = max(0, min(count, len(analysis.Tasks)))
	suggestions := make([]Suggestion, 0, count)
	for i, t := range analysis.Tasks[:count] {
		suggestions = append(suggestions, Suggestion{
			ScoredTask:     t,
			SuggestionRank: i + 1,
			Why:            reasons(t),
			Action:         Advice(t),
		})
	}

	return SuggestionResult{
		Suggestions:      suggestions,
		Message:          focusMessage(analysis.Summary),
		Summary:          analysis.Summary,
		AllTasksAnalyzed: len(analysis.Tasks),
	}
}

func reasons(t ScoredTask) []string {
	var why []string
	if days, ok := t.DueIn(); ok {
		switch {
		case days < 0:
			why = append(why, t.Explanations.Urgency)
		case days == 0:
			why = append(why, "Due today!")
		case days == 1:
			why = append(why, "Due tomorrow")
		}
	}
	if t.Importance >= 8 {
		why = append(why, fmt.Sprintf("High importance (%d/10)", t.Importance))
	}
	if t.EstimatedHours <= 2 {
		why = append(why, fmt.Sprintf("Quick win - only %dh", t.EstimatedHours))
	}
	if t.blocking {
		why = append(why, t.Explanations.Dependency)
	}
	if len(why) == 0 {
		return []string{"Balanced priority based on all factors"}
	}
	return why
}

// Advice returns a one-line recommendation for a scored task.
func Advice(t ScoredTask) string {
	switch {
	case t.Overdue():
		return "URGENT: Complete this immediately; it's past the deadline."
	case t.Score >= 75:
		if t.EstimatedHours <= 2 {
			return "High priority and quick — do this first thing."
		}
		return "Block time today to make significant progress."
	case t.Score >= 60:
		return "Schedule dedicated time for this task this week."
	case t.Score >= 40:
		return "Keep on your radar — tackle after higher priorities."
	}
	return "Lower priority — address when higher items are done."
}

func focusMessage(s Summary) string {
	switch {
	case s.OverdueCount > 0:
		return fmt.Sprintf("WARNING: You have %d overdue task(s). Focus on these first!", s.OverdueCount)
	case s.CriticalCount > 0:
		return fmt.Sprintf("CRITICAL: %d critical task(s) need attention today.", s.CriticalCount)
	case s.HighCount > 0:
		return fmt.Sprintf("NOTICE: %d high-priority task(s) to tackle.", s.HighCount)
	}
	return "No urgent tasks. Great time for deep work on important projects."
}
