package rank

import (
	"sort"
	"time"
)

// Breakdown holds the four factor scores of a task, rounded to 2 decimals.
type Breakdown struct {
	Urgency    float64 `json:"urgency" yaml:"urgency"`
	Importance float64 `json:"importance" yaml:"importance"`
	Effort     float64 `json:"effort" yaml:"effort"`
	Dependency float64 `json:"dependency" yaml:"dependency"`
}

// Explanations holds the reason behind each factor score.
type Explanations struct {
	Urgency    string `json:"urgency" yaml:"urgency"`
	Importance string `json:"importance" yaml:"importance"`
	Effort     string `json:"effort" yaml:"effort"`
	Dependency string `json:"dependency" yaml:"dependency"`
}

// ScoredTask is a normalized task with its final score and the reasoning
// behind it.
type ScoredTask struct {
	ID             any          `json:"id,omitempty" yaml:"id,omitempty"`
	Title          string       `json:"title" yaml:"title"`
	DueDate        *string      `json:"due_date" yaml:"due_date"`
	Importance     int          `json:"importance" yaml:"importance"`
	EstimatedHours int          `json:"estimated_hours" yaml:"estimated_hours"`
	Dependencies   []any        `json:"dependencies" yaml:"dependencies"`
	Score          float64      `json:"score" yaml:"score"`
	PriorityLevel  Level        `json:"priority_level" yaml:"priority_level"`
	Breakdown      Breakdown    `json:"score_breakdown" yaml:"score_breakdown"`
	Explanations   Explanations `json:"explanations" yaml:"explanations"`
	StrategyUsed   string       `json:"strategy_used" yaml:"strategy_used"`
	// Rank is the 1-based position after sorting; zero outside a batch.
	Rank     int      `json:"rank,omitempty" yaml:"rank,omitempty"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	daysUntil int64
	hasDue    bool
	blocking  bool
}

// Overdue reports whether the task was past due on the reference date.
// It is only meaningful on results produced by an Engine.
func (t ScoredTask) Overdue() bool {
	return t.hasDue && t.daysUntil < 0
}

// DueIn returns the number of days from the reference date to the due date
// and whether the task has one.
func (t ScoredTask) DueIn() (int64, bool) {
	return t.daysUntil, t.hasDue
}

// Summary aggregates a batch analysis.
type Summary struct {
	Total               int            `json:"total" yaml:"total"`
	Message             string         `json:"message,omitempty" yaml:"message,omitempty"`
	ByPriority          map[Level]int  `json:"by_priority" yaml:"by_priority"`
	CriticalCount       int            `json:"critical_count" yaml:"critical_count"`
	HighCount           int            `json:"high_count" yaml:"high_count"`
	OverdueCount        int            `json:"overdue_count" yaml:"overdue_count"`
	Warnings            []CycleWarning `json:"warnings" yaml:"warnings"`
	Strategy            string         `json:"strategy" yaml:"strategy"`
	StrategyDescription string         `json:"strategy_description" yaml:"strategy_description"`
}

// BatchResult is the ranked output of Analyze.
type BatchResult struct {
	Tasks    []ScoredTask   `json:"tasks" yaml:"tasks"`
	Summary  Summary        `json:"summary" yaml:"summary"`
	Warnings []CycleWarning `json:"warnings" yaml:"warnings"`
}

// Engine scores tasks against a fixed strategy set. It holds no other state
// and is safe for concurrent use.
type Engine struct {
	strategies *StrategySet
}

// NewEngine creates an engine over strategies. nil means DefaultStrategies.
func NewEngine(strategies *StrategySet) *Engine {
	if strategies == nil {
		strategies = DefaultStrategies()
	}
	return &Engine{strategies: strategies}
}

// Strategies returns the engine's strategy set.
func (e *Engine) Strategies() *StrategySet {
	return e.strategies
}

// ScoreTask scores one raw task. batch is the full set of tasks it belongs
// to and is only read to count how many tasks depend on this one.
func (e *Engine) ScoreTask(raw RawTask, batch []RawTask, opts Options) ScoredTask {
	return e.score(raw, indexBatch(batch), e.strategies.Resolve(opts.Strategy), NewIDSet(opts.Completed...), opts.today())
}

func (e *Engine) score(raw RawTask, idx batchIndex, strategy Strategy, completed IDSet, today time.Time) ScoredTask {
	n, warnings := Normalize(raw)

	urgency := UrgencyScore(n.DueDate, today)
	importance := ImportanceScore(n.Importance)
	effort := EffortScore(n.EstimatedHours)
	dependency := idx.dependency(n.ID, n.Dependencies, completed)

	w := strategy.Weights
	final := urgency.Score*w.Urgency +
		importance.Score*w.Importance +
		effort.Score*w.Effort +
		dependency.Score*w.Dependency

	st := ScoredTask{
		ID:             n.ID,
		Title:          n.Title,
		Importance:     n.Importance,
		EstimatedHours: n.EstimatedHours,
		Dependencies:   n.Dependencies,
		Score:          round2(final),
		PriorityLevel:  LevelFor(final),
		Breakdown: Breakdown{
			Urgency:    round2(urgency.Score),
			Importance: round2(importance.Score),
			Effort:     round2(effort.Score),
			Dependency: round2(dependency.Score),
		},
		Explanations: Explanations{
			Urgency:    urgency.Explanation,
			Importance: importance.Explanation,
			Effort:     effort.Explanation,
			Dependency: dependency.Explanation,
		},
		StrategyUsed: strategy.Name,
		Warnings:     warnings,
	}
	if n.DueDate != nil {
		iso := n.DueDate.Format(time.DateOnly)
		st.DueDate = &iso
		st.hasDue = true
		st.daysUntil = dayNumber(*n.DueDate) - dayNumber(today)
	}
	if k, ok := idKey(n.ID); ok {
		st.blocking = idx.dependents[k] > 0
	}
	return st
}

// Analyze scores every task against the whole batch, sorts by score
// descending with ties kept in input order, and summarizes the result.
// An empty batch yields an empty result, not an error.
func (e *Engine) Analyze(tasks []RawTask, opts Options) BatchResult {
	strategy := e.strategies.Resolve(opts.Strategy)
	if len(tasks) == 0 {
		return BatchResult{
			Tasks: []ScoredTask{},
			Summary: Summary{
				Message:             "No tasks to analyze",
				ByPriority:          map[Level]int{},
				Warnings:            []CycleWarning{},
				Strategy:            strategy.Name,
				StrategyDescription: strategy.Description,
			},
			Warnings: []CycleWarning{},
		}
	}

	cycles := FindCycles(tasks)
	if cycles == nil {
		cycles = []CycleWarning{}
	}

	idx := indexBatch(tasks)
	completed := NewIDSet(opts.Completed...)
	today := opts.today()

	scored := make([]ScoredTask, len(tasks))
	for i, raw := range tasks {
		scored[i] = e.score(raw, idx, strategy, completed, today)
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	summary := Summary{
		Total:               len(scored),
		ByPriority:          make(map[Level]int),
		Warnings:            cycles,
		Strategy:            strategy.Name,
		StrategyDescription: strategy.Description,
	}
	for i := range scored {
		scored[i].Rank = i + 1
		summary.ByPriority[scored[i].PriorityLevel]++
		if scored[i].Overdue() {
			summary.OverdueCount++
		}
	}
	summary.CriticalCount = summary.ByPriority[LevelCritical]
	summary.HighCount = summary.ByPriority[LevelHigh]

	return BatchResult{Tasks: scored, Summary: summary, Warnings: cycles}
}
