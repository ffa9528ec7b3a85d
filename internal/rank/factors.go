package rank

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Factor is one scored dimension of a task and the reason for its score.
type Factor struct {
	Score       float64
	Explanation string
}

// UrgencyScore scores a due date against today. No due date is treated as
// medium urgency. Overdue tasks always score 100: the escalation term is
// capped by the same ceiling it starts at.
func UrgencyScore(due *time.Time, today time.Time) Factor {
	if due == nil {
		return Factor{30, "No deadline set - medium urgency assumed"}
	}

	days := dayNumber(*due) - dayNumber(today)
	switch {
	case days < 0:
		overdue := -days
		return Factor{
			math.Min(100, 100+float64(overdue)*0.5),
			fmt.Sprintf("WARNING: OVERDUE by %d day(s)!", overdue),
		}
	case days == 0:
		return Factor{95, "Due TODAY - urgent!"}
	case days == 1:
		return Factor{85, "Due tomorrow - very urgent"}
	case days <= 3:
		return Factor{80 - float64(days-1)*5, fmt.Sprintf("Due in %d days - urgent", days)}
	case days <= 7:
		return Factor{65 - float64(days-3)*6, fmt.Sprintf("Due in %d days - approaching", days)}
	case days <= 14:
		return Factor{35 - float64(days-7)*2, fmt.Sprintf("Due in %d days", days)}
	case days <= 30:
		return Factor{math.Max(10, 20-float64(days-14)*0.5), fmt.Sprintf("Due in %d days - not urgent", days)}
	}
	return Factor{5, fmt.Sprintf("Due in %d days - low urgency", days)}
}

// ImportanceScore converts a 1-10 rating to a score, with a squared bonus
// from 8 upward so the top ratings separate from the rest.
func ImportanceScore(importance int) Factor {
	score := float64(importance) * 10
	if importance >= 8 {
		bonus := float64((importance-7)*(importance-7)) * 3
		score = math.Min(100, score+bonus)
	}

	var desc string
	switch {
	case importance >= 9:
		desc = "Critical priority"
	case importance >= 7:
		desc = "High priority"
	case importance >= 5:
		desc = "Medium priority"
	case importance >= 3:
		desc = "Low priority"
	default:
		desc = "Minimal priority"
	}
	return Factor{score, desc}
}

// EffortScore favors small tasks. The score never increases with hours.
func EffortScore(hours int) Factor {
	h := float64(hours)
	switch {
	case hours < 1:
		return Factor{100, "Super quick task!"}
	case hours <= 2:
		return Factor{85 - (h-1)*10, fmt.Sprintf("Quick win (%dh)", hours)}
	case hours <= 4:
		return Factor{75 - (h-2)*10, fmt.Sprintf("Moderate effort (%dh)", hours)}
	case hours <= 8:
		return Factor{55 - (h-4)*5, fmt.Sprintf("Significant effort (%dh)", hours)}
	}
	return Factor{math.Max(10, 28-(h-8)*2), fmt.Sprintf("Major effort (%dh)", hours)}
}

// DependencyScore scores a task's place in the dependency graph of batch:
// unmet prerequisites cost points, and every batch task that lists id as a
// dependency adds points. The result is clamped to [0,100].
func DependencyScore(id any, deps []any, batch []RawTask, completed IDSet) Factor {
	return indexBatch(batch).dependency(id, deps, completed)
}

// batchIndex holds what dependency scoring needs from the whole batch.
type batchIndex struct {
	// dependents counts, per id key, the batch tasks listing that id.
	dependents map[string]int
}

func indexBatch(batch []RawTask) batchIndex {
	idx := batchIndex{dependents: make(map[string]int)}
	for _, raw := range batch {
		deps, _ := asList(raw["dependencies"])
		seen := make(map[string]bool, len(deps))
		for _, d := range deps {
			k, ok := idKey(d)
			if !ok || seen[k] {
				continue
			}
			seen[k] = true
			idx.dependents[k]++
		}
	}
	return idx
}

func (idx batchIndex) dependency(id any, deps []any, completed IDSet) Factor {
	score := 70.0
	var parts []string

	if len(deps) > 0 {
		unmet := 0
		for _, d := range deps {
			if !completed.Has(d) {
				unmet++
			}
		}
		if unmet > 0 {
			score -= math.Min(50, float64(unmet)*20)
			parts = append(parts, fmt.Sprintf("Blocked by %d task(s)", unmet))
		} else {
			score += 10
			parts = append(parts, "All dependencies complete")
		}
	}

	if k, ok := idKey(id); ok {
		if blocked := idx.dependents[k]; blocked > 0 {
			score += math.Min(30, float64(blocked)*15)
			parts = append(parts, fmt.Sprintf("Blocks %d other task(s)", blocked))
		}
	}

	score = math.Max(0, math.Min(100, score))
	if len(parts) == 0 {
		return Factor{score, "No dependencies"}
	}
	return Factor{score, strings.Join(parts, "; ")}
}
