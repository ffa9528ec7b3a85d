// Package tips provides short usage tips shown on the status screen.
package tips

import "time"

var all = []string{
	"`prio task add \"idea\" -d friday -i 8` to capture a task with a deadline and importance.",
	"`prio task add \"deploy\" -a 3` to mark a task as waiting on #3.",
	"`prio suggest 5` to see the top five tasks and why they made the cut.",
	"`prio analyze` opens a browser in a terminal: enter shows the breakdown, x marks done.",
	"`prio analyze -s deadline_driven` to rank as if only deadlines mattered.",
	"`prio analyze --format json` to pipe the full ranking into jq.",
	"`prio analyze -f tasks.yaml` to rank a file without touching the store.",
	"`prio strategies --pick` to choose your default weight profile.",
	"`prio config set rank.suggest_count 5` to change how many suggestions you get.",
	"`prio task export -f yaml > backup.yaml` to back up every task, done ones included.",
	"`prio task import backup.yaml` to load tasks from a file; dependencies are relinked.",
	"`prio task edit 4 --after none` to clear a task's dependencies.",
	"`prio task done 2` lifts the block on everything that was waiting on #2.",
	"`prio serve` to expose the engine over HTTP for your own tools.",
	"`prio serve token` mints a bearer token once server.auth_secret is set.",
	"`prio mcp` lets an AI assistant rank your tasks over MCP.",
	"Add your own weight profile under [[strategies]] in `prio config path`.",
	"Tasks that block others score higher. Finish them to unblock the rest.",
	"Quick wins score higher on effort. Split big tasks to get them moving.",
	"Overdue tasks always score 100 on urgency. `prio suggest` lists them first.",
}

// All returns all tips in the pool.
func All() []string {
	return all
}

// Daily returns a deterministic tip for the given day.
// The same tip is returned all day; it changes each day.
func Daily(t time.Time) string {
	return all[t.YearDay()%len(all)]
}
