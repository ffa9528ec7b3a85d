package mcptools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rnwolfe/prio/internal/task"
)

// StoredTool handles the rank_stored_tasks MCP tool.
type StoredTool struct {
	ranker *Ranker
	store  *task.Store
	// count is the default number of suggestions.
	count int
}

// NewStoredTool creates a StoredTool reading from store.
func NewStoredTool(r *Ranker, store *task.Store, defaultCount int) *StoredTool {
	return &StoredTool{ranker: r, store: store, count: defaultCount}
}

// Definition returns the MCP tool definition for rank_stored_tasks.
func (t *StoredTool) Definition() mcp.Tool {
	return mcp.NewTool("rank_stored_tasks",
		mcp.WithDescription(
			"Suggest what to work on next from the user's own task list. "+
				"Ranks the open tasks in the local prio store; done tasks count as completed dependencies.",
		),
		mcp.WithString("strategy",
			mcp.Description("Weight profile name (default: the configured strategy)"),
		),
		mcp.WithNumber("count",
			mcp.Description("Number of suggestions (default: the configured count, max: 10)"),
		),
	)
}

// Handle processes the rank_stored_tasks tool call.
func (t *StoredTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	strategy, err := t.ranker.strategy(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	tasks, completed, err := t.store.Batch()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading tasks: %v", err)), nil
	}
	if len(tasks) == 0 {
		return mcp.NewToolResultText("No open tasks. Add some with `prio task add`."), nil
	}

	count := countArg(req, t.count)
	result := t.ranker.Engine.Suggest(tasks, count, t.ranker.options(strategy, completed))
	return jsonResult(result), nil
}
