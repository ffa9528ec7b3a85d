package mcptools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rnwolfe/prio/internal/rank"
)

// SuggestTool handles the suggest_tasks MCP tool.
type SuggestTool struct {
	ranker *Ranker
}

// NewSuggestTool creates a SuggestTool.
func NewSuggestTool(r *Ranker) *SuggestTool {
	return &SuggestTool{ranker: r}
}

// Definition returns the MCP tool definition for suggest_tasks.
func (t *SuggestTool) Definition() mcp.Tool {
	return mcp.NewTool("suggest_tasks",
		mcp.WithDescription(
			"Answer \"what should I work on today?\": rank the tasks and return the top few "+
				"with the reasons to pick each and advice on how to approach it.",
		),
		mcp.WithArray("tasks",
			mcp.Required(),
			mcp.Description("Tasks to choose from, same shape as analyze_tasks"),
			mcp.Items(map[string]any{"type": "object"}),
		),
		mcp.WithNumber("count",
			mcp.Description("Number of suggestions (default: 3, max: 10)"),
		),
		mcp.WithString("strategy",
			mcp.Description("Weight profile name"),
		),
		mcp.WithArray("completed_ids",
			mcp.Description("Ids of tasks already done"),
		),
	)
}

// Handle processes the suggest_tasks tool call.
func (t *SuggestTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tasks, err := tasksArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(tasks) == 0 {
		return mcp.NewToolResultError("No tasks provided."), nil
	}
	strategy, err := t.ranker.strategy(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	completed, err := completedArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	count := countArg(req, rank.DefaultSuggestions)
	result := t.ranker.Engine.Suggest(tasks, count, t.ranker.options(strategy, completed))
	return jsonResult(result), nil
}
