package mcptools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// AnalyzeTool handles the analyze_tasks MCP tool.
type AnalyzeTool struct {
	ranker *Ranker
}

// NewAnalyzeTool creates an AnalyzeTool.
func NewAnalyzeTool(r *Ranker) *AnalyzeTool {
	return &AnalyzeTool{ranker: r}
}

// Definition returns the MCP tool definition for analyze_tasks.
func (t *AnalyzeTool) Definition() mcp.Tool {
	return mcp.NewTool("analyze_tasks",
		mcp.WithDescription(
			"Score and rank a list of tasks by urgency, importance, effort and dependencies. "+
				"Returns every task with its score, priority level, factor breakdown and explanations, "+
				"plus a summary and any dependency cycles.",
		),
		mcp.WithArray("tasks",
			mcp.Required(),
			mcp.Description("Tasks to rank. Each has optional id, title, due_date (YYYY-MM-DD), estimated_hours, importance (1-10) and dependencies (list of ids)."),
			mcp.Items(map[string]any{"type": "object"}),
		),
		mcp.WithString("strategy",
			mcp.Description("Weight profile: balanced, smart_balance, deadline_driven, high_impact, fastest_wins or a configured custom profile"),
		),
		mcp.WithArray("completed_ids",
			mcp.Description("Ids of tasks already done; dependencies on them count as met"),
		),
	)
}

// Handle processes the analyze_tasks tool call.
func (t *AnalyzeTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tasks, err := tasksArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(tasks) == 0 {
		return mcp.NewToolResultError("No tasks provided. Please send a list of tasks."), nil
	}
	strategy, err := t.ranker.strategy(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	completed, err := completedArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := t.ranker.Engine.Analyze(tasks, t.ranker.options(strategy, completed))
	return jsonResult(result), nil
}
