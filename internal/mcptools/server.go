package mcptools

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/rnwolfe/prio/internal/task"
)

// NewServer creates the MCP server with every prio tool registered. store
// may be nil, in which case rank_stored_tasks is not offered.
func NewServer(r *Ranker, store *task.Store, suggestCount int, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"prio",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	analyze := NewAnalyzeTool(r)
	s.AddTool(analyze.Definition(), analyze.Handle)

	suggest := NewSuggestTool(r)
	s.AddTool(suggest.Definition(), suggest.Handle)

	strategies := NewStrategiesTool(r.Engine.Strategies())
	s.AddTool(strategies.Definition(), strategies.Handle)

	if store != nil {
		stored := NewStoredTool(r, store, suggestCount)
		s.AddTool(stored.Definition(), stored.Handle)
	}
	return s
}

const instructions = `prio ranks tasks by urgency (due date), importance (1-10), effort (estimated hours) and dependency structure.

Use suggest_tasks when the user asks what to work on next, analyze_tasks for a full ranked list with explanations, and list_strategies to pick a weight profile. rank_stored_tasks works over the user's saved prio tasks without needing them passed in.

Scores run 0-100: CRITICAL >= 75, HIGH >= 60, MEDIUM >= 40, LOW >= 25, else MINIMAL.`
