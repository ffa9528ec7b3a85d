package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rnwolfe/prio/internal/rank"
)

// StrategiesTool handles the list_strategies MCP tool.
type StrategiesTool struct {
	strategies *rank.StrategySet
}

// NewStrategiesTool creates a StrategiesTool.
func NewStrategiesTool(set *rank.StrategySet) *StrategiesTool {
	return &StrategiesTool{strategies: set}
}

// Definition returns the MCP tool definition for list_strategies.
func (t *StrategiesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_strategies",
		mcp.WithDescription("List the weight profiles available for ranking, with their factor weights."),
	)
}

// Handle processes the list_strategies tool call.
func (t *StrategiesTool) Handle(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var b strings.Builder
	b.WriteString("| strategy | urgency | importance | effort | dependency | description |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, s := range t.strategies.All() {
		w := s.Weights
		name := s.Name
		if name == t.strategies.Fallback() {
			name += " (default)"
		}
		fmt.Fprintf(&b, "| %s | %.2f | %.2f | %.2f | %.2f | %s |\n",
			name, w.Urgency, w.Importance, w.Effort, w.Dependency, s.Description)
	}
	return mcp.NewToolResultText(b.String()), nil
}
