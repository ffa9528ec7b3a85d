// Package mcptools exposes the ranking engine as MCP tools.
//
// Each tool follows the same shape:
//   - a struct holding its dependencies, built by a constructor
//   - Definition() returns the mcp.Tool schema
//   - Handle() validates arguments and returns a text result
//
// Invalid input is reported as a tool error result, never a protocol error.
package mcptools

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rnwolfe/prio/internal/rank"
	"github.com/rnwolfe/prio/internal/task"
)

// Ranker carries what every ranking tool needs.
type Ranker struct {
	Engine *rank.Engine
	// DefaultStrategy applies when a call names none.
	DefaultStrategy string
	// Now supplies the reference date; nil means time.Now.
	Now func() time.Time
}

func (r *Ranker) options(strategy string, completed []any) rank.Options {
	opts := rank.Options{Strategy: strategy, Completed: completed}
	if r.Now != nil {
		opts.Today = r.Now()
	}
	return opts
}

// strategy resolves the requested profile name. The error text lists the
// valid names.
func (r *Ranker) strategy(req mcp.CallToolRequest) (string, error) {
	var name string
	switch v := req.GetArguments()["strategy"].(type) {
	case nil:
	case string:
		name = v
	default:
		return "", fmt.Errorf("Invalid strategy: %v (valid: %s)", v, strings.Join(r.Engine.Strategies().Names(), ", "))
	}
	if name == "" {
		name = r.DefaultStrategy
	}
	if name == "" {
		name = r.Engine.Strategies().Fallback()
	}
	if !r.Engine.Strategies().Has(name) {
		return "", fmt.Errorf("Invalid strategy: %s (valid: %s)", name, strings.Join(r.Engine.Strategies().Names(), ", "))
	}
	return name, nil
}

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// countArg reads a suggestion count clamped to [1, MaxSuggestions].
func countArg(req mcp.CallToolRequest, defaultVal int) int {
	return max(1, min(intArg(req, "count", defaultVal), rank.MaxSuggestions))
}

// tasksArg reads the tasks argument as a batch.
func tasksArg(req mcp.CallToolRequest) ([]rank.RawTask, error) {
	raw, ok := req.GetArguments()["tasks"]
	if !ok || raw == nil {
		return nil, nil
	}
	if _, ok := raw.([]any); !ok {
		return nil, task.ErrTasksNotList
	}
	b, err := task.BatchFrom(raw)
	if err != nil {
		return nil, err
	}
	return b.Tasks, nil
}

func completedArg(req mcp.CallToolRequest) ([]any, error) {
	switch ids := req.GetArguments()["completed_ids"].(type) {
	case nil:
		return nil, nil
	case []any:
		return ids, nil
	}
	return nil, task.ErrCompletedNotList
}

// jsonResult renders v as indented JSON text.
func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}
