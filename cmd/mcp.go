package cmd

import (
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/rnwolfe/prio/internal/config"
	"github.com/rnwolfe/prio/internal/mcptools"
	"github.com/rnwolfe/prio/internal/task"
	"github.com/rnwolfe/prio/internal/version"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the ranking engine as MCP tools over stdio",
	Long: `Run an MCP server on stdin/stdout for AI assistants.

Tools: analyze_tasks, suggest_tasks, list_strategies and, when the local
store opens, rank_stored_tasks.

Example client config:

  {"mcpServers": {"prio": {"command": "prio", "args": ["mcp"]}}}`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func runMCP(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}

	// The stored-task tool is optional; the batch tools work without a store.
	var ts *task.Store
	db, s, err := openTasks()
	if err != nil {
		log.Printf("prio mcp: %v; rank_stored_tasks disabled", err)
	} else {
		defer db.Close()
		ts = s
	}

	ranker := &mcptools.Ranker{Engine: engine, DefaultStrategy: cfg.Rank.Strategy, Now: now}
	srv := mcptools.NewServer(ranker, ts, cfg.Rank.SuggestCount, version.Short())
	return server.ServeStdio(srv)
}
