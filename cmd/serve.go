package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/prio/internal/config"
	"github.com/rnwolfe/prio/internal/server"
	"github.com/rnwolfe/prio/internal/ui"
	"github.com/rnwolfe/prio/internal/version"
)

// shutdownTimeout bounds how long in-flight requests get after a signal.
const shutdownTimeout = 10 * time.Second

var (
	serveAddr    string
	serveLogJSON bool

	tokenTTL     time.Duration
	tokenSubject string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ranking engine over HTTP",
	Long: `Start an HTTP server exposing the ranking engine:

  POST /api/tasks/analyze/     rank a batch of tasks
  GET|POST /api/tasks/suggest/ the top tasks with reasons
  GET  /api/strategies         available weight profiles
  GET  /health                 liveness

The listen address comes from --addr, then server.addr. When
server.auth_secret is set, /api/ routes need a bearer token from
'prio serve token'.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for the API",
	Args:  cobra.NoArgs,
	RunE:  runServeToken,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from server.addr)")
	serveCmd.Flags().BoolVar(&serveLogJSON, "log-json", false, "Log requests as JSON")

	serveTokenCmd.Flags().DurationVar(&tokenTTL, "ttl", server.DefaultTokenTTL, "Token lifetime")
	serveTokenCmd.Flags().StringVar(&tokenSubject, "subject", "prio", "Token subject")

	serveCmd.AddCommand(serveTokenCmd)
}

// newLogger builds the server logger. Logs go to stderr so stdout stays clean.
func newLogger(json bool) *slog.Logger {
	if json {
		return slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}

	logger := newLogger(serveLogJSON)
	srv := server.New(*cfg, engine, version.Short(), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	if cfg.Server.AuthSecret != "" {
		logger.Info("bearer auth enabled for /api/")
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return <-errCh
}

func runServeToken(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Server.AuthSecret == "" {
		return errors.New("server.auth_secret is not set; run `prio config set server.auth_secret <secret>` first")
	}
	token, err := server.MintToken(cfg.Server.AuthSecret, tokenSubject, tokenTTL)
	if err != nil {
		return err
	}
	fmt.Println(token)
	if ui.IsStdoutTTY() {
		ui.Tip(fmt.Sprintf("Send it as %s. Expires %s.",
			ui.Accent.Render("Authorization: Bearer <token>"),
			now().Add(tokenTTL).Format("Jan 2, 2006")))
	}
	return nil
}
