// Package cmd — serve command.
// Runs the MCP server over stdio, wiring the session manager, the content
// pipeline, and the orchestrator together for the lifetime of the process.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/fetchpipe/core/extract"
	"github.com/gaurav-prasanna/fetchpipe/core/fetch"
	"github.com/gaurav-prasanna/fetchpipe/core/normalize"
	"github.com/gaurav-prasanna/fetchpipe/core/orchestrate"
	"github.com/gaurav-prasanna/fetchpipe/core/pipeline"
	"github.com/gaurav-prasanna/fetchpipe/core/session"
	"github.com/gaurav-prasanna/fetchpipe/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve fetch_url, fetch_urls and close_browser as MCP tools over stdio",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// newStack builds the shared component stack: session manager, pipeline,
// fetch unit, orchestrator.
func newStack() (*session.Manager, *orchestrate.Orchestrator) {
	manager := session.NewManager(session.Config{
		Debug:     flagDebug,
		StatePath: flagStatePath,
	}, logger)

	pipe := pipeline.New(extract.New(logger), normalize.New(), logger)
	fetcher := fetch.New(pipe, logger)
	return manager, orchestrate.New(manager, fetcher, logger)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager, orch := newStack()
	defer func() {
		// Shutdown persists session state even if the client never called
		// close_browser.
		if _, err := manager.Cleanup(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("cleanup on shutdown failed")
		}
	}()

	srv := server.New(manager, orch, version, logger)
	return srv.Run(ctx)
}
