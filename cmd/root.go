// Package cmd implements the CLI commands for FetchPipe using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// version is reported to MCP clients during initialization.
const version = "0.1.0"

// Persistent flag variables.
var (
	flagDebug     bool
	flagVerbose   bool
	flagStatePath string
)

// logger is configured in PersistentPreRun and shared by all commands.
// It writes to stderr: stdout belongs to the MCP transport in serve mode.
var logger zerolog.Logger

var rootCmd = &cobra.Command{
	Use:   "fetchpipe",
	Short: "Fetch rendered webpages through a real browser",
	Long: `FetchPipe fetches webpages through a scripted Chromium browser, extracts
the main article content, and converts it to Markdown. It serves the
capability as MCP tools (fetch_url, fetch_urls, close_browser) or as a
one-shot CLI that writes Markdown, JSON, or PDF files.

Usage:
  fetchpipe serve
  fetchpipe fetch <url>... [flags]`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		level := zerolog.InfoLevel
		if flagVerbose {
			level = zerolog.DebugLevel
		}
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().Logger()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Run the browser windowed and keep pages open for inspection")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagStatePath, "state", "", "Session-state file (default: XDG state dir)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
