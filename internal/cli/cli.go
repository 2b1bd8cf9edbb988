// Package cli implements the quill command-line interface.
//
// This package provides commands for converting structured documents (TOML,
// YAML) into JSON text, inspecting decoded values, rendering structure
// diagrams, and serving conversions over HTTP. The CLI is built using cobra
// and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - convert: Decode a document and emit JSON, DOT, or SVG artifacts
//   - inspect: Explore a decoded document as a tree, optionally interactive
//   - escape: Quote text as a JSON string literal
//   - serve: Run the HTTP conversion service
//   - cache: Manage the conversion cache
//   - history: List recorded conversions from the archive
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The serve
// command attaches request-scoped loggers to context.Context so handlers
// log with their request ID.
//
// # Example
//
//	import "github.com/dwestra/quill/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dwestra/quill/pkg/buildinfo"
	"github.com/dwestra/quill/pkg/cache"
	"github.com/dwestra/quill/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "quill"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "quill",
		Short:        "Quill converts structured documents to JSON",
		Long:         `Quill is a CLI tool for converting structured documents (TOML, YAML) into JSON text, with value inspection, diagram rendering, and an HTTP conversion service.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.escapeCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. The cache backing it
// is returned as well so readSource can share it for HTTP fetches.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, cache.Cache, error) {
	store, err := newCache(noCache)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize cache: %w", err)
	}
	return pipeline.NewRunner(store, nil, c.Logger), store, nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/quill/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatJSON}
	}
	return strings.Split(s, ",")
}
