package cli

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dwestra/quill/pkg/cache"
	qerrors "github.com/dwestra/quill/pkg/errors"
	"github.com/dwestra/quill/pkg/httputil"
	"github.com/dwestra/quill/pkg/pipeline"
	"github.com/dwestra/quill/pkg/value"
)

// convertFlags holds flag values shared by single-shot and watch-mode runs.
type convertFlags struct {
	from     string
	emitStr  string
	output   string
	detailed bool
	refresh  bool
	noCache  bool
	watch    bool
}

// convertCommand creates the convert command for turning documents into JSON.
func (c *CLI) convertCommand() *cobra.Command {
	flags := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert [source]",
		Short: "Convert a document to JSON and optional diagrams",
		Long: `Convert a structured document into JSON text.

The source may be a file path, an HTTP(S) URL, or "-" for stdin. The input
format is detected from the file extension; use --from to override it for
URLs and stdin.

With only JSON emitted and no --output, the JSON text goes to stdout so it
can be piped. Use --emit to also produce DOT or SVG structure diagrams;
artifacts are then written next to the JSON output, swapping the extension.

Results are cached locally for faster subsequent runs.`,
		Example: `  # Convert a TOML file, JSON to stdout
  quill convert config.toml

  # Fetch over HTTP and write JSON plus an SVG diagram
  quill convert https://example.com/app.yaml -o app.json --emit json,svg

  # Read YAML from stdin
  cat config.yaml | quill convert --from yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := "-"
			if len(args) == 1 {
				source = args[0]
			}
			opts := pipeline.Options{
				From:     flags.from,
				Refresh:  flags.refresh,
				Emit:     parseFormats(flags.emitStr),
				Detailed: flags.detailed,
			}
			if err := pipeline.ValidateFormats(opts.Emit); err != nil {
				return err
			}
			if flags.watch {
				return c.runWatch(cmd.Context(), source, opts, flags)
			}
			return c.runConvert(cmd.Context(), source, opts, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file for JSON (default stdout)")
	cmd.Flags().StringVar(&flags.from, "from", "", "input format: toml, yaml (default: detect from extension)")
	cmd.Flags().StringVarP(&flags.emitStr, "emit", "e", "", "artifact format(s): json (default), dot, svg (comma-separated)")
	cmd.Flags().BoolVar(&flags.detailed, "detailed", false, "include scalar values in diagram nodes")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "bypass cached results")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "re-run the conversion when the source file changes")

	return cmd
}

// runConvert loads the source, runs the pipeline, and writes artifacts.
func (c *CLI) runConvert(ctx context.Context, source string, opts pipeline.Options, flags *convertFlags) error {
	runner, store, err := c.newRunner(flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	data, name, err := c.readSource(ctx, store, source, flags.refresh)
	if err != nil {
		return err
	}
	opts.Source = name
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Converting %s...", name))
	spinner.Start()

	res, err := runner.Execute(ctx, data, opts)
	if err != nil {
		spinner.StopWithError("Conversion failed")
		return fmt.Errorf("convert: %w", err)
	}
	spinner.Stop()

	return writeArtifacts(artifactWriteParams{
		res:    res,
		opts:   opts,
		source: source,
		output: flags.output,
	})
}

// readSource loads the document bytes for source.
// URLs are fetched through the shared cache and "-" reads stdin.
// The returned name is used for format detection and log output.
func (c *CLI) readSource(ctx context.Context, store cache.Cache, source string, refresh bool) ([]byte, string, error) {
	switch {
	case source == "-" || source == "":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return data, "stdin", nil

	case looksLikeURL(source):
		spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Fetching %s...", source))
		spinner.Start()
		client := httputil.NewClient(store, nil)
		data, err := client.Fetch(ctx, source, refresh)
		if err != nil {
			spinner.StopWithError("Fetch failed")
			return nil, "", fmt.Errorf("fetch %s: %w", source, err)
		}
		spinner.Stop()
		return data, urlName(source), nil

	default:
		if err := qerrors.ValidateInputPath(source); err != nil {
			return nil, "", err
		}
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, "", fmt.Errorf("read %s: %w", source, err)
		}
		return data, filepath.Base(source), nil
	}
}

// looksLikeURL reports whether the source should be fetched over HTTP.
func looksLikeURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// urlName extracts a file name from a URL for format detection.
// URLs without a usable path segment fall back to "document", which
// forces --from since no extension is available.
func urlName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "document"
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "document"
	}
	return name
}

// =============================================================================
// Artifact Output
// =============================================================================

// artifactWriteParams carries everything writeArtifacts needs.
type artifactWriteParams struct {
	res    *pipeline.Result
	opts   pipeline.Options
	source string
	output string
}

// writeArtifacts writes each emitted artifact and prints a summary.
// When only JSON is emitted and no output path is given, the JSON text goes
// to stdout with no decoration so it can be piped.
func writeArtifacts(p artifactWriteParams) error {
	var written []string
	stdoutUsed := false

	for _, format := range p.opts.Emit {
		data, ok := p.res.Artifacts[format]
		if !ok {
			continue
		}

		target := artifactPath(p.output, p.source, format, p.opts.WantsDiagram())
		out, err := openOutput(target)
		if err != nil {
			return fmt.Errorf("open %s: %w", target, err)
		}
		if target == "" {
			_, err = fmt.Fprintln(out, string(data))
			stdoutUsed = true
		} else {
			_, err = out.Write(data)
		}
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("write %s: %w", displayPath(target), err)
		}
		if target != "" {
			written = append(written, target)
		}
	}

	if stdoutUsed && len(written) == 0 {
		return nil
	}

	cached := p.res.CacheInfo.EncodeHit
	if p.opts.WantsDiagram() {
		cached = cached && p.res.CacheInfo.RenderHit
	}

	printSuccess("Converted %s", p.source)
	for _, target := range written {
		printFile(target)
	}
	printStats(fieldCount(p.res.Document), p.res.Stats.OutputBytes, cached)

	if p.opts.Emits(pipeline.FormatJSON) && len(written) > 0 {
		printNewline()
		printNextStep("Inspect", "quill inspect "+written[0])
	}
	return nil
}

// artifactPath returns the output path for an emitted artifact.
// An empty return means stdout. Diagram artifacts always get a file path
// derived from the output flag or the source name.
func artifactPath(output, source, format string, wantsDiagram bool) string {
	if format == pipeline.FormatJSON && output == "" && !wantsDiagram {
		return ""
	}
	return artifactBase(output, source) + "." + format
}

// artifactBase derives the base path for artifact files.
func artifactBase(output, source string) string {
	if output != "" {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	name := "document"
	switch {
	case source == "-" || source == "":
		// stdin has no name to derive from
	case looksLikeURL(source):
		name = urlName(source)
	default:
		name = filepath.Base(source)
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// displayPath names a write target in error messages.
func displayPath(target string) string {
	if target == "" {
		return "stdout"
	}
	return target
}

// fieldCount returns the number of top-level entries in a document.
func fieldCount(v value.Value) int {
	if fields, ok := v.Object(); ok {
		return len(fields)
	}
	if elems, ok := v.Array(); ok {
		return len(elems)
	}
	return 0
}

// =============================================================================
// Output Helpers
// =============================================================================

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
