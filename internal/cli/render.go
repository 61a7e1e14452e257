package cli

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/pairrank/pkg/errors"
	"github.com/matzehuels/pairrank/pkg/render/nodelink"
	"github.com/matzehuels/pairrank/pkg/session"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file path; "-" writes to stdout
	format   string // dot, svg or png
	detailed bool   // label nodes with index and level
	noCache  bool   // bypass the artifact cache
}

// renderCommand creates the "render" command that draws the comparison graph.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: nodelink.FormatSVG}

	cmd := &cobra.Command{
		Use:   "render <session>",
		Short: "Render the comparison graph of a session",
		Long: `Render the comparison graph of a session as DOT, SVG or PNG.

Each ranking level is drawn as one row, best on top, with arrows pointing
from winner to loser. Rendered SVG and PNG files are cached.`,
		Example: `  pairrank render 3f2a -o fruit.svg
  pairrank render 3f2a -f dot -o - | dot -Tpdf > fruit.pdf`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeSession,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.format = strings.ToLower(opts.format)
			if !slices.Contains(nodelink.Formats, opts.format) {
				return errs.New(errs.ErrCodeUnsupported, "unsupported format %q (want %s)", opts.format, strings.Join(nodelink.Formats, ", "))
			}

			ctx := cmd.Context()
			return c.withRanker(ctx, args[0], func(_ *session.Manager, r *session.Ranker) error {
				snap := r.Snapshot(ctx)
				dot := nodelink.ToDOT(snap, nodelink.Options{Detailed: opts.detailed || c.config.Render.Detailed})

				rd := &nodelink.Renderer{
					Cache:  c.newCache(opts.noCache),
					TTL:    c.config.Render.CacheTTL,
					Logger: c.Logger,
				}
				defer rd.Cache.Close()

				prog := newProgress(c.Logger)
				spinner := newSpinnerWithContext(ctx, "Rendering "+opts.format+"...")
				if opts.format != nodelink.FormatDOT {
					spinner.Start()
				}
				data, cached, err := rd.Render(ctx, dot, opts.format)
				if opts.format != nodelink.FormatDOT {
					spinner.Stop()
				}
				if err != nil {
					return err
				}

				if opts.output == "-" {
					_, err := stdout.Write(data)
					return err
				}

				out := opts.output
				if out == "" {
					out = shortID(r.ID()) + "." + opts.format
				}
				if err := os.WriteFile(out, data, 0644); err != nil {
					return fmt.Errorf("write %s: %w", out, err)
				}
				prog.done("Rendered", "file", out, "format", opts.format)
				printSuccess("Rendered %s", snap.Name)
				printFile(out)
				printStats(len(snap.Items), len(snap.Edges), cached)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <session>.<format>, - for stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot, svg, png")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show item index and level in node labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "render without reading or writing the cache")

	return cmd
}
