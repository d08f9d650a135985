package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	pperrors "github.com/Nir-David-Duani/pp-linear/pkg/errors"
	ppio "github.com/Nir-David-Duani/pp-linear/pkg/io"
	"github.com/Nir-David-Duani/pp-linear/pkg/tree"
)

// Formats accepted by the render command.
const (
	renderSVG    = "svg"
	renderDOT    = "dot"
	renderNewick = "newick"
)

var renderExt = map[string]string{
	renderSVG:    ".svg",
	renderDOT:    ".dot",
	renderNewick: ".nwk",
}

// renderCommand creates the render command for drawing a saved tree.
func (c *CLI) renderCommand() *cobra.Command {
	var output, format string

	cmd := &cobra.Command{
		Use:   "render <tree.json>",
		Short: "Render a tree.json file as SVG, DOT or Newick",
		Long: `Render reads a tree written by "pplinear solve" (tree.json) and draws it.
Newick output here is the plain canonical form; the anchored form needs the
split table and is written by solve.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ext, ok := renderExt[format]
			if !ok {
				return pperrors.New(pperrors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, dot, newick)", format)
			}
			if output == "" {
				output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ext
			}
			return runRender(cmd.Context(), args[0], output, format)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", `output file, "-" for stdout (default: input name with the format's extension)`)
	cmd.Flags().StringVarP(&format, "format", "f", renderSVG, "output format: svg, dot, newick")

	return cmd
}

func runRender(ctx context.Context, input, output, format string) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	t, err := ppio.ImportJSON(input)
	if err != nil {
		return err
	}
	logger.Debug("loaded tree", "taxa", len(t.Taxa()), "nodes", t.NodeCount(), "edges", t.EdgeCount())

	var data []byte
	switch format {
	case renderNewick:
		data = []byte(t.Newick() + "\n")
	case renderDOT:
		data = []byte(t.ToDOT())
	case renderSVG:
		spinner := newSpinnerWithContext(ctx, "Rendering "+filepath.Base(input))
		spinner.Start()
		data, err = tree.RenderSVG(ctx, t.ToDOT())
		spinner.Stop()
		if err != nil {
			return fmt.Errorf("render svg: %w", err)
		}
	}

	if output == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	prog.done("Rendered " + output)
	printFile(output)
	return nil
}
