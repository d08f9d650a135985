package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	pperrors "github.com/Nir-David-Duani/pp-linear/pkg/errors"
	"github.com/Nir-David-Duani/pp-linear/pkg/pipeline"
)

// solveCommand creates the solve command for analyzing a single matrix.
func (c *CLI) solveCommand() *cobra.Command {
	var flags analysisFlags
	var output string
	var strict bool

	cmd := &cobra.Command{
		Use:   "solve <matrix.csv>",
		Short: "Decide whether a matrix admits a perfect phylogeny and write its artifacts",
		Long: `Solve reads a binary matrix (first header cell "taxon", one row per taxon, cells 0 or 1)
and writes the artifacts to the output directory:

  tree_unrooted.nwk  canonical Newick of the tree
  splits.csv         clade of every character, in processing order
  witness.txt        OK, or the first character that could not be placed
  sorted_matrix.csv  the matrix with columns in processing order
  tree.json          tree structure, readable by "pplinear render"
  tree.dot/svg       Graphviz drawing of the tree
  manifest.json      run id, counts and outcome

A matrix without a perfect phylogeny is a regular outcome; use --strict to
make it fail the command.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := c.pipelineOptions(cmd, &flags)
			if err != nil {
				return err
			}
			opts.Source = args[0]
			if output == "" {
				output = c.Config.Output.Dir
			}

			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			res, err := runner.Execute(ctx, opts)
			if err != nil {
				return err
			}
			paths, err := pipeline.WriteArtifacts(output, res.Artifacts)
			if err != nil {
				return err
			}

			printSummary(res)
			for _, p := range paths {
				printFile(p)
			}
			if _, ok := res.Artifacts[pipeline.FormatJSON]; ok {
				printNewline()
				printNextStep("Render the tree", "pplinear render "+filepath.Join(output, pipeline.FileName[pipeline.FormatJSON]))
			}

			if strict && !res.Summary.Perfect {
				return pperrors.New(pperrors.ErrCodeNotPerfect, "%s", res.Summary.Witness)
			}
			return nil
		},
	}

	addAnalysisFlags(cmd, &flags, true)
	cmd.Flags().StringVarP(&output, "output", "o", "", `output directory (default from config, "out")`)
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when the matrix has no perfect phylogeny")

	return cmd
}
