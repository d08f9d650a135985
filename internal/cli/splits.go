package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nir-David-Duani/pp-linear/pkg/pipeline"
)

// splitsCommand creates the splits command for printing a matrix's split table.
func (c *CLI) splitsCommand() *cobra.Command {
	var flags analysisFlags

	cmd := &cobra.Command{
		Use:   "splits <matrix.csv>",
		Short: "Print the clade of every character in processing order",
		Long: `Splits analyzes the matrix and prints the split table: the numeric id of every
character and the taxa in its clade, in the order the characters were placed.
On a conflict the table stops at the witness.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := c.pipelineOptions(cmd, &flags)
			if err != nil {
				return err
			}
			opts.Source = args[0]
			opts.Formats = []string{pipeline.FormatSplits, pipeline.FormatWitness}

			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			res, err := runner.Execute(ctx, opts)
			if err != nil {
				return err
			}

			fmt.Println(StyleTitle.Render(args[0]))
			fmt.Println(splitsTable(res.Summary.Splits))
			if res.Summary.Perfect {
				printSuccess("%s", res.Summary.Witness)
			} else {
				printWarning("%s", res.Summary.Witness)
			}
			return nil
		},
	}

	addAnalysisFlags(cmd, &flags, false)

	return cmd
}
