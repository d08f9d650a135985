package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nir-David-Duani/pp-linear/pkg/pipeline"
)

// batchCommand creates the batch command for analyzing a directory of matrices.
func (c *CLI) batchCommand() *cobra.Command {
	var flags analysisFlags

	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Analyze every *.csv matrix in a directory",
		Long: `Batch analyzes every *.csv file in the directory, in name order, and writes the
artifacts of <name>.csv to <dir>/results/<name>/. Files that fail are reported
and skipped; the command fails at the end if any file did.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := c.pipelineOptions(cmd, &flags)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			report, err := runner.Batch(ctx, args[0], opts)
			if err != nil && report == nil {
				return err
			}

			for _, it := range report.Items {
				switch it.Outcome {
				case pipeline.OutcomePerfect:
					printSuccess("%s %s", it.Name, StyleHighlight.Render(it.Result.Summary.Newick))
				case pipeline.OutcomeConflict:
					printWarning("%s: %s", it.Name, it.Witness)
				default:
					printError("%s: %v", it.Name, it.Err)
				}
			}
			printNewline()
			printInfo("%s", StyleNumber.Render(report.String()))
			if err != nil {
				return err
			}

			if failed := report.Count(pipeline.OutcomeError); failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(report.Items))
			}
			return nil
		},
	}

	addAnalysisFlags(cmd, &flags, true)

	return cmd
}
