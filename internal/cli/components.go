package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	nrfgio "github.com/matzehuels/nrfg/pkg/io"
	"github.com/matzehuels/nrfg/pkg/pipeline"
)

// componentsCommand detects the gene families of a model without running
// any later stage, so no external tool is needed.
func (c *CLI) componentsCommand() *cobra.Command {
	var (
		flags  pipelineFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "components [model.json]",
		Short: "Detect gene families and print a summary",
		Long: `Detect the components (gene families) of a model.

Major sequences are grouped by whole-sequence similarity within --tolerance
positions; fragments of other sequences become minor members. With -o the
model is written back with its components attached.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, c.Logger)
			if err != nil {
				return err
			}
			opts.Cache.Backend = pipeline.CacheNone

			m, trees, err := nrfgio.ImportModel(args[0])
			if err != nil {
				return err
			}
			runner, err := pipeline.NewRunner(cmd.Context(), m, nil, opts)
			if err != nil {
				return err
			}
			defer runner.Close()

			result, err := runner.ExecuteUntil(cmd.Context(), pipeline.StageComponents)
			if err != nil {
				return err
			}

			fmt.Println(StyleTitle.Render(fmt.Sprintf("%d components", len(m.Components))))
			fmt.Println(componentTable(m.Components))
			printKeyValue("Sequences", strconv.Itoa(len(m.Sequences)))
			printKeyValue("Edges", strconv.Itoa(len(m.Edges)))
			printKeyValue("Trees", strconv.Itoa(len(trees)))
			for _, w := range result.Warnings {
				printWarning("%s", w)
			}

			if output != "" {
				if err := nrfgio.ExportModel(m, output); err != nil {
					return err
				}
				printFile(output)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the model with components to this file")

	return cmd
}
