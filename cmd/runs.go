package cmd

import (
	"fmt"

	"github.com/KaramelBytes/dataprep-cli/internal/run"
	"github.com/KaramelBytes/dataprep-cli/internal/utils"
	"github.com/spf13/cobra"
)

var runsOutDir string

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded cleaning runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		root := effectiveConfig().OutputDir
		if cmd.Flags().Changed("out-dir") {
			root = runsOutDir
		}
		root, err := utils.ExpandHome(root)
		if err != nil {
			return err
		}
		runs, err := run.List(root)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(w, "(no runs)")
			return nil
		}
		for _, m := range runs {
			fmt.Fprintf(w, "- %s: %s (%s) rows %d -> %d, %d artifacts in %s\n",
				m.ID, m.Input, m.StartedAt.Format("2006-01-02 15:04:05"),
				m.RowsLoaded, m.RowsWritten, len(m.Artifacts), m.Dir())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.Flags().StringVarP(&runsOutDir, "out-dir", "o", "", "output directory to scan (overrides config)")
}
