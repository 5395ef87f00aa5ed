package cmd

import (
	"fmt"
	"os"

	"github.com/KaramelBytes/dataprep-cli/internal/analysis"
	"github.com/KaramelBytes/dataprep-cli/internal/loader"
	"github.com/spf13/cobra"
)

var (
	insOutputPath string
	insDelimiter  string
	insSampleRows int
	insMaxRows    int
	insGroupBy    []string
	insCorr       bool
	insSheetName  string
	insSheetIndex int
	insOutliers   bool
	insOutlierThr float64
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Profile a CSV/XLSX file without cleaning it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := effectiveConfig()
		path := args[0]
		opt := analysis.DefaultOptions()
		opt.SampleRows = c.SampleRows
		if cmd.Flags().Changed("sample-rows") {
			opt.SampleRows = insSampleRows
		}
		if insMaxRows > 0 {
			opt.MaxRows = insMaxRows
		}
		opt.GroupBy = insGroupBy
		opt.Correlations = insCorr
		opt.Outliers = insOutliers
		opt.OutlierThreshold = c.OutlierThreshold
		if cmd.Flags().Changed("outlier-threshold") && insOutlierThr > 0 {
			opt.OutlierThreshold = insOutlierThr
		}
		opt.HistogramBins = c.HistogramBins

		lopt, err := loaderOptions(cmd.Flags(), c, insDelimiter, insSheetName, insSheetIndex)
		if err != nil {
			return err
		}
		t, err := loader.LoadFile(path, lopt)
		if err != nil {
			return err
		}
		md := analysis.Profile(t, opt).Markdown()

		if insOutputPath != "" {
			if err := os.WriteFile(insOutputPath, []byte(md), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote profile to %s\n", insOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVarP(&insOutputPath, "output", "o", "", "optional path to write the profile (Markdown)")
	inspectCmd.Flags().StringVar(&insDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | '|'")
	inspectCmd.Flags().IntVar(&insSampleRows, "sample-rows", 5, "number of head rows to include")
	inspectCmd.Flags().IntVar(&insMaxRows, "max-rows", 0, "maximum rows to profile (0 = unlimited)")
	inspectCmd.Flags().StringSliceVar(&insGroupBy, "group-by", nil, "comma-separated column names to group by (repeatable)")
	inspectCmd.Flags().BoolVar(&insCorr, "correlations", true, "compute Pearson correlations among numeric columns")
	inspectCmd.Flags().BoolVar(&insOutliers, "outliers", true, "compute robust outlier counts (MAD)")
	inspectCmd.Flags().Float64Var(&insOutlierThr, "outlier-threshold", 3.5, "robust |z| threshold for outliers (MAD-based)")
	inspectCmd.Flags().StringVar(&insSheetName, "sheet-name", "", "XLSX: sheet name to inspect")
	inspectCmd.Flags().IntVar(&insSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}
